package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"github.com/chromedp/chromedp"
)

// pageLoadTimeout matches §5's WebDriver page-load budget.
const pageLoadTimeout = 12 * time.Second

// ChromeRenderer implements Renderer by driving a headless Chrome
// instance via chromedp. It exists to give chromedp a concrete home
// for the perceptual-hash stage, not to be a general browser harness.
type ChromeRenderer struct {
	Width, Height int64
}

// NewChromeRenderer returns a ChromeRenderer with a 1280x720 viewport.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{Width: 1280, Height: 720}
}

// Render navigates to url, waits for the page to settle, and returns a
// full-viewport screenshot decoded as an image.Image.
func (c *ChromeRenderer) Render(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, pageLoadTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(int(c.Width), int(c.Height)),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("render: decode screenshot: %w", err)
	}
	return img, nil
}
