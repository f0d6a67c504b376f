// Package baseline fetches a seed page once, normalizes its body, and
// computes an LSH digest against which the Scanner Pool later compares
// each permutation's homepage.
package baseline

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/glaslos/ssdeep"
	"github.com/glaslos/tlsh"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Digest selects which LSH algorithm the fetcher (and, later, the
// scanner's content-compare stage) uses.
type Digest string

const (
	DigestSSDeep Digest = "ssdeep"
	DigestTLSH   Digest = "tlsh"
)

const defaultTimeout = 5 * time.Second

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	attrAssignment = regexp.MustCompile(`(?i)(action|src|href)="[^"]*"`)
	cssURLFunc     = regexp.MustCompile(`(?i)url\([^)]*\)`)
)

// Result is the fetched, normalized baseline: the body's ssdeep/TLSH
// digest plus the effective post-redirect, query-stripped URL so the
// Scanner can skip exact-origin echoes.
type Result struct {
	Digest       Digest
	SSDeepHash   string
	TLSHHash     *tlsh.Tlsh
	EffectiveURL string
	Failed       bool
}

// Fetcher performs the single baseline GET and normalization.
type Fetcher struct {
	Client  *http.Client
	Digest  Digest
	Timeout time.Duration
}

// NewFetcher builds a Fetcher with the default 5s timeout.
func NewFetcher(digest Digest) *Fetcher {
	return &Fetcher{
		Client:  &http.Client{},
		Digest:  digest,
		Timeout: defaultTimeout,
	}
}

// Fetch performs one GET against rawURL, follows a single meta-refresh
// hop when the body looks like one, normalizes the body, and computes
// the configured LSH digest. Any network/HTTP error is reported via
// Result.Failed rather than returned, per §4.3: a baseline failure
// disables LSH comparison for the whole run but never aborts it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Result {
	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, effective, err := f.get(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("baseline fetch failed")
		return Result{Digest: f.Digest, Failed: true}
	}

	if refresh, ok := extractMetaRefresh(body); ok {
		body2, effective2, err := f.get(ctx, refresh)
		if err == nil {
			body, effective = body2, effective2
		}
	}

	normalized := Normalize(body)
	return f.digestResult(normalized, effective)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, 2<<20)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return "", "", err
	}

	effective := stripQuery(resp.Request.URL.String())
	return string(raw), effective, nil
}

func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// extractMetaRefresh applies the §4.3 heuristic: a tiny HTML body
// (64 < len < 1024) containing a meta-refresh tag is treated as a
// redirector and followed once. Parsed with golang.org/x/net/html
// rather than a hand-rolled regex, since attribute order and quoting
// vary too much for a robust regex match.
func extractMetaRefresh(body string) (string, bool) {
	if len(body) <= 64 || len(body) >= 1024 {
		return "", false
	}
	tok := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			return "", false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tok.TagName()
		if string(name) != "meta" || !hasAttr {
			continue
		}
		isRefresh := false
		var content string
		for {
			key, val, more := tok.TagAttr()
			switch strings.ToLower(string(key)) {
			case "http-equiv":
				isRefresh = strings.EqualFold(string(val), "refresh")
			case "content":
				content = string(val)
			}
			if !more {
				break
			}
		}
		if isRefresh {
			if u, ok := parseRefreshContent(content); ok {
				return u, true
			}
		}
	}
}

// parseRefreshContent extracts the URL out of a refresh content value
// of the form "0; url=http://example.com".
func parseRefreshContent(content string) (string, bool) {
	parts := strings.SplitN(content, ";", 2)
	if len(parts) != 2 {
		return "", false
	}
	rest := strings.TrimSpace(parts[1])
	idx := strings.Index(strings.ToLower(rest), "url=")
	if idx < 0 {
		return "", false
	}
	u := strings.TrimSpace(rest[idx+len("url="):])
	u = strings.Trim(u, `"'`)
	if u == "" {
		return "", false
	}
	return u, true
}

// Normalize collapses whitespace to single spaces, blanks out
// action/src/href attribute values, and blanks url(...) references, so
// two pages differing only in session tokens or asset URLs hash
// identically.
func Normalize(body string) string {
	body = attrAssignment.ReplaceAllString(body, `$1=""`)
	body = cssURLFunc.ReplaceAllString(body, "url()")
	body = whitespaceRun.ReplaceAllString(body, " ")
	return strings.TrimSpace(body)
}

func (f *Fetcher) digestResult(normalized, effectiveURL string) Result {
	r := Result{Digest: f.Digest, EffectiveURL: effectiveURL}
	switch f.Digest {
	case DigestTLSH:
		h, err := tlsh.HashBytes([]byte(normalized))
		if err != nil {
			r.Failed = true
			return r
		}
		r.TLSHHash = h
	default:
		h, err := ssdeep.FuzzyBytes([]byte(normalized))
		if err != nil {
			r.Failed = true
			return r
		}
		r.SSDeepHash = h
	}
	return r
}

// Similarity returns a 0-100 similarity score comparing this baseline
// result against another digest of the same kind, per §6: ssdeep uses
// the native compare; TLSH uses 100 - min(diff, 300)/3.
func (r Result) Similarity(other Result) (int, bool) {
	if r.Failed || other.Failed || r.Digest != other.Digest {
		return 0, false
	}
	switch r.Digest {
	case DigestTLSH:
		if r.TLSHHash == nil || other.TLSHHash == nil {
			return 0, false
		}
		diff := r.TLSHHash.Diff(other.TLSHHash)
		if diff > 300 {
			diff = 300
		}
		return 100 - diff/3, true
	default:
		if r.SSDeepHash == "" || other.SSDeepHash == "" {
			return 0, false
		}
		score, err := ssdeep.Compare(r.SSDeepHash, other.SSDeepHash)
		if err != nil {
			return 0, false
		}
		return score, true
	}
}
