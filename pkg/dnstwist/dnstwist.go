// Package dnstwist wires the URL parser, Permutation Engine, Baseline
// Fetcher, Scanner Pool, and Formatter into the single pipeline
// described by spec.md §2: Parser -> Engine -> (Baseline Fetcher in
// parallel) -> Scanner Pool -> Formatter.
package dnstwist

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sparrowsec/twistgo/internal/baseline"
	"github.com/sparrowsec/twistgo/internal/formatter"
	"github.com/sparrowsec/twistgo/internal/fuzzer"
	"github.com/sparrowsec/twistgo/internal/render"
	"github.com/sparrowsec/twistgo/internal/scanner"
	"github.com/sparrowsec/twistgo/internal/urlparse"
	"github.com/sparrowsec/twistgo/internal/whois"
)

// Engine runs one scan for a fixed set of Options.
type Engine struct {
	options Options
	mu      sync.Mutex
}

// New validates options and constructs an Engine.
func New(options Options) (*Engine, error) {
	if options.Domain == "" {
		return nil, fmt.Errorf("dnstwist: domain is required")
	}
	if options.Registered && options.Unregistered {
		return nil, fmt.Errorf("dnstwist: registered and unregistered are mutually exclusive")
	}
	if options.Threads < 0 {
		return nil, fmt.Errorf("dnstwist: threads must be >= 0")
	}
	return &Engine{options: options}, nil
}

// GetResults runs the full pipeline once and returns the final,
// annotated, filtered, sorted permutation set.
func (e *Engine) GetResults(ctx context.Context) (Results, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	opts := e.options

	seed, err := urlparse.Parse(opts.Domain)
	if err != nil {
		return nil, fmt.Errorf("dnstwist: %w", err)
	}

	dictionary, err := readWordList(opts.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("dnstwist: dictionary: %w", err)
	}
	tldDictionary, err := readWordList(opts.TLD)
	if err != nil {
		return nil, fmt.Errorf("dnstwist: tld: %w", err)
	}

	triple := seed.DomainTriple(tldDictionary)
	engine := fuzzer.NewEngine(triple, dictionary, tldDictionary, opts.Fuzzers)
	permutations := engine.Generate()

	digest := baseline.Digest(strings.ToLower(opts.LSH))
	var baselineResult baseline.Result
	baselineResult.Failed = true // disabled unless LSH is configured below

	var wg sync.WaitGroup
	if digest == baseline.DigestSSDeep || digest == baseline.DigestTLSH {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetcher := baseline.NewFetcher(digest)
			target := seed.FullURI("")
			if opts.LSHURL != "" {
				if override, err := urlparse.Parse(opts.LSHURL); err == nil {
					target = override.FullURI("")
				}
			}
			baselineResult = fetcher.Fetch(ctx, target)
		}()
	}

	var renderer render.Renderer
	if opts.PHash && opts.Screenshots {
		renderer = render.NewChromeRenderer()
	}

	resolver := scanner.NewDNSResolver(opts.Nameservers)

	wg.Wait()

	cfg := scanner.Config{
		Threads:   opts.Threads,
		UserAgent: opts.UserAgent,
		GeoIPPath: opts.GeoIPPath,
		Banners:   opts.Banners,
		MXCheck:   opts.MXCheck,
		GeoIP:     opts.GeoIPPath != "",
		PHash:     opts.PHash && renderer != nil,
		Renderer:  renderer,
		LSH:       digest,
		Baseline:  baselineResult,
		SeedURL:   seed,
	}

	pool := scanner.NewPool(cfg, resolver)
	defer pool.Close()

	permutations = pool.Run(ctx, permutations)
	scanner.SortForOutput(permutations)

	if opts.Whois {
		runWhois(ctx, permutations)
	}

	results := Results(permutations)
	switch {
	case opts.Registered:
		results = results.WithARecords()
	case opts.Unregistered:
		results = results.WithoutARecords()
	}
	return results, nil
}

// Format renders results using the Engine's configured Format, or an
// explicit override when non-empty.
func (e *Engine) Format(results Results, format string) string {
	if format == "" {
		format = e.options.Format
	}
	f := formatter.NewFormatter([]fuzzer.Permutation(results))
	f.DNSAll = e.options.All
	return f.Format(format)
}

// runWhois looks up WHOIS records for every registered permutation,
// strictly sequentially, per spec.md §5.4's rate-limit concern: most
// public WHOIS servers throttle or ban concurrent queries from a
// single client.
func runWhois(ctx context.Context, permutations []fuzzer.Permutation) {
	client := whois.NewIANAClient()
	for i := range permutations {
		p := &permutations[i]
		if !p.IsRegistered() {
			continue
		}
		record, err := client.Lookup(ctx, p.Domain)
		if err != nil {
			continue
		}
		if p.Annotations == nil {
			p.Annotations = &fuzzer.Annotations{DNS: map[string][]string{}}
		}
		p.Annotations.WhoisCreated = record.Created
		p.Annotations.WhoisRegistrar = record.Registrar
	}
}

// readWordList reads a newline-delimited word list from path, skipping
// blank lines. An empty path returns nil with no error.
func readWordList(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	return words, scanner.Err()
}
