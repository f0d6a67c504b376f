package dnstwist

import (
	"github.com/sparrowsec/twistgo/internal/fuzzer"
)

// Options configures a scan run end to end: which permutations to
// generate, which Scanner Pool stages to enable, and how to render
// the result.
type Options struct {
	// Domain is the seed URL or bare hostname to analyze.
	Domain string

	// All prints every DNS record for a field instead of just the first.
	All bool

	// Registered and Unregistered filter the result set. Mutually
	// exclusive; both false means no filtering.
	Registered   bool
	Unregistered bool

	// Dictionary is a path to a newline-delimited word list consumed by
	// the dictionary fuzzer. Empty disables it.
	Dictionary string

	// TLD is a path to a newline-delimited TLD list used both for
	// DomainTriple construction and the tld-swap fuzzer. Empty falls
	// back to the built-in compound-ccTLD heuristic.
	TLD string

	// Fuzzers restricts generation to this subset of fuzzer.AllFuzzers.
	// Empty enables all of them.
	Fuzzers []string

	// Nameservers lists DNS servers to query, as host:port for UDP/TCP
	// or a https:// URL for DNS-over-HTTPS. Empty uses the OS resolver.
	Nameservers []string

	// Threads sets the Scanner Pool's worker count. 0 picks a default
	// based on CPU count.
	Threads int

	// UserAgent is sent on the HTTP banner request. Baseline and LSH
	// content fetches do not set it and carry net/http's default
	// User-Agent.
	UserAgent string

	// GeoIPPath is a path to a MaxMind GeoLite2-Country database.
	// Empty disables GeoIP lookups.
	GeoIPPath string

	Banners bool
	MXCheck bool
	NSCheck bool

	// LSH selects the content-similarity digest: "ssdeep", "tlsh", or
	// "" to disable LSH comparison entirely.
	LSH string

	// LSHURL overrides the baseline fetch URL; empty uses Domain.
	LSHURL string

	// PHash enables perceptual-hash screenshot comparison, which
	// requires Screenshots (a headless-browser renderer) to be usable.
	PHash       bool
	Screenshots bool

	// Whois enables a strictly sequential WHOIS lookup pass over
	// registered permutations after scanning.
	Whois bool

	// Format selects the Formatter output: cli, csv, json, or list.
	Format string
}

// Results is the final, annotated permutation set.
type Results []fuzzer.Permutation

// WithARecords returns the subset of results carrying at least one A
// record.
func (r Results) WithARecords() Results {
	var out Results
	for _, p := range r {
		if p.Annotations != nil && len(p.Annotations.DNS["a"]) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// originalFuzzer tags the seed domain itself; mirrors fuzzer.Engine's
// internal tag for the entry fuzzer.Engine.Generate always includes.
const originalFuzzer = "*original"

// WithoutARecords returns the subset of results carrying no A record,
// excluding the seed (`*original`) entry: per spec.md §8 end-to-end
// scenario 5, the unregistered filter yields the full set minus the
// seed, regardless of whether the seed itself resolves.
func (r Results) WithoutARecords() Results {
	var out Results
	for _, p := range r {
		if p.Fuzzer == originalFuzzer {
			continue
		}
		if p.Annotations == nil || len(p.Annotations.DNS["a"]) == 0 {
			out = append(out, p)
		}
	}
	return out
}
