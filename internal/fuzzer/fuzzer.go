// Package fuzzer implements the permutation engine: a family of
// algorithmic fuzzers that, from a parsed domain triple, produce a
// deduplicated, IDNA-valid set of confusable FQDNs tagged by the
// algorithm that produced them.
package fuzzer

import (
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// Triple is a parsed (subdomain, registrable-label, TLD) decomposition of
// an FQDN, as produced by the URL/domain parser.
type Triple struct {
	Subdomain string
	Label     string
	TLD       string
}

// Annotations holds the optional per-domain fields a Scanner attaches to
// a Permutation. It is nil until a worker populates it; no field here is
// ever written by anything other than the Permutation's scanning worker.
type Annotations struct {
	DNS            map[string][]string
	GeoIP          string
	BannerHTTP     string
	BannerSMTP     string
	MXSpy          bool
	SSDeep         *int
	TLSH           *int
	PHash          *int
	WhoisCreated   string
	WhoisRegistrar string
}

// Permutation is a single candidate FQDN tagged by the fuzzer that
// produced it. Fuzzer and Domain are immutable once emitted by the
// engine; only Annotations is ever mutated, and only by the worker that
// claimed this permutation.
type Permutation struct {
	Fuzzer      string
	Domain      string
	Annotations *Annotations
}

// IsRegistered reports whether any DNS field carries a non-empty value.
func (p *Permutation) IsRegistered() bool {
	if p.Annotations == nil {
		return false
	}
	for _, v := range p.Annotations.DNS {
		if len(v) > 0 {
			return true
		}
	}
	return false
}

const originalFuzzer = "*original"

// ParseTriple decomposes domain into (subdomain, label, tld). When
// tldDictionary is non-empty, the longest matching entry is used as the
// TLD; otherwise the built-in compound-ccTLD set decides whether the
// second-to-last label joins the TLD.
func ParseTriple(domain string, tldDictionary []string) Triple {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return Triple{Label: domain}
	}

	if len(tldDictionary) > 0 {
		if t, ok := longestTLDMatch(labels, tldDictionary); ok {
			return t
		}
	}

	if len(labels) == 2 {
		return Triple{Label: labels[0], TLD: labels[1]}
	}

	last := labels[len(labels)-1]
	secondLast := labels[len(labels)-2]
	if compoundTLDs[secondLast] {
		return Triple{
			Subdomain: strings.Join(labels[:len(labels)-3], "."),
			Label:     labels[len(labels)-3],
			TLD:       secondLast + "." + last,
		}
	}
	return Triple{
		Subdomain: strings.Join(labels[:len(labels)-2], "."),
		Label:     secondLast,
		TLD:       last,
	}
}

func longestTLDMatch(labels, tldDictionary []string) (Triple, bool) {
	dict := make(map[string]bool, len(tldDictionary))
	for _, t := range tldDictionary {
		dict[strings.ToLower(t)] = true
	}
	for cut := len(labels) - 1; cut >= 1; cut-- {
		candidate := strings.Join(labels[len(labels)-cut:], ".")
		if dict[candidate] {
			rest := labels[:len(labels)-cut]
			if len(rest) == 0 {
				continue
			}
			return Triple{
				Subdomain: strings.Join(rest[:len(rest)-1], "."),
				Label:     rest[len(rest)-1],
				TLD:       candidate,
			}, true
		}
	}
	return Triple{}, false
}

// Engine generates permutations from a Triple according to an enabled
// subset of fuzzers, an optional word dictionary, and an optional TLD
// dictionary.
type Engine struct {
	triple        Triple
	dictionary    []string
	tldDictionary []string
	enabled       map[string]bool
}

// AllFuzzers lists every fuzzer name the engine knows how to run.
var AllFuzzers = []string{
	"bitsquatting", "homoglyph", "hyphenation", "insertion", "omission",
	"repetition", "replacement", "subdomain", "transposition", "vowel-swap",
	"addition", "plural", "cyrillic", "dictionary", "tld-swap", "various",
}

// NewEngine constructs a permutation Engine. An empty fuzzers slice
// enables every fuzzer in AllFuzzers.
func NewEngine(triple Triple, dictionary, tldDictionary, fuzzers []string) *Engine {
	enabled := make(map[string]bool)
	if len(fuzzers) == 0 {
		for _, f := range AllFuzzers {
			enabled[f] = true
		}
	} else {
		for _, f := range fuzzers {
			enabled[strings.TrimSpace(f)] = true
		}
	}
	return &Engine{
		triple:        triple,
		dictionary:    dictionary,
		tldDictionary: tldDictionary,
		enabled:       enabled,
	}
}

// Generate runs every enabled fuzzer over the engine's label, reattaches
// subdomain/TLD, IDNA-encodes and FQDN-validates each candidate, and
// returns a deduplicated, deterministically ordered set of Permutations.
// The seed itself is always included, tagged "*original".
func (e *Engine) Generate() []Permutation {
	type candidate struct {
		fuzzer string
		domain string
	}

	var candidates []candidate
	add := func(fuzzer, domain string) {
		candidates = append(candidates, candidate{fuzzer, domain})
	}

	t := e.triple
	join := func(label string) string {
		return joinNonEmpty(t.Subdomain, label, t.TLD)
	}

	add(originalFuzzer, join(t.Label))

	if e.enabled["bitsquatting"] {
		for _, l := range e.bitsquatting() {
			add("bitsquatting", join(l))
		}
	}
	if e.enabled["homoglyph"] {
		for _, l := range e.homoglyph() {
			add("homoglyph", join(l))
		}
	}
	if e.enabled["hyphenation"] {
		for _, l := range e.hyphenation() {
			add("hyphenation", join(l))
		}
	}
	if e.enabled["insertion"] {
		for _, l := range e.insertion() {
			add("insertion", join(l))
		}
	}
	if e.enabled["omission"] {
		for _, l := range e.omission() {
			add("omission", join(l))
		}
	}
	if e.enabled["repetition"] {
		for _, l := range e.repetition() {
			add("repetition", join(l))
		}
	}
	if e.enabled["replacement"] {
		for _, l := range e.replacement() {
			add("replacement", join(l))
		}
	}
	if e.enabled["subdomain"] {
		for _, l := range e.subdomainFuzz() {
			add("subdomain", join(l))
		}
	}
	if e.enabled["transposition"] {
		for _, l := range e.transposition() {
			add("transposition", join(l))
		}
	}
	if e.enabled["vowel-swap"] {
		for _, l := range e.vowelSwap() {
			add("vowel-swap", join(l))
		}
	}
	if e.enabled["addition"] {
		for _, l := range e.addition() {
			add("addition", join(l))
		}
	}
	if e.enabled["plural"] {
		for _, l := range e.plural() {
			add("plural", join(l))
		}
	}
	if e.enabled["cyrillic"] {
		for _, l := range e.cyrillic() {
			add("cyrillic", join(l))
		}
	}
	if e.enabled["dictionary"] {
		for _, l := range e.dictionaryFuzz() {
			add("dictionary", join(l))
		}
	}
	if e.enabled["tld-swap"] {
		for _, tld := range e.tldSwap() {
			add("tld-swap", joinNonEmpty(t.Subdomain, t.Label, tld))
		}
	}
	if e.enabled["various"] {
		for _, d := range e.various() {
			add("various", d)
		}
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]Permutation, 0, len(candidates))
	for _, c := range candidates {
		puny, err := idna.Lookup.ToASCII(strings.ToLower(c.domain))
		if err != nil {
			continue
		}
		if !validFQDN(puny) {
			continue
		}
		if _, err := idna.Lookup.ToUnicode(puny); err != nil {
			continue
		}
		if seen[puny] {
			continue
		}
		seen[puny] = true
		out = append(out, Permutation{Fuzzer: c.fuzzer, Domain: puny})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Fuzzer == originalFuzzer {
			return out[j].Fuzzer != originalFuzzer
		}
		if out[j].Fuzzer == originalFuzzer {
			return false
		}
		if out[i].Fuzzer != out[j].Fuzzer {
			return out[i].Fuzzer < out[j].Fuzzer
		}
		return out[i].Domain < out[j].Domain
	})

	return out
}

func joinNonEmpty(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}

// validFQDN implements the §6 FQDN regex
// ^(?=.{4,253}$)((?!-)[A-Z0-9-]{1,63}(?<!-)\.)+[A-Z0-9-]{2,63}$
// case-insensitively, without relying on lookaround (unsupported by RE2).
func validFQDN(s string) bool {
	if len(s) < 4 || len(s) > 253 {
		return false
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels[:len(labels)-1] {
		if !validInteriorLabel(l) {
			return false
		}
	}
	last := labels[len(labels)-1]
	if len(last) < 2 || len(last) > 63 || !isAlnumHyphen(last) {
		return false
	}
	return true
}

func validInteriorLabel(l string) bool {
	if len(l) < 1 || len(l) > 63 {
		return false
	}
	if l[0] == '-' || l[len(l)-1] == '-' {
		return false
	}
	return isAlnumHyphen(l)
}

func isAlnumHyphen(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
