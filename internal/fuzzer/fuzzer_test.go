package fuzzer

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domains(perms []Permutation) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.Domain
	}
	return out
}

func byFuzzer(perms []Permutation, fuzzer string) []string {
	var out []string
	for _, p := range perms {
		if p.Fuzzer == fuzzer {
			out = append(out, p.Domain)
		}
	}
	return out
}

func TestParseTriple(t *testing.T) {
	tests := []struct {
		domain string
		want   Triple
	}{
		{"example.com", Triple{Label: "example", TLD: "com"}},
		{"example.co.uk", Triple{Label: "example", TLD: "co.uk"}},
		{"www.example.com", Triple{Subdomain: "www", Label: "example", TLD: "com"}},
		{"a.b.example.co.uk", Triple{Subdomain: "a.b", Label: "example", TLD: "co.uk"}},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			got := ParseTriple(tt.domain, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTripleWithDictionary(t *testing.T) {
	got := ParseTriple("example.something.weird", []string{"something.weird"})
	assert.Equal(t, Triple{Label: "example", TLD: "something.weird"}, got)
}

// Scenario 1: seed example.com, fuzzers=omission.
func TestScenarioOmission(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, nil, nil, []string{"omission"})
	perms := e.Generate()

	got := byFuzzer(perms, "omission")
	want := []string{
		"xample.com", "eample.com", "exmple.com", "exaple.com",
		"examle.com", "exampe.com", "exampl.com",
	}
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)

	seen := make(map[string]bool)
	for _, d := range domains(perms) {
		assert.False(t, seen[d], "duplicate domain %s", d)
		seen[d] = true
	}
}

// Scenario 2: seed paypal.com, fuzzers=homoglyph.
func TestScenarioHomoglyph(t *testing.T) {
	triple := ParseTriple("paypal.com", nil)
	e := NewEngine(triple, nil, nil, []string{"homoglyph"})
	perms := e.Generate()

	got := byFuzzer(perms, "homoglyph")
	require.NotEmpty(t, got)

	foundCyrillicA := false
	foundDigitOne := false
	for _, d := range got {
		// A-label of "pаypal.com" with a Cyrillic 'а' (U+0430).
		if d == "xn--pypal-4ve.com" {
			foundCyrillicA = true
		}
		if d == "paypa1.com" {
			foundDigitOne = true
		}
		assert.True(t, validFQDN(d))
	}
	assert.True(t, foundCyrillicA, "expected a Cyrillic 'а' substitution for paypal")
	assert.True(t, foundDigitOne, "expected paypa1.com")

	var original string
	for _, p := range perms {
		if p.Fuzzer == originalFuzzer {
			original = p.Domain
		}
	}
	assert.Equal(t, "paypal.com", original)
	assert.Equal(t, originalFuzzer, perms[0].Fuzzer)
}

// Scenario 3: seed google.com, fuzzers=bitsquatting.
func TestScenarioBitsquatting(t *testing.T) {
	triple := ParseTriple("google.com", nil)
	e := NewEngine(triple, nil, nil, []string{"bitsquatting"})
	perms := e.Generate()

	got := byFuzzer(perms, "bitsquatting")
	assert.Contains(t, got, "foogle.com")
	assert.NotContains(t, got, "gooogle.com")
	for _, d := range got {
		assert.True(t, validFQDN(d))
	}
}

// Scenario 4: seed example.co.uk, fuzzers=various.
func TestScenarioVarious(t *testing.T) {
	triple := ParseTriple("example.co.uk", nil)
	e := NewEngine(triple, nil, nil, []string{"various"})
	perms := e.Generate()

	got := byFuzzer(perms, "various")
	assert.Contains(t, got, "example.uk")
	assert.Contains(t, got, "examplecouk.com")
	for _, p := range perms {
		if p.Domain == "example.co.uk" {
			assert.NotEqual(t, "various", p.Fuzzer)
		}
	}
}

func TestBitsquattingCharset(t *testing.T) {
	triple := ParseTriple("google.com", nil)
	e := NewEngine(triple, nil, nil, nil)
	for _, l := range e.bitsquatting() {
		assert.Len(t, l, len(triple.Label))
		diff := 0
		for i := range l {
			if l[i] != triple.Label[i] {
				diff++
				c := l[i]
				assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-')
			}
		}
		assert.Equal(t, 1, diff)
	}
}

func TestOmissionCount(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, nil, nil, nil)
	assert.Len(t, e.omission(), len(triple.Label))
}

func TestTranspositionProducesSameLength(t *testing.T) {
	triple := ParseTriple("google.com", nil)
	e := NewEngine(triple, nil, nil, nil)
	for _, l := range e.transposition() {
		assert.Len(t, l, len(triple.Label))
	}
}

func TestTLDSwapNeverKeepsOriginalTLD(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, nil, []string{"net", "org", "com"}, []string{"tld-swap"})
	perms := e.Generate()
	for _, p := range byFuzzer(perms, "tld-swap") {
		assert.False(t, strings.HasSuffix(p, ".com"))
	}
}

func TestEngineDeterministic(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e1 := NewEngine(triple, []string{"secure"}, []string{"net", "org"}, nil)
	e2 := NewEngine(triple, []string{"secure"}, []string{"net", "org"}, nil)

	d1 := domains(e1.Generate())
	d2 := domains(e2.Generate())
	sort.Strings(d1)
	sort.Strings(d2)
	assert.Equal(t, d1, d2)
}

func TestNoDuplicateDomains(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, []string{"secure", "login"}, []string{"net", "org"}, nil)
	perms := e.Generate()
	seen := make(map[string]bool)
	for _, p := range perms {
		assert.False(t, seen[p.Domain])
		seen[p.Domain] = true
	}
}

func TestEveryPermutationIsValidFQDN(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, []string{"secure"}, []string{"net"}, nil)
	for _, p := range e.Generate() {
		assert.True(t, validFQDN(p.Domain), "invalid FQDN: %s", p.Domain)
		if p.Fuzzer != originalFuzzer {
			assert.NotEqual(t, "example.com", p.Domain)
		}
	}
}

func TestEmptyDictionaryEmitsNothing(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, nil, nil, []string{"dictionary"})
	perms := e.Generate()
	assert.Empty(t, byFuzzer(perms, "dictionary"))
}

func TestEmptyTLDDictionaryEmitsNothing(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, nil, nil, []string{"tld-swap"})
	perms := e.Generate()
	assert.Empty(t, byFuzzer(perms, "tld-swap"))
}

func TestCyrillicOnlyEmitsWhenChanged(t *testing.T) {
	triple := ParseTriple("1234.com", nil)
	e := NewEngine(triple, nil, nil, nil)
	assert.Empty(t, e.cyrillic())

	triple2 := ParseTriple("example.com", nil)
	e2 := NewEngine(triple2, nil, nil, nil)
	cy := e2.cyrillic()
	require.Len(t, cy, 1)
	assert.NotEqual(t, triple2.Label, cy[0])
}

func TestDictionaryFuzzer(t *testing.T) {
	triple := ParseTriple("example.com", nil)
	e := NewEngine(triple, []string{"secure"}, nil, []string{"dictionary"})
	perms := e.Generate()
	got := byFuzzer(perms, "dictionary")
	assert.Contains(t, got, "example-secure.com")
	assert.Contains(t, got, "secureexample.com")
	assert.Contains(t, got, "secure-example.com")
}

func TestPluralSuffixChoice(t *testing.T) {
	triple := Triple{Label: "boxes", TLD: "com"}
	e := NewEngine(triple, nil, nil, nil)
	found := false
	for _, l := range e.plural() {
		if strings.Contains(l, "es") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGlyphsForTLDNoIDN(t *testing.T) {
	g := glyphsForTLD("jp")
	assert.Contains(t, g["m"], "rn") // ASCII confusable survives.
	assert.Empty(t, g["a"])          // Unicode confusables dropped entirely.

	full := glyphsForTLD("com")
	assert.NotEmpty(t, full["a"])
}

func TestValidFQDNBoundaries(t *testing.T) {
	assert.False(t, validFQDN("ab"))
	assert.False(t, validFQDN("-ab.com"))
	assert.False(t, validFQDN("ab-.com"))
	assert.True(t, validFQDN("ab.com"))
	assert.False(t, validFQDN(strings.Repeat("a", 64)+".com"))
}
