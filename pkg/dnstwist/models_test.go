package dnstwist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparrowsec/twistgo/internal/fuzzer"
)

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		valid   bool
	}{
		{"valid minimal options", Options{Domain: "example.com"}, true},
		{"empty domain invalid", Options{Domain: ""}, false},
		{"negative threads invalid", Options{Domain: "example.com", Threads: -1}, false},
		{"zero threads valid (auto)", Options{Domain: "example.com", Threads: 0}, true},
		{"conflicting flags invalid", Options{Domain: "example.com", Registered: true, Unregistered: true}, false},
		{
			"all valid options",
			Options{
				Domain:      "example.com",
				All:         true,
				Banners:     true,
				Dictionary:  "dict.txt",
				Format:      "json",
				Fuzzers:     []string{"addition", "omission"},
				GeoIPPath:   "geo.mmdb",
				LSH:         "ssdeep",
				LSHURL:      "http://example.com",
				MXCheck:     true,
				PHash:       true,
				Screenshots: true,
				Threads:     10,
				Whois:       true,
				TLD:         "tlds.txt",
				Nameservers: []string{"8.8.8.8:53", "1.1.1.1:53"},
				UserAgent:   "Mozilla/5.0",
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.options)
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestResultsWithARecordsFiltersCorrectly(t *testing.T) {
	results := Results{
		{Fuzzer: "original", Domain: "example.com", Annotations: &fuzzer.Annotations{
			DNS: map[string][]string{"a": {"93.184.216.34"}},
		}},
		{Fuzzer: "addition", Domain: "examplea.com"},
		{Fuzzer: "omission", Domain: "exampl.com", Annotations: &fuzzer.Annotations{
			DNS: map[string][]string{"mx": {"mail.exampl.com"}},
		}},
	}

	withA := results.WithARecords()
	assert.Len(t, withA, 1)
	assert.Equal(t, "example.com", withA[0].Domain)

	withoutA := results.WithoutARecords()
	assert.Len(t, withoutA, 2)
}

// TestResultsWithoutARecordsExcludesSeed covers spec.md §8 end-to-end
// scenario 5: the unregistered filter yields the full set minus the
// seed (`*original`), even when the seed itself does not resolve.
func TestResultsWithoutARecordsExcludesSeed(t *testing.T) {
	results := Results{
		{Fuzzer: "*original", Domain: "example.com"},
		{Fuzzer: "addition", Domain: "examplea.com"},
		{Fuzzer: "omission", Domain: "exampl.com", Annotations: &fuzzer.Annotations{
			DNS: map[string][]string{"a": {"1.2.3.4"}},
		}},
	}

	withoutA := results.WithoutARecords()
	assert.Len(t, withoutA, 1)
	assert.Equal(t, "examplea.com", withoutA[0].Domain)
	for _, p := range withoutA {
		assert.NotEqual(t, "*original", p.Fuzzer)
	}
}
