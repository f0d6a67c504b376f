package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparrowsec/twistgo/internal/fuzzer"
)

func samplePermutations() []fuzzer.Permutation {
	phash := 87
	return []fuzzer.Permutation{
		{Fuzzer: "*original", Domain: "example.com", Annotations: &fuzzer.Annotations{
			DNS: map[string][]string{"a": {"93.184.216.34"}, "ns": {"ns1.example.com"}},
		}},
		{Fuzzer: "omission", Domain: "xample.com", Annotations: &fuzzer.Annotations{
			DNS:        map[string][]string{"a": {"1.2.3.4"}, "mx": {"mx.xample.com"}},
			GeoIP:      "United States",
			BannerHTTP: "nginx/1.19.0",
			MXSpy:      true,
			PHash:      &phash,
		}},
		{Fuzzer: "bitsquatting", Domain: "fxample.com"},
	}
}

func TestFormatList(t *testing.T) {
	f := NewFormatter(samplePermutations())
	out := f.Format("list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "example.com", lines[0])
}

func TestFormatJSONIncludesAnnotationFields(t *testing.T) {
	f := NewFormatter(samplePermutations())
	out := f.Format("json")
	assert.Contains(t, out, `"domain": "xample.com"`)
	assert.Contains(t, out, `"geoip": "United States"`)
	assert.Contains(t, out, `"mx_spy": true`)
	assert.Contains(t, out, `"phash": 87`)
}

func TestFormatCSVHasAlphabetizedHeaderAfterFuzzerDomain(t *testing.T) {
	f := NewFormatter(samplePermutations())
	out := f.Format("csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	header := strings.Split(lines[0], ",")
	require.GreaterOrEqual(t, len(header), 2)
	assert.Equal(t, "fuzzer", header[0])
	assert.Equal(t, "domain", header[1])

	rest := header[2:]
	sorted := append([]string{}, rest...)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1], sorted[i], "csv extra header columns must be alphabetized")
	}
}

func TestFormatCSVQuotesEmbeddedSeparators(t *testing.T) {
	perms := []fuzzer.Permutation{
		{Fuzzer: "omission", Domain: "x.test", Annotations: &fuzzer.Annotations{
			BannerHTTP: "Server: nginx, extra",
		}},
	}
	f := NewFormatter(perms)
	out := f.Format("csv")
	assert.Contains(t, out, `"Server: nginx, extra"`)
}

func TestFormatCLIFallsBackToDashWhenNoAnnotations(t *testing.T) {
	f := NewFormatter(samplePermutations())
	out := f.Format("cli")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "-")
}

func TestFormatCLIIncludesMXSpyMarker(t *testing.T) {
	f := NewFormatter(samplePermutations())
	out := f.Format("cli")
	assert.Contains(t, out, "SPYING-MX")
}

func TestFormatDefaultsToListForUnknownFormat(t *testing.T) {
	f := NewFormatter(samplePermutations())
	assert.Equal(t, f.Format("list"), f.Format("bogus"))
}

func TestDisplayDomainDecodesPunycode(t *testing.T) {
	assert.Equal(t, "münchen.de", displayDomain("xn--mnchen-3ya.de"))
}

func TestDisplayDomainPassesThroughPlainASCII(t *testing.T) {
	assert.Equal(t, "plain.com", displayDomain("plain.com"))
}

func TestToMapOmitsEmptyAnnotationFields(t *testing.T) {
	f := NewFormatter(nil)
	m := f.toMap(fuzzer.Permutation{Fuzzer: "omission", Domain: "x.test"})
	assert.NotContains(t, m, "geoip")
	assert.NotContains(t, m, "mx_spy")
}

func TestDNSAllTogglesFullRecordList(t *testing.T) {
	perms := []fuzzer.Permutation{
		{Fuzzer: "omission", Domain: "x.test", Annotations: &fuzzer.Annotations{
			DNS: map[string][]string{"a": {"1.1.1.1", "2.2.2.2"}},
		}},
	}

	f := NewFormatter(perms)
	m := f.toMap(perms[0])
	assert.Equal(t, []string{"1.1.1.1"}, m["dns_a"])

	f.DNSAll = true
	m = f.toMap(perms[0])
	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2"}, m["dns_a"])
}
