package whois

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindReferral(t *testing.T) {
	body := "domain: EXAMPLE.COM\nrefer: whois.verisign-grs.com\n"
	server, ok := findReferral(body)
	assert.True(t, ok)
	assert.Equal(t, "whois.verisign-grs.com", server)
}

func TestFindReferralNone(t *testing.T) {
	_, ok := findReferral("domain: EXAMPLE.COM\nregistrar: Example Registrar\n")
	assert.False(t, ok)
}

func TestParseRecordExtractsCreationAndRegistrar(t *testing.T) {
	body := "Domain Name: EXAMPLE.COM\n" +
		"Registrar: Example Registrar, Inc.\n" +
		"Creation Date: 1997-08-14T04:00:00Z\n"

	rec := parseRecord(body)
	assert.Equal(t, "1997-08-14", rec.Created)
	assert.Equal(t, "Example Registrar, Inc.", rec.Registrar)
}

func TestParseRecordMissingDateLeavesFieldEmpty(t *testing.T) {
	body := "Registrar: Example Registrar, Inc.\n"
	rec := parseRecord(body)
	assert.Empty(t, rec.Created)
	assert.Equal(t, "Example Registrar, Inc.", rec.Registrar)
}

func TestTLDFor(t *testing.T) {
	tld, ok := tldFor("sub.example.co.uk")
	assert.True(t, ok)
	assert.Equal(t, "uk", tld)

	_, ok = tldFor("localhost")
	assert.False(t, ok)
}

func TestParseDateFormats(t *testing.T) {
	tests := []string{
		"1997-08-14T04:00:00Z",
		"1997-08-14",
		"14-Aug-1997",
		"19970814",
	}
	for _, in := range tests {
		_, ok := parseDate(in)
		assert.True(t, ok, "expected %q to parse", in)
	}
}
