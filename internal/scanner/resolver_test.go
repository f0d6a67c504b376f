package scanner

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestIPNetworkSelectsFamily(t *testing.T) {
	assert.Equal(t, "ip4", ipNetwork(dns.TypeA))
	assert.Equal(t, "ip6", ipNetwork(dns.TypeAAAA))
}

func TestNewDNSResolverFallsBackToStdlibWithNoNameservers(t *testing.T) {
	r := NewDNSResolver(nil)
	assert.Empty(t, r.Nameservers)
}

func TestNewDNSResolverKeepsConfiguredNameservers(t *testing.T) {
	r := NewDNSResolver([]string{"1.1.1.1:53", "https://dns.google/dns-query"})
	assert.Len(t, r.Nameservers, 2)
}
