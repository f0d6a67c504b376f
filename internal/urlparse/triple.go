package urlparse

import "github.com/sparrowsec/twistgo/internal/fuzzer"

// Triple is an alias for fuzzer.Triple: the (subdomain,
// registrable-label, TLD) decomposition of a parsed URL's host. Kept
// as a type alias, not a parallel struct, so callers can pass a
// urlparse.Triple straight into fuzzer.NewEngine without conversion.
type Triple = fuzzer.Triple

// DomainTriple decomposes p.Host into (subdomain, label, tld). When
// tldDictionary is non-empty, the longest matching suffix is used as
// the TLD; otherwise the built-in compound-ccTLD set decides whether
// the second-to-last label joins the TLD.
func (p URL) DomainTriple(tldDictionary []string) Triple {
	return fuzzer.ParseTriple(p.Host, tldDictionary)
}
