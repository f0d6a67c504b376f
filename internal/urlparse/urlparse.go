// Package urlparse implements the URL/domain parser: a free-form
// string is turned into an immutable, IDNA-validated URL value from
// which the Permutation Engine's (subdomain, label, TLD) triple is
// derived.
package urlparse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// URL is an immutable, validated URL value. Fields mirror a subset of
// net/url.URL, but Host is always the lowercased, IDNA-encoded A-label
// form, never a raw Unicode or mixed-case hostname.
type URL struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
}

// Parse accepts a free-form URL or bare hostname. When the input lacks
// "://" it is treated as a bare host and "http://" is prepended before
// parsing, per §4.1's contract. The resulting hostname is lowercased,
// IDNA-encoded, and validated as an FQDN; the encoded form is then
// round-tripped through IDNA decode, rejecting anything that fails
// either direction.
func Parse(raw string) (URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("urlparse: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return URL{}, fmt.Errorf("urlparse: unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return URL{}, fmt.Errorf("urlparse: empty hostname")
	}
	if len(host) > 253 {
		return URL{}, fmt.Errorf("urlparse: hostname too long")
	}

	ascii, err := idna.Lookup.ToASCII(strings.ToLower(host))
	if err != nil {
		return URL{}, fmt.Errorf("urlparse: idna encode %q: %w", host, err)
	}
	if !ValidFQDN(ascii) {
		return URL{}, fmt.Errorf("urlparse: %q is not a valid FQDN", ascii)
	}
	if _, err := idna.Lookup.ToUnicode(ascii); err != nil {
		return URL{}, fmt.Errorf("urlparse: idna round-trip %q: %w", ascii, err)
	}

	var password string
	if u.User != nil {
		password, _ = u.User.Password()
	}

	return URL{
		Scheme:   scheme,
		User:     u.User.Username(),
		Password: password,
		Host:     ascii,
		Port:     u.Port(),
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}, nil
}

// FullURI reconstructs the canonical URI for this URL, substituting
// alt for the host when alt is non-empty. Used by the Scanner to fetch
// each permutation's homepage using the seed's scheme/path/query.
func (p URL) FullURI(alt string) string {
	host := p.Host
	if alt != "" {
		host = alt
	}

	var b strings.Builder
	b.WriteString(p.Scheme)
	b.WriteString("://")
	if p.User != "" {
		b.WriteString(url.User(p.User).String())
		if p.Password != "" {
			b.WriteString(":")
			b.WriteString(url.QueryEscape(p.Password))
		}
		b.WriteString("@")
	}
	b.WriteString(host)
	if p.Port != "" {
		b.WriteString(":")
		b.WriteString(p.Port)
	}
	b.WriteString(p.Path)
	if p.Query != "" {
		b.WriteString("?")
		b.WriteString(p.Query)
	}
	if p.Fragment != "" {
		b.WriteString("#")
		b.WriteString(p.Fragment)
	}
	return b.String()
}

// PortNumber parses Port as an integer, returning 0 when unset.
func (p URL) PortNumber() int {
	if p.Port == "" {
		return 0
	}
	n, err := strconv.Atoi(p.Port)
	if err != nil {
		return 0
	}
	return n
}

// ValidFQDN implements the §6 FQDN regex
// ^(?=.{4,253}$)((?!-)[A-Z0-9-]{1,63}(?<!-)\.)+[A-Z0-9-]{2,63}$
// case-insensitively, without relying on lookaround (unsupported by
// RE2). Shared with internal/fuzzer's equivalent check.
func ValidFQDN(s string) bool {
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
	return len(last) >= 2 && len(last) <= 63 && isAlnumHyphen(last)
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
