// Package whois defines the WHOIS lookup collaborator used after a
// scan completes: per spec.md §1 only its interface is part of the
// core, but a default IANA-referral implementation is provided so the
// CLI has something to wire by default.
package whois

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Record is the subset of a WHOIS response the post-scan WHOIS pass
// records.
type Record struct {
	Created   string
	Registrar string
}

// Client looks up WHOIS data for a single domain.
type Client interface {
	Lookup(ctx context.Context, domain string) (Record, error)
}

const (
	ianaServer     = "whois.iana.org:43"
	dialTimeout    = 10 * time.Second
	readTimeout    = 10 * time.Second
	maxReferralHop = 3
)

// tldServers seeds the TLD -> authoritative WHOIS server map so common
// lookups skip the IANA referral hop.
var tldServers = map[string]string{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.pir.org",
	"info": "whois.afilias.net",
	"biz":  "whois.nic.biz",
	"pl":   "whois.dns.pl",
	"de":   "whois.denic.de",
	"uk":   "whois.nic.uk",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
}

// dateFormats is tried in order against the first creation-date-like
// line found in a WHOIS response.
var dateFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"20060102",
}

// creationKeys lists the label prefixes (lowercased) that precede a
// creation date in the WHOIS registries this client talks to.
var creationKeys = []string{
	"creation date:",
	"created on:",
	"created:",
	"registered on:",
	"domain registration date:",
}

var registrarKeys = []string{
	"registrar:",
	"sponsoring registrar:",
}

// IANAClient is the default Client: raw TCP to whois.iana.org,
// following "refer:" lines to the TLD's authoritative server.
type IANAClient struct {
	Dialer net.Dialer
}

// NewIANAClient returns an IANAClient ready to use.
func NewIANAClient() *IANAClient {
	return &IANAClient{Dialer: net.Dialer{Timeout: dialTimeout}}
}

// Lookup queries the seeded TLD server directly when known, else
// starts at IANA and follows at most maxReferralHop "refer:" lines.
func (c *IANAClient) Lookup(ctx context.Context, domain string) (Record, error) {
	server := ianaServer
	if tld, ok := tldFor(domain); ok {
		if s, ok := tldServers[tld]; ok {
			server = s + ":43"
		}
	}

	seen := make(map[string]bool)
	for hop := 0; hop <= maxReferralHop; hop++ {
		if seen[server] {
			break
		}
		seen[server] = true

		body, err := c.query(ctx, server, domain)
		if err != nil {
			return Record{}, err
		}

		if refer, ok := findReferral(body); ok {
			server = refer + ":43"
			continue
		}

		return parseRecord(body), nil
	}

	return Record{}, fmt.Errorf("whois: too many referrals for %s", domain)
}

func (c *IANAClient) query(ctx context.Context, server, domain string) (string, error) {
	conn, err := c.Dialer.DialContext(ctx, "tcp", server)
	if err != nil {
		return "", fmt.Errorf("whois: dial %s: %w", server, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(readTimeout))

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", fmt.Errorf("whois: write query: %w", err)
	}

	var b strings.Builder
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String(), nil
}

func tldFor(domain string) (string, bool) {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return "", false
	}
	return parts[len(parts)-1], true
}

func findReferral(body string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(lower, "refer:") {
			return strings.TrimSpace(line[len("refer:"):]), true
		}
		if strings.HasPrefix(lower, "whois server:") {
			return strings.TrimSpace(line[len("whois server:"):]), true
		}
	}
	return "", false
}

func parseRecord(body string) Record {
	var rec Record
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if rec.Created == "" {
			for _, key := range creationKeys {
				if strings.HasPrefix(lower, key) {
					value := strings.TrimSpace(trimmed[len(key):])
					if parsed, ok := parseDate(value); ok {
						rec.Created = parsed
					}
					break
				}
			}
		}

		if rec.Registrar == "" {
			for _, key := range registrarKeys {
				if strings.HasPrefix(lower, key) {
					rec.Registrar = strings.TrimSpace(trimmed[len(key):])
					break
				}
			}
		}
	}
	return rec
}

func parseDate(value string) (string, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
