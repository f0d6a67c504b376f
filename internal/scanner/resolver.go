package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// ServFailSentinel is recorded in place of an empty result list when a
// nameserver answers with SERVFAIL, distinguishing "asked and failed"
// from "asked and got nothing."
const ServFailSentinel = "!ServFail"

const (
	dnsTimeout = 2500 * time.Millisecond
	dnsRetries = 2
	ednsSize   = 1232
)

// Resolver performs the NS/A/AAAA/MX lookups the DNS stage needs. It
// is an interface so the scanner can be driven by a fake in tests
// without a live network.
type Resolver interface {
	LookupNS(ctx context.Context, domain string) ([]string, error)
	LookupA(ctx context.Context, domain string) ([]string, error)
	LookupAAAA(ctx context.Context, domain string) ([]string, error)
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

// DNSResolver is the default Resolver: it speaks plain UDP/TCP DNS via
// miekg/dns, or DNS-over-HTTPS when a nameserver is given in
// "https://host/dns-query" form, rotating across the configured
// nameserver list and falling back to the host resolver when none are
// configured.
type DNSResolver struct {
	Nameservers []string
	client      *dns.Client
	httpClient  *http.Client
}

// NewDNSResolver builds a DNSResolver over the given nameserver list.
// An empty list makes every lookup fall back to net.DefaultResolver.
func NewDNSResolver(nameservers []string) *DNSResolver {
	return &DNSResolver{
		Nameservers: nameservers,
		client: &dns.Client{
			Net:     "udp",
			Timeout: dnsTimeout,
			UDPSize: ednsSize,
		},
		httpClient: &http.Client{Timeout: dnsTimeout},
	}
}

func (r *DNSResolver) LookupNS(ctx context.Context, domain string) ([]string, error) {
	return r.lookup(ctx, domain, dns.TypeNS, func(rr dns.RR) (string, bool) {
		ns, ok := rr.(*dns.NS)
		if !ok {
			return "", false
		}
		return strings.TrimSuffix(ns.Ns, "."), true
	})
}

func (r *DNSResolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	return r.lookup(ctx, domain, dns.TypeA, func(rr dns.RR) (string, bool) {
		a, ok := rr.(*dns.A)
		if !ok {
			return "", false
		}
		return a.A.String(), true
	})
}

func (r *DNSResolver) LookupAAAA(ctx context.Context, domain string) ([]string, error) {
	return r.lookup(ctx, domain, dns.TypeAAAA, func(rr dns.RR) (string, bool) {
		aaaa, ok := rr.(*dns.AAAA)
		if !ok {
			return "", false
		}
		return aaaa.AAAA.String(), true
	})
}

func (r *DNSResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	return r.lookup(ctx, domain, dns.TypeMX, func(rr dns.RR) (string, bool) {
		mx, ok := rr.(*dns.MX)
		if !ok {
			return "", false
		}
		return strings.TrimSuffix(mx.Mx, "."), true
	})
}

func (r *DNSResolver) lookup(ctx context.Context, domain string, qtype uint16, extract func(dns.RR) (string, bool)) ([]string, error) {
	if len(r.Nameservers) == 0 {
		return r.lookupStdlib(ctx, domain, qtype)
	}

	ns := r.Nameservers[rand.Intn(len(r.Nameservers))]

	var (
		resp *dns.Msg
		err  error
	)
	for attempt := 0; attempt <= dnsRetries; attempt++ {
		if strings.HasPrefix(ns, "https://") {
			resp, err = r.exchangeDoH(ctx, ns, domain, qtype)
		} else {
			resp, err = r.exchangeUDP(ns, domain, qtype)
		}
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if resp.Rcode == dns.RcodeServerFailure {
		return []string{ServFailSentinel}, nil
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, nil
	}

	var out []string
	for _, rr := range resp.Answer {
		if v, ok := extract(rr); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *DNSResolver) exchangeUDP(nameserver, domain string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)
	m.RecursionDesired = true
	m.SetEdns0(ednsSize, false)

	addr := nameserver
	if _, _, err := net.SplitHostPort(nameserver); err != nil {
		addr = net.JoinHostPort(nameserver, "53")
	}

	resp, _, err := r.client.Exchange(m, addr)
	if err == nil && resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: dnsTimeout}
		resp, _, err = tcp.Exchange(m, addr)
	}
	return resp, err
}

// exchangeDoH implements DNS-over-HTTPS (RFC 8484) wire-format POST
// against a "https://host/dns-query"-shaped nameserver.
func (r *DNSResolver) exchangeDoH(ctx context.Context, server, domain string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), qtype)
	m.RecursionDesired = true
	m.SetEdns0(ednsSize, false)

	packed, err := m.Pack()
	if err != nil {
		return nil, fmt.Errorf("doh: pack query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server, bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("doh: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/dns-message")
	req.Header.Set("Accept", "application/dns-message")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doh: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("doh: read response: %w", err)
	}

	reply := new(dns.Msg)
	if err := reply.Unpack(body); err != nil {
		return nil, fmt.Errorf("doh: unpack response: %w", err)
	}
	return reply, nil
}

func (r *DNSResolver) lookupStdlib(ctx context.Context, domain string, qtype uint16) ([]string, error) {
	switch qtype {
	case dns.TypeNS:
		recs, err := net.DefaultResolver.LookupNS(ctx, domain)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(recs))
		for i, r := range recs {
			out[i] = strings.TrimSuffix(r.Host, ".")
		}
		return out, nil
	case dns.TypeA, dns.TypeAAAA:
		ips, err := net.DefaultResolver.LookupIP(ctx, ipNetwork(qtype), domain)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(ips))
		for i, ip := range ips {
			out[i] = ip.String()
		}
		return out, nil
	case dns.TypeMX:
		recs, err := net.DefaultResolver.LookupMX(ctx, domain)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(recs))
		for i, r := range recs {
			out[i] = strings.TrimSuffix(r.Host, ".")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("resolver: unsupported query type %d", qtype)
	}
}

func ipNetwork(qtype uint16) string {
	if qtype == dns.TypeAAAA {
		return "ip6"
	}
	return "ip4"
}
