// Package scanner implements the Scanner Pool: a worker pool that
// drains a queue of permutations and annotates each with DNS,
// geolocation, banner, MX-probe, and content-similarity signals.
package scanner

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sparrowsec/twistgo/internal/baseline"
	"github.com/sparrowsec/twistgo/internal/fuzzer"
	"github.com/sparrowsec/twistgo/internal/render"
	"github.com/sparrowsec/twistgo/internal/urlparse"
)

// Config holds everything a Pool needs to run the per-job pipeline.
// It is copy-in at worker start, per spec.md §5's shared-resource
// policy: the resolver may be shared, the GeoIP reader and renderer
// are opened once per Pool and used read-only by every worker.
type Config struct {
	Threads     int
	Nameservers []string
	UserAgent   string
	GeoIPPath   string
	Banners     bool
	MXCheck     bool
	GeoIP       bool
	PHash       bool
	Renderer    render.Renderer

	// LSH enables content-similarity comparison when non-empty.
	LSH      baseline.Digest
	Baseline baseline.Result
	SeedURL  urlparse.URL
}

func (c Config) workerCount() int {
	if c.Threads > 0 {
		return c.Threads
	}
	n := runtime.NumCPU() + 4
	if n > 32 {
		n = 32
	}
	return n
}

// Pool drains a queue of permutations with Config.workerCount()
// workers, running the full per-job pipeline on each.
type Pool struct {
	cfg      Config
	resolver Resolver
	geo      *geoLookup
	baseline *baseline.Fetcher
}

// NewPool constructs a Pool. resolver is usually a *DNSResolver, but
// tests may supply a fake.
func NewPool(cfg Config, resolver Resolver) *Pool {
	return &Pool{
		cfg:      cfg,
		resolver: resolver,
		geo:      openGeoIP(cfg.GeoIPPath),
		baseline: baseline.NewFetcher(cfg.LSH),
	}
}

// Close releases per-Pool resources (the GeoIP reader).
func (p *Pool) Close() {
	p.geo.close()
}

// Run enqueues every permutation, starts workers, and blocks until the
// queue drains or ctx is cancelled. Each permutation is mutated in
// place by exactly one worker, via its Annotations pointer; Fuzzer and
// Domain are never touched, per spec.md §3's invariant.
func (p *Pool) Run(ctx context.Context, permutations []fuzzer.Permutation) []fuzzer.Permutation {
	jobs := make(chan int, len(permutations))
	for i := range permutations {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	workers := p.cfg.workerCount()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					p.scanOne(ctx, &permutations[i])
				}
			}
		}()
	}
	wg.Wait()
	return permutations
}

func (p *Pool) scanOne(ctx context.Context, perm *fuzzer.Permutation) {
	ann := &fuzzer.Annotations{DNS: map[string][]string{}}

	ns, err := p.resolver.LookupNS(ctx, perm.Domain)
	if err != nil {
		log.Debug().Err(err).Str("domain", perm.Domain).Msg("ns lookup failed")
		return
	}
	if len(ns) > 0 {
		ann.DNS["ns"] = ns
	}
	if len(ns) == 0 || isServFail(ns) {
		perm.Annotations = ann
		return
	}

	a, err := p.resolver.LookupA(ctx, perm.Domain)
	if err == nil && len(a) > 0 {
		ann.DNS["a"] = a
	}
	aaaa, err := p.resolver.LookupAAAA(ctx, perm.Domain)
	if err == nil && len(aaaa) > 0 {
		ann.DNS["aaaa"] = aaaa
	}
	mx, err := p.resolver.LookupMX(ctx, perm.Domain)
	if err == nil && len(mx) > 0 {
		ann.DNS["mx"] = mx
	}

	if p.cfg.MXCheck && len(mx) > 0 && !isServFail(mx) && perm.Domain != p.cfg.SeedURL.Host {
		p.runMXCheck(ann, perm.Domain, mx)
	}

	if p.cfg.GeoIP && len(a) > 0 && !isServFail(a) {
		if country := p.geo.countryName(a[0]); country != "" {
			ann.GeoIP = country
		}
	}

	if p.cfg.Banners {
		p.runBanners(ann, perm.Domain, a, mx)
	}

	if p.cfg.PHash && p.cfg.Renderer != nil {
		p.runPHash(ctx, ann, perm.Domain)
	}

	if p.cfg.LSH != "" && !p.cfg.Baseline.Failed {
		p.runLSHCompare(ctx, ann, perm.Domain)
	}

	perm.Annotations = ann
}

func (p *Pool) runMXCheck(ann *fuzzer.Annotations, domain string, mx []string) {
	accepted, err := probeCatchAll(mx[0], p.cfg.SeedURL.Host, domain)
	if err != nil {
		return
	}
	// Caller already guarantees len(mx) > 0 and domain != seed.
	ann.MXSpy = accepted
}

func (p *Pool) runBanners(ann *fuzzer.Annotations, domain string, a, mx []string) {
	if len(a) > 0 && !isServFail(a) {
		if banner, err := httpBanner(a[0], domain, p.cfg.UserAgent); err == nil && banner != "" {
			ann.BannerHTTP = banner
		}
	}
	if len(mx) > 0 && !isServFail(mx) {
		if banner, err := smtpBanner(mx[0]); err == nil && banner != "" {
			ann.BannerSMTP = banner
		}
	}
}

func (p *Pool) runPHash(ctx context.Context, ann *fuzzer.Annotations, domain string) {
	target := p.cfg.SeedURL.FullURI(domain)
	img, err := p.cfg.Renderer.Render(ctx, target)
	if err != nil {
		return
	}
	candidateHash := render.AverageHash(img)

	baselineImg, err := p.cfg.Renderer.Render(ctx, p.cfg.SeedURL.FullURI(""))
	if err != nil {
		return
	}
	baselineHash := render.AverageHash(baselineImg)

	score := render.Similarity(candidateHash, baselineHash)
	ann.PHash = &score
}

func (p *Pool) runLSHCompare(ctx context.Context, ann *fuzzer.Annotations, domain string) {
	target := p.cfg.SeedURL.FullURI(domain)
	result := p.baseline.Fetch(ctx, target)
	if result.Failed {
		return
	}
	if result.EffectiveURL != "" && result.EffectiveURL == p.cfg.Baseline.EffectiveURL {
		return
	}
	score, ok := p.cfg.Baseline.Similarity(result)
	if !ok {
		return
	}
	switch p.cfg.LSH {
	case baseline.DigestTLSH:
		ann.TLSH = &score
	default:
		ann.SSDeep = &score
	}
}

func isServFail(recs []string) bool {
	return len(recs) == 1 && recs[0] == ServFailSentinel
}

// SortForOutput implements spec.md §3's ordering: by fuzzer, then (for
// registered entries) by first A record plus domain, else by domain.
func SortForOutput(perms []fuzzer.Permutation) {
	sort.SliceStable(perms, func(i, j int) bool {
		a, b := perms[i], perms[j]
		if a.Fuzzer != b.Fuzzer {
			if a.Fuzzer == "*original" {
				return true
			}
			if b.Fuzzer == "*original" {
				return false
			}
			return a.Fuzzer < b.Fuzzer
		}
		return sortKey(a) < sortKey(b)
	})
}

func sortKey(p fuzzer.Permutation) string {
	if p.Annotations != nil {
		if a := p.Annotations.DNS["a"]; len(a) > 0 && !isServFail(a) {
			return a[0] + p.Domain
		}
	}
	return p.Domain
}
