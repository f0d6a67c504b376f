package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparrowsec/twistgo/internal/fuzzer"
)

// fakeResolver is a scripted Resolver double keyed by domain, used so
// the pipeline can be exercised without live network access.
type fakeResolver struct {
	ns, a, aaaa, mx map[string][]string
	err             map[string]error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		ns:   map[string][]string{},
		a:    map[string][]string{},
		aaaa: map[string][]string{},
		mx:   map[string][]string{},
		err:  map[string]error{},
	}
}

func (f *fakeResolver) LookupNS(_ context.Context, d string) ([]string, error) {
	return f.ns[d], f.err[d]
}
func (f *fakeResolver) LookupA(_ context.Context, d string) ([]string, error) {
	return f.a[d], nil
}
func (f *fakeResolver) LookupAAAA(_ context.Context, d string) ([]string, error) {
	return f.aaaa[d], nil
}
func (f *fakeResolver) LookupMX(_ context.Context, d string) ([]string, error) {
	return f.mx[d], nil
}

func TestScanOneUnregisteredDomain(t *testing.T) {
	fr := newFakeResolver()
	pool := NewPool(Config{}, fr)
	defer pool.Close()

	perms := []fuzzer.Permutation{{Fuzzer: "omission", Domain: "nonexistent-xyzzy.test"}}
	out := pool.Run(context.Background(), perms)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].Annotations)
	assert.False(t, out[0].IsRegistered())
}

func TestScanOneRegisteredDomainPopulatesA(t *testing.T) {
	fr := newFakeResolver()
	fr.ns["example.com"] = []string{"ns1.example.com"}
	fr.a["example.com"] = []string{"93.184.216.34"}

	pool := NewPool(Config{}, fr)
	defer pool.Close()

	perms := []fuzzer.Permutation{{Fuzzer: "*original", Domain: "example.com"}}
	out := pool.Run(context.Background(), perms)

	require.NotNil(t, out[0].Annotations)
	assert.True(t, out[0].IsRegistered())
	assert.Equal(t, []string{"93.184.216.34"}, out[0].Annotations.DNS["a"])
}

func TestScanOneServFailSentinel(t *testing.T) {
	fr := newFakeResolver()
	fr.ns["flaky.test"] = []string{ServFailSentinel}

	pool := NewPool(Config{}, fr)
	defer pool.Close()

	perms := []fuzzer.Permutation{{Fuzzer: "omission", Domain: "flaky.test"}}
	out := pool.Run(context.Background(), perms)

	require.NotNil(t, out[0].Annotations)
	assert.Equal(t, []string{ServFailSentinel}, out[0].Annotations.DNS["ns"])
	// The sentinel populates the NS field, so the entry counts as registered.
	assert.True(t, out[0].IsRegistered())
}

func TestMXCheckRequiresMXRecordsAndNotSeed(t *testing.T) {
	fr := newFakeResolver()
	fr.ns["example.com"] = []string{"ns1.example.com"}
	fr.mx["example.com"] = nil

	pool := NewPool(Config{MXCheck: true}, fr)
	defer pool.Close()

	perms := []fuzzer.Permutation{{Fuzzer: "*original", Domain: "example.com"}}
	out := pool.Run(context.Background(), perms)

	require.NotNil(t, out[0].Annotations)
	assert.False(t, out[0].Annotations.MXSpy)
}

func TestRunProcessesEveryPermutation(t *testing.T) {
	fr := newFakeResolver()
	var perms []fuzzer.Permutation
	for i := 0; i < 50; i++ {
		perms = append(perms, fuzzer.Permutation{Fuzzer: "omission", Domain: "x.test"})
	}

	pool := NewPool(Config{Threads: 4}, fr)
	defer pool.Close()

	out := pool.Run(context.Background(), perms)
	require.Len(t, out, 50)
	for _, p := range out {
		assert.NotNil(t, p.Annotations)
	}
}

func TestSortForOutputOriginalFirst(t *testing.T) {
	perms := []fuzzer.Permutation{
		{Fuzzer: "omission", Domain: "xample.com"},
		{Fuzzer: "*original", Domain: "example.com"},
		{Fuzzer: "bitsquatting", Domain: "fxample.com"},
	}
	SortForOutput(perms)
	assert.Equal(t, "*original", perms[0].Fuzzer)
}

func TestSortForOutputRegisteredByARecord(t *testing.T) {
	perms := []fuzzer.Permutation{
		{Fuzzer: "omission", Domain: "zzz.com", Annotations: &fuzzer.Annotations{DNS: map[string][]string{"a": {"1.1.1.1"}}}},
		{Fuzzer: "omission", Domain: "aaa.com", Annotations: &fuzzer.Annotations{DNS: map[string][]string{"a": {"9.9.9.9"}}}},
	}
	SortForOutput(perms)
	assert.Equal(t, "zzz.com", perms[0].Domain)
}

func TestWorkerCountDefault(t *testing.T) {
	cfg := Config{}
	n := cfg.workerCount()
	assert.Greater(t, n, 0)
	assert.LessOrEqual(t, n, 32)
}

func TestWorkerCountExplicit(t *testing.T) {
	cfg := Config{Threads: 7}
	assert.Equal(t, 7, cfg.workerCount())
}

func TestIsServFail(t *testing.T) {
	assert.True(t, isServFail([]string{ServFailSentinel}))
	assert.False(t, isServFail([]string{"10.0.0.1"}))
	assert.False(t, isServFail(nil))
}
