package naming

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAllocateUnique_FirstAllocationUnmodified(t *testing.T) {
	ns := New()

	got := ns.AllocateUnique("sig")

	require.Equal(t, "sig", got)
}

func TestAllocateUnique_CollisionGetsSuffix(t *testing.T) {
	ns := New()

	require.Equal(t, "sig", ns.AllocateUnique("sig"))
	require.Equal(t, "sig_1", ns.AllocateUnique("sig"))
	require.Equal(t, "sig_2", ns.AllocateUnique("sig"))
}

func TestAllocateUnique_SuffixSkipsTakenNames(t *testing.T) {
	ns := New()

	// A user-style allocation can occupy a name the suffixing scheme would
	// otherwise produce.
	require.Equal(t, "sig_1", ns.AllocateUnique("sig_1"))
	require.Equal(t, "sig", ns.AllocateUnique("sig"))
	require.Equal(t, "sig_2", ns.AllocateUnique("sig"))
}

func TestExists_Lifecycle(t *testing.T) {
	ns := New()

	require.False(t, ns.Exists("probe"))

	got := ns.AllocateUnique("probe")
	require.True(t, ns.Exists(got))
	require.False(t, ns.Exists("probe_1"), "Exists must not invent names")

	// Exists is read-only: repeated checks do not change the answer.
	require.True(t, ns.Exists(got))
	require.False(t, ns.Exists("never_allocated"))
}

func TestAllocateUnique_PairwiseDistinct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ns := New()
		count := rapid.IntRange(1, 200).Draw(t, "count")
		prefixGen := rapid.SampledFrom([]string{"sig", "sig_1", "bore", "x", "debug_wire"})

		seen := make(map[string]struct{}, count)
		for i := 0; i < count; i++ {
			name := ns.AllocateUnique(prefixGen.Draw(t, "prefix"))
			if _, dup := seen[name]; dup {
				t.Fatalf("duplicate identifier issued: %q", name)
			}
			seen[name] = struct{}{}
			if !ns.Exists(name) {
				t.Fatalf("issued identifier %q not reported by Exists", name)
			}
		}
	})
}

func TestAllocateUnique_ConcurrentAllocations(t *testing.T) {
	ns := New()

	const workers = 16
	const perWorker = 50

	results := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				results <- ns.AllocateUnique("sig")
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]struct{})
	for name := range results {
		_, dup := seen[name]
		require.False(t, dup, "duplicate identifier %q under concurrency", name)
		seen[name] = struct{}{}
	}
	require.Len(t, seen, workers*perWorker)
}
