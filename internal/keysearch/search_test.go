package keysearch

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
)

// --- Test Helpers ---

// recordingScorer records the key behind every plaintext it sees. It is
// only meaningful with an all-zero 2-byte ciphertext, where plaintext == key.
type recordingScorer struct {
	mu   sync.Mutex
	seen []xorcipher.Key
}

func (r *recordingScorer) Name() string { return "recording" }

func (r *recordingScorer) Score(pt []byte, _, _ *wordset.WordSet) int {
	r.mu.Lock()
	r.seen = append(r.seen, xorcipher.Key{pt[0], pt[1]})
	r.mu.Unlock()
	return 0
}

// keyScorer scores plaintexts of an all-zero ciphertext by key.
type keyScorer map[xorcipher.Key]int

func (k keyScorer) Name() string { return "key" }

func (k keyScorer) Score(pt []byte, _, _ *wordset.WordSet) int {
	return k[xorcipher.Key{pt[0], pt[1]}]
}

// keyIndex is the position of k in row-major enumeration order.
func keyIndex(k xorcipher.Key) int {
	return int(k[0])<<8 | int(k[1])
}

func testWordSets() (dictionary, common *wordset.WordSet) {
	return wordset.New("quick", "brown"), wordset.New("the")
}

// --- Test Cases ---

func TestSearchExhaustiveInOrder(t *testing.T) {
	rec := &recordingScorer{}
	res := Search([]byte{0, 0}, nil, nil, WithScorer(rec))

	require.Len(t, rec.seen, xorcipher.KeySpace)
	for i, k := range rec.seen {
		if keyIndex(k) != i {
			t.Fatalf("key %d visited as %v", i, k)
		}
	}
	assert.Equal(t, xorcipher.KeySpace, res.KeysExamined)
	assert.False(t, res.StoppedEarly)
}

func TestSearchContextExhaustive(t *testing.T) {
	rec := &recordingScorer{}
	res, err := SearchContext(context.Background(), []byte{0, 0}, nil, nil, WithScorer(rec), WithWorkers(8))
	require.NoError(t, err)

	require.Len(t, rec.seen, xorcipher.KeySpace)
	idx := make([]int, len(rec.seen))
	for i, k := range rec.seen {
		idx[i] = keyIndex(k)
	}
	sort.Ints(idx)
	for i, v := range idx {
		if v != i {
			t.Fatalf("key index %d missing or duplicated (got %d)", i, v)
		}
	}
	assert.Equal(t, xorcipher.KeySpace, res.KeysExamined)
}

func TestSearchTieBreak(t *testing.T) {
	scorer := keyScorer{
		{200, 1}: 5,
		{3, 7}:   5,
		{3, 9}:   5,
		{0, 1}:   4,
	}
	res := Search([]byte{0, 0}, nil, nil, WithScorer(scorer))
	assert.Equal(t, xorcipher.Key{3, 7}, res.Key)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, []byte{3, 7}, res.Plaintext)

	for _, workers := range []int{2, 3, 16, 256} {
		pres, err := SearchContext(context.Background(), []byte{0, 0}, nil, nil, WithScorer(scorer), WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, res.Candidate, pres.Candidate, "workers=%d", workers)
	}
}

func TestSearchAllEqualScoresKeepsFirstKey(t *testing.T) {
	res := Search([]byte("anything"), nil, nil, WithScorer(keyScorer{}))
	assert.Equal(t, xorcipher.Key{0, 0}, res.Key)
	assert.Equal(t, []byte("anything"), res.Plaintext)
}

func TestSearchEmptyCiphertext(t *testing.T) {
	dictionary, common := testWordSets()

	res := Search([]byte{}, dictionary, common)
	assert.Equal(t, xorcipher.Key{0, 0}, res.Key)
	assert.Equal(t, []byte{}, res.Plaintext)
	assert.Equal(t, scoring.EmptyScore, res.Score)

	pres, err := SearchContext(context.Background(), nil, dictionary, common, WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, res, pres)
}

func TestSearchRecoversKey(t *testing.T) {
	dictionary, common := testWordSets()
	plaintext := []byte("the quick lazy brown fox")
	key := xorcipher.Key{'a', 'b'}
	ciphertext := xorcipher.Transform(plaintext, key)

	res := Search(ciphertext, dictionary, common)
	assert.Equal(t, key, res.Key)
	assert.Equal(t, plaintext, res.Plaintext)
	assert.Equal(t, 24*2+4*3+2+2, res.Score)
	assert.Greater(t, res.Score, scoring.RejectScore)
}

func TestSearchCaseFlippedTwinTies(t *testing.T) {
	// Every even-position byte of this plaintext is a letter, so the key
	// {'A','b'} only flips their case. The lowercased words and all other
	// counts are unchanged, the two keys tie, and 'A' < 'a' wins.
	dictionary, common := testWordSets()
	plaintext := []byte("the quick brown fox")
	ciphertext := xorcipher.Transform(plaintext, xorcipher.Key{'a', 'b'})

	res := Search(ciphertext, dictionary, common)
	assert.Equal(t, xorcipher.Key{'A', 'b'}, res.Key)
	assert.Equal(t, []byte("ThE QuIcK BrOwN FoX"), res.Plaintext)
	assert.Equal(t, 19*2+3*3+2+2, res.Score)
	assert.Equal(t, res.Score, scoring.Canonical{}.Score(plaintext, dictionary, common))
	assert.Greater(t, res.Score, scoring.RejectScore)
}

func TestSearchPlaintextLengthMatches(t *testing.T) {
	dictionary, common := testWordSets()
	for _, n := range []int{1, 2, 3, 17} {
		ct := make([]byte, n)
		res := Search(ct, dictionary, common)
		assert.Len(t, res.Plaintext, n)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	dictionary, common := testWordSets()
	ct := xorcipher.Transform([]byte("the quick lazy brown fox jumps over it"), xorcipher.Key{0x13, 0x37})

	first := Search(ct, dictionary, common)
	second := Search(ct, dictionary, common)
	assert.Equal(t, first, second)
}

func TestParallelMatchesSequential(t *testing.T) {
	dictionary, common := testWordSets()
	inputs := [][]byte{
		xorcipher.Transform([]byte("the quick brown fox"), xorcipher.Key{'a', 'b'}),
		xorcipher.Transform([]byte("the quick lazy brown fox"), xorcipher.Key{0xfe, 0x01}),
		{0x00, 0x01, 0x02, 0x03, 0x04},
		{0x41},
	}

	for _, scorer := range []scoring.Scorer{scoring.Canonical{}, scoring.Fast{}} {
		for _, ct := range inputs {
			want := Search(ct, dictionary, common, WithScorer(scorer))
			for _, workers := range []int{1, 2, 3, 7, 64, 256, 1000} {
				got, err := SearchContext(context.Background(), ct, dictionary, common, WithScorer(scorer), WithWorkers(workers))
				require.NoError(t, err)
				assert.Equal(t, want, got, "scorer=%s workers=%d", scorer.Name(), workers)
			}
		}
	}
}

func TestSearchEarlyStop(t *testing.T) {
	scorer := keyScorer{{0, 9}: 50, {0, 200}: 100}

	res := Search([]byte{0, 0}, nil, nil, WithScorer(scorer), WithEarlyStop(40))
	assert.True(t, res.StoppedEarly)
	assert.Equal(t, xorcipher.Key{0, 9}, res.Key)
	assert.Equal(t, 10, res.KeysExamined)

	res = Search([]byte{0, 0}, nil, nil, WithScorer(scorer), WithEarlyStop(1000))
	assert.False(t, res.StoppedEarly)
	assert.Equal(t, xorcipher.Key{0, 200}, res.Key)
	assert.Equal(t, xorcipher.KeySpace, res.KeysExamined)
}

func TestSearchContextEarlyStop(t *testing.T) {
	scorer := keyScorer{{0, 9}: 50}
	res, err := SearchContext(context.Background(), []byte{0, 0}, nil, nil,
		WithScorer(scorer), WithWorkers(4), WithEarlyStop(50))
	require.NoError(t, err)
	assert.True(t, res.StoppedEarly)
	assert.Equal(t, xorcipher.Key{0, 9}, res.Key)
	assert.Less(t, res.KeysExamined, xorcipher.KeySpace)
}

func TestSearchContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchContext(ctx, []byte("abc"), nil, nil, WithWorkers(4))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = SearchContext(ctx, []byte("abc"), nil, nil, WithWorkers(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchContextCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	scorer := cancellingScorer{after: 1000, calls: &calls, cancel: cancel}
	_, err := SearchContext(ctx, []byte{0, 0}, nil, nil, WithScorer(scorer), WithWorkers(4))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, calls.Load(), int64(xorcipher.KeySpace))
}

type cancellingScorer struct {
	after  int64
	calls  *atomic.Int64
	cancel context.CancelFunc
}

func (c cancellingScorer) Name() string { return "cancelling" }

func (c cancellingScorer) Score(_ []byte, _, _ *wordset.WordSet) int {
	if c.calls.Add(1) == c.after {
		c.cancel()
	}
	return 0
}

func TestSearchProgress(t *testing.T) {
	var mu sync.Mutex
	var calls []int
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 256, total)
		calls = append(calls, done)
	}

	Search([]byte{1, 2, 3}, nil, nil, WithProgress(progress))
	require.Len(t, calls, 256)
	assert.Equal(t, 1, calls[0])
	assert.Equal(t, 256, calls[255])

	calls = nil
	_, err := SearchContext(context.Background(), []byte{1, 2, 3}, nil, nil, WithProgress(progress), WithWorkers(8))
	require.NoError(t, err)
	require.Len(t, calls, 256)
	// Reports from concurrent workers arrive in increasing order
	for i, done := range calls {
		require.Equal(t, i+1, done, "report %d", i)
	}
}

func TestPartitionCoversAllRows(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 64, 255, 256} {
		next := 0
		for w := 0; w < n; w++ {
			from, to := partition(w, n)
			require.Equal(t, next, from, "n=%d w=%d", n, w)
			require.Greater(t, to, from, "n=%d w=%d", n, w)
			next = to
		}
		assert.Equal(t, Rows, next, "n=%d", n)
	}
}

func BenchmarkSearch(b *testing.B) {
	dictionary, common := testWordSets()
	ct := xorcipher.Transform([]byte("the quick lazy brown fox jumps over the lazy dog"), xorcipher.Key{'k', 'y'})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Search(ct, dictionary, common)
	}
}

func BenchmarkSearchContext(b *testing.B) {
	dictionary, common := testWordSets()
	ct := xorcipher.Transform([]byte("the quick lazy brown fox jumps over the lazy dog"), xorcipher.Key{'k', 'y'})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SearchContext(context.Background(), ct, dictionary, common)
	}
}
