package sequence

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscore/internal/core/apperror"
)

// memRepo is an in-memory Repository for unit tests. CompareAndSwap can be
// forced to fail a number of times to simulate write conflicts.
type memRepo struct {
	mu        sync.Mutex
	counters  map[Kind]*Counter
	failSwaps int
}

func newMemRepo(counters ...*Counter) *memRepo {
	r := &memRepo{counters: make(map[Kind]*Counter)}
	for _, c := range counters {
		clone := *c
		r.counters[c.Kind] = &clone
	}
	return r
}

func (r *memRepo) Get(ctx context.Context, kind Kind) (*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[kind]
	if !ok {
		return nil, apperror.NewNotFound("sequence_counter", string(kind))
	}
	clone := *c
	return &clone, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, kind Kind) (*Counter, error) {
	// Transaction-level serialization is provided by memTxManager.
	return r.Get(ctx, kind)
}

func (r *memRepo) Update(ctx context.Context, c *Counter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.counters[c.Kind]; !ok {
		return apperror.NewNotFound("sequence_counter", string(c.Kind))
	}
	clone := *c
	r.counters[c.Kind] = &clone
	return nil
}

func (r *memRepo) CompareAndSwap(ctx context.Context, c *Counter) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSwaps > 0 {
		r.failSwaps--
		return false, nil
	}
	stored, ok := r.counters[c.Kind]
	if !ok {
		return false, apperror.NewNotFound("sequence_counter", string(c.Kind))
	}
	if stored.Version != c.Version {
		return false, nil
	}
	clone := *c
	clone.Version++
	r.counters[c.Kind] = &clone
	c.Version = clone.Version
	return true, nil
}

func (r *memRepo) Create(ctx context.Context, c *Counter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.counters[c.Kind]; ok {
		return apperror.NewDuplicate("sequence_counter", "kind", string(c.Kind))
	}
	clone := *c
	r.counters[c.Kind] = &clone
	return nil
}

func (r *memRepo) List(ctx context.Context) ([]*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Counter, 0, len(r.counters))
	for _, c := range r.counters {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memRepo) stored(kind Kind) Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.counters[kind]
}

// memTxManager serializes transactions with a single mutex, mimicking the
// row lock held for the duration of the read-increment-write.
type memTxManager struct {
	mu sync.Mutex
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func newAllocator(repo *memRepo) *Allocator {
	return NewAllocator(repo, &memTxManager{})
}

func numericPart(t *testing.T, formatted, prefix, suffix string) uint64 {
	t.Helper()
	s := strings.TrimPrefix(formatted, prefix)
	s = strings.TrimSuffix(s, suffix)
	n, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err, "numeric portion of %q", formatted)
	return n
}

func TestAllocate_Padding(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindInvoice, Padding: 6, ResetFrequency: ResetNever, Version: 1})
	a := newAllocator(repo)

	got, err := a.Allocate(context.Background(), KindInvoice, nil)
	require.NoError(t, err)
	assert.Equal(t, "000001", got)
}

func TestAllocate_PrefixSuffixComposition(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindStudentID, Prefix: "STU-", Padding: 6, ResetFrequency: ResetNever, Version: 1})
	a := newAllocator(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := a.Allocate(ctx, KindStudentID, nil)
		require.NoError(t, err)
	}

	got, err := a.Allocate(ctx, KindStudentID, nil)
	require.NoError(t, err)
	assert.Equal(t, "STU-000006", got)
}

func TestAllocate_UnknownKind(t *testing.T) {
	a := newAllocator(newMemRepo())

	_, err := a.Allocate(context.Background(), KindReceipt, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAllocate_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	const callers = 100

	repo := newMemRepo(&Counter{Kind: KindReceipt, Prefix: "RCP", Padding: 6, ResetFrequency: ResetNever, Version: 1})
	a := newAllocator(repo)
	ctx := context.Background()

	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.Allocate(ctx, KindReceipt, nil)
			if err != nil {
				t.Errorf("allocate: %v", err)
				return
			}
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, callers)
	for got := range results {
		require.False(t, seen[got], "number %q issued twice", got)
		seen[got] = true
		n := numericPart(t, got, "RCP", "")
		assert.True(t, n >= 1 && n <= callers)
	}
	assert.Len(t, seen, callers)
	assert.Equal(t, uint64(callers), repo.stored(KindReceipt).LastNumber)
}

func TestAllocate_YearlyResetBoundary(t *testing.T) {
	lastYear := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	repo := newMemRepo(&Counter{
		Kind:            KindInvoice,
		Prefix:          "INV",
		Padding:         6,
		ResetFrequency:  ResetYearly,
		LastNumber:      120,
		LastAllocatedAt: &lastYear,
		Version:         1,
	})
	a := newAllocator(repo)
	a.now = func() time.Time { return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC) }

	got, err := a.Allocate(context.Background(), KindInvoice, nil)
	require.NoError(t, err)
	assert.Equal(t, "INV000001", got)
}

func TestAllocate_NoResetWithinPeriod(t *testing.T) {
	earlier := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	repo := newMemRepo(&Counter{
		Kind:            KindReceipt,
		Padding:         4,
		ResetFrequency:  ResetMonthly,
		LastNumber:      42,
		LastAllocatedAt: &earlier,
		Version:         1,
	})
	a := newAllocator(repo)
	a.now = func() time.Time { return time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC) }

	got, err := a.Allocate(context.Background(), KindReceipt, nil)
	require.NoError(t, err)
	assert.Equal(t, "0043", got)
}

func TestAllocate_FreshCounterDoesNotReset(t *testing.T) {
	// A counter that never allocated keeps its seeded LastNumber even when
	// the reset frequency is set.
	repo := newMemRepo(&Counter{Kind: KindEmployeeID, Padding: 3, ResetFrequency: ResetDaily, LastNumber: 7, Version: 1})
	a := newAllocator(repo)

	got, err := a.Allocate(context.Background(), KindEmployeeID, nil)
	require.NoError(t, err)
	assert.Equal(t, "008", got)
}

func TestAllocate_OptimisticRetrySingleIncrement(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindLibraryBook, Prefix: "LB", Padding: 5, ResetFrequency: ResetNever, Version: 1})
	repo.failSwaps = 1 // first write conflicts, retry must succeed
	a := newAllocator(repo)

	got, err := a.Allocate(context.Background(), KindLibraryBook, &Options{Mode: ModeOptimistic})
	require.NoError(t, err)
	assert.Equal(t, "LB00001", got)
	assert.Equal(t, uint64(1), repo.stored(KindLibraryBook).LastNumber, "exactly one increment persisted")
}

func TestAllocate_RetryBudgetExhausted(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindTransportBus, Padding: 4, ResetFrequency: ResetNever, LastNumber: 9, Version: 1})
	repo.failSwaps = 100
	a := newAllocator(repo)

	_, err := a.Allocate(context.Background(), KindTransportBus, &Options{Mode: ModeOptimistic, MaxRetries: 3})
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.Equal(t, uint64(9), repo.stored(KindTransportBus).LastNumber, "failed allocation must not increment")
}

func TestPeek_DoesNotAdvanceCounter(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindInvoice, Padding: 6, ResetFrequency: ResetNever, LastNumber: 55, Version: 1})
	a := newAllocator(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c, err := a.Peek(ctx, KindInvoice)
		require.NoError(t, err)
		assert.Equal(t, uint64(55), c.LastNumber)
	}
	assert.Equal(t, uint64(55), repo.stored(KindInvoice).LastNumber)
}

func TestSetLast_NextAllocationContinues(t *testing.T) {
	repo := newMemRepo(&Counter{Kind: KindStudentID, Prefix: "STU-", Padding: 4, ResetFrequency: ResetNever, Version: 1})
	a := newAllocator(repo)
	ctx := context.Background()

	require.NoError(t, a.SetLast(ctx, KindStudentID, 500))

	got, err := a.Allocate(ctx, KindStudentID, nil)
	require.NoError(t, err)
	assert.Equal(t, "STU-0501", got)
}

func TestEnsure_CreatesOnceAndValidates(t *testing.T) {
	repo := newMemRepo()
	a := newAllocator(repo)
	ctx := context.Background()

	c := NewCounter(KindInvoice)
	c.Prefix = "INV"
	require.NoError(t, a.Ensure(ctx, c))

	// Second Ensure is a no-op; the stored counter keeps its state.
	_, err := a.Allocate(ctx, KindInvoice, nil)
	require.NoError(t, err)
	require.NoError(t, a.Ensure(ctx, c))
	assert.Equal(t, uint64(1), repo.stored(KindInvoice).LastNumber)

	bad := NewCounter(KindReceipt)
	bad.Padding = 11
	err = a.Ensure(ctx, bad)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCounterFormat(t *testing.T) {
	tests := []struct {
		name    string
		counter Counter
		n       uint64
		want    string
	}{
		{"pad only", Counter{Padding: 6}, 1, "000001"},
		{"prefix", Counter{Prefix: "EMP-", Padding: 4}, 23, "EMP-0023"},
		{"suffix", Counter{Padding: 3, Suffix: "/26"}, 9, "009/26"},
		{"overflow width", Counter{Padding: 2}, 12345, "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counter.Format(tt.n))
		})
	}
}

func TestPeriodStart(t *testing.T) {
	at := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), periodStart(ResetYearly, at))
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), periodStart(ResetMonthly, at))
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), periodStart(ResetDaily, at))
	assert.True(t, periodStart(ResetNever, at).IsZero())
}

func TestAllocate_KindsDoNotInterfere(t *testing.T) {
	repo := newMemRepo(
		&Counter{Kind: KindInvoice, Prefix: "INV", Padding: 4, ResetFrequency: ResetNever, Version: 1},
		&Counter{Kind: KindReceipt, Prefix: "RCP", Padding: 4, ResetFrequency: ResetNever, Version: 1},
	)
	a := newAllocator(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := a.Allocate(ctx, KindInvoice, nil); err != nil {
				t.Errorf("invoice allocate: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := a.Allocate(ctx, KindReceipt, nil); err != nil {
				t.Errorf("receipt allocate: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(20), repo.stored(KindInvoice).LastNumber)
	assert.Equal(t, uint64(20), repo.stored(KindReceipt).LastNumber)
}
