package movies

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(ids ...string) func() string {
	var i int
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestMemStore_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	created, err := s.Create(ctx, "Dune", "Villeneuve")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestMemStore_GetMissing(t *testing.T) {
	_, err := NewMemStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(WithIDFunc(seqIDs("c", "a", "b")))

	for _, title := range []string{"Alien", "Blade Runner", "Heat"} {
		_, err := s.Create(ctx, title, "someone")
		require.NoError(t, err)
	}

	want := []Movie{
		{ID: "c", Title: "Alien", Director: "someone"},
		{ID: "a", Title: "Blade Runner", Director: "someone"},
		{ID: "b", Title: "Heat", Director: "someone"},
	}

	for i := 0; i < 3; i++ {
		got, err := s.List(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("List() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMemStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	m, err := s.Create(ctx, "Alien", "Scott")
	require.NoError(t, err)

	got, err := s.List(ctx)
	require.NoError(t, err)
	got[0].Title = "changed"

	stored, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alien", stored.Title)
}

func TestMemStore_ListEmptyIsNotNil(t *testing.T) {
	got, err := NewMemStore().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemStore_CreateRedrawsCollidingID(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(WithIDFunc(seqIDs("dup", "dup", "fresh")))

	first, err := s.Create(ctx, "a", "x")
	require.NoError(t, err)
	second, err := s.Create(ctx, "b", "y")
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestMemStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	m, err := s.Create(ctx, "Dune", "Villeneuve")
	require.NoError(t, err)

	updated, err := s.Update(ctx, m.ID, "Dune Part Two", "Villeneuve")
	require.NoError(t, err)
	assert.Equal(t, Movie{ID: m.ID, Title: "Dune Part Two", Director: "Villeneuve"}, updated)

	got, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestMemStore_UpdateMissingLeavesCollection(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.Create(ctx, "Alien", "Scott")
	require.NoError(t, err)
	before, err := s.List(ctx)
	require.NoError(t, err)

	_, err = s.Update(ctx, "missing", "x", "y")
	require.ErrorIs(t, err, ErrNotFound)

	after, err := s.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("collection changed (-before +after):\n%s", diff)
	}
}

func TestMemStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	var ids []string
	for i := 0; i < 3; i++ {
		m, err := s.Create(ctx, fmt.Sprintf("m%d", i), "d")
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	require.NoError(t, s.Delete(ctx, ids[1]))

	_, err := s.Get(ctx, ids[1])
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[2]}, []string{got[0].ID, got[1].ID})

	assert.ErrorIs(t, s.Delete(ctx, ids[1]), ErrNotFound)
}

func TestMemStore_ConcurrentCreatesAreUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	const workers, perWorker = 16, 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.Create(ctx, "t", "d")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, workers*perWorker)

	seen := make(map[string]struct{}, len(all))
	for _, m := range all {
		_, dup := seen[m.ID]
		require.False(t, dup, "duplicate id %s", m.ID)
		seen[m.ID] = struct{}{}
	}
}
