package marketplace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullPages(n, size int, failAt int) FetchFunc[int] {
	return func(_ context.Context, page, sz int) (Page[int], error) {
		if page == failAt {
			return Page[int]{}, errors.New("boom")
		}
		if page >= n {
			return Page[int]{}, nil
		}
		items := make([]int, size)
		for i := range items {
			items[i] = page*size + i
		}
		return Page[int]{Content: items, Page: page, Size: sz}, nil
	}
}

func TestWalkPagesStopsOnEmptyPage(t *testing.T) {
	var seen []int
	w := WalkPages(context.Background(), 3, 0, fullPages(2, 3, -1), func(_ int, items []int) error {
		seen = append(seen, items...)
		return nil
	})
	assert.True(t, w.Complete)
	assert.NoError(t, w.Err)
	assert.Equal(t, 3, w.Pages)
	assert.Equal(t, 6, w.Items)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seen)
}

func TestWalkPagesStopsOnShortPage(t *testing.T) {
	fetch := func(_ context.Context, page, size int) (Page[int], error) {
		if page == 0 {
			return Page[int]{Content: []int{1, 2, 3}}, nil
		}
		return Page[int]{Content: []int{4}}, nil
	}
	w := WalkPages(context.Background(), 3, 0, fetch, func(int, []int) error { return nil })
	assert.True(t, w.Complete)
	assert.Equal(t, 2, w.Pages)
	assert.Equal(t, 4, w.Items)
}

func TestWalkPagesPartialOnError(t *testing.T) {
	w := WalkPages(context.Background(), 2, 0, fullPages(5, 2, 2), func(int, []int) error { return nil })
	assert.False(t, w.Complete)
	assert.EqualError(t, w.Err, "boom")
	assert.Equal(t, 2, w.Pages)
	assert.Equal(t, 4, w.Items)
}

func TestWalkPagesHonoursMaxPages(t *testing.T) {
	w := WalkPages(context.Background(), 1, 3, fullPages(10, 1, -1), func(int, []int) error { return nil })
	assert.False(t, w.Complete)
	assert.NoError(t, w.Err)
	assert.Equal(t, 3, w.Items)
}

func TestWalkPagesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := WalkPages(ctx, 1, 0, fullPages(10, 1, -1), func(int, []int) error { return nil })
	assert.False(t, w.Complete)
	assert.ErrorIs(t, w.Err, context.Canceled)
}
