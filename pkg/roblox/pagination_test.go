package roblox_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloxkit/rbx-client/pkg/roblox"
)

// pagedSource serves a fixed sequence of pages keyed by cursor.
type pagedSource struct {
	pages map[string]*roblox.Page[int]
	calls int
	err   error
}

func (s *pagedSource) ListWithPath(ctx context.Context, path string, params *roblox.QueryParams) (*roblox.Page[int], error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	page, ok := s.pages[params.Cursor]
	if !ok {
		return &roblox.Page[int]{}, nil
	}

	return page, nil
}

func cursorPtr(cursor string) *string { return &cursor }

func threePages() *pagedSource {
	return &pagedSource{
		pages: map[string]*roblox.Page[int]{
			"":   {NextPageCursor: cursorPtr("c2"), Data: []int{1, 2}},
			"c2": {NextPageCursor: cursorPtr("c3"), Data: []int{3, 4}},
			"c3": {Data: []int{5}},
		},
	}
}

func TestPageIterator(t *testing.T) {
	t.Parallel()
	t.Run("walks every item across pages", func(t *testing.T) {
		t.Parallel()

		source := threePages()
		iterator := roblox.NewPageIterator[int](source, "/v1/things", nil)

		var items []int

		ctx := context.Background()
		for iterator.HasNext(ctx) {
			item, err := iterator.Next(ctx)
			require.NoError(t, err)

			items = append(items, item)
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
		assert.Equal(t, 3, source.calls)
		require.NoError(t, iterator.Err())
	})

	t.Run("exhausted iterator returns ErrNoMoreItems", func(t *testing.T) {
		t.Parallel()

		source := &pagedSource{pages: map[string]*roblox.Page[int]{
			"": {Data: []int{1}},
		}}
		iterator := roblox.NewPageIterator[int](source, "/v1/things", nil)

		ctx := context.Background()

		_, err := iterator.Next(ctx)
		require.NoError(t, err)

		_, err = iterator.Next(ctx)
		require.ErrorIs(t, err, roblox.ErrNoMoreItems)
	})

	t.Run("fetch error stops iteration", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("backend down")
		source := &pagedSource{err: wantErr}
		iterator := roblox.NewPageIterator[int](source, "/v1/things", nil)

		ctx := context.Background()

		assert.False(t, iterator.HasNext(ctx))
		require.ErrorIs(t, iterator.Err(), wantErr)

		_, err := iterator.Next(ctx)
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("All drains remaining items", func(t *testing.T) {
		t.Parallel()

		iterator := roblox.NewPageIterator[int](threePages(), "/v1/things", nil)

		ctx := context.Background()

		first, err := iterator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, first)

		rest, err := iterator.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3, 4, 5}, rest)
	})

	t.Run("ForEach stops at the callback error", func(t *testing.T) {
		t.Parallel()

		iterator := roblox.NewPageIterator[int](threePages(), "/v1/things", nil)

		wantErr := errors.New("enough")

		var seen []int

		err := iterator.ForEach(context.Background(), func(item int) error {
			seen = append(seen, item)
			if len(seen) == 3 {
				return wantErr
			}

			return nil
		})

		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("iterator does not mutate caller params", func(t *testing.T) {
		t.Parallel()

		params := roblox.NewQueryParams().WithLimit(2)
		iterator := roblox.NewPageIterator[int](threePages(), "/v1/things", params)

		_, err := iterator.All(context.Background())
		require.NoError(t, err)
		assert.Empty(t, params.Cursor)
	})
}

func TestFetchAllPages(t *testing.T) {
	t.Parallel()
	t.Run("collects everything", func(t *testing.T) {
		t.Parallel()

		items, err := roblox.FetchAllPages[int](context.Background(), threePages(), "/v1/things", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	})

	t.Run("MaxPages caps fetching", func(t *testing.T) {
		t.Parallel()

		source := threePages()

		items, err := roblox.FetchAllPages[int](context.Background(), source, "/v1/things", nil, &roblox.FetchAllPagesOptions{MaxPages: 2})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, items)
		assert.Equal(t, 2, source.calls)
	})

	t.Run("error carries partial results", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("backend down")
		source := &pagedSource{err: wantErr}

		_, err := roblox.FetchAllPages[int](context.Background(), source, "/v1/things", nil, nil)
		require.ErrorIs(t, err, wantErr)
	})
}

func TestStreamPages(t *testing.T) {
	t.Parallel()
	t.Run("delivers pages in order", func(t *testing.T) {
		t.Parallel()

		var pages [][]int

		for result := range roblox.StreamPages[int](context.Background(), threePages(), "/v1/things", nil) {
			require.NoError(t, result.Err)
			pages = append(pages, result.Items)
		}

		assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, pages)
	})

	t.Run("error delivered as final result", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("backend down")
		source := &pagedSource{err: wantErr}

		var results []roblox.PageResult[int]

		for result := range roblox.StreamPages[int](context.Background(), source, "/v1/things", nil) {
			results = append(results, result)
		}

		require.Len(t, results, 1)
		require.ErrorIs(t, results[0].Err, wantErr)
	})

	t.Run("cancellation closes the stream", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stream := roblox.StreamPages[int](ctx, threePages(), "/v1/things", nil)

		for range stream { //nolint:revive // drain until closed
		}
	})
}
