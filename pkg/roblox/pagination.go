package roblox

import (
	"context"
	"fmt"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// PageClient fetches one page of a cursor-paged listing. Resource
// clients implement it for each listing endpoint; PageFunc adapts a
// bound method.
type PageClient[T any] interface {
	ListWithPath(ctx context.Context, path string, params *QueryParams) (*Page[T], error)
}

// PageFunc adapts a page-fetching function to PageClient. The path
// argument is ignored; the function is already bound to an endpoint.
type PageFunc[T any] func(ctx context.Context, params *QueryParams) (*Page[T], error)

// ListWithPath implements PageClient.
func (f PageFunc[T]) ListWithPath(ctx context.Context, _ string, params *QueryParams) (*Page[T], error) {
	return f(ctx, params)
}

// PageIterator walks a cursor-paged listing item by item, fetching
// pages on demand. It is not safe for concurrent use.
type PageIterator[T any] struct {
	client  PageClient[T]
	path    string
	params  *QueryParams
	current *Page[T]
	index   int
	fetched bool
	done    bool
	err     error
}

// NewPageIterator creates an iterator over the listing at path.
func NewPageIterator[T any](client PageClient[T], path string, params *QueryParams) *PageIterator[T] {
	return &PageIterator[T]{
		client: client,
		path:   path,
		params: params.Clone(),
	}
}

func (it *PageIterator[T]) fetch(ctx context.Context) {
	page, err := it.client.ListWithPath(ctx, it.path, it.params)
	if err != nil {
		it.err = fmt.Errorf("fetching page: %w", err)
		it.done = true

		return
	}

	it.current = page
	it.index = 0
	it.fetched = true

	if !page.HasNextPage() && len(page.Data) == 0 {
		it.done = true
	}
}

func (it *PageIterator[T]) advance(ctx context.Context) {
	if !it.fetched {
		it.fetch(ctx)

		return
	}

	if it.current == nil || !it.current.HasNextPage() {
		it.done = true

		return
	}

	it.params.Cursor = *it.current.NextPageCursor
	it.fetch(ctx)
}

// HasNext reports whether another item is available, fetching the
// next page if the current one is exhausted.
func (it *PageIterator[T]) HasNext(ctx context.Context) bool {
	for !it.done && it.err == nil {
		if it.current != nil && it.index < len(it.current.Data) {
			return true
		}

		it.advance(ctx)
	}

	return false
}

// Next returns the next item. It returns ErrNoMoreItems once the
// listing is exhausted, or the fetch error that stopped iteration.
func (it *PageIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if !it.HasNext(ctx) {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.current.Data[it.index]
	it.index++

	return item, nil
}

// Err returns the error that stopped iteration, if any.
func (it *PageIterator[T]) Err() error {
	return it.err
}

// All drains the iterator and returns every remaining item.
func (it *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var items []T

	for it.HasNext(ctx) {
		item, err := it.Next(ctx)
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	if it.err != nil {
		return items, it.err
	}

	return items, nil
}

// ForEach applies fn to every remaining item. Iteration stops at the
// first error from fn or from a page fetch.
func (it *PageIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for it.HasNext(ctx) {
		item, err := it.Next(ctx)
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return it.err
}

// FetchAllPagesOptions bounds FetchAllPages.
type FetchAllPagesOptions struct {
	// MaxPages caps the number of pages fetched. Zero means no cap.
	MaxPages int

	// PageSize overrides the per-page limit.
	PageSize int
}

// FetchAllPages collects every item from a cursor-paged listing.
func FetchAllPages[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams, opts *FetchAllPagesOptions) ([]T, error) {
	params = params.Clone()

	if opts != nil && opts.PageSize > 0 {
		params.Limit = opts.PageSize
	}

	if params.Limit == 0 {
		params.Limit = constants.DefaultPageSize
	}

	var items []T

	pages := 0

	for {
		page, err := client.ListWithPath(ctx, path, params)
		if err != nil {
			return items, fmt.Errorf("fetching page %d: %w", pages+1, err)
		}

		items = append(items, page.Data...)
		pages++

		if !page.HasNextPage() {
			return items, nil
		}

		if opts != nil && opts.MaxPages > 0 && pages >= opts.MaxPages {
			return items, nil
		}

		params.Cursor = *page.NextPageCursor
	}
}

// PageResult is one page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages sequentially and delivers each one on the
// returned channel. The channel is closed after the last page, an
// error, or context cancellation; an error is delivered as the final
// result.
func StreamPages[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams) <-chan PageResult[T] {
	results := make(chan PageResult[T], constants.SmallBufferSize)

	go func() {
		defer close(results)

		params := params.Clone()
		if params.Limit == 0 {
			params.Limit = constants.DefaultPageSize
		}

		for {
			page, err := client.ListWithPath(ctx, path, params)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: page.Data}:
			case <-ctx.Done():
				return
			}

			if !page.HasNextPage() {
				return
			}

			params.Cursor = *page.NextPageCursor
		}
	}()

	return results
}
