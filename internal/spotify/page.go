package spotify

import "context"

// PageFunc fetches one page of an offset-paginated collection.
type PageFunc[T any] func(ctx context.Context, limit, offset int) (*Paging[T], error)

// Drain walks a paginated collection from offset zero and collects every
// item, requesting pageSize items at a time.
//
// The offset advances by the number of items actually received rather than
// the nominal page size, so a short page never skips records. The walk stops
// when the envelope reports no next page, and also when a page comes back
// empty while still advertising one. Any fetch error aborts the walk and
// discards the items gathered so far.
func Drain[T any](ctx context.Context, pageSize int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	items := []T{}
	offset := 0
	for {
		page, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.Next == nil || len(page.Items) == 0 {
			return items, nil
		}
		offset += len(page.Items)
	}
}
