package marketplace

import "context"

// DefaultMaxPages caps a walk when the caller passes no limit.
const DefaultMaxPages = 1000

// Walk reports how far a paginated read got.
type Walk struct {
	Pages    int
	Items    int
	Complete bool
	Err      error
}

// FetchFunc loads one page, zero-based.
type FetchFunc[T any] func(ctx context.Context, page, size int) (Page[T], error)

// WalkPages requests pages in order from 0 and hands each page to visit. It
// stops after a short or empty page, on the first fetch error or when
// maxPages is reached. A walk that stopped for any reason other than running
// out of data is not Complete.
func WalkPages[T any](ctx context.Context, size, maxPages int, fetch FetchFunc[T], visit func(page int, items []T) error) Walk {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	var w Walk
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			w.Err = err
			return w
		}
		p, err := fetch(ctx, page, size)
		if err != nil {
			w.Err = err
			return w
		}
		w.Pages++
		if len(p.Content) == 0 {
			w.Complete = true
			return w
		}
		if err := visit(page, p.Content); err != nil {
			w.Err = err
			return w
		}
		w.Items += len(p.Content)
		if len(p.Content) < size || (p.TotalPages > 0 && page+1 >= p.TotalPages) {
			w.Complete = true
			return w
		}
	}
	return w
}

// AllOrders reads every order page for creds.
func (c *Client) AllOrders(ctx context.Context, creds Credentials, size int) ([]Order, Walk) {
	var out []Order
	w := WalkPages(ctx, size, 0, func(ctx context.Context, page, size int) (Page[Order], error) {
		return c.Orders(ctx, creds, PageQuery{Page: page, Size: size, OrderByField: "PackageLastModifiedDate", OrderByDirection: "DESC"})
	}, func(_ int, items []Order) error {
		out = append(out, items...)
		return nil
	})
	return out, w
}

// AllProducts reads every product page for creds.
func (c *Client) AllProducts(ctx context.Context, creds Credentials, size int) ([]Product, Walk) {
	var out []Product
	w := WalkPages(ctx, size, 0, func(ctx context.Context, page, size int) (Page[Product], error) {
		return c.Products(ctx, creds, PageQuery{Page: page, Size: size})
	}, func(_ int, items []Product) error {
		out = append(out, items...)
		return nil
	})
	return out, w
}
