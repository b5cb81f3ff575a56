package sapi

import "context"

// List payload member names used by the API's paginated endpoints.
const (
	collectionKey = "collection"
	nextHrefKey   = "next_href"
)

// Page wraps one page of a list query together with the means to fetch
// the next one. A Page owns no network resource; each FetchNextPage
// call creates a fresh Operation. The Response is a failure when the
// page could not be fetched or decoded, but the Page shape is preserved
// so callers inspect every outcome uniformly.
type Page[T any] struct {
	// Response holds the items of this page, or the error that
	// prevented fetching them.
	Response Result[[]T]

	ctx       context.Context
	client    *Client
	nextHref  string
	params    map[string]string
	parseItem func(Node) (T, bool)
}

// HasNextPage reports whether a next-page locator was present when this
// page was constructed.
func (p *Page[T]) HasNextPage() bool {
	return p.nextHref != ""
}

// FetchNextPage requests the page after this one, reusing the captured
// parameters and per-item parse function. It returns nil and never
// invokes the completion when there is no next page. The completion
// always receives a Page: fetch or decode failures are folded into the
// page's Response.
func (p *Page[T]) FetchNextPage(completion func(*Page[T])) *Operation {
	if !p.HasNextPage() {
		return nil
	}

	return fetchPage(p.ctx, p.client, p.nextHref, p.params, p.parseItem, completion)
}

// FetchList issues the initial request of a paginated list query and
// produces its first Page. The operation must be started by the caller.
func FetchList[T any](ctx context.Context, c *Client, rawURL string, params map[string]string, parseItem func(Node) (T, bool), completion func(*Page[T])) *Operation {
	return fetchPage(ctx, c, rawURL, params, parseItem, completion)
}

func fetchPage[T any](ctx context.Context, c *Client, rawURL string, params map[string]string, parseItem func(Node) (T, bool), completion func(*Page[T])) *Operation {
	req := &Request[*Page[T]]{
		URL:    rawURL,
		Method: MethodGet,
		Params: params,
		Parse:  parsePage(ctx, c, params, parseItem),
	}

	return Execute(ctx, c, req, func(result Result[*Page[T]]) {
		page, ok := result.Value()
		if !ok {
			page = &Page[T]{
				Response:  Failure[[]T](result.Err()),
				ctx:       ctx,
				client:    c,
				params:    params,
				parseItem: parseItem,
			}
		}

		completion(page)
	})
}

// parsePage decodes a list payload into a Page. The API delivers either
// a bare array or an object holding the items under "collection" with
// an optional "next_href" locator.
func parsePage[T any](ctx context.Context, c *Client, params map[string]string, parseItem func(Node) (T, bool)) func(Node) Result[*Page[T]] {
	return func(n Node) Result[*Page[T]] {
		collection := n
		nextHref := ""

		if _, bare := n.Nodes(); !bare {
			collection = n.Key(collectionKey)
			nextHref, _ = n.Key(nextHrefKey).String()
		}

		items, ok := MapNodes(collection, parseItem)
		if !ok {
			return Failure[*Page[T]](&DecodeError{Err: ErrNoCollection})
		}

		return Success(&Page[T]{
			Response:  Success(items),
			ctx:       ctx,
			client:    c,
			nextHref:  nextHref,
			params:    params,
			parseItem: parseItem,
		})
	}
}
