package sapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	inthttp "github.com/soundwave-io/sapi-client/internal/http"
)

// Method is an HTTP verb accepted by the executor.
type Method string

// Supported verbs. GET serializes parameters into the query string;
// the others serialize them into a URL-encoded body.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Request describes one logical API call: where to send it, how, with
// which parameters, and how to turn the response JSON into a value.
// Requests are constructed per call and not reused.
type Request[T any] struct {
	URL    string
	Method Method
	Params map[string]string
	Parse  func(Node) Result[T]
}

// Execute prepares the network transfer for req and returns its
// operation handle. The transfer does not begin until Start is called
// on the handle. The completion always runs on the client's dispatcher
// goroutine and receives exactly what the parse function produced, a
// TransportError when no response was obtained, or a DecodeError when
// the body was missing or not valid JSON.
func Execute[T any](ctx context.Context, c *Client, req *Request[T], completion func(Result[T])) *Operation {
	op := &Operation{}
	op.begin = func() {
		go perform(ctx, c, req, completion, 0, op)
	}

	return op
}

// perform runs one transfer attempt and routes its response through the
// auth interceptor, which may schedule another attempt.
func perform[T any](ctx context.Context, c *Client, req *Request[T], completion func(Result[T]), attempt int, op *Operation) {
	target, body, err := requestURL(c, req)
	if err != nil {
		finish(c, op, completion, Failure[T](&TransportError{Err: err}))

		return
	}

	started := time.Now()

	resp, err := c.httpClient.Do(ctx, &inthttp.Request{
		Method: string(req.Method),
		URL:    target,
		Body:   body,
	})

	c.record(string(req.Method), req.URL, resp, err, time.Since(started))

	if err != nil {
		finish(c, op, completion, Failure[T](&TransportError{Err: err}))

		return
	}

	c.auth.intercept(resp.StatusCode, attempt,
		func() {
			go perform(ctx, c, req, completion, attempt+1, op)
		},
		func(authErr error) {
			if authErr != nil {
				finish(c, op, completion, Failure[T](authErr))

				return
			}

			finish(c, op, completion, parseResponse(c, resp, req.Parse))
		})
}

// requestURL builds the wire-level URL and body for a request. The
// client identifier always travels in the query string; caller
// parameters go into the query for GET and into the body otherwise.
func requestURL[T any](c *Client, req *Request[T]) (string, url.Values, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", nil, err
	}

	query := u.Query()
	query.Set(clientIDParam, c.env.clientID)

	var body url.Values

	if req.Method == MethodGet {
		for key, value := range req.Params {
			query.Set(key, value)
		}
	} else if len(req.Params) > 0 {
		body = url.Values{}
		for key, value := range req.Params {
			body.Set(key, value)
		}
	}

	u.RawQuery = query.Encode()

	return u.String(), body, nil
}

// parseResponse decodes the body and hands the Node to the parse
// function, forwarding its Result unchanged.
func parseResponse[T any](c *Client, resp *inthttp.Response, parse func(Node) Result[T]) Result[T] {
	if len(resp.Body) == 0 {
		return Failure[T](&DecodeError{Err: ErrEmptyResponseBody})
	}

	node, err := c.DecodeNode(resp.Body)
	if err != nil {
		return Failure[T](&DecodeError{Err: err})
	}

	return parse(node)
}

// finish routes a result through the operation's suspension gate onto
// the client's delivery goroutine.
func finish[T any](c *Client, op *Operation, completion func(Result[T]), result Result[T]) {
	op.deliver(func() {
		c.dispatch(func() {
			completion(result)
		})
	})
}
