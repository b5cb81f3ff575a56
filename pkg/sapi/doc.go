// Package sapi is the request/response core underlying a client SDK for
// the Soundwave JSON web API: it constructs HTTP calls, navigates
// untyped JSON payloads safely, propagates success and failure as data,
// paginates list results, and transparently retries a request after
// refreshing an expired credential.
//
// # Overview
//
// Endpoint-specific calls (tracks, users, playlists, ...) are thin
// veneers over this package: a caller supplies a URL, a verb, optional
// parameters, and a parse function from Node to Result, and receives an
// Operation handle it must Start. Completions for every request of one
// Client are delivered on a single goroutine, so caller state mutated
// from a completion is never raced by another completion.
//
// Getting a client
//
//	import "github.com/soundwave-io/sapi-client/pkg/sapi"
//
//	func example() {
//	  cli, err := sapi.New(&sapi.Config{ClientID: "my-client-id"})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  req := &sapi.Request[string]{
//	    URL:    "https://api.example.com/tracks/13158665",
//	    Method: sapi.MethodGet,
//	    Parse: func(n sapi.Node) sapi.Result[string] {
//	      if title, ok := n.Key("title").String(); ok {
//	        return sapi.Success(title)
//	      }
//	      return sapi.Failure[string](&sapi.APIError{Status: 422, Message: "no title"})
//	    },
//	  }
//	  op := sapi.Execute(ctx, cli, req, func(r sapi.Result[string]) { /* branch on r */ })
//	  op.Start()
//	}
//
// # JSON navigation
//
// Node indexing never fails: a missing key or out-of-range index yields
// the empty node, and all typed extractors on the empty node report
// absent. Node.URL appends the client identifier as an authentication
// query parameter to every URL it produces.
//
// # Results and errors
//
// Every fallible outcome crosses the asynchronous boundary as a
// Result: success(T) or failure(error), never a raised panic. The error
// taxonomy is TransportError (no response), DecodeError (body missing
// or malformed), APIError (well-formed API failure built by a parse
// function), and AuthError (credential refresh exhausted). Helpers such
// as IsTransport, IsUnauthorized, and IsNotFound make branching easy.
//
// # Pagination
//
// List queries produce a Page, which knows whether a next page exists
// and how to fetch it with the same parameters and per-item parse
// function. Fetch failures are folded into the next Page's Response, so
// the caller handles every page uniformly.
//
// # Sessions
//
// A 401 response is routed through the auth-retry interceptor: if the
// configured Session is active, the session refreshes its credential
// and the identical request is retried once before an AuthError is
// surfaced. Without an active session the original result reaches the
// caller untouched.
package sapi
