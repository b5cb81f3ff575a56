package sapi

import "net/http"

// Session is the credential collaborator consumed by the core. The core
// never constructs or persists a session; it only asks whether one is
// active and triggers refresh. Refresh must invoke its completion
// exactly once, with nil on success.
type Session interface {
	HasActiveSession() bool
	Refresh(completion func(error))
}

// authInterceptor is the middleware layered around completion delivery.
// A 401 with an active session triggers refresh-then-retry; retryMax
// bounds the cycles per request, after which the failure surfaces as an
// AuthError instead of retrying without limit.
type authInterceptor struct {
	session  Session
	retryMax int
}

// intercept routes one response. forward(nil) delivers the parsed
// result, forward(err) replaces it with a terminal failure, and retry
// re-issues the identical request after a successful refresh. On the
// 401-with-session path the caller's completion is reached only through
// whatever the retried request eventually produces.
func (a *authInterceptor) intercept(status, attempt int, retry func(), forward func(error)) {
	if status != http.StatusUnauthorized || a.session == nil || !a.session.HasActiveSession() {
		forward(nil)

		return
	}

	if attempt >= a.retryMax {
		forward(&AuthError{Status: status})

		return
	}

	a.session.Refresh(func(err error) {
		if err != nil {
			forward(&AuthError{Status: status, Err: err})

			return
		}

		retry()
	})
}
