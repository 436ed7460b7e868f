// Package errs holds the typed errors shared by the domain, the application layer and
// the adapters of the canteen service.
//
// Every kind of failure is a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired, ErrVersionIsInvalid, ErrPermissionDenied,
// ErrRateLimited) paired with a struct carrying the details. The struct unwraps to its
// sentinel, so callers classify with errors.Is and read details with errors.As:
//
//	var limited *errs.RateLimitedError
//	if errors.As(err, &limited) {
//		retryIn(limited.RetryAfter)
//	}
//
// The HTTP adapter maps sentinels to status codes; nothing else inspects messages.
package errs
