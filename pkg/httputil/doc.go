// Package httputil provides HTTP helpers shared by the platform API client.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a transient error. Only
// errors wrapped in [RetryableError] are retried; everything else returns
// immediately. The delay doubles after every failed attempt and the loop
// stops early when the context is cancelled.
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// [IsRetryableStatus] classifies HTTP status codes: 5xx and 429 are
// transient, everything else is final.
//
// The API client only retries idempotent reads. Writes (anchor updates,
// key creation) are attempted exactly once so that a timed-out request is
// never replayed against the platform.
package httputil
