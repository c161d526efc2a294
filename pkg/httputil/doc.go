// Package httputil provides the HTTP client plumbing used to fetch remote
// assets such as branding logos.
//
// # Fetching
//
// [Fetch] issues a GET with the shadowboard User-Agent and returns the
// body. Transient failures are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other non-200 responses fail immediately with a [StatusError].
//
// # Retry
//
// [Retry] runs any operation with exponential backoff, retrying only
// errors wrapped in [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
package httputil
