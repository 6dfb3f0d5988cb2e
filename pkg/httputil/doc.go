// Package httputil provides the on-disk cache and retry helpers behind
// dataset downloads.
//
// # Caching
//
// [Cache] stores JSON-encoded values in the filesystem
// (~/.cache/astroplot/ by default) with a configurable TTL, so that large
// tables such as the AME mass file are downloaded once.
//
//	cache, err := httputil.NewCache("", 30*24*time.Hour)
//	datasets := cache.Namespace("dataset:")
//	var body []byte
//	if ok, _ := datasets.Get(url, &body); !ok {
//	    body = download(url)
//	    datasets.Set(url, body)
//	}
//
// Hits, misses and writes are reported to [observability.Cache] with the
// namespace as the key type.
//
// # Retry
//
// [Retry] re-runs an operation under a [RetryPolicy] while it fails with a
// [RetryableError], doubling the delay each time. Callers mark network
// failures, 5xx responses and 429s as retryable; a 429's Retry-After sets a
// minimum wait. Anything else fails immediately.
//
//	err := httputil.Retry(ctx, httputil.DefaultRetryPolicy(), func() error {
//	    return fetch(ctx, url)
//	})
//
// The cache can be cleared with `astroplot cache clear` or by deleting the
// cache directory.
package httputil
