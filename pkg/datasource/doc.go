// Package datasource downloads the public data tables astroplot plots,
// caching them on disk and retrying transient failures.
//
// [Client.Fetch] goes through an [httputil.Cache] namespaced under
// "dataset:" and retries network errors, 5xx responses and 429s under the
// client's [httputil.RetryPolicy], honouring Retry-After. [Client.Open] prefers a local copy of the file and
// writes one after a download, mirroring the data/ directory layout the
// plotting commands use.
//
//	cache, _ := httputil.NewCache("", 0)
//	c := datasource.NewClient(cache, httputil.DefaultRetryPolicy())
//	body, err := c.Open(ctx, "data/mass16.txt", ame.DefaultURL, false)
package datasource
