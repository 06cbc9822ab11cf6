// Package httputil provides HTTP helpers for the rollup fetchers.
//
//   - [Retry]: retry with exponential backoff for errors wrapped in
//     [RetryableError]
//   - [ProgressReader]: reports download progress as a percentage
//
// Wrap transient failures so Retry tries again:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Report progress while reading a body:
//
//	r := httputil.NewProgressReader(resp.Body, resp.ContentLength, func(pct int) {
//	    fmt.Printf("Loading... %d%%\n", pct)
//	})
package httputil
