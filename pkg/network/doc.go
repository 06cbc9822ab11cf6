// Package network holds the in-memory transit network: stations, the links
// between them, and the precomputed line paths used for route lookup.
//
// # Construction
//
// A [Model] is built once from six joined sources and is immutable
// afterwards:
//
//   - station-network.json: nodes and index-referenced links
//   - spider.json: spider-map coordinates keyed by station ID
//   - station-paths.json: ordered station ID sequences, one per line route
//   - alerts.json: most common alert keyed by line (case-insensitive)
//   - delaytimes.json: average delay keyed by station ID
//   - peak_time_ridership.json: weekday/weekend boardings keyed by station ID
//
// Use [LoadDir] to read a data directory, or [Build] when the documents are
// already decoded:
//
//	m, err := network.LoadDir(ctx, "data")
//	if errors.Is(err, errors.ErrCodeMalformedNetwork) {
//	    // abort startup
//	}
//
// # Defaults
//
// Stations missing from the delay, alert or ridership sources get zero-value
// records, never nil, so views format them without presence checks.
//
// # Concurrency
//
// A Model is read-only and may be shared by any number of goroutines.
package network
