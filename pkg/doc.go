// Package pkg provides the libraries behind the yourcommute explorer.
//
// # Overview
//
// yourcommute shows how long a trip between two stations of a transit
// network usually takes at each hour of the day. A station pair chosen on
// the map highlights the route, loads the origin's trip rollup and shows
// the line's ridership.
//
// # Architecture
//
//	network JSON files ──▶ [network] ──▶ [route] ──▶ [selection]
//	                                                    │
//	         [hashroute] ◀── permalink ── [explorer] ◀──┘
//	                                         │
//	            [rollup] ── fetch ──▶ [view/scatter], [view/mapview], [view/table]
//
// # Main Packages
//
// [network] - Immutable model joined from the six network files.
//
// [route] - Single-line path finding over the model's line paths.
//
// [selection] - Selection state, its pipeline and the generation sequencer
// that lets only the newest fetch reach the scatterplot.
//
// [hashroute] - "#your-commute.<from>.<to>" permalink encoding.
//
// [view] - Map, scatterplot and table views, plus SVG conversion.
//
// [explorer] - Wires the model, pipeline and views; [explorer.Loop] owns an
// explorer on one goroutine.
//
// [rollup] - Trip rollups from HTTP, a directory or MongoDB, behind a
// [cache].
//
// [server] - chi HTTP API with one explorer per [session].
//
// ## Infrastructure
//
// [cache] - File, Redis, in-memory and null caches with a shared key layout.
//
// [errors] - Coded errors and input validation.
//
// [httputil] - Retry with backoff and download progress.
//
// [observability] - Hooks for selection, fetch, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test -short ./pkg/...          # Skip Graphviz rendering
//	go test -run Example ./pkg/...    # Examples only
//
// [network]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/network
// [route]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/route
// [selection]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/selection
// [hashroute]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/hashroute
// [view]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/view
// [explorer]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/explorer
// [explorer.Loop]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/explorer#Loop
// [rollup]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/rollup
// [server]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/server
// [session]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/buildinfo
//
// [view/scatter]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/view/scatter
// [view/mapview]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/view/mapview
// [view/table]: https://pkg.go.dev/github.com/matzehuels/yourcommute/pkg/view/table
package pkg
