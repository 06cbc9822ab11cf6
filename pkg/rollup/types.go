// Package rollup loads the per-origin trip statistics that back the
// scatterplot.
//
// One rollup file exists per origin station. It maps every reachable
// destination to hourly percentile bands and raw observations:
//
//	{
//	  "place-sstat": {
//	    "result":  [[7.5, [9, 11, 14], [2, 4, 7]], ...],
//	    "actuals": [[7.52, 10.8, 3.1], ...]
//	  }
//	}
//
// Sources implement [Loader]:
//
//   - [HTTPSource]: GET <base>/upick2-weekday-rollup-<from>.json with
//     progress reporting and retry
//   - [DirSource]: the same files on local disk
//   - [MongoSource]: one document per origin in a MongoDB collection
//
// Wrap any source with [Cached] to reuse results through a [cache.Cache].
package rollup

import (
	"context"
	"encoding/json"
	"fmt"
)

// Loader fetches the rollup file for an origin station. progress, when
// non-nil, receives percentages in [0, 100] as the payload arrives.
type Loader interface {
	Load(ctx context.Context, from string, progress func(pct int)) (File, error)
}

// FileName returns the rollup file name for an origin station.
func FileName(from string) string {
	return "upick2-weekday-rollup-" + from + ".json"
}

// File maps destination station ID to the statistics for that pair.
type File map[string]Pair

// Pair holds the statistics for one origin/destination pair.
type Pair struct {
	Result  []Band   `json:"result" bson:"result"`
	Actuals []Actual `json:"actuals" bson:"actuals"`
}

// Band summarises one hour of trips with 10th, 50th and 90th percentiles
// of transit and wait minutes. Hour is fractional (17.5 is 5:30 pm).
type Band struct {
	Hour    float64    `bson:"hour"`
	Transit [3]float64 `bson:"transit"`
	Wait    [3]float64 `bson:"wait"`
}

// Defined reports whether the band is inside service hours and may be
// drawn. Hour zero marks padding rows.
func (b Band) Defined() bool {
	return b.Hour != 0 && b.Hour >= 5 && b.Hour < 24.5
}

// UnmarshalJSON decodes [hour, [t10, t50, t90], [w10, w50, w90]].
func (b *Band) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("band: want 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &b.Hour); err != nil {
		return fmt.Errorf("band hour: %w", err)
	}
	if err := json.Unmarshal(raw[1], &b.Transit); err != nil {
		return fmt.Errorf("band transit: %w", err)
	}
	if err := json.Unmarshal(raw[2], &b.Wait); err != nil {
		return fmt.Errorf("band wait: %w", err)
	}
	return nil
}

// MarshalJSON encodes the band in its array form.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{b.Hour, b.Transit, b.Wait})
}

// Actual is one observed trip: departure hour, minutes in transit, and
// minutes waited on the platform.
type Actual struct {
	Hour    float64 `bson:"hour"`
	Transit float64 `bson:"transit"`
	Wait    float64 `bson:"wait"`
}

// UnmarshalJSON decodes [hour, transit, wait].
func (a *Actual) UnmarshalJSON(data []byte) error {
	var v [3]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.Hour, a.Transit, a.Wait = v[0], v[1], v[2]
	return nil
}

// MarshalJSON encodes the observation in its array form.
func (a Actual) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{a.Hour, a.Transit, a.Wait})
}

// Decode parses a rollup file.
func Decode(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}
