// Package view holds what the three explorer views share: the intents
// they emit and SVG format conversion.
//
// Each view lives in its own subpackage and derives a render model from the
// network and the current [selection.State]:
//
//   - [mapview]: the station map glyph with route highlight, drag to choose
//   - [scatter]: wait and transit times for the chosen pair
//   - [table]: per-line ridership with heat colours and row brushing
//
// Views never write shared state. User actions become calls on [Intents],
// which the explorer routes into the selection pipeline.
//
// [selection.State]: github.com/matzehuels/yourcommute/pkg/selection
// [mapview]: github.com/matzehuels/yourcommute/pkg/view/mapview
// [scatter]: github.com/matzehuels/yourcommute/pkg/view/scatter
// [table]: github.com/matzehuels/yourcommute/pkg/view/table
package view
