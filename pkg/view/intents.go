package view

// Intents receives user actions from the views.
type Intents interface {
	// StationPairChosen is emitted when a drag (or two taps) on the map
	// ends on a second station.
	StationPairChosen(from, to string)

	// LineClicked is emitted when a station or link on the map is clicked.
	LineClicked(line string)

	// RowRangeDragged is emitted when a table brush is committed.
	RowRangeDragged(ids []string)
}

// IntentFuncs adapts plain functions to Intents. Nil fields are ignored.
type IntentFuncs struct {
	OnStationPairChosen func(from, to string)
	OnLineClicked       func(line string)
	OnRowRangeDragged   func(ids []string)
}

func (f IntentFuncs) StationPairChosen(from, to string) {
	if f.OnStationPairChosen != nil {
		f.OnStationPairChosen(from, to)
	}
}

func (f IntentFuncs) LineClicked(line string) {
	if f.OnLineClicked != nil {
		f.OnLineClicked(line)
	}
}

func (f IntentFuncs) RowRangeDragged(ids []string) {
	if f.OnRowRangeDragged != nil {
		f.OnRowRangeDragged(ids)
	}
}

var _ Intents = IntentFuncs{}
