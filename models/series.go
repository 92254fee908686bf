package models

// Representation selects how a series is drawn.
type Representation int

const (
	// RepresentationLine is the continuous, cumulative line view.
	RepresentationLine Representation = iota + 1
	// RepresentationBar is the discrete, stacked (additive) bar view.
	RepresentationBar
)

func ParseRepresentation(s string) (Representation, bool) {
	switch s {
	case "", "line":
		return RepresentationLine, true
	case "bar":
		return RepresentationBar, true
	default:
		return 0, false
	}
}

func (r Representation) String() string {
	switch r {
	case RepresentationLine:
		return "line"
	case RepresentationBar:
		return "bar"
	default:
		return "unknown"
	}
}

// SeriesPoint is one value of a location series with its tooltip metadata.
// Present is false when the location has no row for the day.
type SeriesPoint struct {
	Day      int     `json:"day"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
	Value    float64 `json:"value"`
	Present  bool    `json:"present"`
}

type LocationSeries struct {
	Location string        `json:"location"`
	Points   []SeriesPoint `json:"points"`
}

// AxisLabels is the shared x-axis of every series in a SeriesSet.
type AxisLabels struct {
	Days  []int    `json:"days"`
	Dates []string `json:"dates"`
}

type SeriesSet struct {
	Statistic      string           `json:"statistic"`
	Label          string           `json:"label"`
	Representation string           `json:"representation"`
	Axis           AxisLabels       `json:"axis"`
	Series         []LocationSeries `json:"series"`
}

// Empty reports whether the set carries no series.
func (s SeriesSet) Empty() bool {
	return len(s.Series) == 0
}
