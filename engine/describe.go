package engine

import (
	"fmt"
	"strings"

	"ga-covid-server/models"
)

// Selection is the state of the dashboard controls.
type Selection struct {
	Statistic      models.Statistic
	Range          DayRange
	Locations      []string
	Representation models.Representation
}

// DescribeSelection renders the confirmation line under the day slider. For a rate
// statistic in the bar view it explains why nothing is drawn instead.
func DescribeSelection(ds *Dataset, sel Selection) string {
	if sel.Representation == models.RepresentationBar && !BarAllowed(sel.Statistic) {
		return fmt.Sprintf("You have selected: %s which is only available as a line graph as it is based on an "+
			"average rather than a cumulative amount. Please switch to the Line Graph tab to view these stats.",
			sel.Statistic.Label())
	}
	r := sel.Range.Clamp(ds.MaxDay())
	first := r.StartExclusive + 1
	return fmt.Sprintf("You have selected: %s\nDates: %s - %s\nDays: %d - %d\nLocations: [%s]",
		sel.Statistic.Label(),
		ds.DateLabel(first), ds.DateLabel(r.EndInclusive),
		first, r.EndInclusive,
		strings.Join(sel.Locations, ", "))
}
