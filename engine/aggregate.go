package engine

import (
	"fmt"
	"math"
	"strconv"

	"ga-covid-server/models"
)

// Summarize computes the key figures of an all-columns RowSet at referenceDay.
//
// Totals are summed over the rows at referenceDay, increases over every row of the
// window. Average rates are summed at referenceDay and divided by selectionSize, the
// number of selected locations, never by the number of rows. A rate is left nil when the
// total gating it (cases for infections, deaths for fatality) is zero.
func Summarize(rs RowSet, referenceDay, selectionSize int) (models.KeyFigures, error) {
	if rs.dataset == nil {
		return models.KeyFigures{}, fmt.Errorf("%w: row set was not produced by Filter", ErrConfiguration)
	}
	if err := rs.admits(AllColumns{}); err != nil {
		return models.KeyFigures{}, err
	}
	if selectionSize <= 0 {
		return models.KeyFigures{}, fmt.Errorf("%w: selection size %d", ErrConfiguration, selectionSize)
	}
	if !rs.rng.Contains(referenceDay) {
		return models.KeyFigures{}, fmt.Errorf("%w: reference day %d outside (%d, %d]",
			ErrInvalidRange, referenceDay, rs.rng.StartExclusive, rs.rng.EndInclusive)
	}

	kf := models.KeyFigures{
		ReferenceDay:  referenceDay,
		AsOfDate:      rs.dataset.DateLabel(referenceDay),
		SinceDate:     rs.dataset.DateLabel(max(rs.rng.StartExclusive, 1)),
		SelectionSize: selectionSize,
	}

	var infectionSum, fatalitySum float64
	for _, r := range rs.rows {
		kf.CaseIncrease += r.NewCaseDelta
		kf.DeathIncrease += r.NewDeathDelta
		if r.Day != referenceDay {
			continue
		}
		kf.TotalCasesAtReference += r.TotalCases
		kf.TotalDeathsAtReference += r.TotalDeaths
		infectionSum += r.InfectionPer100k
		fatalitySum += r.FatalityRate * 100
	}

	n := float64(selectionSize)
	if kf.TotalCasesAtReference != 0 {
		v := infectionSum / n
		kf.AverageInfectionRate = &v
	}
	if kf.TotalDeathsAtReference != 0 {
		v := fatalitySum / n
		kf.AverageFatalityRatePct = &v
	}
	return kf, nil
}

// KeyFiguresText is KeyFigures formatted for the summary boxes.
type KeyFiguresText struct {
	Cases         string `json:"cases"`
	Deaths        string `json:"deaths"`
	Infection     string `json:"infection"`
	Fatality      string `json:"fatality"`
	CaseIncrease  string `json:"case_increase"`
	DeathIncrease string `json:"death_increase"`
	AsOf          string `json:"as_of"`
	Since         string `json:"since"`
}

// FormatKeyFigures renders counts with thousands separators, the infection rate rounded
// to a whole number and the fatality rate as a percentage with two decimals.
// Undefined rates render as "N/A".
func FormatKeyFigures(kf models.KeyFigures) KeyFiguresText {
	t := KeyFiguresText{
		Cases:         FormatCount(kf.TotalCasesAtReference),
		Deaths:        FormatCount(kf.TotalDeathsAtReference),
		Infection:     "N/A",
		Fatality:      "N/A",
		CaseIncrease:  FormatCount(kf.CaseIncrease),
		DeathIncrease: FormatCount(kf.DeathIncrease),
		AsOf:          kf.AsOfDate,
		Since:         kf.SinceDate,
	}
	if kf.AverageInfectionRate != nil {
		t.Infection = FormatCount(int64(math.Round(*kf.AverageInfectionRate)))
	}
	if kf.AverageFatalityRatePct != nil {
		t.Fatality = strconv.FormatFloat(math.Round(*kf.AverageFatalityRatePct*100)/100, 'f', -1, 64) + "%"
	}
	return t
}

// FormatCount formats n with comma thousands separators, e.g. 12345 -> "12,345".
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+1)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
