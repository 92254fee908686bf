package engine

import "errors"

var (
	// ErrInvalidRange is returned for day windows outside [0, MaxDay] or with start >= end.
	ErrInvalidRange = errors.New("invalid day range")

	// ErrInvalidStatisticForRepresentation is returned when a rate statistic is requested
	// in an additive (bar) view.
	ErrInvalidStatisticForRepresentation = errors.New("statistic cannot be shown in an additive view")

	// ErrConfiguration is returned for unusable selections, e.g. a zero-size selection
	// combined with an operation that averages by selection size.
	ErrConfiguration = errors.New("invalid selection configuration")

	// ErrStatisticNotProjected is returned when a row set projected to one statistic is
	// asked for another column.
	ErrStatisticNotProjected = errors.New("statistic not present in projection")

	// ErrInvalidDataset is returned by NewDataset for input breaking the series invariants.
	ErrInvalidDataset = errors.New("invalid dataset")
)
