package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"ga-covid-server/engine"
	"ga-covid-server/models"
	services "ga-covid-server/service"
)

const (
	START_QUERY_ARG  = "start"
	END_QUERY_ARG    = "end"
	COUNTY_QUERY_ARG = "county"
	STAT_QUERY_ARG   = "stat"
	VIEW_QUERY_ARG   = "view"
	GROUP_QUERY_ARG  = "group"
)

var validate = validator.New()

// windowArgs are the slider and county controls. A missing end selects the last day.
type windowArgs struct {
	Start    int      `validate:"gte=0"`
	End      int      `validate:"gte=1"`
	Counties []string `validate:"min=1,dive,required"`
}

type seriesArgs struct {
	windowArgs
	Stat string `validate:"required"`
	View string `validate:"omitempty,oneof=line bar"`
}

func parseArgInt(vals url.Values, name string, def int) (int, error) {
	s := vals.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %s", name)
	}
	return v, nil
}

// parseCounties accepts repeated county args and comma-separated lists, dropping
// repeats. No county selects the statewide series.
func parseCounties(vals url.Values) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vals[COUNTY_QUERY_ARG] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	if len(out) == 0 {
		return []string{models.AllCounties}
	}
	return out
}

func parseWindowArgs(vals url.Values) (windowArgs, error) {
	var args windowArgs
	var err error
	if args.Start, err = parseArgInt(vals, START_QUERY_ARG, 0); err != nil {
		return args, err
	}
	if args.End, err = parseArgInt(vals, END_QUERY_ARG, math.MaxInt32); err != nil {
		return args, err
	}
	args.Counties = parseCounties(vals)
	if err := validate.Struct(args); err != nil {
		return args, validationError(err)
	}
	return args, nil
}

// parseSeriesQuery turns the series args into a service query.
func parseSeriesQuery(vals url.Values) (services.SeriesQuery, error) {
	window, err := parseWindowArgs(vals)
	if err != nil {
		return services.SeriesQuery{}, err
	}
	args := seriesArgs{windowArgs: window, Stat: vals.Get(STAT_QUERY_ARG), View: vals.Get(VIEW_QUERY_ARG)}
	if err := validate.Struct(args); err != nil {
		return services.SeriesQuery{}, validationError(err)
	}

	stat, err := models.ParseStatistic(args.Stat)
	if err != nil {
		return services.SeriesQuery{}, fmt.Errorf("invalid argument %s: %w", STAT_QUERY_ARG, err)
	}
	view, _ := models.ParseRepresentation(args.View)

	return services.SeriesQuery{
		WindowQuery:    window.query(),
		Statistic:      stat,
		Representation: view,
	}, nil
}

func (a windowArgs) query() services.WindowQuery {
	return services.WindowQuery{Start: a.Start, End: a.End, Locations: a.Counties}
}

// validationError names the failing fields of a validator error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(fields, ", "))
}

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrDatasetNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrInvalidStatisticForRepresentation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidRange),
		errors.Is(err, engine.ErrConfiguration),
		errors.Is(err, engine.ErrStatisticNotProjected):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	text := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[Handlers] Internal error: %v", err)
		text = "Internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: text, Message: message})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("[Handlers] Error encoding response:", err)
	}
}
