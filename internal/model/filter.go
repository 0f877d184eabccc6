package model

import (
	"math"
	"time"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
)

func invalidParams(params ...string) error {
	return apperror.InvalidParam{Param: params}
}

// checkRange returns the names of malformed bounds of an optional ISO date range.
func checkRange(from, to string) []string {
	var bad []string

	if from != "" {
		if _, err := time.Parse(DateLayout, from); err != nil {
			bad = append(bad, "from")
		}
	}
	if to != "" {
		if _, err := time.Parse(DateLayout, to); err != nil {
			bad = append(bad, "to")
		}
	}
	if len(bad) == 0 && from != "" && to != "" && from > to {
		bad = append(bad, "from", "to")
	}

	return bad
}

// MonthRange returns the first and last ISO dates of a YYYY-MM period.
func MonthRange(period string) (from, to string, err error) {
	start, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return "", "", invalidParams("month")
	}

	end := start.AddDate(0, 1, -1)
	return start.Format(DateLayout), end.Format(DateLayout), nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
