package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/yurifrl/kontocsv/pkg/csv"
	"github.com/yurifrl/kontocsv/pkg/locale"
	"github.com/yurifrl/kontocsv/pkg/models"
)

type filters struct {
	startDate string
	endDate   string
	category  string
	purpose   string
}

func parseBound(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(locale.ISODate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: %w", name, value, err)
	}
	return t, nil
}

// toFilterFunc returns nil when no filter flag is set. Rows whose date could
// not be normalized never pass a date bound.
func (f *filters) toFilterFunc() (csv.FilterFunc, error) {
	start, err := parseBound("start", f.startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseBound("end", f.endDate)
	if err != nil {
		return nil, err
	}
	if f.startDate == "" && f.endDate == "" && f.category == "" && f.purpose == "" {
		return nil, nil
	}

	return func(t *models.Transaction) bool {
		if !start.IsZero() || !end.IsZero() {
			date, err := time.Parse(locale.ISODate, t.Date)
			if err != nil {
				return false
			}
			if !start.IsZero() && date.Before(start) {
				return false
			}
			if !end.IsZero() && date.After(end) {
				return false
			}
		}
		if f.category != "" && !strings.EqualFold(t.Category, f.category) {
			return false
		}
		if f.purpose != "" && !strings.Contains(strings.ToLower(t.Purpose), strings.ToLower(f.purpose)) {
			return false
		}
		return true
	}, nil
}
