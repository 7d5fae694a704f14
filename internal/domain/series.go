package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidYearRange is returned when a year range is empty or non-positive.
var ErrInvalidYearRange = errors.New("invalid year range")

// YearRange is an inclusive span of calendar years.
type YearRange struct {
	Start int
	End   int
}

// Validate checks that both years are positive and Start <= End.
func (y YearRange) Validate() error {
	if y.Start <= 0 || y.End <= 0 {
		return fmt.Errorf("%w: years must be positive, got %d-%d", ErrInvalidYearRange, y.Start, y.End)
	}
	if y.Start > y.End {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidYearRange, y.Start, y.End)
	}
	return nil
}

// SeriesRequest is the POST body accepted by the BLS timeseries API (v2).
type SeriesRequest struct {
	RegistrationKey string   `json:"registrationKey,omitempty"`
	SeriesIDs       []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	AnnualAverage   bool     `json:"annualaverage,omitempty"`
}

// BuildSeriesRequest constructs the request body for a single county.
func BuildSeriesRequest(county CountyID, years YearRange, registrationKey string, annualAverage bool) (SeriesRequest, error) {
	if _, err := NewCountyID(int(county)); err != nil {
		return SeriesRequest{}, err
	}
	if err := years.Validate(); err != nil {
		return SeriesRequest{}, err
	}
	return SeriesRequest{
		RegistrationKey: registrationKey,
		SeriesIDs:       []string{SeriesID(county)},
		StartYear:       strconv.Itoa(years.Start),
		EndYear:         strconv.Itoa(years.End),
		AnnualAverage:   annualAverage,
	}, nil
}

// RawRecord is one observation exactly as BLS returns it. Every scalar is a string.
type RawRecord struct {
	Period     string            `json:"period"`
	PeriodName string            `json:"periodName"`
	Year       string            `json:"year"`
	Value      string            `json:"value"`
	Footnotes  []json.RawMessage `json:"footnotes"`
}

// AnnualAverageMonth marks a record for period M13 (annual average).
const AnnualAverageMonth = 13

// Record is a normalized observation as persisted in the aggregate file.
type Record struct {
	Month      int     `json:"month"`
	PeriodName string  `json:"periodName"`
	Year       int     `json:"year"`
	Value      float64 `json:"value"`
}

// IsAnnualAverage reports whether the record is the M13 annual average.
func (r Record) IsAnnualAverage() bool {
	return r.Month == AnnualAverageMonth
}

// CountySeries is the normalized series fetched for one county.
type CountySeries struct {
	County   CountyID
	SeriesID string
	Records  []Record
}

// Aggregate maps unpadded county keys to their normalized series, in the
// order the API returned them (newest first).
type Aggregate map[string][]Record
