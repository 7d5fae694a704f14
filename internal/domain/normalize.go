package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNormalize is wrapped by every normalization failure.
var ErrNormalize = errors.New("normalize record")

// Normalize converts a raw API record into a Record. Footnotes are dropped.
// Period "M1".."M12" becomes the month number and "M13" becomes
// AnnualAverageMonth. Unparsable periods, years, or values are errors;
// nothing is defaulted to zero.
func Normalize(raw RawRecord) (Record, error) {
	month, err := parsePeriod(raw.Period)
	if err != nil {
		return Record{}, err
	}

	year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
	if err != nil || year <= 0 {
		return Record{}, fmt.Errorf("%w: year %q is not a positive integer", ErrNormalize, raw.Year)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw.Value), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Record{}, fmt.Errorf("%w: value %q is not a finite number", ErrNormalize, raw.Value)
	}

	return Record{
		Month:      month,
		PeriodName: raw.PeriodName,
		Year:       year,
		Value:      value,
	}, nil
}

// NormalizeSeries normalizes every record, stopping at the first failure.
// The error names the offending record's position.
func NormalizeSeries(raws []RawRecord) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s %s): %w", i, raw.Year, raw.Period, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// parsePeriod maps "M<n>" to a month. LAUS only publishes monthly periods
// plus the M13 annual average.
func parsePeriod(period string) (int, error) {
	p := strings.TrimSpace(period)
	if len(p) < 2 || p[0] != 'M' {
		return 0, fmt.Errorf("%w: period %q is not monthly", ErrNormalize, period)
	}
	month, err := strconv.Atoi(p[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: period %q has no month number", ErrNormalize, period)
	}
	if month < 1 || month > AnnualAverageMonth {
		return 0, fmt.Errorf("%w: period %q is out of range", ErrNormalize, period)
	}
	return month, nil
}
