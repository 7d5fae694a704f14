package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	seriesPrefix = "LAUCN"
	// seriesMeasure selects the unemployment-rate measure (code 03) with the
	// seven zero digits LAUS uses between the area code and the measure.
	seriesMeasure = "0000000003"

	maxCountyID = 99999
)

// ErrInvalidCountyID is returned for identifiers that do not fit in five digits.
var ErrInvalidCountyID = errors.New("invalid county id")

// CountyID is a numeric county-equivalent code, e.g. 37119 for Mecklenburg County, NC.
type CountyID int

// NewCountyID validates n as a county identifier.
func NewCountyID(n int) (CountyID, error) {
	if n < 0 || n > maxCountyID {
		return 0, fmt.Errorf("%w: %d does not fit in 5 digits", ErrInvalidCountyID, n)
	}
	return CountyID(n), nil
}

// ParseCountyID parses a decimal county identifier. Leading zeros are accepted
// ("01001"), but the value must still fit in five digits.
func ParseCountyID(s string) (CountyID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCountyID)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidCountyID, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCountyID, s, err)
	}
	return NewCountyID(n)
}

// Padded returns the five-digit zero-padded form used inside series IDs.
func (c CountyID) Padded() string {
	return fmt.Sprintf("%05d", int(c))
}

// Key returns the unpadded decimal form used as the aggregate key.
func (c CountyID) Key() string {
	return strconv.Itoa(int(c))
}

// SeriesID builds the LAUS unemployment-rate series identifier for a county.
// The result is always 20 characters.
func SeriesID(c CountyID) string {
	return seriesPrefix + c.Padded() + seriesMeasure
}

// ScanRange is a half-open range [From, To) of county identifiers.
type ScanRange struct {
	From int
	To   int
}

// FixedScanRanges covers North Carolina (37) and South Carolina (45). County
// codes are sparse, so every code from xx000 to xx199 is tried and the API
// simply returns an empty series for codes that do not exist.
var FixedScanRanges = []ScanRange{
	{From: 37000, To: 37200},
	{From: 45000, To: 45200},
}

// Counties expands scan ranges into county identifiers in ascending order
// within each range.
func Counties(ranges []ScanRange) ([]CountyID, error) {
	var out []CountyID
	for _, r := range ranges {
		if r.From > r.To {
			return nil, fmt.Errorf("scan range %d-%d is inverted", r.From, r.To)
		}
		for n := r.From; n < r.To; n++ {
			id, err := NewCountyID(n)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}
