package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesIDRe = regexp.MustCompile(`^LAUCN\d{5}0000000003$`)

func TestSeriesID(t *testing.T) {
	tests := []struct {
		county CountyID
		want   string
	}{
		{37119, "LAUCN371190000000003"},
		{1001, "LAUCN010010000000003"},
		{0, "LAUCN000000000000003"},
		{99999, "LAUCN999990000000003"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := SeriesID(tt.county)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 20)
			assert.Regexp(t, seriesIDRe, got)
		})
	}
}

func TestSeriesID_AllScannedCountiesMatchPattern(t *testing.T) {
	counties, err := Counties(FixedScanRanges)
	require.NoError(t, err)
	require.Len(t, counties, 400)

	for _, c := range counties {
		id := SeriesID(c)
		require.Len(t, id, 20)
		require.Regexp(t, seriesIDRe, id)
	}
}

func TestNewCountyID(t *testing.T) {
	id, err := NewCountyID(37001)
	require.NoError(t, err)
	assert.Equal(t, "37001", id.Padded())
	assert.Equal(t, "37001", id.Key())

	_, err = NewCountyID(100000)
	require.ErrorIs(t, err, ErrInvalidCountyID)

	_, err = NewCountyID(-1)
	require.ErrorIs(t, err, ErrInvalidCountyID)
}

func TestParseCountyID(t *testing.T) {
	t.Run("leading zeros", func(t *testing.T) {
		id, err := ParseCountyID("01001")
		require.NoError(t, err)
		assert.Equal(t, CountyID(1001), id)
		assert.Equal(t, "01001", id.Padded())
		assert.Equal(t, "1001", id.Key())
	})

	t.Run("too long", func(t *testing.T) {
		_, err := ParseCountyID("123456")
		require.ErrorIs(t, err, ErrInvalidCountyID)
	})

	t.Run("not numeric", func(t *testing.T) {
		_, err := ParseCountyID("37a01")
		require.ErrorIs(t, err, ErrInvalidCountyID)
	})

	t.Run("sign rejected", func(t *testing.T) {
		_, err := ParseCountyID("-3700")
		require.ErrorIs(t, err, ErrInvalidCountyID)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseCountyID(" ")
		require.ErrorIs(t, err, ErrInvalidCountyID)
	})
}

func TestCounties(t *testing.T) {
	got, err := Counties([]ScanRange{{From: 37000, To: 37003}, {From: 45001, To: 45002}})
	require.NoError(t, err)
	assert.Equal(t, []CountyID{37000, 37001, 37002, 45001}, got)

	_, err = Counties([]ScanRange{{From: 10, To: 5}})
	require.Error(t, err)
}

func TestBuildSeriesRequest(t *testing.T) {
	req, err := BuildSeriesRequest(37119, YearRange{Start: 2006, End: 2014}, "key-123", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"LAUCN371190000000003"}, req.SeriesIDs)
	assert.Equal(t, "2006", req.StartYear)
	assert.Equal(t, "2014", req.EndYear)
	assert.Equal(t, "key-123", req.RegistrationKey)
	assert.False(t, req.AnnualAverage)
}

func TestBuildSeriesRequest_InvalidYears(t *testing.T) {
	tests := []struct {
		name  string
		years YearRange
	}{
		{"start after end", YearRange{Start: 2015, End: 2014}},
		{"zero start", YearRange{Start: 0, End: 2014}},
		{"negative end", YearRange{Start: 2006, End: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSeriesRequest(37119, tt.years, "", false)
			require.ErrorIs(t, err, ErrInvalidYearRange)
		})
	}
}

func TestBuildSeriesRequest_SingleYear(t *testing.T) {
	req, err := BuildSeriesRequest(45001, YearRange{Start: 2010, End: 2010}, "", true)
	require.NoError(t, err)
	assert.Equal(t, "2010", req.StartYear)
	assert.Equal(t, "2010", req.EndYear)
	assert.True(t, req.AnnualAverage)
}

func TestBuildSeriesRequest_InvalidCounty(t *testing.T) {
	_, err := BuildSeriesRequest(CountyID(123456), YearRange{Start: 2006, End: 2014}, "", false)
	require.ErrorIs(t, err, ErrInvalidCountyID)
}
