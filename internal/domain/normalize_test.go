package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_December(t *testing.T) {
	var raw RawRecord
	require.NoError(t, json.Unmarshal([]byte(
		`{"footnotes":[{"code":"M","text":"Data are provisional."}],"period":"M12","periodName":"December","value":"6.0","year":"2013"}`,
	), &raw))

	rec, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, Record{Month: 12, PeriodName: "December", Year: 2013, Value: 6.0}, rec)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":12,"periodName":"December","value":6.0,"year":2013}`, string(out))
}

func TestNormalize_Periods(t *testing.T) {
	tests := []struct {
		period string
		month  int
	}{
		{"M1", 1},
		{"M01", 1},
		{"M09", 9},
		{"M12", 12},
		{"M13", AnnualAverageMonth},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			rec, err := Normalize(RawRecord{Period: tt.period, Year: "2010", Value: "9.9"})
			require.NoError(t, err)
			assert.Equal(t, tt.month, rec.Month)
		})
	}
}

func TestNormalize_AnnualAverageIsDistinguishable(t *testing.T) {
	rec, err := Normalize(RawRecord{Period: "M13", PeriodName: "Annual", Year: "2010", Value: "10.4"})
	require.NoError(t, err)
	assert.True(t, rec.IsAnnualAverage())

	rec, err = Normalize(RawRecord{Period: "M12", PeriodName: "December", Year: "2010", Value: "10.4"})
	require.NoError(t, err)
	assert.False(t, rec.IsAnnualAverage())
}

func TestNormalize_Errors(t *testing.T) {
	valid := RawRecord{Period: "M05", PeriodName: "May", Year: "2012", Value: "8.2"}

	tests := []struct {
		name   string
		mutate func(r *RawRecord)
		field  string
	}{
		{"empty period", func(r *RawRecord) { r.Period = "" }, "period"},
		{"quarterly period", func(r *RawRecord) { r.Period = "Q01" }, "period"},
		{"month zero", func(r *RawRecord) { r.Period = "M00" }, "period"},
		{"month fourteen", func(r *RawRecord) { r.Period = "M14" }, "period"},
		{"period without number", func(r *RawRecord) { r.Period = "Mx" }, "period"},
		{"year text", func(r *RawRecord) { r.Year = "twenty" }, "year"},
		{"year empty", func(r *RawRecord) { r.Year = "" }, "year"},
		{"year zero", func(r *RawRecord) { r.Year = "0" }, "year"},
		{"value dash", func(r *RawRecord) { r.Value = "-" }, "value"},
		{"value empty", func(r *RawRecord) { r.Value = "" }, "value"},
		{"value NaN", func(r *RawRecord) { r.Value = "NaN" }, "value"},
		{"value Inf", func(r *RawRecord) { r.Value = "+Inf" }, "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid
			tt.mutate(&raw)

			_, err := Normalize(raw)
			require.ErrorIs(t, err, ErrNormalize)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNormalizeSeries(t *testing.T) {
	raws := []RawRecord{
		{Period: "M02", PeriodName: "February", Year: "2014", Value: "6.4"},
		{Period: "M01", PeriodName: "January", Year: "2014", Value: "6.1"},
	}

	got, err := NormalizeSeries(raws)
	require.NoError(t, err)

	want := []Record{
		{Month: 2, PeriodName: "February", Year: 2014, Value: 6.4},
		{Month: 1, PeriodName: "January", Year: 2014, Value: 6.1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeSeries mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSeries_FailsOnAnyBadRecord(t *testing.T) {
	raws := []RawRecord{
		{Period: "M02", Year: "2014", Value: "6.4"},
		{Period: "M01", Year: "2014", Value: "-"},
	}

	got, err := NormalizeSeries(raws)
	require.ErrorIs(t, err, ErrNormalize)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "record 1")
}
