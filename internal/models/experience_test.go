package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		start, end string
		want       string
	}{
		{"2024-01-15", "2024-01-20", "Less than a month"},
		{"2024-01-15", "2024-02-14", "Less than a month"},
		{"2024-01-15", "2024-02-15", "1 mo"},
		{"2024-01-01", "2024-04-01", "3 mos"},
		{"2023-01-01", "2024-01-01", "1 yr"},
		{"2021-03-01", "2024-01-01", "2 yrs 10 mos"},
		{"2022-06-10", "2023-08-09", "1 yr 1 mo"},
		{"2024-05-01", "2024-01-01", "Less than a month"},
	}
	for _, tc := range cases {
		got := FormatDuration(date(t, tc.start), date(t, tc.end))
		assert.Equal(t, tc.want, got, "%s -> %s", tc.start, tc.end)
	}
}

func TestExperience_PrepareForAPI_CurrentUsesNow(t *testing.T) {
	end := "2020-01-01"
	e := Experience{StartDate: "2023-01-01", EndDate: &end, Current: true}

	e.PrepareForAPI(date(t, "2024-07-01"))

	assert.Equal(t, "1 yr 6 mos", e.Duration)
}

func TestExperience_PrepareForAPI_ClosedRange(t *testing.T) {
	end := "2019-09-30"
	e := Experience{StartDate: "2018-09-01", EndDate: &end}

	e.PrepareForAPI(date(t, "2030-01-01"))

	assert.Equal(t, "1 yr", e.Duration)
}

func TestExperience_Normalize(t *testing.T) {
	end := "2020-01-01"
	current := Experience{StartDate: "2021-01-01", EndDate: &end, Current: true}
	require.NoError(t, current.Normalize())
	assert.Nil(t, current.EndDate)

	backwards := Experience{StartDate: "2021-01-01", EndDate: &end}
	assert.ErrorIs(t, backwards.Normalize(), ErrEndBeforeStart)

	open := Experience{StartDate: "2021-01-01"}
	assert.NoError(t, open.Normalize())
}
