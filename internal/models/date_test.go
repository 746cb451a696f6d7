package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 5), d)
	assert.Equal(t, "2024-03-05", d.String())

	for _, bad := range []string{"", "2024-3-5", "05/03/2024", "2024-02-30", "2024-03-05T10:00", "yesterday", " 2024-03-05", "2024-03-05\n"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "%q", bad)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-05"))
	assert.Equal(t, "2024-03-05", d.String())

	require.NoError(t, d.Scan([]byte("2023-12-31 00:00:00")))
	assert.Equal(t, "2023-12-31", d.String())

	require.NoError(t, d.Scan(time.Date(2022, time.July, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2022-07-04", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-03-05"}`), &v))
	assert.Equal(t, NewDate(2024, time.March, 5), v.D)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-03-05"}`, string(out))

	err = json.Unmarshal([]byte(`{"d":"03/05/2024"}`), &v)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", r.From.String())
	assert.Equal(t, "2024-02-29", r.To.String())

	r = MonthRange(2023, time.December)
	assert.Equal(t, "2023-12-31", r.To.String())
	assert.True(t, r.Contains(NewDate(2023, time.December, 31)))
	assert.False(t, r.Contains(NewDate(2024, time.January, 1)))
}

func TestYearToDate(t *testing.T) {
	r := YearToDate(time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-01", r.From.String())
	assert.Equal(t, "2024-06-15", r.To.String())
	assert.NoError(t, r.Validate())
}

func TestDateRangeValidate(t *testing.T) {
	r := DateRange{From: NewDate(2024, time.March, 2), To: NewDate(2024, time.March, 1)}
	assert.ErrorIs(t, r.Validate(), ErrInvalidDate)
	assert.ErrorIs(t, DateRange{}.Validate(), ErrInvalidDate)
}
