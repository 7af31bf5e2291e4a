package eav_test

import (
	"testing"
	"time"

	"restoflow/internal/domain"
	"restoflow/internal/eav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInt(t *testing.T) {
	rec := eav.Record{"qty": "3", "blank": "", "float": "4.0", "frac": "4.5", "text": "x"}

	v, err := rec.Int("qty")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = rec.Int("missing")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = rec.Int("blank")
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = rec.Int("float")
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	_, err = rec.Int("frac")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = rec.Int("text")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordFloatAndBool(t *testing.T) {
	rec := eav.Record{"price": "450.5", "active": "true", "bad": "maybe"}

	f, err := rec.Float("price")
	require.NoError(t, err)
	assert.Equal(t, 450.5, f)

	b, err := rec.Bool("active")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = rec.Bool("bad")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = rec.Float("bad")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)

	for _, raw := range []string{
		"2024-01-01T19:00",
		"2024-01-01T19:00:00",
		"2024-01-01 19:00",
		"2024-01-01T19:00:00Z",
		"2024-01-01T19:00:00+05:00",
		"2024-01-01T19:00:00-03:30",
	} {
		got, err := eav.ParseTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
		assert.Equal(t, time.UTC, got.Location(), raw)
	}

	got, err := eav.ParseTime("2024-01-01T19:00:00.123456")
	require.NoError(t, err)
	assert.Equal(t, 123456000, got.Nanosecond())

	_, err = eav.ParseTime("tomorrow evening")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordTime(t *testing.T) {
	rec := eav.Record{"created_at": "2024-03-05T10:30:00.000000"}

	ts, err := rec.Time("created_at")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	ts, err = rec.Time("updated_at")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}
