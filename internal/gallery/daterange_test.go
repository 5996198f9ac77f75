package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDateRange(t *testing.T) {
	t.Run("no year yields an unconstrained range", func(t *testing.T) {
		r := BuildDateRange(0, 2, 15)

		assert.True(t, r.Empty())
		assert.Nil(t, r.From)
		assert.Nil(t, r.To)
	})

	t.Run("year only spans the calendar year", func(t *testing.T) {
		r := BuildDateRange(2026, 0, 0)

		require.NotNil(t, r.From)
		require.NotNil(t, r.To)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *r.From)
		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), *r.To)
	})

	t.Run("year and month span the calendar month", func(t *testing.T) {
		r := BuildDateRange(2026, 2, 0)

		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *r.From)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *r.To)
	})

	t.Run("full date spans a single day", func(t *testing.T) {
		r := BuildDateRange(2026, 2, 15)

		assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), *r.From)
		assert.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), *r.To)
	})

	t.Run("out-of-range day rolls over into the next month", func(t *testing.T) {
		// passthrough behavior: nominal validation happens upstream
		r := BuildDateRange(2026, 4, 31)

		assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *r.From)
	})
}

func TestDateRangeContains(t *testing.T) {
	r := BuildDateRange(2026, 2, 0)

	t.Run("includes the lower bound", func(t *testing.T) {
		assert.True(t, r.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("excludes the upper bound", func(t *testing.T) {
		assert.False(t, r.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("unconstrained range contains everything", func(t *testing.T) {
		assert.True(t, DateRange{}.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}
