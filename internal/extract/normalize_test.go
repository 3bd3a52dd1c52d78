// SPDX-License-Identifier: Apache-2.0

package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

func TestNormalizer_Dates(t *testing.T) {
	n := extract.NewNormalizer()

	tests := []struct {
		name           string
		raw            string
		wantValue      string
		wantConfidence float64
		wantOK         bool
	}{
		{name: "iso date", raw: "2026-03-02", wantValue: "2026-03-02", wantConfidence: 1.0, wantOK: true},
		{name: "iso with slashes", raw: "2026/03/02", wantValue: "2026-03-02", wantConfidence: 1.0, wantOK: true},
		{name: "month name", raw: "Mar 2, 2026", wantValue: "2026-03-02", wantConfidence: 1.0, wantOK: true},
		{name: "day first month name", raw: "2 March 2026", wantValue: "2026-03-02", wantConfidence: 1.0, wantOK: true},
		{name: "ambiguous slash form prefers month first", raw: "3/4/2026", wantValue: "2026-03-04", wantConfidence: 0.6, wantOK: true},
		{name: "slash form only valid day-first", raw: "14/3/2026", wantValue: "2026-03-14", wantConfidence: 0.6, wantOK: true},
		{name: "garbage", raw: "sometime soon", wantOK: false},
		{name: "empty", raw: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nf, ok := n.Normalize(models.FieldDate, tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantValue, nf.Value)
			assert.InDelta(t, tt.wantConfidence, nf.Confidence, 1e-9)
		})
	}
}

func TestNormalizer_ClockTimes(t *testing.T) {
	n := extract.NewNormalizer()

	tests := []struct {
		name           string
		raw            string
		wantValue      string
		wantConfidence float64
		wantOK         bool
	}{
		{name: "24h", raw: "17:00", wantValue: "17:00", wantConfidence: 1.0, wantOK: true},
		{name: "12h with meridiem", raw: "9:00 AM", wantValue: "09:00", wantConfidence: 1.0, wantOK: true},
		{name: "12h compact", raw: "5:30pm", wantValue: "17:30", wantConfidence: 1.0, wantOK: true},
		{name: "bare hour", raw: "9 AM", wantValue: "09:00", wantConfidence: 1.0, wantOK: true},
		{name: "four digit", raw: "0930", wantValue: "09:30", wantConfidence: 1.0, wantOK: true},
		{name: "three digit", raw: "930", wantValue: "09:30", wantConfidence: 1.0, wantOK: true},
		{name: "decimal hours are ambiguous", raw: "9.5", wantValue: "09:30", wantConfidence: 0.6, wantOK: true},
		{name: "out of range", raw: "2561", wantOK: false},
		{name: "not a time", raw: "noonish", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nf, ok := n.Normalize(models.FieldStartTime, tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantValue, nf.Value)
			assert.InDelta(t, tt.wantConfidence, nf.Confidence, 1e-9)
		})
	}
}

func TestNormalizer_ContactFields(t *testing.T) {
	n := extract.NewNormalizer()

	t.Run("valid email", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldEmail, "jane.doe@example.com")
		require.True(t, ok)
		assert.Equal(t, "jane.doe@example.com", nf.Value)
		assert.InDelta(t, 1.0, nf.Confidence, 1e-9)
	})

	t.Run("close but invalid email kept for review", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldEmail, "jane@@example")
		require.True(t, ok)
		assert.InDelta(t, 0.3, nf.Confidence, 1e-9)
	})

	t.Run("not an email", func(t *testing.T) {
		_, ok := n.Normalize(models.FieldEmail, "n/a")
		assert.False(t, ok)
	})

	t.Run("formatted phone", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldPhone, "(555) 123-4567")
		require.True(t, ok)
		assert.Equal(t, "5551234567", nf.Value)
		assert.InDelta(t, 1.0, nf.Confidence, 1e-9)
	})

	t.Run("international phone keeps plus", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldPhone, "+44 20 7946 0958")
		require.True(t, ok)
		assert.Equal(t, "+442079460958", nf.Value)
		assert.InDelta(t, 1.0, nf.Confidence, 1e-9)
	})

	t.Run("digit-bearing junk kept at low confidence", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldPhone, "ext. 12345")
		require.True(t, ok)
		assert.InDelta(t, 0.3, nf.Confidence, 1e-9)
	})
}

func TestNormalizer_NumbersAndFlags(t *testing.T) {
	n := extract.NewNormalizer()

	t.Run("wage strips currency and separators", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldWage, "$1,250.50")
		require.True(t, ok)
		assert.InDelta(t, 1250.50, nf.Value.(float64), 1e-9)
	})

	t.Run("negative wage discarded", func(t *testing.T) {
		_, ok := n.Normalize(models.FieldWage, "-5")
		assert.False(t, ok)
	})

	t.Run("hour bounds", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldMinHours, " 20 ")
		require.True(t, ok)
		assert.Equal(t, 20, nf.Value)
	})

	t.Run("overnight markers", func(t *testing.T) {
		for _, raw := range []string{"yes", "Y", "true", "1", "overnight", "Next Day"} {
			nf, ok := n.Normalize(models.FieldOvernight, raw)
			require.True(t, ok, "raw %q", raw)
			assert.Equal(t, true, nf.Value, "raw %q", raw)
		}
		nf, ok := n.Normalize(models.FieldOvernight, "no")
		require.True(t, ok)
		assert.Equal(t, false, nf.Value)
	})

	t.Run("name collapses whitespace", func(t *testing.T) {
		nf, ok := n.Normalize(models.FieldName, "  Jane   Doe ")
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", nf.Value)
	})

	t.Run("numeric-only name discarded", func(t *testing.T) {
		_, ok := n.Normalize(models.FieldName, "12345")
		assert.False(t, ok)
	})
}
