// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amaziapp/shiftsheet/internal/models"
)

// NormalizedField is a typed value plus the confidence of its parse.
// Value holds a string for textual fields and canonicalized dates/times,
// a float64 for wage, an int for hour bounds and break minutes, and a bool
// for the overnight flag.
type NormalizedField struct {
	Value      any
	Confidence float64
}

// Normalizer converts raw string observations into typed, scored values.
// It never panics past its own boundary: anything unparseable comes back
// as (zero, false) and the caller records the field for review.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// dateLayouts are tried in order. ISO and month-name forms are unambiguous;
// slash forms carry locale-ambiguous day/month ordering and cap at 0.6.
var dateLayouts = []struct {
	layout     string
	confidence float64
}{
	{"2006-01-02", 1.0},
	{"2006/01/02", 1.0},
	{"Jan 2, 2006", 1.0},
	{"January 2, 2006", 1.0},
	{"2 Jan 2006", 1.0},
	{"2 January 2006", 1.0},
	{"1/2/2006", 0.6},
	{"1-2-2006", 0.6},
	{"1/2/06", 0.6},
	{"2/1/2006", 0.6},
	{"2-1-2006", 0.6},
	{"2/1/06", 0.6},
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// Normalize types one raw observation. ok=false means the value was
// discarded (nothing usable); the field then stays null with confidence 0.
func (n *Normalizer) Normalize(field, raw string) (NormalizedField, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NormalizedField{}, false
	}

	switch field {
	case models.FieldName, models.FieldEmployeeName:
		return normalizeName(raw)
	case models.FieldRole, models.FieldStatus, models.FieldLocation:
		return normalizeText(raw)
	case models.FieldEmail:
		return normalizeEmail(raw)
	case models.FieldPhone:
		return normalizePhone(raw)
	case models.FieldWage:
		return normalizeWage(raw)
	case models.FieldMinHours, models.FieldMaxHours, models.FieldUnpaidBreak:
		return normalizeNonNegativeInt(raw)
	case models.FieldDate:
		return normalizeDate(raw)
	case models.FieldStartTime, models.FieldEndTime:
		return normalizeClockTime(raw)
	case models.FieldOvernight:
		return normalizeOvernight(raw)
	}
	return NormalizedField{}, false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeName(raw string) (NormalizedField, bool) {
	name := collapseWhitespace(raw)
	if name == "" || !strings.ContainsFunc(name, isLetter) {
		return NormalizedField{}, false
	}
	return NormalizedField{Value: name, Confidence: 1.0}, true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}

func normalizeText(raw string) (NormalizedField, bool) {
	text := collapseWhitespace(raw)
	if text == "" {
		return NormalizedField{}, false
	}
	return NormalizedField{Value: text, Confidence: 1.0}, true
}

// normalizeEmail keeps close-but-invalid addresses at low confidence for
// human review instead of discarding them.
func normalizeEmail(raw string) (NormalizedField, bool) {
	addr := collapseWhitespace(raw)
	if emailPattern.MatchString(addr) {
		return NormalizedField{Value: addr, Confidence: 1.0}, true
	}
	if strings.Contains(addr, "@") && len(addr) > 3 {
		return NormalizedField{Value: addr, Confidence: 0.3}, true
	}
	return NormalizedField{}, false
}

func normalizePhone(raw string) (NormalizedField, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '(', ')', '-', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	digits := cleaned
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	allDigits := digits != "" && strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) == -1
	if allDigits && len(digits) >= 7 && len(digits) <= 15 {
		return NormalizedField{Value: cleaned, Confidence: 1.0}, true
	}

	count := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	if count >= 5 {
		return NormalizedField{Value: collapseWhitespace(raw), Confidence: 0.3}, true
	}
	return NormalizedField{}, false
}

// normalizeWage accepts a leading currency symbol and thousands separators.
// Negative or unparseable values are discarded.
func normalizeWage(raw string) (NormalizedField, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$£€ ")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return NormalizedField{}, false
	}
	return NormalizedField{Value: v, Confidence: 1.0}, true
}

func normalizeNonNegativeInt(raw string) (NormalizedField, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return NormalizedField{}, false
	}
	return NormalizedField{Value: v, Confidence: 1.0}, true
}

// normalizeDate canonicalizes to "2006-01-02".
func normalizeDate(raw string) (NormalizedField, bool) {
	s := collapseWhitespace(raw)
	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, s)
		if err != nil {
			continue
		}
		return NormalizedField{Value: t.Format("2006-01-02"), Confidence: dl.confidence}, true
	}
	return NormalizedField{}, false
}

// normalizeClockTime canonicalizes to 24h "15:04". Beyond HH:MM and AM/PM
// forms it accepts bare digit forms (0930, 930) and decimal hours (9.5),
// which historical timesheets use; decimal hours score 0.6 since the
// notation is ambiguous with other numeric columns.
func normalizeClockTime(raw string) (NormalizedField, bool) {
	s := collapseWhitespace(raw)
	upper := strings.ToUpper(s)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, upper)
		if err != nil {
			continue
		}
		return NormalizedField{Value: t.Format("15:04"), Confidence: 1.0}, true
	}

	if isAllDigits(s) {
		switch len(s) {
		case 4:
			h, _ := strconv.Atoi(s[:2])
			m, _ := strconv.Atoi(s[2:])
			if h <= 23 && m <= 59 {
				return clockValue(h, m, 1.0), true
			}
		case 3:
			h, _ := strconv.Atoi(s[:1])
			m, _ := strconv.Atoi(s[1:])
			if m <= 59 {
				return clockValue(h, m, 1.0), true
			}
		}
	}

	if strings.Count(s, ".") == 1 {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v < 24 {
			h := int(v)
			m := int((v - float64(h)) * 60)
			return clockValue(h, m, 0.6), true
		}
	}
	return NormalizedField{}, false
}

func clockValue(h, m int, conf float64) NormalizedField {
	t := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
	return NormalizedField{Value: t.Format("15:04"), Confidence: conf}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeOvernight(raw string) (NormalizedField, bool) {
	switch strings.ToLower(collapseWhitespace(raw)) {
	case "y", "yes", "true", "1", "overnight", "next day":
		return NormalizedField{Value: true, Confidence: 1.0}, true
	case "n", "no", "false", "0":
		return NormalizedField{Value: false, Confidence: 1.0}, true
	}
	return NormalizedField{}, false
}
