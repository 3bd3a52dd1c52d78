// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/models"
)

// headerSynonyms maps whitespace-normalized, lowercased header tokens to
// canonical field names. Unmatched columns are ignored, not errored.
var headerSynonyms = map[string]string{
	"name":          models.FieldName,
	"employee":      models.FieldName,
	"employee name": models.FieldName,
	"emp name":      models.FieldName,
	"staff":         models.FieldName,
	"staff name":    models.FieldName,
	"full name":     models.FieldName,

	"role":       models.FieldRole,
	"position":   models.FieldRole,
	"job title":  models.FieldRole,
	"department": models.FieldRole,

	"email":         models.FieldEmail,
	"e-mail":        models.FieldEmail,
	"email address": models.FieldEmail,

	"phone":        models.FieldPhone,
	"phone number": models.FieldPhone,
	"mobile":       models.FieldPhone,
	"cell":         models.FieldPhone,
	"telephone":    models.FieldPhone,

	"wage":        models.FieldWage,
	"rate":        models.FieldWage,
	"pay rate":    models.FieldWage,
	"hourly rate": models.FieldWage,
	"hourly wage": models.FieldWage,
	"salary":      models.FieldWage,

	"min hours":     models.FieldMinHours,
	"minimum hours": models.FieldMinHours,
	"min hrs":       models.FieldMinHours,
	"max hours":     models.FieldMaxHours,
	"maximum hours": models.FieldMaxHours,
	"max hrs":       models.FieldMaxHours,

	"date":       models.FieldDate,
	"day":        models.FieldDate,
	"shift date": models.FieldDate,
	"work date":  models.FieldDate,

	"start":       models.FieldStartTime,
	"start time":  models.FieldStartTime,
	"in":          models.FieldStartTime,
	"time in":     models.FieldStartTime,
	"clock in":    models.FieldStartTime,
	"log in":      models.FieldStartTime,
	"shift start": models.FieldStartTime,
	"begin":       models.FieldStartTime,

	"end":       models.FieldEndTime,
	"end time":  models.FieldEndTime,
	"out":       models.FieldEndTime,
	"time out":  models.FieldEndTime,
	"clock out": models.FieldEndTime,
	"log out":   models.FieldEndTime,
	"shift end": models.FieldEndTime,
	"finish":    models.FieldEndTime,

	"break":                models.FieldUnpaidBreak,
	"unpaid break":         models.FieldUnpaidBreak,
	"break min":            models.FieldUnpaidBreak,
	"break minutes":        models.FieldUnpaidBreak,
	"unpaid break minutes": models.FieldUnpaidBreak,
	"lunch":                models.FieldUnpaidBreak,

	"status":       models.FieldStatus,
	"approved":     models.FieldStatus,
	"shift status": models.FieldStatus,

	"location": models.FieldLocation,
	"site":     models.FieldLocation,
	"store":    models.FieldLocation,
	"branch":   models.FieldLocation,

	"overnight":        models.FieldOvernight,
	"crosses midnight": models.FieldOvernight,
	"next day":         models.FieldOvernight,
}

// lunchSynonyms name the paired columns a split-shift sheet uses for the
// midday break. The pair is not a field of its own: the gap between the two
// times becomes the shift's unpaid break minutes.
var lunchSynonyms = map[string]string{
	"lunch start":  "start",
	"break start":  "start",
	"lunch begins": "start",
	"lunch end":    "end",
	"break end":    "end",
	"lunch ends":   "end",
}

// periodSuffixRe matches a numbered time column ("time in 2", "clock out 3").
var periodSuffixRe = regexp.MustCompile(`^(.*\S)\s+(\d+)$`)

func canonicalHeader(h string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(h), " "))
	canon, ok := headerSynonyms[key]
	return canon, ok
}

type mappedColumn struct {
	index     int
	rawHeader string
	canonical string
}

// shiftPeriod holds the start/end columns of one work period. A plain
// start/end pair is period 1; numbered columns ("time in 2"/"time out 2")
// open further periods, each yielding its own shift per row.
type shiftPeriod struct {
	start *mappedColumn
	end   *mappedColumn
}

// tableLayout is the mapped header row: shared columns (time pairs
// excluded), the work periods, and the optional lunch column pair.
type tableLayout struct {
	cols       []mappedColumn
	seen       map[string]bool
	periods    []int
	periodCols map[int]*shiftPeriod
	lunchStart *mappedColumn
	lunchEnd   *mappedColumn
}

func (l tableLayout) mappedAny() bool {
	return len(l.cols) > 0 || len(l.periods) > 0 || l.hasLunchPair()
}

func (l tableLayout) hasLunchPair() bool {
	return l.lunchStart != nil && l.lunchEnd != nil
}

func mapHeader(header []string) tableLayout {
	lay := tableLayout{
		seen:       make(map[string]bool),
		periodCols: make(map[int]*shiftPeriod),
	}
	for i, h := range header {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		raw := strings.TrimSpace(h)

		if side, ok := lunchSynonyms[key]; ok {
			col := &mappedColumn{index: i, rawHeader: raw}
			if side == "start" && lay.lunchStart == nil {
				lay.lunchStart = col
			} else if side == "end" && lay.lunchEnd == nil {
				lay.lunchEnd = col
			}
			continue
		}

		num := 1
		base := key
		if m := periodSuffixRe.FindStringSubmatch(key); m != nil {
			if c, ok := headerSynonyms[m[1]]; ok && (c == models.FieldStartTime || c == models.FieldEndTime) {
				base = m[1]
				num, _ = strconv.Atoi(m[2])
			}
		}
		canon, ok := headerSynonyms[base]
		if !ok {
			continue
		}

		if canon == models.FieldStartTime || canon == models.FieldEndTime {
			p := lay.periodCols[num]
			if p == nil {
				p = &shiftPeriod{}
				lay.periodCols[num] = p
				lay.periods = append(lay.periods, num)
			}
			col := &mappedColumn{index: i, rawHeader: raw, canonical: canon}
			if canon == models.FieldStartTime && p.start == nil {
				p.start = col
			} else if canon == models.FieldEndTime && p.end == nil {
				p.end = col
			}
			lay.seen[canon] = true
			continue
		}

		if lay.seen[canon] {
			continue
		}
		lay.seen[canon] = true
		lay.cols = append(lay.cols, mappedColumn{index: i, rawHeader: raw, canonical: canon})
	}
	sort.Ints(lay.periods)
	return lay
}

// extractTable is the shared core of the delimited-text and spreadsheet
// extractors (and of document table mode, at a lower base confidence). The
// first row is the header; each data row yields an employee candidate when
// a name column is present and one shift candidate per populated work
// period when a date and any time column are present. A lunch column pair
// folds into the shift's unpaid break minutes. Row numbers in evidence
// hints count the header as row 1.
func extractTable(kind models.FileKind, rows [][]string, base float64) extract.Result {
	if len(rows) == 0 {
		return extract.Result{Partial: true}
	}

	lay := mapHeader(rows[0])
	if !lay.mappedAny() || len(rows) == 1 {
		return extract.Result{Partial: true}
	}

	hasName := lay.seen[models.FieldName]
	isShiftTable := lay.seen[models.FieldDate] && (len(lay.periods) > 0 || lay.hasLunchPair())

	var candidates []extract.Candidate
	for r, row := range rows[1:] {
		rowNum := r + 2
		if rowEmpty(row) {
			continue
		}
		rowEv := models.Evidence{
			FileType:   kind,
			SourceHint: fmt.Sprintf("row %d", rowNum),
			RawText:    truncate(strings.Join(nonEmptyCells(row), " "), 500),
		}

		if hasName {
			if obs := rowObservations(kind, lay.cols, row, rowNum, employeeColumn); len(obs) > 0 {
				candidates = append(candidates, extract.Candidate{
					Kind:           extract.CandidateEmployee,
					BaseConfidence: base,
					Fields:         obs,
					Evidence:       rowEv,
				})
			}
		}
		if isShiftTable {
			candidates = append(candidates, shiftCandidates(kind, lay, row, rowNum, base, rowEv)...)
		}
	}

	return extract.Result{Candidates: candidates, Partial: len(candidates) == 0}
}

// shiftCandidates builds one shift per populated work period on the row.
// Shared columns (date, name, role, ...) repeat on every period; a row
// whose time cells are all empty still yields one candidate so the missing
// times surface as review work instead of vanishing.
func shiftCandidates(kind models.FileKind, lay tableLayout, row []string, rowNum int, base float64, rowEv models.Evidence) []extract.Candidate {
	shared := rowObservations(kind, lay.cols, row, rowNum, shiftColumn)
	if obs := lunchBreakObservation(kind, lay, row, rowNum); obs != nil {
		shared = append(shared, *obs)
	}

	var out []extract.Candidate
	for _, num := range lay.periods {
		times := timeObservations(kind, lay.periodCols[num], row, rowNum)
		if len(times) == 0 {
			continue
		}
		obs := append([]extract.FieldObservation(nil), shared...)
		obs = append(obs, times...)
		ev := rowEv
		if len(lay.periods) > 1 {
			ev.SourceHint = fmt.Sprintf("row %d, period %d", rowNum, num)
		}
		out = append(out, extract.Candidate{
			Kind:           extract.CandidateShift,
			BaseConfidence: base,
			Fields:         obs,
			Evidence:       ev,
		})
	}

	if len(out) == 0 && len(shared) > 0 {
		out = append(out, extract.Candidate{
			Kind:           extract.CandidateShift,
			BaseConfidence: base,
			Fields:         shared,
			Evidence:       rowEv,
		})
	}
	return out
}

func timeObservations(kind models.FileKind, p *shiftPeriod, row []string, rowNum int) []extract.FieldObservation {
	var obs []extract.FieldObservation
	for _, col := range []*mappedColumn{p.start, p.end} {
		if col == nil || col.index >= len(row) {
			continue
		}
		raw := row[col.index]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		obs = append(obs, extract.FieldObservation{
			Field:    col.canonical,
			RawValue: raw,
			Evidence: models.Evidence{
				FileType:   kind,
				SourceHint: fmt.Sprintf("row %d, column %s", rowNum, col.rawHeader),
				RawText:    raw,
			},
		})
	}
	return obs
}

// lunchBreakObservation derives unpaid break minutes from the lunch column
// pair. An unparseable or inverted pair passes the raw cells through
// instead, so the aggregator flags the field for review rather than
// dropping it.
func lunchBreakObservation(kind models.FileKind, lay tableLayout, row []string, rowNum int) *extract.FieldObservation {
	if !lay.hasLunchPair() {
		return nil
	}
	rawStart := cellAt(row, lay.lunchStart.index)
	rawEnd := cellAt(row, lay.lunchEnd.index)
	if rawStart == "" || rawEnd == "" {
		return nil
	}

	value := rawStart + "-" + rawEnd
	if mins, ok := lunchMinutes(rawStart, rawEnd); ok {
		value = strconv.Itoa(mins)
	}
	return &extract.FieldObservation{
		Field:    models.FieldUnpaidBreak,
		RawValue: value,
		Evidence: models.Evidence{
			FileType:   kind,
			SourceHint: fmt.Sprintf("row %d, columns %s/%s", rowNum, lay.lunchStart.rawHeader, lay.lunchEnd.rawHeader),
			RawText:    rawStart + " " + rawEnd,
		},
	}
}

func lunchMinutes(rawStart, rawEnd string) (int, bool) {
	n := extract.NewNormalizer()
	s, okS := n.Normalize(models.FieldStartTime, rawStart)
	e, okE := n.Normalize(models.FieldEndTime, rawEnd)
	if !okS || !okE {
		return 0, false
	}
	start, err1 := time.Parse("15:04", s.Value.(string))
	end, err2 := time.Parse("15:04", e.Value.(string))
	if err1 != nil || err2 != nil || !end.After(start) {
		return 0, false
	}
	return int(end.Sub(start).Minutes()), true
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// employeeColumn maps a canonical column to the field it feeds on an
// employee candidate; ok=false excludes the column from that candidate.
func employeeColumn(canon string) (string, bool) {
	switch canon {
	case models.FieldName, models.FieldRole, models.FieldEmail, models.FieldPhone,
		models.FieldWage, models.FieldMinHours, models.FieldMaxHours:
		return canon, true
	}
	return "", false
}

// shiftColumn maps a canonical shared column to the field it feeds on a
// shift candidate; the name column becomes employee_name. Time columns
// never appear here, they are grouped into periods during header mapping.
func shiftColumn(canon string) (string, bool) {
	switch canon {
	case models.FieldName:
		return models.FieldEmployeeName, true
	case models.FieldRole, models.FieldDate, models.FieldUnpaidBreak,
		models.FieldStatus, models.FieldLocation, models.FieldOvernight:
		return canon, true
	}
	return "", false
}

func rowObservations(kind models.FileKind, cols []mappedColumn, row []string, rowNum int, pick func(string) (string, bool)) []extract.FieldObservation {
	var obs []extract.FieldObservation
	for _, col := range cols {
		field, ok := pick(col.canonical)
		if !ok || col.index >= len(row) {
			continue
		}
		raw := row[col.index]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		obs = append(obs, extract.FieldObservation{
			Field:    field,
			RawValue: raw,
			Evidence: models.Evidence{
				FileType:   kind,
				SourceHint: fmt.Sprintf("row %d, column %s", rowNum, col.rawHeader),
				RawText:    raw,
			},
		})
	}
	return obs
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func nonEmptyCells(row []string) []string {
	var out []string
	for _, c := range row {
		if s := strings.TrimSpace(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
