// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"math"
	"sort"
	"strings"

	"github.com/amaziapp/shiftsheet/internal/models"
)

// ReviewThreshold is the per-field confidence below which a field name is
// surfaced in the preview's needs_review_fields set.
const ReviewThreshold = 0.8

// missingLoadBearingCap bounds record confidence when a load-bearing field
// (name for employees; date, start and end for shifts) is absent entirely.
const missingLoadBearingCap = 0.3

// endBeforeStartCap bounds shift confidence when the shift ends at or before
// its start without an explicit overnight marker.
const endBeforeStartCap = 0.4

// contradictoryBoundsCap bounds hour-bound confidence when min exceeds max.
const contradictoryBoundsCap = 0.4

// aggregator merges normalized candidates into the final preview: employees
// deduplicated by normalized-name equality, shifts kept one per source row,
// per-field confidence folded into record confidence and the review set.
type aggregator struct {
	kind   models.FileKind
	norm   *Normalizer
	review map[string]struct{}
}

func newAggregator(kind models.FileKind) *aggregator {
	return &aggregator{
		kind:   kind,
		norm:   NewNormalizer(),
		review: make(map[string]struct{}),
	}
}

func (a *aggregator) flag(field string) {
	a.review[field] = struct{}{}
}

type employeeDraft struct {
	rec  models.EmployeeRecord
	conf map[string]float64
}

func (a *aggregator) build(res Result) *models.ExtractionPreview {
	var drafts []*employeeDraft
	byName := make(map[string]*employeeDraft)
	shifts := make([]models.ShiftRecord, 0)
	kindSeen := make(map[CandidateKind]bool)

	for _, cand := range res.Candidates {
		kindSeen[cand.Kind] = true
		fields := a.normalizeCandidate(cand)
		switch cand.Kind {
		case CandidateEmployee:
			drafts = a.mergeEmployee(drafts, byName, cand, fields)
		case CandidateShift:
			shifts = append(shifts, a.buildShift(cand, fields))
		}
	}

	employees := make([]models.EmployeeRecord, 0, len(drafts))
	for _, d := range drafts {
		a.finalizeEmployee(d)
		employees = append(employees, d.rec)
	}

	if res.Partial {
		if len(res.Candidates) == 0 {
			for _, f := range models.AllFields() {
				a.flag(f)
			}
		} else {
			if kindSeen[CandidateEmployee] {
				for _, f := range models.EmployeeFields() {
					a.flag(f)
				}
			}
			if kindSeen[CandidateShift] {
				for _, f := range models.ShiftFields() {
					a.flag(f)
				}
			}
		}
	}

	review := make([]string, 0, len(a.review))
	for f := range a.review {
		review = append(review, f)
	}
	sort.Strings(review)

	return &models.ExtractionPreview{
		FileType:          a.kind,
		Employees:         employees,
		Shifts:            shifts,
		NeedsReviewFields: review,
	}
}

// normalizeCandidate types every observation of one candidate, scaling each
// field confidence by the candidate's base confidence. Attempted values that
// normalize to nothing are flagged for review; they never abort the record.
func (a *aggregator) normalizeCandidate(cand Candidate) map[string]NormalizedField {
	out := make(map[string]NormalizedField, len(cand.Fields))
	for _, obs := range cand.Fields {
		nf, ok := a.norm.Normalize(obs.Field, obs.RawValue)
		if !ok {
			if strings.TrimSpace(obs.RawValue) != "" {
				a.flag(obs.Field)
			}
			continue
		}
		nf.Confidence *= cand.BaseConfidence
		if prev, dup := out[obs.Field]; !dup || nf.Confidence > prev.Confidence {
			out[obs.Field] = nf
		}
	}
	return out
}

// mergeEmployee groups employee candidates by normalized-name equality.
// Later observations for the same person only fill null fields; a
// conflicting non-null value keeps the higher confidence and flags the
// field for review.
func (a *aggregator) mergeEmployee(drafts []*employeeDraft, byName map[string]*employeeDraft, cand Candidate, fields map[string]NormalizedField) []*employeeDraft {
	var key string
	if nf, ok := fields[models.FieldName]; ok {
		key = strings.ToLower(nf.Value.(string))
	}

	if key != "" {
		if existing := byName[key]; existing != nil {
			for f, nf := range fields {
				a.mergeEmployeeField(existing, f, nf)
			}
			return drafts
		}
	}

	d := &employeeDraft{conf: make(map[string]float64, len(fields))}
	ev := cand.Evidence
	d.rec.Evidence = &ev
	for f, nf := range fields {
		setEmployeeField(&d.rec, f, nf.Value)
		d.conf[f] = nf.Confidence
	}
	drafts = append(drafts, d)
	if key != "" {
		byName[key] = d
	}
	return drafts
}

func (a *aggregator) mergeEmployeeField(d *employeeDraft, field string, nf NormalizedField) {
	current, present := getEmployeeField(&d.rec, field)
	if !present {
		setEmployeeField(&d.rec, field, nf.Value)
		d.conf[field] = nf.Confidence
		return
	}
	if current == nf.Value {
		if nf.Confidence > d.conf[field] {
			d.conf[field] = nf.Confidence
		}
		return
	}
	// Conflicting values for the same person: keep the higher-confidence
	// one and surface the field for review.
	if nf.Confidence > d.conf[field] {
		setEmployeeField(&d.rec, field, nf.Value)
		d.conf[field] = nf.Confidence
	}
	a.flag(field)
}

func (a *aggregator) finalizeEmployee(d *employeeDraft) {
	if d.rec.MinHours != nil && d.rec.MaxHours != nil && *d.rec.MinHours > *d.rec.MaxHours {
		d.conf[models.FieldMinHours] = math.Min(d.conf[models.FieldMinHours], contradictoryBoundsCap)
		d.conf[models.FieldMaxHours] = math.Min(d.conf[models.FieldMaxHours], contradictoryBoundsCap)
		a.flag(models.FieldMinHours)
		a.flag(models.FieldMaxHours)
	}

	conf := 1.0
	if d.rec.Name == "" {
		conf = missingLoadBearingCap
		a.flag(models.FieldName)
	} else {
		conf = d.conf[models.FieldName]
	}
	d.rec.Confidence = conf

	for f, c := range d.conf {
		if c < ReviewThreshold {
			a.flag(f)
		}
	}
}

func (a *aggregator) buildShift(cand Candidate, fields map[string]NormalizedField) models.ShiftRecord {
	var rec models.ShiftRecord
	ev := cand.Evidence
	rec.Evidence = &ev
	for f, nf := range fields {
		setShiftField(&rec, f, nf.Value)
	}

	minLoadBearing := 1.0
	anyMissing := false
	for _, f := range []string{models.FieldDate, models.FieldStartTime, models.FieldEndTime} {
		nf, ok := fields[f]
		if !ok {
			anyMissing = true
			a.flag(f)
			continue
		}
		minLoadBearing = math.Min(minLoadBearing, nf.Confidence)
	}

	conf := minLoadBearing
	if anyMissing {
		conf = math.Min(conf, missingLoadBearingCap)
	}

	// Canonical "15:04" strings order lexicographically, so a plain string
	// comparison detects an end at or before the start.
	if rec.StartTime != "" && rec.EndTime != "" && rec.EndTime <= rec.StartTime && !rec.Overnight {
		a.flag(models.ReviewEndBeforeStart)
		conf = math.Min(conf, endBeforeStartCap)
	}
	rec.Confidence = conf

	for f, nf := range fields {
		if nf.Confidence < ReviewThreshold {
			a.flag(f)
		}
	}
	return rec
}

func setEmployeeField(rec *models.EmployeeRecord, field string, v any) {
	switch field {
	case models.FieldName:
		rec.Name = v.(string)
	case models.FieldRole:
		s := v.(string)
		rec.Role = &s
	case models.FieldEmail:
		s := v.(string)
		rec.Email = &s
	case models.FieldPhone:
		s := v.(string)
		rec.Phone = &s
	case models.FieldWage:
		f := v.(float64)
		rec.Wage = &f
	case models.FieldMinHours:
		n := v.(int)
		rec.MinHours = &n
	case models.FieldMaxHours:
		n := v.(int)
		rec.MaxHours = &n
	}
}

func getEmployeeField(rec *models.EmployeeRecord, field string) (any, bool) {
	switch field {
	case models.FieldName:
		return rec.Name, rec.Name != ""
	case models.FieldRole:
		if rec.Role != nil {
			return *rec.Role, true
		}
	case models.FieldEmail:
		if rec.Email != nil {
			return *rec.Email, true
		}
	case models.FieldPhone:
		if rec.Phone != nil {
			return *rec.Phone, true
		}
	case models.FieldWage:
		if rec.Wage != nil {
			return *rec.Wage, true
		}
	case models.FieldMinHours:
		if rec.MinHours != nil {
			return *rec.MinHours, true
		}
	case models.FieldMaxHours:
		if rec.MaxHours != nil {
			return *rec.MaxHours, true
		}
	}
	return nil, false
}

func setShiftField(rec *models.ShiftRecord, field string, v any) {
	switch field {
	case models.FieldEmployeeName:
		rec.EmployeeName = v.(string)
	case models.FieldRole:
		s := v.(string)
		rec.Role = &s
	case models.FieldDate:
		rec.Date = v.(string)
	case models.FieldStartTime:
		rec.StartTime = v.(string)
	case models.FieldEndTime:
		rec.EndTime = v.(string)
	case models.FieldOvernight:
		rec.Overnight = v.(bool)
	case models.FieldUnpaidBreak:
		n := v.(int)
		rec.UnpaidBreakMin = &n
	case models.FieldStatus:
		s := v.(string)
		rec.Status = &s
	case models.FieldLocation:
		s := v.(string)
		rec.Location = &s
	}
}
