// Package validate runs rule checks over finished components and
// aggregates severity-tagged findings into a report.
package validate

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/common"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/standards"
)

const (
	// common-size match tolerance in millimeters
	sizeTolerance = 20.0
	// building modulus and its acceptable remainder window
	modulus    = 50.0
	modulusLow = 10.0
	modulusHi  = 40.0
	// volumes above this (mm³) are almost certainly a unit mistake
	maxSaneVolume = 1e12 // 1000 m³

	beamRatioMin     = 0.3
	beamRatioMax     = 1.0
	columnAspectMax  = 3.0
	slabSpanRatioMin = 20.0
	slabSpanRatioMax = 50.0
)

// Validator checks components against the standards table. It keeps no
// state between calls.
type Validator struct {
	table *standards.Table
}

// New creates a Validator over a standards table.
func New(table *standards.Table) *Validator {
	return &Validator{table: table}
}

// Validate runs all five rule families over every component and
// aggregates the result. A component with no id or no resolved type is
// a programmer error and is rejected at the boundary.
func (v *Validator) Validate(components []entity.Component) (*entity.ValidationResult, error) {
	res := &entity.ValidationResult{Total: len(components)}
	for i := range components {
		c := components[i]
		if c.ID == uuid.Nil || c.Type == "" || c.Type == constants.Unknown {
			return nil, common.InvalidInputErrorf("component %d has no identity (id=%s type=%q)", i, c.ID, c.Type)
		}
		issues := v.ComponentIssues(c)
		res.Issues = append(res.Issues, issues...)
		switch worstSeverity(issues) {
		case entity.SeverityError:
			res.Errors++
		case entity.SeverityWarning:
			res.Warnings++
		default:
			res.Passed++
		}
	}
	return res, nil
}

func worstSeverity(issues []entity.ValidationIssue) entity.Severity {
	worst := entity.SeverityPass
	for _, is := range issues {
		if is.Severity == entity.SeverityError {
			return entity.SeverityError
		}
		if is.Severity == entity.SeverityWarning {
			worst = entity.SeverityWarning
		}
	}
	return worst
}

// ComponentIssues runs the five independent rule checks on one component.
func (v *Validator) ComponentIssues(c entity.Component) []entity.ValidationIssue {
	var issues []entity.ValidationIssue
	issues = append(issues, v.checkCompleteness(c)...)
	issues = append(issues, v.checkRanges(c)...)
	issues = append(issues, v.checkRatios(c)...)
	issues = append(issues, v.checkModulus(c)...)
	issues = append(issues, v.checkVolume(c)...)
	return issues
}

func issue(c entity.Component, sev entity.Severity, cat entity.IssueCategory, msg, suggestion string) entity.ValidationIssue {
	return entity.ValidationIssue{
		Severity:      sev,
		ComponentID:   c.ID,
		ComponentType: c.Type,
		Category:      cat,
		Message:       msg,
		Suggestion:    suggestion,
	}
}

func (v *Validator) checkCompleteness(c entity.Component) []entity.ValidationIssue {
	if c.Dimensions.IsEmpty() {
		return []entity.ValidationIssue{issue(c, entity.SeverityError, entity.IssueCompleteness,
			"no dimensions resolved", "re-check the source annotation or add dimensions manually")}
	}
	var issues []entity.ValidationIssue
	round := c.Dimensions.HasAll(entity.FieldDiameter, entity.FieldLength)
	for _, f := range constants.RequiredFields(c.Type) {
		field := entity.DimField(f)
		if round && (field == entity.FieldWidth || field == entity.FieldHeight) {
			continue
		}
		if !c.Dimensions.Has(field) {
			issues = append(issues, issue(c, entity.SeverityWarning, entity.IssueCompleteness,
				fmt.Sprintf("missing required field %s", field),
				fmt.Sprintf("supply %s from the drawing or standards", field)))
		}
	}
	return issues
}

func (v *Validator) checkRanges(c entity.Component) []entity.ValidationIssue {
	var issues []entity.ValidationIssue
	for _, f := range c.Dimensions.Fields() {
		r, ok := v.table.Range(c.Type, f)
		if !ok {
			continue
		}
		val := c.Dimensions.Get(f)
		if r.Contains(val) {
			continue
		}
		sev := entity.SeverityWarning
		if r.GrosslyOutside(val) {
			sev = entity.SeverityError
		}
		issues = append(issues, issue(c, sev, entity.IssueRange,
			fmt.Sprintf("%s=%.0f outside legal range [%.0f,%.0f]", f, val, r.Min, r.Max),
			"verify the annotation units and value"))
	}
	return issues
}

func (v *Validator) checkRatios(c entity.Component) []entity.ValidationIssue {
	d := c.Dimensions
	var issues []entity.ValidationIssue
	switch c.Type {
	case constants.Beam:
		if d.HasAll(entity.FieldWidth, entity.FieldHeight) && !d.Has(entity.FieldDiameter) {
			ratio := d.Get(entity.FieldWidth) / d.Get(entity.FieldHeight)
			if ratio < beamRatioMin || ratio > beamRatioMax {
				issues = append(issues, issue(c, entity.SeverityWarning, entity.IssueRatio,
					fmt.Sprintf("beam width/height ratio %.2f outside [%.1f,%.1f]", ratio, beamRatioMin, beamRatioMax),
					"beams are normally narrower than they are tall"))
			}
		}
	case constants.Column:
		if d.HasAll(entity.FieldWidth, entity.FieldHeight) {
			w, h := d.Get(entity.FieldWidth), d.Get(entity.FieldHeight)
			aspect := math.Max(w, h) / math.Min(w, h)
			if aspect > columnAspectMax {
				issues = append(issues, issue(c, entity.SeverityWarning, entity.IssueRatio,
					fmt.Sprintf("column aspect ratio %.1f exceeds %.0f, likely misclassified as wall", aspect, columnAspectMax),
					"re-check the classification"))
			}
		}
	case constants.Slab:
		if d.HasAll(entity.FieldLength, entity.FieldHeight) {
			span := d.Get(entity.FieldLength) / d.Get(entity.FieldHeight)
			if span < slabSpanRatioMin || span > slabSpanRatioMax {
				issues = append(issues, issue(c, entity.SeverityWarning, entity.IssueRatio,
					fmt.Sprintf("slab span/thickness ratio %.1f outside [%.0f,%.0f]", span, slabSpanRatioMin, slabSpanRatioMax),
					"verify the slab thickness"))
			}
		}
	}
	return issues
}

func (v *Validator) checkModulus(c entity.Component) []entity.ValidationIssue {
	var issues []entity.ValidationIssue
	for _, f := range c.Dimensions.Fields() {
		if f == entity.FieldDiameter {
			continue
		}
		val := c.Dimensions.Get(f)
		if nearCommonSize(val, v.table.CommonSizes(c.Type, f)) || withinModulus(val) {
			continue
		}
		issues = append(issues, issue(c, entity.SeverityWarning, entity.IssueModulus,
			fmt.Sprintf("%s=%.0f matches no common size and breaks the %.0fmm modulus", f, val, modulus),
			"round to the nearest modular size"))
	}
	return issues
}

func nearCommonSize(v float64, sizes []float64) bool {
	for _, s := range sizes {
		if math.Abs(v-s) <= sizeTolerance {
			return true
		}
	}
	return false
}

func withinModulus(v float64) bool {
	rem := math.Mod(v, modulus)
	return rem <= modulusLow || rem >= modulusHi
}

func (v *Validator) checkVolume(c entity.Component) []entity.ValidationIssue {
	if !constants.IsVolumetric(c.Type) {
		return nil
	}
	vol := c.Volume()
	if vol == 0 {
		return []entity.ValidationIssue{issue(c, entity.SeverityError, entity.IssueVolume,
			"computed volume is zero", "complete the missing dimensions")}
	}
	if vol > maxSaneVolume {
		return []entity.ValidationIssue{issue(c, entity.SeverityWarning, entity.IssueVolume,
			fmt.Sprintf("volume %.1f m³ exceeds 1000 m³, likely a unit error", vol/1e9),
			"check whether a value was entered in the wrong unit")}
	}
	return nil
}
