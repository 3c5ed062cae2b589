// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"slices"
	"sort"
)

// Category names used in breakdowns, metrics and API paths.
const (
	CategoryEducation  = "education"
	CategoryExperience = "experience"
	CategorySkills     = "skills"
)

// ScoredElement is one rated education or experience entry.
type ScoredElement struct {
	Rating Rating `json:"rating" yaml:"rating"`
	// Reason is a human-readable justification carried through for display.
	Reason string `json:"reason" yaml:"reason"`
	// Index optionally tracks the entry's original position.
	Index *int `json:"index,omitempty" yaml:"index,omitempty"`
}

// SkillsScore maps a skill name to its rating.
type SkillsScore map[string]Rating

// ScorableData is the complete pre-rated input to one scoring call.
type ScorableData struct {
	Education  []ScoredElement `json:"education" yaml:"education"`
	Experience []ScoredElement `json:"experience" yaml:"experience"`
	Skills     SkillsScore     `json:"skills" yaml:"skills"`
}

// Validate reports the first rating that is not low, medium or high.
// Values built in code can bypass UnmarshalText, so the engine re-checks.
func (d ScorableData) Validate() error {
	if err := validateElements(CategoryEducation, d.Education); err != nil {
		return err
	}
	if err := validateElements(CategoryExperience, d.Experience); err != nil {
		return err
	}
	// Sorted so the reported skill is stable across runs.
	names := make([]string, 0, len(d.Skills))
	for name := range d.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if r := d.Skills[name]; !r.Valid() {
			return fmt.Errorf("%w: %s[%q] = %q", ErrUnknownRating, CategorySkills, name, string(r))
		}
	}
	return nil
}

func validateElements(category string, elems []ScoredElement) error {
	for i, e := range elems {
		if !e.Rating.Valid() {
			return fmt.Errorf("%w: %s[%d] = %q", ErrUnknownRating, category, i, string(e.Rating))
		}
	}
	return nil
}

// Clone returns a deep copy so results never alias caller-owned data.
func (d ScorableData) Clone() ScorableData {
	return ScorableData{
		Education:  cloneElements(d.Education),
		Experience: cloneElements(d.Experience),
		Skills:     d.Skills.Clone(),
	}
}

// Clone returns a copy of the skills map. A nil map stays nil.
func (s SkillsScore) Clone() SkillsScore {
	if s == nil {
		return nil
	}
	out := make(SkillsScore, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func cloneElements(elems []ScoredElement) []ScoredElement {
	out := slices.Clone(elems)
	for i := range out {
		if out[i].Index != nil {
			idx := *out[i].Index
			out[i].Index = &idx
		}
	}
	return out
}
