package pasture

import (
	"fmt"
	"strings"
)

// StiffnessCategory is one of the fixed pasture types offered to the user.
// Value is the sward stiffness in N/cm.
type StiffnessCategory struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Stiffness constants (N/cm)
const (
	StiffnessVeryYoung = 0.5
	StiffnessYoung     = 0.75
	StiffnessMedium    = 1.5
	StiffnessDense     = 3.0
)

var stiffnessCategories = []StiffnessCategory{
	{Name: "very_young", Label: "Very young pasture", Value: StiffnessVeryYoung},
	{Name: "young", Label: "Young pasture", Value: StiffnessYoung},
	{Name: "medium", Label: "Medium pasture", Value: StiffnessMedium},
	{Name: "dense", Label: "Dense pasture", Value: StiffnessDense},
}

// StiffnessCategories returns the ordered list of stiffness categories.
// The slice is a copy and may be modified by the caller.
func StiffnessCategories() []StiffnessCategory {
	out := make([]StiffnessCategory, len(stiffnessCategories))
	copy(out, stiffnessCategories)
	return out
}

// LookupStiffness returns the category whose value equals v.
func LookupStiffness(v float64) (StiffnessCategory, bool) {
	for _, c := range stiffnessCategories {
		if c.Value == v {
			return c, true
		}
	}
	return StiffnessCategory{}, false
}

// IsValidStiffness reports whether v is one of the offered categories.
func IsValidStiffness(v float64) bool {
	_, ok := LookupStiffness(v)
	return ok
}

// OptionLabel is the text shown in the select box, e.g. "Young pasture (0.75 N/cm)".
func (c StiffnessCategory) OptionLabel() string {
	return fmt.Sprintf("%s (%g N/cm)", c.Label, c.Value)
}

// SeriesLabel is the shorter legend entry used by charts, e.g. "Young (0.75)".
func (c StiffnessCategory) SeriesLabel() string {
	return fmt.Sprintf("%s (%g)", strings.TrimSuffix(c.Label, " pasture"), c.Value)
}
