package constants

import (
	"strings"
)

// ComponentType is the closed set of building component kinds the
// recognizer can produce.
type ComponentType string

const (
	Beam    ComponentType = "Beam"
	Column  ComponentType = "Column"
	Wall    ComponentType = "Wall"
	Slab    ComponentType = "Slab"
	Door    ComponentType = "Door"
	Window  ComponentType = "Window"
	Stair   ComponentType = "Stair"
	Unknown ComponentType = "Unknown"
)

var allTypes = []ComponentType{
	Beam,
	Column,
	Wall,
	Slab,
	Door,
	Window,
	Stair,
}

// AsStringSlice returns every concrete (non-Unknown) component type.
func AsStringSlice() []string {
	result := make([]string, len(allTypes))
	for i, ct := range allTypes {
		result[i] = string(ct)
	}
	return result
}

// RequiredFields reports the dimension fields a component of the given
// type must carry to be considered complete. Round members may satisfy
// width+height via diameter; see IsVolumetric and the validator.
func RequiredFields(ct ComponentType) []string {
	switch ct {
	case Beam, Column, Wall, Slab, Stair:
		return []string{"width", "height", "length"}
	case Door, Window:
		return []string{"width", "height"}
	default:
		return nil
	}
}

// IsVolumetric reports whether volume sanity checks apply to the type.
func IsVolumetric(ct ComponentType) bool {
	switch ct {
	case Beam, Column, Wall, Slab, Stair:
		return true
	}
	return false
}

// Canonicalize maps a free-form type label (e.g. from an external model)
// onto the closed enumeration. Returns Unknown and false when the label
// does not resolve.
func Canonicalize(input string) (ComponentType, bool) {
	if input == "" {
		return Unknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]ComponentType{
		"梁":            Beam,
		"框架梁":          Beam,
		"girder":       Beam,
		"柱":            Column,
		"框架柱":          Column,
		"pillar":       Column,
		"墙":            Wall,
		"剪力墙":          Wall,
		"shear wall":   Wall,
		"板":            Slab,
		"楼板":           Slab,
		"floor slab":   Slab,
		"plate":        Slab,
		"门":            Door,
		"窗":            Window,
		"楼梯":           Stair,
		"staircase":    Stair,
		"stairs":       Stair,
	}

	if ct, ok := synonyms[normalized]; ok {
		return ct, true
	}

	// check if it matches any type string
	for _, ct := range allTypes {
		if normalized == strings.ToLower(string(ct)) {
			return ct, true
		}
	}

	return Unknown, false
}
