package compose

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/utca/pkg/core"
)

// LabelSettings is what the labeler needs from core.Settings.
type LabelSettings struct {
	Adduct    core.Adduct
	Precision uint32
}

// Labeled is a triplet reduced to its per-level composition labels.
type Labeled struct {
	Composition []string
	Species     string
	Value       float64
}

// compareSlots orders two slots by the sort key of a scope.
func compareSlots(scope core.Scope, a, b Slot) int {
	switch scope {
	case core.ScopeEcn:
		return compareInt(a.FA.ECN(), b.FA.ECN())
	case core.ScopeMass:
		return compareFloat(a.FA.Mass(), b.FA.Mass())
	case core.ScopeType:
		return compareBool(a.FA.Saturated(), b.FA.Saturated())
	case core.ScopeSpecies:
		if c := strings.Compare(a.FA.SpeciesLabel(), b.FA.SpeciesLabel()); c != 0 {
			return c
		}
		if c := compareInt(int(a.FA.Carbons), int(b.FA.Carbons)); c != 0 {
			return c
		}
		if c := compareInt(len(a.FA.Doubles), len(b.FA.Doubles)); c != 0 {
			return c
		}
		if c := compareInt(len(a.FA.Triples), len(b.FA.Triples)); c != 0 {
			return c
		}
		return compareInt(a.Index, b.Index)
	case core.ScopeUnsaturation:
		return a.FA.Unsaturation().Compare(b.FA.Unsaturation())
	}
	return 0
}

// Canonicalize reorders a triplet under a stereospecificity using the sort
// key of scope. Stereo keeps sn order; Positional swaps SN1 and SN3 so that
// SN1 <= SN3; None sorts all three positions.
func Canonicalize(t Triplet, stereo core.Stereospecificity, scope core.Scope) Triplet {
	switch stereo {
	case core.Positional:
		if compareSlots(scope, t.SN3, t.SN1) < 0 {
			t.SN1, t.SN3 = t.SN3, t.SN1
		}
	case core.NonStereospecific:
		slots := t.Slots()
		sort.SliceStable(slots[:], func(i, j int) bool {
			return compareSlots(scope, slots[i], slots[j]) < 0
		})
		t.SN1, t.SN2, t.SN3 = slots[0], slots[1], slots[2]
	}
	return t
}

// Label synthesizes the composition label of a canonical triplet.
func Label(t Triplet, group core.Group, settings LabelSettings) string {
	slots := t.Slots()
	precision := int(settings.Precision)
	switch group.Scope {
	case core.ScopeEcn:
		if group.Stereospecificity == core.NonStereospecific {
			return strconv.Itoa(slots[0].FA.ECN() + slots[1].FA.ECN() + slots[2].FA.ECN())
		}
		return bracket(tokens(slots, func(s Slot) string { return strconv.Itoa(s.FA.ECN()) })...)
	case core.ScopeMass:
		if group.Stereospecificity == core.NonStereospecific {
			mass := core.TriacylglycerolMass(slots[0].FA, slots[1].FA, slots[2].FA) + float64(settings.Adduct)
			return core.FormatFloat(mass, precision)
		}
		label := bracket(tokens(slots, func(s Slot) string { return core.FormatFloat(s.FA.Mass(), precision) })...)
		if settings.Adduct != 0 {
			label += "+" + core.FormatFloat(float64(settings.Adduct), precision)
		}
		return label
	case core.ScopeType:
		return strings.Join(tokens(slots, func(s Slot) string {
			if s.FA.Saturated() {
				return "S"
			}
			return "U"
		}), "")
	case core.ScopeSpecies:
		return bracket(tokens(slots, func(s Slot) string { return s.FA.SpeciesLabel() })...)
	case core.ScopeUnsaturation:
		return bracket(tokens(slots, func(s Slot) string { return s.FA.Unsaturation().String() })...)
	}
	return t.Species
}

// LabelAll canonicalizes and labels every triplet for every group level. With
// no groups the raw triplet species is the only label.
func LabelAll(triplets []Triplet, groups []core.Group, settings LabelSettings) []Labeled {
	out := make([]Labeled, len(triplets))
	for i, t := range triplets {
		labeled := Labeled{Species: t.Species, Value: t.Value}
		if len(groups) == 0 {
			labeled.Composition = []string{t.Species}
		} else {
			labeled.Composition = make([]string, len(groups))
			for level, group := range groups {
				canonical := Canonicalize(t, group.Stereospecificity, group.Scope)
				labeled.Composition[level] = Label(canonical, group, settings)
			}
		}
		out[i] = labeled
	}
	return out
}

func tokens(slots [3]Slot, token func(Slot) string) []string {
	return []string{token(slots[0]), token(slots[1]), token(slots[2])}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareBool orders saturated (true) before unsaturated (false).
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	}
	return 1
}
