package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Fraction selects how experimental columns are interpreted before use.
type Fraction int

const (
	AsIs Fraction = iota
	ToMole
	ToMass
	Pchelkin
)

// From selects the theoretical column that feeds DAG13.Calculated.
type From int

const (
	FromDag1223 From = iota
	FromMag2
)

// Signedness controls whether negative theoretical values survive.
type Signedness int

const (
	Signed Signedness = iota
	Unsigned
)

// Scope is the equivalence class a grouping level labels triplets by.
type Scope int

const (
	ScopeEcn Scope = iota
	ScopeMass
	ScopeType
	ScopeSpecies
	ScopeUnsaturation
)

// Stereospecificity is the symmetry policy applied before labeling.
type Stereospecificity int

const (
	NonStereospecific Stereospecificity = iota
	Positional
	Stereo
)

// SortBy is the sort axis of composition and comparison tables.
type SortBy int

const (
	SortByKey SortBy = iota
	SortByValue
)

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Join is the sample-join semantics of the comparator.
type Join int

const (
	JoinLeft Join = iota
	JoinAnd
	JoinOr
)

var (
	fractionNames          = []string{"AsIs", "ToMole", "ToMass", "Pchelkin"}
	fromNames              = []string{"Dag1223", "Mag2"}
	signednessNames        = []string{"Signed", "Unsigned"}
	scopeNames             = []string{"Ecn", "Mass", "Type", "Species", "Unsaturation"}
	stereospecificityNames = []string{"None", "Positional", "Stereo"}
	sortByNames            = []string{"Key", "Value"}
	orderNames             = []string{"Ascending", "Descending"}
	joinNames              = []string{"Left", "And", "Or"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return strconv.Itoa(v)
	}
	return names[v]
}

func parseEnum(kind string, names []string, s string) (int, error) {
	s = strings.TrimSpace(s)
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s '%s', must be one of %s", kind, s, strings.Join(names, ", "))
}

func (f Fraction) String() string          { return enumName(fractionNames, int(f)) }
func (f From) String() string              { return enumName(fromNames, int(f)) }
func (s Signedness) String() string        { return enumName(signednessNames, int(s)) }
func (s Scope) String() string             { return enumName(scopeNames, int(s)) }
func (s Stereospecificity) String() string { return enumName(stereospecificityNames, int(s)) }
func (s SortBy) String() string            { return enumName(sortByNames, int(s)) }
func (o Order) String() string             { return enumName(orderNames, int(o)) }
func (j Join) String() string              { return enumName(joinNames, int(j)) }

func (f Fraction) MarshalText() ([]byte, error)          { return []byte(f.String()), nil }
func (f From) MarshalText() ([]byte, error)              { return []byte(f.String()), nil }
func (s Signedness) MarshalText() ([]byte, error)        { return []byte(s.String()), nil }
func (s Scope) MarshalText() ([]byte, error)             { return []byte(s.String()), nil }
func (s Stereospecificity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s SortBy) MarshalText() ([]byte, error)            { return []byte(s.String()), nil }
func (o Order) MarshalText() ([]byte, error)             { return []byte(o.String()), nil }
func (j Join) MarshalText() ([]byte, error)              { return []byte(j.String()), nil }

func (f *Fraction) UnmarshalText(text []byte) error {
	v, err := parseEnum("fraction", fractionNames, string(text))
	if err != nil {
		return err
	}
	*f = Fraction(v)
	return nil
}

func (f *From) UnmarshalText(text []byte) error {
	v, err := parseEnum("from", fromNames, string(text))
	if err != nil {
		return err
	}
	*f = From(v)
	return nil
}

func (s *Signedness) UnmarshalText(text []byte) error {
	v, err := parseEnum("signedness", signednessNames, string(text))
	if err != nil {
		return err
	}
	*s = Signedness(v)
	return nil
}

func (s *Scope) UnmarshalText(text []byte) error {
	v, err := parseEnum("scope", scopeNames, string(text))
	if err != nil {
		return err
	}
	*s = Scope(v)
	return nil
}

func (s *Stereospecificity) UnmarshalText(text []byte) error {
	v, err := parseEnum("stereospecificity", stereospecificityNames, string(text))
	if err != nil {
		return err
	}
	*s = Stereospecificity(v)
	return nil
}

func (s *SortBy) UnmarshalText(text []byte) error {
	v, err := parseEnum("sort", sortByNames, string(text))
	if err != nil {
		return err
	}
	*s = SortBy(v)
	return nil
}

func (o *Order) UnmarshalText(text []byte) error {
	v, err := parseEnum("order", orderNames, string(text))
	if err != nil {
		return err
	}
	*o = Order(v)
	return nil
}

func (j *Join) UnmarshalText(text []byte) error {
	v, err := parseEnum("join", joinNames, string(text))
	if err != nil {
		return err
	}
	*j = Join(v)
	return nil
}

// Filter is the per-level bucket filter.
type Filter struct {
	Value float64 `mapstructure:"value" json:"value"` // Minimum Value{i} to keep a bucket
}

// Group configures one grouping level of the aggregator.
type Group struct {
	Scope             Scope             `mapstructure:"scope" json:"scope"`
	Stereospecificity Stereospecificity `mapstructure:"stereospecificity" json:"stereospecificity"`
	Filter            Filter            `mapstructure:"filter" json:"filter"`
}

// String renders the group in the form accepted by ParseGroup.
func (g Group) String() string {
	return fmt.Sprintf("%s:%s:%s", g.Scope, g.Stereospecificity, strconv.FormatFloat(g.Filter.Value, 'g', -1, 64))
}

// ParseGroup parses "scope[:stereospecificity[:filter]]", e.g. "ecn:none:0.01".
// Stereospecificity defaults to Stereo and the filter to 0.
func ParseGroup(s string) (Group, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Group{}, fmt.Errorf("invalid group '%s', expected scope[:stereospecificity[:filter]]", s)
	}
	g := Group{Stereospecificity: Stereo}
	if err := g.Scope.UnmarshalText([]byte(parts[0])); err != nil {
		return Group{}, err
	}
	if len(parts) > 1 {
		if err := g.Stereospecificity.UnmarshalText([]byte(parts[1])); err != nil {
			return Group{}, err
		}
	}
	if len(parts) > 2 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return Group{}, fmt.Errorf("invalid group filter '%s': %w", parts[2], err)
		}
		g.Filter.Value = v
	}
	return g, nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText lets a group be configured with the ParseGroup shorthand.
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Settings holds every independently configurable option of the pipeline.
type Settings struct {
	// Calculation
	Fraction   Fraction   `mapstructure:"fraction" json:"fraction"`
	From       From       `mapstructure:"from" json:"from"`
	Signedness Signedness `mapstructure:"signedness" json:"signedness"`

	// Composition
	Adduct    Adduct  `mapstructure:"adduct" json:"adduct"`
	Precision uint32  `mapstructure:"precision" json:"precision"`
	Groups    []Group `mapstructure:"groups" json:"groups"`
	Sort      SortBy  `mapstructure:"sort" json:"sort"`
	Order     Order   `mapstructure:"order" json:"order"`

	// Comparison
	Join Join  `mapstructure:"join" json:"join"`
	DDOF uint8 `mapstructure:"ddof" json:"ddof"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Fraction:   AsIs,
		From:       FromMag2,
		Signedness: Unsigned,
		Precision:  1,
		Sort:       SortByValue,
		Order:      Descending,
		Join:       JoinOr,
		DDOF:       1,
	}
}

// Levels returns the number of composition labels each aggregated row
// carries. Without groups the raw triplet species is the single label.
func (s Settings) Levels() int {
	if len(s.Groups) == 0 {
		return 1
	}
	return len(s.Groups)
}
