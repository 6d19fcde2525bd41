package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FattyAcid represents a single fatty acyl chain.
type FattyAcid struct {
	Label   string `json:"Label"`   // Display name (e.g., "Oleic"); may be empty
	Carbons uint8  `json:"Carbons"` // Total carbon count
	Doubles []int8 `json:"Doubles"` // 1-based C=C positions; negative = trans
	Triples []int8 `json:"Triples"` // 1-based C≡C positions; negative = trans
}

// Unsaturation counts the unsaturated bonds of a fatty acid.
type Unsaturation struct {
	Doubles int
	Triples int
}

// Degree returns the number of hydrogen pairs missing relative to the
// saturated chain.
func (u Unsaturation) Degree() int {
	return u.Doubles + 2*u.Triples
}

// String renders the unsaturation as "D" or "D:T".
func (u Unsaturation) String() string {
	if u.Triples == 0 {
		return strconv.Itoa(u.Doubles)
	}
	return fmt.Sprintf("%d:%d", u.Doubles, u.Triples)
}

// Compare orders by degree, then triple count.
func (u Unsaturation) Compare(o Unsaturation) int {
	if d := u.Degree() - o.Degree(); d != 0 {
		return sign(d)
	}
	return sign(u.Triples - o.Triples)
}

// Hydrogens returns the hydrogen count of the free fatty acid.
func (fa FattyAcid) Hydrogens() int {
	return 2*int(fa.Carbons) - 2*len(fa.Doubles) - 4*len(fa.Triples)
}

// Mass returns the mass of the free fatty acid (CcHhO2).
func (fa FattyAcid) Mass() float64 {
	return float64(fa.Carbons)*MassC + float64(fa.Hydrogens())*MassH + 2*MassO
}

// ECN returns the equivalent carbon number.
func (fa FattyAcid) ECN() int {
	return int(fa.Carbons) - 2*len(fa.Doubles) - 4*len(fa.Triples)
}

// Saturated reports whether the chain has no unsaturated bonds.
func (fa FattyAcid) Saturated() bool {
	return len(fa.Doubles) == 0 && len(fa.Triples) == 0
}

// Unsaturation returns the unsaturated bond counts.
func (fa FattyAcid) Unsaturation() Unsaturation {
	return Unsaturation{Doubles: len(fa.Doubles), Triples: len(fa.Triples)}
}

// SpeciesLabel returns the canonical identity of the fatty acid, e.g. "18:0",
// "18:2Δ9,12" or "18:1:1Δ9t,12". Bonds are listed doubles first, then triples,
// each group ordered by position; trans bonds carry a "t" suffix.
func (fa FattyAcid) SpeciesLabel() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d", fa.Carbons, len(fa.Doubles))
	if len(fa.Triples) > 0 {
		fmt.Fprintf(&b, ":%d", len(fa.Triples))
	}
	if fa.Saturated() {
		return b.String()
	}
	b.WriteString("Δ")
	positions := append(sortedBonds(fa.Doubles), sortedBonds(fa.Triples)...)
	for i, p := range positions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatBond(p))
	}
	return b.String()
}

// Name returns the display label, falling back to the species label.
func (fa FattyAcid) Name() string {
	if fa.Label != "" {
		return fa.Label
	}
	return fa.SpeciesLabel()
}

// Validate checks the structural invariants of the fatty acid.
func (fa FattyAcid) Validate() error {
	var errs []string

	if fa.Carbons < 1 {
		errs = append(errs, "carbons must be at least 1")
	}
	if n := len(fa.Doubles) + len(fa.Triples); n > 0 && n > int(fa.Carbons)-1 {
		errs = append(errs, fmt.Sprintf("%d unsaturated bonds do not fit %d carbons", n, fa.Carbons))
	}

	seen := make(map[int]bool)
	check := func(kind string, bonds []int8) {
		for _, p := range bonds {
			abs := absBond(p)
			switch {
			case p == 0:
				errs = append(errs, fmt.Sprintf("%s bond position 0 is not allowed", kind))
			case abs > int(fa.Carbons):
				errs = append(errs, fmt.Sprintf("%s bond position %d exceeds %d carbons", kind, abs, fa.Carbons))
			case seen[abs]:
				errs = append(errs, fmt.Sprintf("position %d is used more than once", abs))
			}
			seen[abs] = true
		}
	}
	check("double", fa.Doubles)
	check("triple", fa.Triples)

	if len(errs) > 0 {
		return &ParseError{Input: fa.SpeciesLabel(), Reason: strings.Join(errs, "; ")}
	}
	return nil
}

// Equal reports whether both fatty acids describe the same chain. The display
// label is ignored.
func (fa FattyAcid) Equal(o FattyAcid) bool {
	return fa.SpeciesLabel() == o.SpeciesLabel()
}

// ParseFattyAcid parses the textual forms "C:D", "C:D:T", "p1,p2-C:D[:T]" and
// "C:D[:T]Δp1,p2". Positions may carry a sign or a c/t (Z/E) suffix; a
// negative position or a t/E suffix marks a trans bond. The first D positions
// are double bonds and the remaining T are triple bonds. When positions are
// omitted they are assumed to be cis, laid out as described by defaultBonds.
func ParseFattyAcid(text string) (FattyAcid, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return FattyAcid{}, &ParseError{Input: text, Reason: "empty fatty acid"}
	}

	shorthand, prefix := input, ""
	if i := strings.Index(input, "Δ"); i >= 0 {
		shorthand, prefix = input[:i], input[i+len("Δ"):]
	} else if i := strings.LastIndex(input, "-"); i >= 0 {
		prefix, shorthand = input[:i], input[i+1:]
		if prefix == "" {
			return FattyAcid{}, &ParseError{Input: text, Reason: "missing positions before '-'"}
		}
	}

	parts := strings.Split(shorthand, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return FattyAcid{}, &ParseError{Input: text, Reason: "expected C:D or C:D:T"}
	}
	counts := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return FattyAcid{}, &ParseError{Input: text, Reason: fmt.Sprintf("invalid count '%s'", part)}
		}
		counts[i] = n
	}
	if counts[0] < 1 || counts[0] > 255 {
		return FattyAcid{}, &ParseError{Input: text, Reason: fmt.Sprintf("carbon count %d out of range", counts[0])}
	}
	carbons, doubles, triples := counts[0], counts[1], counts[2]

	var positions []int8
	if prefix != "" {
		for _, token := range strings.Split(prefix, ",") {
			p, err := parseBond(token)
			if err != nil {
				return FattyAcid{}, &ParseError{Input: text, Reason: err.Error()}
			}
			positions = append(positions, p)
		}
		if len(positions) != doubles+triples {
			return FattyAcid{}, &ParseError{
				Input:  text,
				Reason: fmt.Sprintf("%d positions given for %d unsaturated bonds", len(positions), doubles+triples),
			}
		}
	} else {
		positions = defaultBonds(carbons, doubles+triples)
		if positions == nil && doubles+triples > 0 {
			return FattyAcid{}, &ParseError{
				Input:  text,
				Reason: fmt.Sprintf("%d unsaturated bonds do not fit %d carbons", doubles+triples, carbons),
			}
		}
	}

	fa := FattyAcid{Carbons: uint8(carbons)}
	if doubles > 0 {
		fa.Doubles = sortedBonds(positions[:doubles])
	}
	if triples > 0 {
		fa.Triples = sortedBonds(positions[doubles:])
	}
	if err := fa.Validate(); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Input = text
		}
		return FattyAcid{}, err
	}
	return fa, nil
}

// MustParseFattyAcid is like ParseFattyAcid but panics on error. Intended for
// literals in tests and tables.
func MustParseFattyAcid(text string) FattyAcid {
	fa, err := ParseFattyAcid(text)
	if err != nil {
		panic(err)
	}
	return fa
}

// parseBond parses a single position token like "9", "-9", "9t" or "9Z".
func parseBond(token string) (int8, error) {
	token = strings.TrimSpace(token)
	trans := false
	if n := len(token); n > 0 {
		switch token[n-1] {
		case 't', 'T', 'e', 'E':
			trans = true
			token = token[:n-1]
		case 'c', 'C', 'z', 'Z':
			token = token[:n-1]
		}
	}
	p, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid bond position '%s'", token)
	}
	if p == 0 || p < -127 || p > 127 {
		return 0, fmt.Errorf("bond position %d out of range", p)
	}
	if trans && p > 0 {
		p = -p
	}
	return int8(p), nil
}

// defaultBonds lays out n cis bonds on a chain of the given length. The
// methylene-interrupted layout from Δ9 is preferred, then the one ending at
// ω-3 (EPA, DHA), then methylene-interrupted and finally consecutive bonds
// from Δ1. It returns nil when n bonds cannot fit.
func defaultBonds(carbons, n int) []int8 {
	if n == 0 {
		return nil
	}
	last := carbons - 1
	layouts := []struct{ first, step int }{
		{9, 3},
		{carbons - 3 - 3*(n-1), 3},
		{1, 3},
		{1, 1},
	}
	for _, l := range layouts {
		end := l.first + l.step*(n-1)
		if l.first < 1 || end > last || end > 127 {
			continue
		}
		positions := make([]int8, n)
		for i := range positions {
			positions[i] = int8(l.first + l.step*i)
		}
		return positions
	}
	return nil
}

func formatBond(p int8) string {
	if p < 0 {
		return strconv.Itoa(-int(p)) + "t"
	}
	return strconv.Itoa(int(p))
}

func sortedBonds(bonds []int8) []int8 {
	out := make([]int8, len(bonds))
	copy(out, bonds)
	sort.Slice(out, func(i, j int) bool {
		if ai, aj := absBond(out[i]), absBond(out[j]); ai != aj {
			return ai < aj
		}
		return out[i] < out[j]
	})
	return out
}

func absBond(p int8) int {
	if p < 0 {
		return -int(p)
	}
	return int(p)
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}
