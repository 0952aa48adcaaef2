package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the numeric representation of a Series
type Kind int

const (
	// KindInt holds exact 64-bit integers
	KindInt Kind = iota
	// KindFloat holds float64 values
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// nullTokens are the cell spellings read as missing values, on top of the
// empty cell. Matches the usual CSV tooling defaults.
var nullTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// ValueError reports a cell that is neither null nor numeric
type ValueError struct {
	Column string
	Row    int
	Value  string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q row %d: %q is not numeric", e.Column, e.Row, e.Value)
}

// Series is a nullable numeric column. Integer columns stay in int64 so
// nanosecond timestamps difference exactly.
type Series struct {
	Name   string
	Kind   Kind
	ints   []int64
	floats []float64
	valid  []bool
}

// ParseSeries parses the named table column. The series is KindInt when
// every non-null cell is an integer, KindFloat otherwise.
func ParseSeries(t *Table, name string) (*Series, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return ParseCells(name, cells)
}

// ParseCells parses raw cells into a Series
func ParseCells(name string, cells []string) (*Series, error) {
	s := &Series{
		Name:  name,
		Kind:  KindInt,
		ints:  make([]int64, len(cells)),
		valid: make([]bool, len(cells)),
	}

	for i, raw := range cells {
		cell := strings.TrimSpace(raw)
		if cell == "" || nullTokens[cell] {
			continue
		}
		s.valid[i] = true

		if s.Kind == KindInt {
			if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
				s.ints[i] = v
				continue
			}
			s.promote()
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &ValueError{Column: name, Row: i, Value: raw}
		}
		if math.IsNaN(v) {
			s.valid[i] = false
			continue
		}
		s.floats[i] = v
	}

	return s, nil
}

// promote converts the series to KindFloat
func (s *Series) promote() {
	if s.Kind == KindFloat {
		return
	}
	s.floats = make([]float64, len(s.valid))
	for i, v := range s.ints {
		s.floats[i] = float64(v)
	}
	s.ints = nil
	s.Kind = KindFloat
}

// Len returns the number of entries, nulls included
func (s *Series) Len() int {
	return len(s.valid)
}

// IsNull reports whether entry i is missing
func (s *Series) IsNull(i int) bool {
	return !s.valid[i]
}

// NullCount returns the number of missing entries
func (s *Series) NullCount() int {
	n := 0
	for _, ok := range s.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Float returns entry i as float64, NaN when null
func (s *Series) Float(i int) float64 {
	if !s.valid[i] {
		return math.NaN()
	}
	if s.Kind == KindInt {
		return float64(s.ints[i])
	}
	return s.floats[i]
}

// compare orders two non-null entries without going through float64
func (s *Series) compare(i, j int) int {
	if s.Kind == KindInt {
		switch {
		case s.ints[i] < s.ints[j]:
			return -1
		case s.ints[i] > s.ints[j]:
			return 1
		}
		return 0
	}
	switch {
	case s.floats[i] < s.floats[j]:
		return -1
	case s.floats[i] > s.floats[j]:
		return 1
	}
	return 0
}

// Format renders entry i for CSV output; null renders as ""
func (s *Series) Format(i int) string {
	if !s.valid[i] {
		return ""
	}
	if s.Kind == KindInt {
		return strconv.FormatInt(s.ints[i], 10)
	}
	return strconv.FormatFloat(s.floats[i], 'f', -1, 64)
}

// Strings renders every entry with Format
func (s *Series) Strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.Format(i)
	}
	return out
}

// Values returns the non-null entries in row order
func (s *Series) Values() []float64 {
	out := make([]float64, 0, s.Len())
	for i := range s.valid {
		if s.valid[i] {
			out = append(out, s.Float(i))
		}
	}
	return out
}

// Diff returns the first difference named name: entry 0 is null and entry
// i is s[i]-s[i-1], null when either side is null. Integer series stay
// integer unless a difference overflows int64.
func (s *Series) Diff(name string) *Series {
	n := s.Len()
	d := &Series{
		Name:  name,
		Kind:  s.Kind,
		valid: make([]bool, n),
	}

	if s.Kind == KindInt {
		d.ints = make([]int64, n)
		for i := 1; i < n; i++ {
			if !s.valid[i] || !s.valid[i-1] {
				continue
			}
			v, ok := subInt64(s.ints[i], s.ints[i-1])
			if !ok {
				return s.floatDiff(name)
			}
			d.ints[i] = v
			d.valid[i] = true
		}
		return d
	}

	return s.floatDiff(name)
}

func (s *Series) floatDiff(name string) *Series {
	n := s.Len()
	d := &Series{
		Name:   name,
		Kind:   KindFloat,
		floats: make([]float64, n),
		valid:  make([]bool, n),
	}
	for i := 1; i < n; i++ {
		if !s.valid[i] || !s.valid[i-1] {
			continue
		}
		// inf-inf has no defined value and is null like a parsed NaN
		v := s.Float(i) - s.Float(i-1)
		d.floats[i] = v
		d.valid[i] = !math.IsNaN(v)
	}
	return d
}

// subInt64 returns a-b and false on overflow
func subInt64(a, b int64) (int64, bool) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, false
	}
	return c, true
}
