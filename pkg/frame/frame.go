package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the storage kind of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "object"
	}
	return "float64"
}

var (
	ErrUnknownColumn = errors.New("frame: unknown column")
	ErrLength        = errors.New("frame: column length mismatch")
)

// Column holds one named attribute. Numeric missing values are NaN,
// categorical missing values are tracked in the null mask.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	null    []bool
}

// NewNumeric creates a numeric column. NaN marks a missing value.
func NewNumeric(name string, v []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Floats: v}
}

// NewCategorical creates a categorical column. null may be nil when no
// value is missing.
func NewCategorical(name string, v []string, null []bool) *Column {
	if null == nil {
		null = make([]bool, len(v))
	}
	return &Column{Name: name, Kind: Categorical, Strings: v, null: null}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.null[i]
}

// SetString stores a present categorical value at row i.
func (c *Column) SetString(i int, v string) {
	c.Strings[i] = v
	c.null[i] = false
}

// NullCount returns the number of missing values.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// PresentStrings returns the non-missing categorical values.
func (c *Column) PresentStrings() []string {
	out := make([]string, 0, len(c.Strings))
	for i, v := range c.Strings {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Format renders row i for display. Missing values print as NaN/None.
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		if c.Kind == Numeric {
			return "NaN"
		}
		return "None"
	}
	if c.Kind == Numeric {
		return FormatFloat(c.Floats[i])
	}
	return c.Strings[i]
}

func (c *Column) clone() *Column {
	n := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		n.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		n.Strings = append([]string(nil), c.Strings...)
		n.null = append([]bool(nil), c.null...)
	}
	return n
}

func (c *Column) filter(keep []bool) {
	w := 0
	for i, k := range keep {
		if !k {
			continue
		}
		if c.Kind == Numeric {
			c.Floats[w] = c.Floats[i]
		} else {
			c.Strings[w] = c.Strings[i]
			c.null[w] = c.null[i]
		}
		w++
	}
	if c.Kind == Numeric {
		c.Floats = c.Floats[:w]
	} else {
		c.Strings = c.Strings[:w]
		c.null = c.null[:w]
	}
}

// FormatFloat prints a float the way Python's repr does for the values a
// dataset holds: integral values keep a trailing ".0".
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(v, 0) {
		s += ".0"
	}
	return s
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// New builds a frame from columns. All columns must have the same length
// and unique names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.Add(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.cols) }

// Columns returns the columns in order. The slice must not be modified.
func (f *Frame) Columns() []*Column { return f.cols }

// Has reports whether a column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Col returns the named column.
func (f *Frame) Col(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return f.cols[i], nil
}

// Names returns all column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// NumericNames returns the names of numeric columns in order.
func (f *Frame) NumericNames() []string { return f.namesOf(Numeric) }

// CategoricalNames returns the names of categorical columns in order.
func (f *Frame) CategoricalNames() []string { return f.namesOf(Categorical) }

func (f *Frame) namesOf(k Kind) []string {
	var out []string
	for _, c := range f.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Add appends a column at the end.
func (f *Frame) Add(c *Column) error {
	if _, ok := f.index[c.Name]; ok {
		return fmt.Errorf("frame: duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && c.Len() != f.Len() {
		return fmt.Errorf("%w: %q has %d rows, frame has %d", ErrLength, c.Name, c.Len(), f.Len())
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// Replace swaps the named column for c, keeping its position.
func (f *Frame) Replace(name string, c *Column) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if c.Len() != f.Len() {
		return fmt.Errorf("%w: %q has %d rows, frame has %d", ErrLength, c.Name, c.Len(), f.Len())
	}
	if c.Name != name {
		if _, dup := f.index[c.Name]; dup {
			return fmt.Errorf("frame: duplicate column %q", c.Name)
		}
		delete(f.index, name)
		f.index[c.Name] = i
	}
	f.cols[i] = c
	return nil
}

// Drop removes the named columns. Unknown names are an error and leave the
// frame untouched.
func (f *Frame) Drop(names ...string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !f.Has(n) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		drop[n] = true
	}
	kept := f.cols[:0]
	for _, c := range f.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	f.cols = kept
	f.reindex()
	return nil
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.index[c.Name] = i
	}
}

// Filter keeps the rows where keep is true. Row order is preserved.
func (f *Frame) Filter(keep []bool) error {
	if len(keep) != f.Len() {
		return fmt.Errorf("%w: mask has %d rows, frame has %d", ErrLength, len(keep), f.Len())
	}
	for _, c := range f.cols {
		c.filter(keep)
	}
	return nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	n := &Frame{cols: make([]*Column, len(f.cols))}
	for i, c := range f.cols {
		n.cols[i] = c.clone()
	}
	n.reindex()
	return n
}

// Duplicated counts rows equal to an earlier row across every column.
// Missing values compare equal to each other, as do 0 and -0.
func (f *Frame) Duplicated() int {
	seen := make(map[string]struct{}, f.Len())
	dup := 0
	var sb strings.Builder
	for i := 0; i < f.Len(); i++ {
		sb.Reset()
		for _, c := range f.cols {
			if c.IsNull(i) {
				sb.WriteString("\x00")
			} else if c.Kind == Numeric {
				v := c.Floats[i]
				if v == 0 {
					v = 0 // -0 keys like 0
				}
				sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				sb.WriteString(c.Strings[i])
			}
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dup++
			continue
		}
		seen[key] = struct{}{}
	}
	return dup
}

// Matrix returns the numeric columns, except the excluded ones, as a
// row-major matrix together with the column names. A categorical column or
// a missing value is an error.
func (f *Frame) Matrix(exclude ...string) ([][]float64, []string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var cols []*Column
	for _, c := range f.cols {
		if skip[c.Name] {
			continue
		}
		if c.Kind != Numeric {
			return nil, nil, fmt.Errorf("frame: column %q is not numeric", c.Name)
		}
		cols = append(cols, c)
	}
	names := make([]string, len(cols))
	for j, c := range cols {
		names[j] = c.Name
	}
	X := make([][]float64, f.Len())
	for i := range X {
		row := make([]float64, len(cols))
		for j, c := range cols {
			v := c.Floats[i]
			if math.IsNaN(v) {
				return nil, nil, fmt.Errorf("frame: column %q has a missing value at row %d", c.Name, i)
			}
			row[j] = v
		}
		X[i] = row
	}
	return X, names, nil
}

// Head returns the first n rows rendered as strings.
func (f *Frame) Head(n int) [][]string {
	if n > f.Len() {
		n = f.Len()
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(f.cols))
		for j, c := range f.cols {
			row[j] = c.Format(i)
		}
		out[i] = row
	}
	return out
}
