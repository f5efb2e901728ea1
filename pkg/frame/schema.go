package frame

// Info is one row of the structure summary: dtype and non-null count.
type Info struct {
	Name    string
	Kind    Kind
	NonNull int
}

// Info summarises every column.
func (f *Frame) Info() []Info {
	out := make([]Info, len(f.cols))
	for i, c := range f.cols {
		out[i] = Info{Name: c.Name, Kind: c.Kind, NonNull: c.Len() - c.NullCount()}
	}
	return out
}
