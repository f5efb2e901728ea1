package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

var ErrFormat = errors.New("data: malformed dataset")

type attribute struct {
	name    string
	kind    frame.Kind
	nominal map[string]bool
}

// LoadARFF opens and parses an ARFF file.
func LoadARFF(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := ReadARFF(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ReadARFF parses the dense ARFF format: a @relation line, one
// @attribute line per column and comma separated @data rows where ? marks
// a missing value. Numeric attributes become numeric columns, nominal,
// string and date attributes become categorical columns.
func ReadARFF(r io.Reader) (*frame.Frame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var attrs []attribute
	var floats [][]float64
	var strs [][]string
	var nulls [][]bool
	inData := false
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		if !inData {
			lower := strings.ToLower(text)
			switch {
			case strings.HasPrefix(lower, "@relation"):
			case strings.HasPrefix(lower, "@attribute"):
				a, err := parseAttribute(text[len("@attribute"):])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				attrs = append(attrs, a)
			case strings.HasPrefix(lower, "@data"):
				if len(attrs) == 0 {
					return nil, fmt.Errorf("line %d: %w: @data before any @attribute", line, ErrFormat)
				}
				inData = true
				floats = make([][]float64, len(attrs))
				strs = make([][]string, len(attrs))
				nulls = make([][]bool, len(attrs))
			default:
				return nil, fmt.Errorf("line %d: %w: unexpected header %q", line, ErrFormat, text)
			}
			continue
		}

		if strings.HasPrefix(text, "{") {
			return nil, fmt.Errorf("line %d: %w: sparse rows are not supported", line, ErrFormat)
		}
		fields, err := splitFields(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(fields) != len(attrs) {
			return nil, fmt.Errorf("line %d: %w: %d values for %d attributes", line, ErrFormat, len(fields), len(attrs))
		}
		for j, fld := range fields {
			a := attrs[j]
			missing := !fld.quoted && fld.value == "?"
			if a.kind == frame.Numeric {
				v := math.NaN()
				if !missing {
					v, err = strconv.ParseFloat(fld.value, 64)
					if err != nil {
						return nil, fmt.Errorf("line %d: %w: attribute %q: %v", line, ErrFormat, a.name, err)
					}
				}
				floats[j] = append(floats[j], v)
				continue
			}
			if !missing && a.nominal != nil && !a.nominal[fld.value] {
				return nil, fmt.Errorf("line %d: %w: %q is not a value of %q", line, ErrFormat, fld.value, a.name)
			}
			if missing {
				strs[j] = append(strs[j], "")
			} else {
				strs[j] = append(strs[j], fld.value)
			}
			nulls[j] = append(nulls[j], missing)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !inData {
		return nil, fmt.Errorf("%w: no @data section", ErrFormat)
	}

	cols := make([]*frame.Column, len(attrs))
	for j, a := range attrs {
		if a.kind == frame.Numeric {
			if floats[j] == nil {
				floats[j] = []float64{}
			}
			cols[j] = frame.NewNumeric(a.name, floats[j])
		} else {
			if strs[j] == nil {
				strs[j], nulls[j] = []string{}, []bool{}
			}
			cols[j] = frame.NewCategorical(a.name, strs[j], nulls[j])
		}
	}
	return frame.New(cols...)
}

func parseAttribute(rest string) (attribute, error) {
	rest = strings.TrimSpace(rest)
	name, rest, err := nextToken(rest)
	if err != nil {
		return attribute{}, err
	}
	typ := strings.TrimSpace(rest)
	if name == "" || typ == "" {
		return attribute{}, fmt.Errorf("%w: incomplete @attribute", ErrFormat)
	}
	a := attribute{name: name}
	if strings.HasPrefix(typ, "{") {
		if !strings.HasSuffix(typ, "}") {
			return attribute{}, fmt.Errorf("%w: unterminated nominal list for %q", ErrFormat, name)
		}
		vals, err := splitFields(typ[1 : len(typ)-1])
		if err != nil {
			return attribute{}, err
		}
		a.kind = frame.Categorical
		a.nominal = make(map[string]bool, len(vals))
		for _, v := range vals {
			a.nominal[v.value] = true
		}
		return a, nil
	}
	switch kw := strings.ToLower(strings.Fields(typ)[0]); kw {
	case "numeric", "real", "integer":
		a.kind = frame.Numeric
	case "string", "date":
		a.kind = frame.Categorical
	default:
		return attribute{}, fmt.Errorf("%w: unsupported attribute type %q for %q", ErrFormat, kw, name)
	}
	return a, nil
}

// nextToken reads one possibly quoted token and returns the remainder.
func nextToken(s string) (string, string, error) {
	if s == "" {
		return "", "", nil
	}
	if q := s[0]; q == '\'' || q == '"' {
		var sb strings.Builder
		for i := 1; i < len(s); i++ {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s):
				i++
				sb.WriteByte(s[i])
			case c == q:
				return sb.String(), s[i+1:], nil
			default:
				sb.WriteByte(c)
			}
		}
		return "", "", fmt.Errorf("%w: unterminated quote in %q", ErrFormat, s)
	}
	end := strings.IndexAny(s, " \t")
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

type field struct {
	value  string
	quoted bool
}

// splitFields splits a comma separated list honouring single and double
// quotes and backslash escapes inside quotes.
func splitFields(s string) ([]field, error) {
	var out []field
	var sb strings.Builder
	quote := byte(0)
	quoted := false
	flush := func() {
		v := sb.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		out = append(out, field{value: v, quoted: quoted})
		sb.Reset()
		quoted = false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\' && i+1 < len(s):
			i++
			sb.WriteByte(s[i])
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			sb.WriteByte(c)
		case (c == '\'' || c == '"') && strings.TrimSpace(sb.String()) == "":
			sb.Reset()
			quote = c
			quoted = true
		case c == ',':
			flush()
		case quoted && (c == ' ' || c == '\t'):
		default:
			sb.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote", ErrFormat)
	}
	flush()
	return out, nil
}
