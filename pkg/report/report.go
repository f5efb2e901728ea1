// Package report prints the analysis tables to the console.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/model"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
)

// Reporter writes aligned tables with coloured section headings.
type Reporter struct {
	w       io.Writer
	heading *color.Color
	ok      *color.Color
	num     *message.Printer
}

// New returns a reporter writing to w. Colour is disabled when useColor is
// false, regardless of the terminal.
func New(w io.Writer, useColor bool) *Reporter {
	r := &Reporter{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		ok:      color.New(color.FgGreen),
		num:     message.NewPrinter(language.English),
	}
	if useColor {
		r.heading.EnableColor()
		r.ok.EnableColor()
	} else {
		r.heading.DisableColor()
		r.ok.DisableColor()
	}
	return r
}

// Section prints a heading.
func (r *Reporter) Section(title string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n", r.heading.Sprint(title), strings.Repeat("=", len([]rune(title))))
}

func (r *Reporter) table(header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	if header != "" {
		fmt.Fprintln(tw, header)
	}
	rows(tw)
	tw.Flush()
}

// Head prints the first n rows.
func (r *Reporter) Head(f *frame.Frame, n int) {
	r.table("\t"+strings.Join(f.Names(), "\t"), func(tw *tabwriter.Writer) {
		for i, row := range f.Head(n) {
			fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(row, "\t"))
		}
	})
	fmt.Fprintf(r.w, "[%d rows x %d columns]\n", f.Len(), f.Width())
}

// Info prints the dtype and non-null count of every column.
func (r *Reporter) Info(f *frame.Frame) {
	fmt.Fprintf(r.w, "RangeIndex: %d entries, 0 to %d\n", f.Len(), max(f.Len()-1, 0))
	fmt.Fprintf(r.w, "Data columns (total %d columns):\n", f.Width())
	var numeric, object int
	r.table(" #\tColumn\tNon-Null Count\tDtype", func(tw *tabwriter.Writer) {
		for i, in := range f.Info() {
			fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", i, in.Name, in.NonNull, in.Kind)
			if in.Kind == frame.Numeric {
				numeric++
			} else {
				object++
			}
		}
	})
	fmt.Fprintf(r.w, "dtypes: float64(%d), object(%d)\n", numeric, object)
}

// Describe prints the numeric summary table.
func (r *Reporter) Describe(rows []profile.NumericSummary) {
	r.table("\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax", func(tw *tabwriter.Writer) {
		for _, s := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n",
				s.Name, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
		}
	})
}

// DescribeCategorical prints count, unique, top and freq per column.
func (r *Reporter) DescribeCategorical(rows []profile.CategoricalSummary) {
	r.table("\tcount\tunique\ttop\tfreq", func(tw *tabwriter.Writer) {
		for _, s := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\n", s.Name, s.Count, s.Unique, s.Top, s.Freq)
		}
	})
}

// Missing prints the columns with missing values.
func (r *Reporter) Missing(rows []profile.MissingRow) {
	if len(rows) == 0 {
		fmt.Fprintln(r.w, r.ok.Sprint("No missing values"))
		return
	}
	r.table("\tMissing Values\tPercentage (%)", func(tw *tabwriter.Writer) {
		for _, m := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%.6f\n", m.Name, m.Count, m.Percent)
		}
	})
}

// Duplicates prints the duplicate row count.
func (r *Reporter) Duplicates(n int) {
	fmt.Fprintf(r.w, "Duplicate rows: %d\n", n)
}

// Pairs prints the strongest entries of a pairwise score matrix.
func (r *Reporter) Pairs(pairs []profile.Pair) {
	if len(pairs) == 0 {
		fmt.Fprintln(r.w, "No pairs")
		return
	}
	r.table("Column A\tColumn B\tScore", func(tw *tabwriter.Writer) {
		for _, p := range pairs {
			fmt.Fprintf(tw, "%s\t%s\t%.3f\n", p.A, p.B, p.Value)
		}
	})
}

// Outliers prints the IQR outlier table.
func (r *Reporter) Outliers(rows []profile.OutlierRow) {
	if len(rows) == 0 {
		fmt.Fprintln(r.w, r.ok.Sprint("No outliers"))
		return
	}
	r.table("Column\tOutliers\tPercentage", func(tw *tabwriter.Writer) {
		for _, o := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\n", o.Name, o.Count, o.Percent)
		}
	})
}

// Cardinality prints the unique count of each categorical column.
func (r *Reporter) Cardinality(rows []profile.CardinalityRow) {
	r.table("", func(tw *tabwriter.Writer) {
		for _, c := range rows {
			fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Unique)
		}
	})
}

// Score prints one model's held-out metrics.
func (r *Reporter) Score(name string, s model.Score) {
	fmt.Fprintf(r.w, "Model: %s\n", r.heading.Sprint(name))
	fmt.Fprintln(r.w, r.num.Sprintf("RMSE: %.2f", s.RMSE))
	fmt.Fprintln(r.w, r.num.Sprintf("R²: %.2f", s.R2))
	fmt.Fprintln(r.w, strings.Repeat("-", 30))
}

// Selected prints a feature-selection result.
func (r *Reporter) Selected(name string, features []string, s model.Score) {
	fmt.Fprintln(r.w, r.heading.Sprint(name))
	fmt.Fprintf(r.w, "Selected features (%d): [%s]\n", len(features), strings.Join(features, ", "))
	fmt.Fprintln(r.w, r.num.Sprintf("RMSE: %.2f, R²: %.2f", s.RMSE, s.R2))
	fmt.Fprintln(r.w)
}

// Grid prints the cross-validated score of every Lasso alpha.
func (r *Reporter) Grid(g model.GridResult) {
	r.table("alpha\tmean R²", func(tw *tabwriter.Writer) {
		for i, a := range g.Alphas {
			mark := ""
			if a == g.BestAlpha {
				mark = r.ok.Sprint("  best")
			}
			fmt.Fprintf(tw, "%g\t%.4f%s\n", a, g.MeanScores[i], mark)
		}
	})
}

// Importances prints the named importances, largest first, at most top
// rows (all when top <= 0).
func (r *Reporter) Importances(names []string, imp []float64, top int) {
	idx := make([]int, len(imp))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return imp[idx[a]] > imp[idx[b]] })
	if top > 0 && top < len(idx) {
		idx = idx[:top]
	}
	r.table("feature\timportance", func(tw *tabwriter.Writer) {
		for _, i := range idx {
			fmt.Fprintf(tw, "%s\t%.4f\n", names[i], imp[i])
		}
	})
}
