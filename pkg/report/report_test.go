package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/model"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
)

func TestScoreUsesThousandsSeparator(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Score("Random Forest", model.Score{RMSE: 15482.6431, R2: 0.9123})
	out := buf.String()
	for _, want := range []string{"Model: Random Forest", "RMSE: 15,482.64", "R²: 0.91"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestSectionWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Section("Missing")
	if buf.String() != "\nMissing\n=======\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestInfoAndHead(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("Id", []float64{1, 2}),
		frame.NewCategorical("Zone", []string{"RL", ""}, []bool{false, true}),
	)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Info(f)
	r.Head(f, 5)
	out := buf.String()
	for _, want := range []string{"2 non-null", "1 non-null", "float64(1), object(1)", "None", "[2 rows x 2 columns]"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestOutliersAndImportances(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Outliers(nil)
	r.Outliers([]profile.OutlierRow{{Name: "LotArea", Count: 69, Percent: 4.73}})
	r.Importances([]string{"a", "b", "c"}, []float64{0.1, 0.7, 0.2}, 2)
	out := buf.String()
	if !strings.Contains(out, "No outliers") || !strings.Contains(out, "4.73") {
		t.Errorf("outlier output:\n%s", out)
	}
	if strings.Index(out, "0.7000") > strings.Index(out, "0.2000") || strings.Contains(out, "0.1000") {
		t.Errorf("importances not ordered or not truncated:\n%s", out)
	}
}

func TestPairs(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Pairs(nil)
	r.Pairs([]profile.Pair{{A: "OverallQual", B: "SalePrice", Value: 0.7910}})
	out := buf.String()
	for _, want := range []string{"No pairs", "OverallQual", "SalePrice", "0.791"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
