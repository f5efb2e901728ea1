package data

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

const housesARFF = `% Ames sample
@RELATION house_prices

@ATTRIBUTE Id NUMERIC
@ATTRIBUTE 'MSZoning' {'C (all)',FV,RH,RL,RM}
@ATTRIBUTE LotFrontage REAL
@ATTRIBUTE Alley {Grvl,Pave}
@ATTRIBUTE SalePrice INTEGER

@DATA
1,RL,65,?,208500
2,'C (all)',?,Grvl,181500
% trailing comment
3, RM , 68, Pave, 223500
`

func TestReadARFF(t *testing.T) {
	f, err := ReadARFF(strings.NewReader(housesARFF))
	if err != nil {
		t.Fatalf("ReadARFF: %v", err)
	}
	if f.Len() != 3 || f.Width() != 5 {
		t.Fatalf("shape = %dx%d, want 3x5", f.Len(), f.Width())
	}
	zone, _ := f.Col("MSZoning")
	if zone.Kind != frame.Categorical || zone.Strings[1] != "C (all)" || zone.Strings[2] != "RM" {
		t.Errorf("MSZoning = %v", zone.Strings)
	}
	lot, _ := f.Col("LotFrontage")
	if lot.Kind != frame.Numeric || !lot.IsNull(1) || lot.Floats[2] != 68 {
		t.Errorf("LotFrontage = %v", lot.Floats)
	}
	alley, _ := f.Col("Alley")
	if !alley.IsNull(0) || alley.IsNull(1) {
		t.Errorf("Alley nulls wrong: %v", alley.Strings)
	}
}

func TestReadARFFErrors(t *testing.T) {
	cases := map[string]string{
		"field count":   "@relation r\n@attribute a numeric\n@attribute b numeric\n@data\n1\n",
		"bad number":    "@relation r\n@attribute a numeric\n@data\nx\n",
		"bad nominal":   "@relation r\n@attribute a {x,y}\n@data\nz\n",
		"sparse":        "@relation r\n@attribute a numeric\n@data\n{0 1}\n",
		"no data":       "@relation r\n@attribute a numeric\n",
		"unknown type":  "@relation r\n@attribute a relational\n@data\n",
		"unterminated":  "@relation r\n@attribute a string\n@data\n'abc\n",
		"data no attrs": "@relation r\n@data\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadARFF(strings.NewReader(in)); !errors.Is(err, ErrFormat) {
				t.Errorf("err = %v, want ErrFormat", err)
			}
		})
	}
}

func TestReadCSVInfersKinds(t *testing.T) {
	in := "Id,MSZoning,LotFrontage\n1,RL,65\n2,NA,NA\n3,RM,68\n"
	f, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	zone, _ := f.Col("MSZoning")
	lot, _ := f.Col("LotFrontage")
	if zone.Kind != frame.Categorical || !zone.IsNull(1) {
		t.Errorf("MSZoning kind=%v nulls=%v", zone.Kind, zone.NullCount())
	}
	if lot.Kind != frame.Numeric || !lot.IsNull(1) {
		t.Errorf("LotFrontage kind=%v", lot.Kind)
	}
}

func TestLoadDispatchAndExport(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "houses.arff")
	if err := os.WriteFile(p, []byte(housesARFF), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Len() != 3 {
		t.Errorf("rows = %d", f.Len())
	}
	if _, err := Load(filepath.Join(dir, "houses.parquet")); err == nil {
		t.Error("unsupported extension should fail")
	}

	out := filepath.Join(dir, "matrix.csv")
	err = ExportCSV(out, []string{"a", "b"}, [][]float64{{1, 2.5}, {3, 4}}, "SalePrice", []float64{10, 20})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	back, err := LoadCSV(out)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	price, _ := back.Col("SalePrice")
	if back.Width() != 3 || price.Floats[1] != 20 {
		t.Errorf("exported frame = %v", back.Names())
	}
}
