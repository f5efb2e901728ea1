package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Fatal("run ids should differ")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("not a uuid: %v", err)
	}
}

func TestNewTintCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true}, "run-1")
	log.Info("stage done", "rows", 10)
	log.Debug("hidden")
	out := buf.String()
	if !strings.Contains(out, "stage done") || !strings.Contains(out, "run_id=run-1") || !strings.Contains(out, "rows=10") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, IsJSON: true, Level: slog.LevelDebug}, "run-2")
	log.Debug("x")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["run_id"] != "run-2" || rec["msg"] != "x" {
		t.Errorf("record = %v", rec)
	}
}
