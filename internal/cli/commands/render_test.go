package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

func TestRenderResult_Table(t *testing.T) {
	tbl := &core.Table{
		Meta: []core.Column{
			{Name: "id", Position: 0},
			{Name: "name", Position: 1},
		},
		Rows: []core.Row{
			{"id": int64(1), "name": "ada"},
			{"id": int64(2), "name": nil},
		},
	}

	buf := new(bytes.Buffer)
	if err := renderResult(buf, tbl, "table"); err != nil {
		t.Fatalf("renderResult() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"id", "name", "ada", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestRenderResult_EmptyTable(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := renderResult(buf, &core.Table{}, "table"); err != nil {
		t.Fatalf("renderResult() error = %v", err)
	}
	if !strings.Contains(buf.String(), "(0 rows)") {
		t.Errorf("output should report zero rows, got: %s", buf.String())
	}
}

func TestRenderResult_JSON(t *testing.T) {
	tbl := &core.Table{
		Rows: []core.Row{{"id": int64(1), "name": "ada"}},
	}

	buf := new(bytes.Buffer)
	if err := renderResult(buf, tbl, "json"); err != nil {
		t.Fatalf("renderResult() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"name": "ada"`) {
		t.Errorf("JSON output should contain the row, got: %s", out)
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte("blob"), "blob"},
		{ts, "2024-03-01T12:00:00Z"},
		{int64(7), "7"},
	}

	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
