package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/glow/pkg/pipeline"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name    string
		res     *pipeline.Result
		want    []string
		notWant []string
	}{
		{
			name:    "all pages complete",
			res:     &pipeline.Result{Pages: []string{"a.md", "b.md"}, Duration: 1500 * time.Millisecond},
			want:    []string{"Compiled data source pages", "2 pages", "complete", "1.5s"},
			notWant: []string{"Incomplete"},
		},
		{
			name: "incomplete data sources",
			res:  &pipeline.Result{Pages: []string{"Sales.md"}, Failed: []string{"Broken", "Inventory"}},
			want: []string{"1 pages", "2 incomplete", "Incomplete: Broken", "Incomplete: Inventory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printResult("Compiled data source pages", tt.res)

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(out.String(), bad) {
					t.Errorf("output should not contain %q:\n%s", bad, out)
				}
			}
		})
	}
}

func TestPrintFailedCapsList(t *testing.T) {
	out := captureStdout(t)

	var names []string
	for i := range maxListed + 3 {
		names = append(names, fmt.Sprintf("event_%02d", i))
	}
	printFailed("Incomplete", names)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != maxListed+1 {
		t.Fatalf("printed %d lines, want %d", len(lines), maxListed+1)
	}
	if !strings.Contains(lines[maxListed], "Incomplete: 3 more") {
		t.Errorf("last line = %q, want a count of the rest", lines[maxListed])
	}
	if strings.Contains(out.String(), fmt.Sprintf("event_%02d", maxListed)) {
		t.Error("names past the cap should not be printed")
	}
}

func TestPrintFile(t *testing.T) {
	out := captureStdout(t)
	printFile("definitions/datasources.yml")

	if !strings.Contains(out.String(), iconArrow) || !strings.Contains(out.String(), "definitions/datasources.yml") {
		t.Errorf("printFile output = %q", out)
	}
}
