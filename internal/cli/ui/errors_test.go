package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Context: "unknown function",
				Problem: "sumSeris",
			},
			contains: []string{"✗ UNKNOWN FUNCTION: sumSeris"},
			excludes: []string{"Did you mean", "→"},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Problem:     "scael",
				Suggestions: []string{"scale", "scaleToSeconds"},
			},
			contains: []string{"✗ scael", "Did you mean: scale, scaleToSeconds?"},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Problem:      "servers.yaml has 2 errors",
				HelpCommands: []string{"Get help: graphite-graph compile --help"},
			},
			contains: []string{"→ Get help: graphite-graph compile --help"},
		},
		{
			name:     "warning",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "deprecated marker"},
			contains: []string{"! deprecated marker"},
		},
		{
			name:     "info",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "nothing to compile"},
			contains: []string{"i nothing to compile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			out := FormatError(tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("FormatError() = %q, want it to contain %q", out, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("FormatError() = %q, want it to not contain %q", out, unwanted)
				}
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	if buf.String() != "✗ boom\n" {
		t.Errorf("WriteError() wrote %q", buf.String())
	}
}

func TestSuccess(t *testing.T) {
	if got := FormatSuccess("wrote graph.yaml", true); got != "✓ wrote graph.yaml" {
		t.Errorf("FormatSuccess() = %q", got)
	}

	var buf bytes.Buffer
	WriteSuccess(&buf, "done", true)
	if buf.String() != "✓ done\n" {
		t.Errorf("WriteSuccess() wrote %q", buf.String())
	}
}

func TestUnknownFunctionError(t *testing.T) {
	out := UnknownFunctionError("sumSeris", []string{"sumSeries"}, true)
	for _, want := range []string{"UNKNOWN FUNCTION: sumSeris", "Did you mean: sumSeries?", "graphite-graph functions"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestCompileFailed(t *testing.T) {
	if out := CompileFailed("a.yaml", 1, true); !strings.Contains(out, "a.yaml has 1 error\n") {
		t.Errorf("unexpected singular message %q", out)
	}
	if out := CompileFailed("a.yaml", 3, true); !strings.Contains(out, "a.yaml has 3 errors\n") {
		t.Errorf("unexpected plural message %q", out)
	}
}
