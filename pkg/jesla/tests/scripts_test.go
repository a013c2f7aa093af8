package tests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/evaluator"
	"github.com/jesla-lang/jesla/pkg/jesla/jesla"
	"gopkg.in/yaml.v3"
)

// scriptCase is one end-to-end fixture from testdata/scripts.yaml
type scriptCase struct {
	Name   string            `yaml:"name"`
	Source string            `yaml:"source"`
	Output string            `yaml:"output"`
	Error  *errorExpectation `yaml:"error"`
}

// errorExpectation describes the error a fixture expects instead of output
type errorExpectation struct {
	Class    string `yaml:"class"`
	Contains string `yaml:"contains"`
	Count    int    `yaml:"count"`
}

func loadScriptCases(t *testing.T) []scriptCase {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "scripts.yaml"))
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}

	var cases []scriptCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing fixtures: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no fixtures loaded")
	}
	return cases
}

// TestScripts runs each fixture and compares print output or the
// expected error
func TestScripts(t *testing.T) {
	for _, tc := range loadScriptCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			logger := jesla.NewBufferedLogger()
			env := evaluator.NewEnvironment()
			env.Logger = logger

			_, parseErrs, runtimeErr := jesla.Run(tc.Source, env)

			if tc.Error != nil {
				checkExpectedError(t, tc, parseErrs, runtimeErr)
				return
			}

			if len(parseErrs) != 0 {
				t.Fatalf("unexpected parse errors: %v", parseErrs)
			}
			if runtimeErr != nil {
				t.Fatalf("unexpected runtime error: %v", runtimeErr)
			}
			if got := logger.String(); got != tc.Output {
				t.Errorf("output mismatch:\n got: %q\nwant: %q", got, tc.Output)
			}
		})
	}
}

func checkExpectedError(t *testing.T, tc scriptCase, parseErrs []*jerrors.JeslaError, runtimeErr *jerrors.JeslaError) {
	t.Helper()

	if tc.Error.Class == "parse" {
		if len(parseErrs) == 0 {
			t.Fatal("expected parse errors, got none")
		}
		if tc.Error.Count > 0 && len(parseErrs) != tc.Error.Count {
			t.Fatalf("expected %d parse errors, got %d: %v", tc.Error.Count, len(parseErrs), parseErrs)
		}
		if tc.Error.Contains != "" && !anyMessageContains(parseErrs, tc.Error.Contains) {
			t.Errorf("no parse error contains %q: %v", tc.Error.Contains, parseErrs)
		}
		return
	}

	if runtimeErr == nil {
		t.Fatalf("expected a runtime error, parse errors: %v", parseErrs)
	}
	if string(runtimeErr.Class) != tc.Error.Class {
		t.Errorf("expected error class %q, got %q", tc.Error.Class, runtimeErr.Class)
	}
	if tc.Error.Contains != "" && !strings.Contains(runtimeErr.Message, tc.Error.Contains) {
		t.Errorf("expected message to contain %q, got %q", tc.Error.Contains, runtimeErr.Message)
	}
}

func anyMessageContains(errs []*jerrors.JeslaError, fragment string) bool {
	for _, err := range errs {
		if strings.Contains(err.Message, fragment) {
			return true
		}
	}
	return false
}
