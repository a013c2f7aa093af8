package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestNewFromCatalog tests template rendering from the catalog
func TestNewFromCatalog(t *testing.T) {
	err := New("NAME-0001", map[string]any{"Name": "ghost"})

	if err.Class != ClassName {
		t.Errorf("expected class %q, got %q", ClassName, err.Class)
	}
	if err.Code != "NAME-0001" {
		t.Errorf("expected code NAME-0001, got %q", err.Code)
	}
	if err.Message != "Undefined variable 'ghost'." {
		t.Errorf("unexpected message %q", err.Message)
	}
}

// TestNewWithPosition tests that positions are attached
func TestNewWithPosition(t *testing.T) {
	err := NewWithPosition("ARITH-0001", 3, 7, nil)

	if err.Line != 3 || err.Column != 7 {
		t.Errorf("expected line 3 column 7, got line %d column %d", err.Line, err.Column)
	}
	if err.Message != "dividend cannot be zero" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !strings.Contains(err.String(), "line 3, column 7") {
		t.Errorf("String() should include the position, got %q", err.String())
	}
}

// TestUnknownCodeFallback tests that a missing catalog entry is visible
func TestUnknownCodeFallback(t *testing.T) {
	err := New("NOPE-9999", nil)
	if !strings.Contains(err.Message, "NOPE-9999") {
		t.Errorf("fallback message should name the code, got %q", err.Message)
	}
}

// TestHintRendering tests that hints render their placeholders
func TestHintRendering(t *testing.T) {
	err := New("PARSE-0004", map[string]any{"Operator": "+="})
	if len(err.Hints) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(err.Hints))
	}
	if err.Hints[0] != "only a variable can appear left of '+='" {
		t.Errorf("unexpected hint %q", err.Hints[0])
	}
}

// TestWithFileAndWithPosition tests that the With helpers copy
func TestWithFileAndWithPosition(t *testing.T) {
	base := New("TYPE-0001", nil)

	withFile := base.WithFile("script.jes")
	if withFile.File != "script.jes" {
		t.Errorf("expected file to be set, got %q", withFile.File)
	}
	if base.File != "" {
		t.Error("WithFile must not mutate the original")
	}

	withPos := base.WithPosition(5, 2)
	if withPos.Line != 5 || withPos.Column != 2 {
		t.Errorf("expected line 5 column 2, got line %d column %d", withPos.Line, withPos.Column)
	}
	if base.Line != 0 {
		t.Error("WithPosition must not mutate the original")
	}
}

// TestClassPredicates tests parse vs runtime classification
func TestClassPredicates(t *testing.T) {
	parseErr := New("PARSE-0003", nil)
	if !parseErr.IsParseError() || parseErr.IsRuntimeError() {
		t.Error("PARSE codes should classify as parse errors")
	}

	for _, code := range []string{"TYPE-0001", "ARITH-0001", "NAME-0001"} {
		err := New(code, nil)
		if err.IsParseError() || !err.IsRuntimeError() {
			t.Errorf("%s should classify as a runtime error", code)
		}
	}
}

// TestPrettyString tests the multi-line display format
func TestPrettyString(t *testing.T) {
	err := NewWithPosition("TYPE-0002", 2, 4, nil)
	pretty := err.PrettyString()

	if !strings.HasPrefix(pretty, "Runtime error") {
		t.Errorf("expected runtime header, got %q", pretty)
	}
	if !strings.Contains(pretty, "line 2, column 4") {
		t.Errorf("expected position in pretty output, got %q", pretty)
	}
	if !strings.Contains(pretty, "Operands must be numbers.") {
		t.Errorf("expected message in pretty output, got %q", pretty)
	}

	parseErr := New("PARSE-0003", nil)
	if !strings.HasPrefix(parseErr.PrettyString(), "Parser error") {
		t.Errorf("expected parser header, got %q", parseErr.PrettyString())
	}
}

// TestToJSON tests the serialized form
func TestToJSON(t *testing.T) {
	err := NewWithPosition("NAME-0001", 1, 5, map[string]any{"Name": "x"})
	err = err.WithFile("main.jes")

	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON failed: %v", jerr)
	}

	var decoded map[string]any
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		t.Fatalf("invalid JSON: %v", uerr)
	}
	if decoded["class"] != "name" {
		t.Errorf("expected class \"name\", got %v", decoded["class"])
	}
	if decoded["code"] != "NAME-0001" {
		t.Errorf("expected code NAME-0001, got %v", decoded["code"])
	}
	if decoded["line"] != float64(1) {
		t.Errorf("expected line 1, got %v", decoded["line"])
	}
	if decoded["file"] != "main.jes" {
		t.Errorf("expected file main.jes, got %v", decoded["file"])
	}
}

// TestCatalogTemplatesRender tests every catalog entry against empty data
func TestCatalogTemplatesRender(t *testing.T) {
	for code := range ErrorCatalog {
		err := New(code, map[string]any{
			"Expected": "x", "Got": "y", "Token": "z", "Operator": "+",
			"Label": "l", "Literal": "1", "Name": "n",
			"LeftType": "NUMBER", "RightType": "STRING",
		})
		if err.Message == "" {
			t.Errorf("code %s rendered an empty message", code)
		}
		if strings.Contains(err.Message, "<no value>") {
			t.Errorf("code %s left a placeholder unrendered: %q", code, err.Message)
		}
	}
}
