package help

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDescribeType(t *testing.T) {
	result, err := DescribeTopic("list")
	if err != nil {
		t.Fatalf("DescribeTopic failed: %v", err)
	}
	if result.Kind != "type" || result.Name != "list" {
		t.Errorf("unexpected result: %+v", result)
	}
	if !strings.Contains(result.Description, "Negative indexes") {
		t.Errorf("unexpected description: %q", result.Description)
	}
}

func TestDescribeBuiltin(t *testing.T) {
	result, err := DescribeTopic("range")
	if err != nil {
		t.Fatalf("DescribeTopic failed: %v", err)
	}
	if result.Kind != "builtin" || result.Name != "range" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Arity != "1-3" {
		t.Errorf("expected arity 1-3, got %q", result.Arity)
	}
}

func TestDescribeKeyword(t *testing.T) {
	result, err := DescribeTopic("while")
	if err != nil {
		t.Fatalf("DescribeTopic failed: %v", err)
	}
	if result.Kind != "keyword" || result.Name != "while" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDescribeIsCaseInsensitive(t *testing.T) {
	result, err := DescribeTopic("  PRINT ")
	if err != nil {
		t.Fatalf("DescribeTopic failed: %v", err)
	}
	if result.Name != "print" {
		t.Errorf("expected print, got %q", result.Name)
	}
}

func TestDescribeListTopics(t *testing.T) {
	tests := []struct {
		topic string
		kind  string
	}{
		{"builtins", "builtin-list"},
		{"operators", "operator-list"},
		{"types", "type-list"},
		{"keywords", "keyword-list"},
	}

	for _, tt := range tests {
		result, err := DescribeTopic(tt.topic)
		if err != nil {
			t.Fatalf("DescribeTopic(%q) failed: %v", tt.topic, err)
		}
		if result.Kind != tt.kind {
			t.Errorf("topic %q: expected kind %q, got %q", tt.topic, tt.kind, result.Kind)
		}
	}
}

func TestBuiltinListIsSorted(t *testing.T) {
	result, _ := DescribeTopic("builtins")
	for i := 1; i < len(result.Builtins); i++ {
		if result.Builtins[i-1].Name > result.Builtins[i].Name {
			t.Fatalf("builtins not sorted: %q after %q", result.Builtins[i].Name, result.Builtins[i-1].Name)
		}
	}
	if len(result.Builtins) < 20 {
		t.Errorf("expected full builtin list, got %d entries", len(result.Builtins))
	}
}

func TestTypesListComplete(t *testing.T) {
	result, _ := DescribeTopic("types")
	if len(result.TypeNames) != 8 {
		t.Errorf("expected 8 types, got %v", result.TypeNames)
	}
	for _, name := range result.TypeNames {
		if _, err := DescribeTopic(name); err != nil {
			t.Errorf("type %q has no topic: %v", name, err)
		}
	}
}

func TestUnknownTopicSuggests(t *testing.T) {
	_, err := DescribeTopic("pritn")
	if err == nil {
		t.Fatal("expected error for unknown topic")
	}
	if !strings.Contains(err.Error(), "print") {
		t.Errorf("expected print suggestion, got: %v", err)
	}
}

func TestEmptyTopic(t *testing.T) {
	if _, err := DescribeTopic(""); err == nil {
		t.Error("expected error for empty topic")
	}
}

func TestResultJSONShape(t *testing.T) {
	result, _ := DescribeTopic("len")
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if decoded["kind"] != "builtin" || decoded["name"] != "len" {
		t.Errorf("unexpected JSON: %s", data)
	}
	// Empty sections are omitted
	if _, present := decoded["builtins"]; present {
		t.Error("empty builtins section should be omitted")
	}
}

func TestFormatTextSingleTopic(t *testing.T) {
	result, _ := DescribeTopic("sum")
	text := FormatText(result, 80)
	if !strings.Contains(text, "sum") {
		t.Errorf("formatted output missing name:\n%s", text)
	}
	if !strings.Contains(text, "Sum of a list of numbers") {
		t.Errorf("formatted output missing description:\n%s", text)
	}
}

func TestFormatTextLists(t *testing.T) {
	for _, topic := range []string{"builtins", "operators", "types", "keywords"} {
		result, _ := DescribeTopic(topic)
		text := FormatText(result, 80)
		if strings.TrimSpace(text) == "" {
			t.Errorf("topic %q produced empty text", topic)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	result, _ := DescribeTopic("dict")
	out, err := FormatJSON(result)
	if err != nil {
		t.Fatalf("FormatJSON failed: %v", err)
	}
	if !strings.Contains(string(out), `"kind": "type"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}
