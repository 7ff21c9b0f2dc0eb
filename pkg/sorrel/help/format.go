package help

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case "type":
		fmt.Fprintf(&sb, "Type: %s\n\n%s\n", result.Name, wrap(result.Description, width-2))
	case "builtin":
		fmt.Fprintf(&sb, "Builtin: %s(%s)\n\n%s\n", result.Name, result.Arity, wrap(result.Description, width-2))
	case "keyword":
		fmt.Fprintf(&sb, "Keyword: %s\n\n%s\n", result.Name, wrap(result.Description, width-2))
	case "builtin-list":
		formatBuiltinList(&sb, result)
	case "operator-list":
		formatOperatorList(&sb, result)
	case "type-list":
		formatTypeList(&sb, result)
	case "keyword-list":
		formatKeywordList(&sb, result)
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func formatBuiltinList(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Builtin functions:\n\n")

	maxLen := 0
	for _, b := range result.Builtins {
		display := fmt.Sprintf("%s(%s)", b.Name, b.Arity)
		if len(display) > maxLen {
			maxLen = len(display)
		}
	}

	for _, b := range result.Builtins {
		display := fmt.Sprintf("%s(%s)", b.Name, b.Arity)
		padding := strings.Repeat(" ", maxLen-len(display)+2)
		fmt.Fprintf(sb, "  %s%s%s\n", display, padding, b.Description)
	}
}

func formatOperatorList(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Operators:\n\n")

	maxLen := 0
	for _, op := range result.Operators {
		if len(op.Symbol) > maxLen {
			maxLen = len(op.Symbol)
		}
	}

	for _, op := range result.Operators {
		padding := strings.Repeat(" ", maxLen-len(op.Symbol)+2)
		fmt.Fprintf(sb, "  %s%s%s\n", op.Symbol, padding, op.Description)
	}
}

func formatTypeList(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Types:\n\n")
	for _, name := range result.TypeNames {
		fmt.Fprintf(sb, "  %s\n", name)
	}
	sb.WriteString("\nUse 'sorrel describe <type>' for details.\n")
}

func formatKeywordList(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Keywords:\n\n")

	maxLen := 0
	for _, kw := range result.Keywords {
		if len(kw.Name) > maxLen {
			maxLen = len(kw.Name)
		}
	}

	for _, kw := range result.Keywords {
		padding := strings.Repeat(" ", maxLen-len(kw.Name)+2)
		fmt.Fprintf(sb, "  %s%s%s\n", kw.Name, padding, kw.Description)
	}
}

// wrap breaks text at word boundaries to fit the width.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
