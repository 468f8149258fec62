package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/schema"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// parseHex accepts hex digits separated by whitespace, commas or colons, with
// optional 0x prefixes per group.
func parseHex(s string) ([]byte, error) {
	var digits strings.Builder
	for _, group := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ',' || r == ':'
	}) {
		group = strings.TrimPrefix(strings.TrimPrefix(group, "0x"), "0X")
		if len(group)%2 == 1 {
			group = "0" + group
		}
		digits.WriteString(group)
	}
	b, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

// formatHex renders b as space separated byte pairs.
func formatHex(b []byte) string {
	if len(b) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}

// formatValue renders a decoded value on one line. Styles are applied only
// when styled is set.
func formatValue(v any, styled bool) string {
	paint := func(s lipgloss.Style, text string) string {
		if styled {
			return s.Render(text)
		}
		return text
	}

	switch v := v.(type) {
	case schema.Record:
		if v.Shape == podcodec.ShapeTuple {
			parts := make([]string, len(v.Values))
			for i, x := range v.Values {
				parts[i] = formatValue(x, styled)
			}
			return paint(typeStyle, v.Type) + "(" + strings.Join(parts, ", ") + ")"
		}
		parts := make([]string, len(v.Values))
		for i, x := range v.Values {
			parts[i] = paint(nameStyle, v.Fields[i]) + ": " + formatValue(x, styled)
		}
		return paint(typeStyle, v.Type) + "{" + strings.Join(parts, ", ") + "}"
	case schema.Variant:
		return paint(typeStyle, v.Type) + "." + paint(nameStyle, v.Name)
	case []any:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = formatValue(x, styled)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case float32:
		return paint(valueStyle, strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		return paint(valueStyle, strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return paint(valueStyle, fmt.Sprint(v))
	}
}

// formatLayout renders one line per field: offset, size, kind and name.
func formatLayout(layout []podcodec.FieldInfo) string {
	var b strings.Builder
	for _, f := range layout {
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("+%-4d", f.Offset)),
			dimStyle.Render(fmt.Sprintf("%3dB", f.Size)),
			typeStyle.Render(fmt.Sprintf("%-6s", f.Kind)),
			nameStyle.Render(f.Label()))
	}
	return b.String()
}
