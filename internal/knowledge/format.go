package knowledge

import (
	"fmt"
	"strings"
)

// Answers use a small markdown subset: **bold** headers, "•" bullets and
// "⚠️" warning lines.

func header(title string) string {
	return "**" + title + "**"
}

func bullets(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(it)
	}
	return b.String()
}

func field(label string, value any) string {
	return fmt.Sprintf("%s: %v", label, value)
}

func warning(msg string) string {
	return "⚠️ " + msg
}

func sections(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
