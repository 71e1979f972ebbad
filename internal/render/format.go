// Package render draws repositories and analytics for the terminal.
package render

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	nameLimit  = 15
	dateLayout = "2006-01-02"
)

var printer = message.NewPrinter(language.English)

// FormatCount abbreviates counts of a thousand or more: 1250 -> "1.3k".
func FormatCount(n int) string {
	if n >= 1000 {
		// Round half up to one decimal.
		return fmt.Sprintf("%.1fk", math.Round(float64(n)/100)/10)
	}
	return fmt.Sprint(n)
}

// FormatThousands renders n with thousands separators: 1234567 -> "1,234,567".
func FormatThousands(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatDate renders the date part of t, or "unknown" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(dateLayout)
}

// TruncateName shortens chart labels to fifteen characters plus an ellipsis.
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) > nameLimit {
		return string(r[:nameLimit]) + "..."
	}
	return name
}
