package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Default separator widths
	DefaultWidth = 80
	WideWidth    = 100

	// MinorUnitDigits is the number of decimal places in one currency unit
	MinorUnitDigits = 2
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// FormatMinorUnits renders an amount in minor units as a fixed point string,
// e.g. 12345 -> "123.45".
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -MinorUnitDigits).StringFixed(MinorUnitDigits)
}

// ParseMinorUnits parses a decimal amount such as "123.45" into minor units.
// Amounts with more precision than a minor unit are rejected.
func ParseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.Equal(d.Truncate(MinorUnitDigits)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, MinorUnitDigits)
	}

	minor := d.Shift(MinorUnitDigits)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return minor.IntPart(), nil
}

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintSeparatorNewline prints a separator with a newline before it
func PrintSeparatorNewline(char string, width int) {
	fmt.Println("\n" + strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	PrintSeparatorNewline("=", width)
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator prints a box-drawing separator line (for sub-sections)
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}
