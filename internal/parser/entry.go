// Package parser turns raw chat utterances into structured values: the
// free-text food-entry grammar and the quote-aware argument splitter used by
// the slash commands. Parsing is pure string work with no hidden state; the
// same input always yields the same result.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is a parsed food-entry utterance.
type Entry struct {
	// Food is the free-text food name with trailing punctuation stripped.
	Food string
	// Qty is the parsed quantity; absent or non-positive quantities
	// normalize to 1.
	Qty float64
	// Unit is the lower-cased unit text, or "" when no unit was given.
	Unit string
}

// entryRE implements the grammar <name> [<qty> [<unit>]]. The name is lazy
// so a numeric token binds to the quantity slot; the quantity accepts a
// decimal point, a decimal comma, or an a/b fraction; everything after it is
// unit text. Trailing separators are consumed outside the groups.
var entryRE = regexp.MustCompile(`^\s*(.+?)(?:\s+([0-9]+(?:[.,][0-9]+)?(?:/[0-9]+(?:[.,][0-9]+)?)?)(?:\s+(.+?))?)?[\s.,]*$`)

// ParseEntry parses a food-entry utterance.
//
// Examples:
//
//	"Chicken soup 2 bowl" -> {Food: "Chicken soup", Qty: 2, Unit: "bowl"}
//	"Apple 4,5 g"         -> {Food: "Apple", Qty: 4.5, Unit: "g"}
//	"Apple"               -> {Food: "Apple", Qty: 1, Unit: ""}
//
// The second return value is false when the utterance is empty or does not
// match the grammar at all; that is the single "I don't understand"
// condition, and the Entry is then zero.
func ParseEntry(utterance string) (Entry, bool) {
	m := entryRE.FindStringSubmatch(utterance)
	if m == nil {
		return Entry{}, false
	}

	name := strings.TrimRight(strings.TrimSpace(m[1]), ".,")
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, false
	}

	e := Entry{Food: name, Qty: 1}
	if m[2] != "" {
		if q, err := ParseQuantity(m[2]); err == nil && q > 0 {
			e.Qty = q
		}
	}
	if m[3] != "" {
		e.Unit = strings.ToLower(strings.TrimSpace(m[3]))
	}
	return e, true
}

// ParseQuantity parses a numeric quantity token. A comma is accepted as the
// decimal separator and "a/b" is evaluated as a fraction.
func ParseQuantity(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, strconv.ErrRange
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}
