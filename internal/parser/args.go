package parser

import (
	"errors"
	"strings"
)

// ErrUnbalancedQuotes is returned by SplitArgs for an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a slash-command line into whitespace-separated tokens,
// honoring double- and single-quoted segments so food names may contain
// spaces ("/define_unit \"Chicken soup\" bowl"). Quotes are removed from the
// returned tokens.
func SplitArgs(s string) ([]string, error) {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inTok {
				out = append(out, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, ErrUnbalancedQuotes
	}
	if inTok {
		out = append(out, cur.String())
	}
	return out, nil
}

// Flags holds the --key=value options of a slash command, separated from its
// positional arguments.
type Flags struct {
	Positional []string
	Options    map[string]string
}

// ParseFlags splits tokens into positional arguments and --key=value (or
// --key value) options. A bare "--key" records an empty value, which option
// accessors treat as boolean true.
func ParseFlags(tokens []string) Flags {
	f := Flags{Options: map[string]string{}}
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !strings.HasPrefix(t, "--") {
			f.Positional = append(f.Positional, t)
			continue
		}
		key, val, hasEq := strings.Cut(strings.TrimPrefix(t, "--"), "=")
		if !hasEq {
			// Allow "--grams 350" as well as "--grams=350".
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") {
				val = tokens[i+1]
				i++
			}
		}
		f.Options[strings.ToLower(key)] = val
	}
	return f
}

// Float returns the named option as a float64. The second value reports
// whether the option was present and parseable.
func (f Flags) Float(key string) (float64, bool) {
	v, ok := f.Options[key]
	if !ok || v == "" {
		return 0, false
	}
	q, err := ParseQuantity(v)
	if err != nil {
		return 0, false
	}
	return q, true
}

// Int returns the named option as an int.
func (f Flags) Int(key string) (int, bool) {
	q, ok := f.Float(key)
	if !ok || q != float64(int(q)) {
		return 0, false
	}
	return int(q), true
}

// Bool returns the named option interpreted as a boolean. A present option
// with an empty value counts as true.
func (f Flags) Bool(key string) bool {
	v, ok := f.Options[key]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
