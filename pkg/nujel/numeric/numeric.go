// Package numeric recognizes Nujel/Scheme number literals in the four
// radices: integers, rationals, decimals with exponents, and polar or
// rectangular complex forms, with optional sign and '#' imprecision markers.
//
// A match must end at a delimiter (end of input, whitespace, a bracket, ';'
// or '"'), so a number-like prefix of a longer symbol such as "1+" is never
// reported.
package numeric

import "regexp"

// Radix selects one of the number grammars.
type Radix int

const (
	Binary  Radix = 2
	Octal   Radix = 8
	Decimal Radix = 10
	Hex     Radix = 16
)

func (r Radix) String() string {
	switch r {
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	}
	return "unknown"
}

// RadixFor maps a radix marker letter (the x in "#x") to its grammar.
func RadixFor(marker byte) (Radix, bool) {
	switch marker {
	case 'b', 'B':
		return Binary, true
	case 'o', 'O':
		return Octal, true
	case 'd', 'D':
		return Decimal, true
	case 'x', 'X':
		return Hex, true
	}
	return 0, false
}

// delimiter is what must follow a number. The original lookahead is emulated
// by matching it as a trailing group and only counting group 1.
const delimiter = `(?:[()\[\]\s;"]|$)`

// complexForms assembles the alternatives shared by every radix around an
// unsigned real pattern. Order matters: the first alternative that is
// followed by a delimiter wins.
func complexForms(ureal string) string {
	return `^(?i:(` +
		`[-+]i` + // bare imaginary unit
		`|[-+](?:` + ureal + `)i` + // pure imaginary
		`|[-+]?(?:` + ureal + `)@[-+]?(?:` + ureal + `)` + // polar
		`|[-+]?(?:` + ureal + `)[-+](?:` + ureal + `)?i` + // rectangular
		`|[-+]?(?:` + ureal + `)` + // real
		`))` + delimiter
}

func integral(digit string) string {
	d := digit + `+#*`
	return d + `(?:/` + d + `)?`
}

const decimalReal = `(?:(?:\d+#+\.?#*|\d+\.\d*#*|\.\d+#*|\d+)(?:[esfdl][-+]?\d+)?)|\d+#*/\d+#*`

var matchers = map[Radix]*regexp.Regexp{
	Binary:  regexp.MustCompile(complexForms(integral(`[01]`))),
	Octal:   regexp.MustCompile(complexForms(integral(`[0-7]`))),
	Decimal: regexp.MustCompile(complexForms(decimalReal)),
	Hex:     regexp.MustCompile(complexForms(integral(`[\da-f]`))),
}

// Match returns the length in bytes of the number literal at the start of s
// in the given radix. ok is false when s does not start with a complete
// literal followed by a delimiter.
func Match(r Radix, s string) (n int, ok bool) {
	re, known := matchers[r]
	if !known {
		return 0, false
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil || loc[3] <= loc[2] {
		return 0, false
	}
	return loc[3], true
}

// IsNumber reports whether all of s is a number literal in the radix.
func IsNumber(r Radix, s string) bool {
	n, ok := Match(r, s)
	return ok && n == len(s)
}

// StartsNumber reports whether c may begin an unprefixed decimal literal.
func StartsNumber(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}
