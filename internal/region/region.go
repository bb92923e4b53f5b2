// Package region recognizes ISO 3166-1 country codes and renders them as
// names and flag symbols for the status card.
package region

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// regionalIndicatorA is the code point of REGIONAL INDICATOR SYMBOL LETTER A
const regionalIndicatorA = 0x1F1E6

// Region is a recognized country
type Region struct {
	// Code is the upper-case ISO 3166-1 alpha-2 code
	Code string
	// Name is the English short name, e.g. "France"
	Name string
	// Flag is the pair of regional indicator symbols, e.g. 🇫🇷
	Flag string
}

// Lookup recognizes a two-letter country code, in any case.
// Numeric codes, alpha-3 codes, groupings like "EU" or "001" and private use
// codes are not recognized.
func Lookup(code string) (Region, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !isAlpha2(code) {
		return Region{}, false
	}

	r, err := language.ParseRegion(code)
	if err != nil || !r.IsCountry() {
		return Region{}, false
	}

	canonical := r.Canonicalize().String()
	if !isAlpha2(canonical) {
		return Region{}, false
	}

	name := display.English.Regions().Name(r)
	if name == "" {
		name = canonical
	}

	return Region{
		Code: canonical,
		Name: name,
		Flag: Flag(canonical),
	}, true
}

// Flag returns the flag symbol for an alpha-2 code without validating that the
// country exists. It returns "" for anything that is not two ASCII letters.
func Flag(code string) string {
	code = strings.ToUpper(code)
	if !isAlpha2(code) {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		b.WriteRune(rune(regionalIndicatorA + (c - 'A')))
	}
	return b.String()
}

func isAlpha2(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
