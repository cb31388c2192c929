package visitor

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// WorldwideName is the display name used when no country code is available.
const WorldwideName = "Worldwide"

var regionNames = display.English.Regions()

// CountryName maps a 2-letter country code to its English display name.
// Unknown or missing codes resolve to the worldwide sentinel.
func CountryName(code string) string {
	if code == "" {
		return WorldwideName
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return WorldwideName
	}
	if name := regionNames.Name(region); name != "" {
		return name
	}
	return code
}

// Flag builds the flag emoji for a 2-letter ISO country code by mapping
// each letter to its Unicode regional-indicator symbol. Anything but
// exactly two uppercase ASCII letters yields no flag.
func Flag(code string) string {
	if len(code) != 2 {
		return ""
	}
	a, b := code[0], code[1]
	if a < 'A' || a > 'Z' || b < 'A' || b > 'Z' {
		return ""
	}
	const base = 0x1F1E6 // regional indicator 'A'
	return string([]rune{rune(a-'A') + base, rune(b-'A') + base})
}
