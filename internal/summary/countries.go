package summary

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var regionNames = display.English.Regions()

// CountryName returns the English display name of an ISO 3166 alpha-2 code,
// or "" when the code is empty or unknown.
func CountryName(code string) string {
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(strings.ToUpper(code))
	if err != nil {
		return ""
	}
	return regionNames.Name(region)
}

// countryKey normalizes a country code for comparisons
func countryKey(code string) string {
	return strings.ToUpper(code)
}
