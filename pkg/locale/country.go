package locale

import (
	"strings"
)

const (
	DefaultTimezone = "UTC"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code
	Name            string   // Human-readable country name
	PhonePrefixes   []string // International dialing prefixes
	DefaultTimezone string   // IANA timezone identifier
}

var Countries = map[string]Country{
	"FR": {
		Code:            "FR",
		Name:            "France",
		PhonePrefixes:   []string{"+33", "0033"},
		DefaultTimezone: "Europe/Paris",
	},
	"ES": {
		Code:            "ES",
		Name:            "Spain",
		PhonePrefixes:   []string{"+34", "0034"},
		DefaultTimezone: "Europe/Madrid",
	},
	"IT": {
		Code:            "IT",
		Name:            "Italy",
		PhonePrefixes:   []string{"+39", "0039"},
		DefaultTimezone: "Europe/Rome",
	},
	"DE": {
		Code:            "DE",
		Name:            "Germany",
		PhonePrefixes:   []string{"+49", "0049"},
		DefaultTimezone: "Europe/Berlin",
	},
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		PhonePrefixes:   []string{"+44", "0044"},
		DefaultTimezone: "Europe/London",
	},
	"US": {
		Code:            "US",
		Name:            "United States",
		PhonePrefixes:   []string{"+1", "001"},
		DefaultTimezone: "America/New_York",
	},
}

// NormalizeCountryCode maps free-text country fields from the channel to an
// ISO code when it recognizes them.
func NormalizeCountryCode(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	if _, ok := Countries[v]; ok {
		return v
	}
	for code, c := range Countries {
		if strings.EqualFold(c.Name, v) {
			return code
		}
	}
	return ""
}
