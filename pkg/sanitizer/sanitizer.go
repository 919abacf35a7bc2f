// Package sanitizer normalizes guest contact details arriving from the
// channel before they are matched or persisted. Channel payloads are typed
// by humans at the OTA side; whitespace, casing and phone formats vary.
package sanitizer

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone formats a guest phone number to E.164, using the guest's
// country as the parsing region when the number has no international prefix.
// Unparsable numbers are kept as typed rather than dropped; they are contact
// data, not routing data.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	region := strings.ToUpper(strings.TrimSpace(countryCode))
	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
