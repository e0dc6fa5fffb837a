// Package phone normalises participant phone numbers so the same line written
// in different notations compares equal.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "US"

// Normalize returns raw in E.164 form. Numbers that cannot be parsed are
// returned trimmed but otherwise untouched.
func Normalize(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// Valid reports whether raw is a dialable number in region.
func Valid(raw, region string) bool {
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), strings.ToUpper(region))
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
