package places

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse numbers written without a country code.
const DefaultPhoneRegion = "IN"

// normalizePhone returns raw in E.164 form, or "" if it is not a valid number.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == PhoneMissing {
		return ""
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
