package steadfast

import "strings"

// NormalizePhone reduces a phone number to the 11-digit local format the
// courier requires. Handles inputs like +8801712345678, 8801712345678 and
// 1712345678: strips non-digits, drops the 880 country code, and restores
// the leading zero.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "880") && len(digits) == 13 {
		digits = digits[3:]
	}
	if len(digits) == 10 && !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}
	return digits
}

func validPhone(phone string) bool {
	if len(phone) != 11 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
