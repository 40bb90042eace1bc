package voicecall

// PhonePrefix is the fixed 7-digit prefix short dial forms expand into.
// The source embeds it as a single string constant and slices into it at
// several fixed offsets; those offsets are reproduced literally below so
// the expansion matches byte-for-byte (§4.3, §9: "keep it as a pure
// function of (digits, instance_id)").
const PhonePrefix = "1555521"

// MaxNumberLen is the longest number the call table stores (mirrors the
// source's call->number fixed buffer).
const MaxNumberLen = 40

// Normalize expands a 4, 5, 7 or 10 digit short dial form into the
// 11-digit form this instance and its peers use to address each other,
// or returns digits unchanged if it matches none of the short forms
// (cut to the first MaxNumberLen digits if longer than that).
// Normalize is idempotent: once expanded, a string no longer matches any
// of the short-form lengths (11 != 4,5,7,10) so a second call returns it
// unchanged, satisfying the round-trip law in §8.
func Normalize(digits string, instanceID int) string {
	n := len(digits)
	switch {
	case n == 10 && digits[:5] == PhonePrefix[1:6] && int(digits[5]-'1') == instanceID:
		return PhonePrefix[:1] + digits
	case n == 7 && digits[:2] == PhonePrefix[4:6] && int(digits[2]-'1') == instanceID:
		return PhonePrefix[:4] + digits
	case n == 5 && int(digits[0]-'1') == instanceID:
		return PhonePrefix[:6] + digits
	case n == 4:
		return PhonePrefix[:6] + string(rune('1'+instanceID)) + digits
	default:
		if n > MaxNumberLen {
			return digits[:MaxNumberLen]
		}
		return digits
	}
}

// StripDialSuffix removes a trailing ';' (multiparty-add marker) and any
// preceding CLIR suffix ('I' or 'i') from a raw ATD dial string, as the
// source does before normalizing the remaining digits. clir reports
// whether a CLIR suffix was actually present, independent of whether a
// trailing ';' was also stripped.
func StripDialSuffix(cmd string) (trimmed string, clir bool) {
	n := len(cmd)
	if n > 0 && cmd[n-1] == ';' {
		n--
	}
	if n > 0 && (cmd[n-1] == 'I' || cmd[n-1] == 'i') {
		n--
		clir = true
	}
	return cmd[:n], clir
}
