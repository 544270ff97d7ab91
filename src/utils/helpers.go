package utils

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the address is plausible enough to hand to the
// mail client. Stored addresses are not trusted blindly by the reminder
// sweeps.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
