package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// phoneRe accepts a permissive international format: an optional
// leading "+" followed by 7 to 20 characters drawn from digits,
// spaces, hyphens, and parentheses.
var phoneRe = regexp.MustCompile(`^\+?[0-9 \-()]{7,20}$`)

// Phone validates a raw phone number and returns its trimmed form.
func Phone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("phone number is empty")
	}
	if !phoneRe.MatchString(s) {
		return "", fmt.Errorf("invalid phone number: %q", raw)
	}
	return s, nil
}
