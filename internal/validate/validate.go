package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^[0-9\s\-\+\(\)\.]{10,15}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N}\s'\-]{1,60}$`)
)

// Email trims and lowercases an address and checks its shape.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the registration length window. bcrypt ignores bytes past 72.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n >= 2 && n <= 60
}

func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n >= 3 && n <= 120
}

func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n >= 10 && n <= 5000
}

// Phone is optional; when present it must look like a phone number.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Q accepts a search keyword made of letters, digits, spaces, hyphens and apostrophes.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reQ.MatchString(s)
}

// ID parses a positive numeric resource identifier from a route parameter.
func ID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
