package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var badgeRe = regexp.MustCompile(`^[A-Z0-9]{4,32}$`)

// Badge normalizes a scanned badge credential (tec ID) into its canonical
// form: separators stripped, uppercased. The same normalization runs at
// signup and at scan time so the two always agree.
func Badge(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ToUpper(s)

	if !badgeRe.MatchString(s) {
		return "", fmt.Errorf("invalid badge credential: %q", raw)
	}
	if !strings.ContainsAny(s, "0123456789") {
		return "", fmt.Errorf("badge credential has no digits: %q", raw)
	}
	return s, nil
}
