package utils

import "strings"

// SplitFullName splits a display name into first and last name. The first
// token becomes the first name, the remaining tokens are joined as the last
// name (empty when the name is a single token).
func SplitFullName(fullname string) (string, string) {
	parts := strings.Fields(fullname)

	if len(parts) == 0 {
		return "", ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}
