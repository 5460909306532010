package pkg

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile("[^a-z0-9]+")

// GenerateRoleID normalizes a human role title into a stable identifier,
// e.g. "Backend Engineer" -> "backend_engineer".
func GenerateRoleID(title string) string {
	id := strings.ToLower(title)
	id = nonAlnum.ReplaceAllString(id, "_")
	id = strings.Trim(id, "_")

	if id == "" {
		return "unknown_role"
	}
	return id
}
