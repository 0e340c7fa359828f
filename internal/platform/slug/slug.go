package slug

import (
	"regexp"
	"strings"
	"time"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "anonymous"
	}
	return s
}

// Stamped joins a slug with a compact UTC timestamp, e.g.
// "p-3f9a1c2b-20240102T150405Z".
func Stamped(input string, at time.Time) string {
	return Make(input) + "-" + at.UTC().Format("20060102T150405Z")
}
