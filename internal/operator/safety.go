// File: internal/operator/safety.go
package operator

import "regexp"

// denyPattern couples a compiled destructive-command shape with a short name
// used in block notices.
type denyPattern struct {
	name string
	re   *regexp.Regexp
}

// denylist covers the command shapes that must never reach the operating
// system through a write action: recursive deletes, filesystem formats,
// raw-disk writes, fork bombs, and other system-critical invocations.
var denylist = []denyPattern{
	{"recursive delete", regexp.MustCompile(`(?i)rm\s+(-[a-z]*r[a-z]*f|-[a-z]*f[a-z]*r)\b`)},
	{"filesystem format", regexp.MustCompile(`(?i)mkfs`)},
	{"device overwrite", regexp.MustCompile(`(?i)>\s*/dev/sd`)},
	{"direct disk write", regexp.MustCompile(`(?i)dd\s+if=`)},
	{"fork bomb", regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\};\s*:`)},
	{"system power command", regexp.MustCompile(`(?i)\b(shutdown|reboot|halt|poweroff)\b\s`)},
	{"root permission blast", regexp.MustCompile(`(?i)chmod\s+(-[a-z]*R[a-z]*\s+)?777\s+/\s*$`)},
}

// checkContent returns the name of the first denylisted pattern the content
// matches, or "" when the content is clean.
func checkContent(content string) string {
	for _, p := range denylist {
		if p.re.MatchString(content) {
			return p.name
		}
	}
	return ""
}
