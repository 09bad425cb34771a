package safety

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultProtectedPaths are glob patterns naming system locations command
// tokens may never reference.
var defaultProtectedPaths = []string{
	"/etc/shadow",
	"/etc/sudoers",
	"/etc/sudoers.d/**",
	"/boot/**",
	"/root/**",
	"/proc/sys/**",
	"/sys/firmware/**",
	"/dev/sd[a-z]*",
	"/dev/nvme*",
	"/dev/disk/**",
}

// pathChecker flags command tokens that reference protected system
// locations.
type pathChecker struct {
	globs []string
}

func newPathChecker(globs []string) *pathChecker {
	return &pathChecker{globs: globs}
}

// check returns the first token resolving inside a protected location
// along with the matched pattern, or empty strings when all tokens are
// clean. Tokens without a path separator are skipped; key=value tokens
// (dd-style) are checked on the value part.
func (pc *pathChecker) check(command string) (token, pattern string) {
	for _, raw := range strings.Fields(command) {
		candidate := strings.Trim(raw, `"'`)
		if i := strings.LastIndex(candidate, "="); i >= 0 {
			candidate = candidate[i+1:]
		}
		if !strings.ContainsAny(candidate, `/\`) {
			continue
		}
		cleaned := filepath.ToSlash(filepath.Clean(candidate))
		for _, glob := range pc.globs {
			if ok, err := doublestar.Match(glob, cleaned); err == nil && ok {
				return raw, glob
			}
		}
	}
	return "", ""
}
