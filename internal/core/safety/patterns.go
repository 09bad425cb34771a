package safety

import "regexp"

// dangerPattern pairs a compiled regex with the reason reported on match.
type dangerPattern struct {
	expr        *regexp.Regexp
	description string
}

// defaultDenylist are whole commands never allowed to run, compared
// after whitespace normalization.
var defaultDenylist = []string{
	"rm -rf /",
	"rm -rf /*",
	"rm -fr /",
	"sudo rm -rf /",
	"mkfs /dev/sda",
	"dd if=/dev/zero of=/dev/sda",
	"dd if=/dev/random of=/dev/sda",
	":(){ :|:& };:",
	"mv / /dev/null",
	"chmod -R 777 /",
}

// defaultPatterns are scanned in declaration order; the first match
// decides the verdict, keeping failure reasons deterministic.
var defaultPatterns = []struct {
	expr        string
	description string
}{
	{`(?i)\brm\s+(-[a-z]+\s+)*-[a-z]*r[a-z]*\s+/(\s|$|\*)`, "recursive deletion from the filesystem root"},
	{`(?i)\b(mkfs(\.[a-z0-9]+)?|fdisk|parted|sfdisk)\b`, "disk or partition tooling"},
	{`(?i)\bdd\s+if=`, "raw disk copy"},
	{`(?i)\b(curl|wget)\s+(-\S+\s+)*(https?|ftp)://`, "arbitrary network download"},
	{`>>?\s*/(etc|usr|boot|sys|proc|dev|bin|sbin|lib)(/|\s|$)`, "write redirected into a system directory"},
	{`(?i)\bchmod\s+(-[a-z]+\s+)*0?777\b`, "overly permissive permission change"},
	{`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`, "fork bomb"},
}
