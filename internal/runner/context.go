package runner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02_15-04-05"

// RunContext identifies one invocation's output tree: a timestamped run
// directory under the output root, with one subdirectory per site. It
// is created once at startup and never mutated or deleted afterwards.
type RunContext struct {
	Root string
	Dir  string
}

// NewRunContext creates the timestamped run directory under root.
func NewRunContext(root string, now time.Time) (RunContext, error) {
	dir := filepath.Join(root, now.Format(timestampLayout))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return RunContext{}, err
	}
	return RunContext{Root: root, Dir: dir}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeSite converts a site URL into a filesystem-safe directory
// label: surrounding slashes are trimmed, every other run of characters
// outside [A-Za-z0-9._-] becomes a single underscore.
func SanitizeSite(site string) string {
	return unsafeChars.ReplaceAllString(strings.Trim(site, "/"), "_")
}

// SiteDir creates the site's subdirectory if needed and returns its
// path.
func (rc RunContext) SiteDir(site string) (string, error) {
	dir := filepath.Join(rc.Dir, "site-"+SanitizeSite(site))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
