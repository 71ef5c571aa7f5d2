// Package config loads abacus.yaml and ABACUS_* environment overrides.
package config

import (
	"os"
	"regexp"
)

// envRef matches ${NAME} and ${NAME:-fallback}. Group 1 is the name,
// group 2 the ":-fallback" suffix and group 3 the fallback itself.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ExpandEnv substitutes environment references in a config document.
//
// ${NAME} becomes the value of NAME, or "" when unset. ${NAME:-fallback}
// becomes fallback when NAME is unset or empty. Nothing here fails:
// a missing storage.url or notify.url is reported by Validate.
func ExpandEnv(doc string) string {
	return envRef.ReplaceAllStringFunc(doc, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[3]
	})
}
