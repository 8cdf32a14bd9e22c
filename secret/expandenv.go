package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// envRefPattern matches ${VAR} and the escaped form $${VAR}.
var envRefPattern = regexp.MustCompile(`\$(\$?)\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands braced environment references in s.
//
// Semantics:
//   - `${VAR}` is replaced by the value of VAR.
//   - A `${VAR}` whose VAR is unset is an error naming every missing variable.
//   - `$${VAR}` emits a literal `${VAR}`.
//   - Any other `$` is kept as is, so secrets containing `$` survive unchanged.
func ExpandEnvStrict(s string) (string, error) {
	var missing []string
	for _, match := range envRefPattern.FindAllStringSubmatch(s, -1) {
		if match[1] != "" {
			continue
		}
		if _, ok := os.LookupEnv(match[2]); !ok && !slices.Contains(missing, match[2]) {
			missing = append(missing, match[2])
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRefPattern.FindStringSubmatch(ref)
		if m[1] != "" {
			return ref[1:]
		}
		return os.Getenv(m[2])
	}), nil
}
