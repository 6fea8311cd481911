package overrides

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shinji-kodama/build-descriptor/internal/model"
)

// EnvPrefix is the prefix of environment variables read by FromEnv.
const EnvPrefix = "BUILD_DESCRIPTOR_"

// ParseAssignments parses "key=value" pairs. The value may itself contain
// '='; only the first one separates key from value. Every malformed pair is
// reported in the returned error.
func ParseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	var errs []error

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			errs = append(errs, fmt.Errorf("invalid override %q: expected key=value", pair))
			continue
		}
		values[key] = value
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return values, nil
}

// FromEnv extracts overrides for the known fields from environ, a list of
// "NAME=value" entries as returned by os.Environ. A field maps to
// prefix + EnvName(field), e.g. BUILD_DESCRIPTOR_MIN_SDK for minSdk.
func FromEnv(environ []string, prefix string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if name, value, ok := strings.Cut(entry, "="); ok {
			env[name] = value
		}
	}

	values := make(map[string]string)
	for _, field := range model.Fields {
		if value, ok := env[prefix+EnvName(field)]; ok {
			values[field] = value
		}
	}
	return values
}

// EnvName converts a camelCase field name to UPPER_SNAKE_CASE:
// "javaCompatibilityLevel" becomes "JAVA_COMPATIBILITY_LEVEL".
func EnvName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
