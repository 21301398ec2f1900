package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches a plain (non-backticked) Kotlin identifier.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// packageNameRegex matches a dotted Kotlin package name.
var packageNameRegex = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]*(\.[a-z_][a-zA-Z0-9_]*)*$`)

// ValidateIdentifier validates a declaration or parameter name.
// Names end up verbatim in generated source and in route placeholders, so
// backticked or unicode-escaped names are rejected rather than mangled.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidFeed, "%s name cannot be empty", kind)
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidFeed, "invalid %s name: %q", kind, name)
	}
	return nil
}

// ValidatePackageName validates the output package of generated sources.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "package name cannot be empty")
	}
	if !packageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid package name: %q", name)
	}
	return nil
}

// ValidateRouteID validates a route id after auto-naming.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No whitespace or control characters
//   - No placeholder or query syntax ('{', '}', '?', '&', '=')
//   - No leading or trailing slash
//
// Route ids are concatenated with argument segments, so any of these would
// silently change how the runtime matches the route.
func ValidateRouteID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFeed, "route id cannot be empty")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidFeed, "route id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, "{}?&=") {
		return New(ErrCodeInvalidFeed, "route id %q contains reserved route characters", id)
	}

	if strings.HasPrefix(id, "/") || strings.HasSuffix(id, "/") {
		return New(ErrCodeInvalidFeed, "route id %q cannot start or end with '/'", id)
	}

	return nil
}
