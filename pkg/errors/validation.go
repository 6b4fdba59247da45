package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxTextLength bounds a node label.
const MaxTextLength = 4096

// ValidateNodeText rejects labels that cannot be shown on a single row.
func ValidateNodeText(text string) error {
	if len(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "node text too long (max %d bytes)", MaxTextLength)
	}
	for _, r := range text {
		if r == '\n' || r == '\r' {
			return New(ErrCodeInvalidInput, "node text must be a single line")
		}
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "node text contains control characters")
		}
	}
	return nil
}

var (
	hexColorRegex   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	namedColorRegex = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// ValidateColor accepts "", #rgb, #rrggbb, or a plain color keyword.
func ValidateColor(color string) error {
	if color == "" || hexColorRegex.MatchString(color) || namedColorRegex.MatchString(color) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid color %q", color)
}

// MaxKeyLength bounds a storage key.
const MaxKeyLength = 128

// ValidateStorageKey accepts 1 to MaxKeyLength ASCII letters, digits and
// ".", "_", "-", ":". Every backend can store such a key verbatim.
func ValidateStorageKey(key string) error {
	if key == "" || len(key) > MaxKeyLength {
		return New(ErrCodeInvalidInput, "storage key must be 1 to %d characters", MaxKeyLength)
	}
	for _, r := range key {
		ok := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._-:", r))
		if !ok {
			return New(ErrCodeInvalidInput, "storage key contains invalid character %q", r)
		}
	}
	return nil
}

// MaxPathLength bounds a relative output path.
const MaxPathLength = 500

// ValidatePath accepts non-empty relative paths free of control characters
// whose elements never climb above the starting directory.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "empty path")
	case len(path) > MaxPathLength:
		return New(ErrCodeInvalidPath, "path longer than %d bytes", MaxPathLength)
	case strings.ContainsFunc(path, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`):
		return New(ErrCodeInvalidPath, "path %q is absolute", path)
	}
	for _, elem := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if elem == ".." {
			return New(ErrCodeInvalidPath, "path %q leaves its directory", path)
		}
	}
	return nil
}
