package ledger

import (
	"strings"
	"unicode/utf8"

	dErrors "regnet/pkg/domain-errors"
)

const compositeKeySep = "\x00"

// CreateCompositeKey builds `\x00 namespace \x00 attr1 \x00 ... attrN \x00`.
// Two keys are equal iff namespace and every attribute match byte for byte.
func CreateCompositeKey(namespace string, attrs ...string) (string, error) {
	if namespace == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "key namespace is required")
	}
	if err := validateKeyComponent(namespace); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(compositeKeySep)
	b.WriteString(namespace)
	b.WriteString(compositeKeySep)
	for _, attr := range attrs {
		if err := validateKeyComponent(attr); err != nil {
			return "", err
		}
		b.WriteString(attr)
		b.WriteString(compositeKeySep)
	}
	return b.String(), nil
}

// SplitCompositeKey is the inverse of CreateCompositeKey.
func SplitCompositeKey(key string) (string, []string, error) {
	if !strings.HasPrefix(key, compositeKeySep) || !strings.HasSuffix(key, compositeKeySep) || len(key) < 2 {
		return "", nil, dErrors.New(dErrors.CodeInvalidInput, "not a composite key")
	}
	parts := strings.Split(key[1:len(key)-1], compositeKeySep)
	if parts[0] == "" {
		return "", nil, dErrors.New(dErrors.CodeInvalidInput, "composite key has no namespace")
	}
	return parts[0], parts[1:], nil
}

func validateKeyComponent(s string) error {
	if !utf8.ValidString(s) {
		return dErrors.New(dErrors.CodeInvalidInput, "key component is not valid UTF-8")
	}
	if strings.Contains(s, compositeKeySep) {
		return dErrors.New(dErrors.CodeInvalidInput, "key component must not contain NUL")
	}
	return nil
}
