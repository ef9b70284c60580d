package naming

import (
	"strings"
	"unicode"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// Rules reported in ValidationError.Rule
const (
	RuleEmpty           = "must not be empty"
	RuleIdentifierStart = "must start with a letter, '_' or '$'"
	RuleIdentifierPart  = "may only contain letters, digits, '_' or '$'"
	RuleReserved        = "is a reserved Java keyword or literal"
	RuleClassUppercase  = "must start with an upper-case letter"
	RulePackageSegment  = "must be dot-separated identifiers without empty segments"
)

// javaReserved holds keywords, reserved literals and the contextual "_"
var javaReserved = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}

// IsReserved reports whether word cannot be used as a Java identifier
func IsReserved(word string) bool {
	return javaReserved[word]
}

func identifierRule(value string) string {
	if value == "" {
		return RuleEmpty
	}
	for i, r := range value {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '$' {
				return RuleIdentifierStart
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return RuleIdentifierPart
		}
	}
	if IsReserved(value) {
		return RuleReserved
	}
	return ""
}

// ValidateIdentifier checks a field, variable or method name. field names
// the request parameter in the error.
func ValidateIdentifier(field, value string) error {
	if rule := identifierRule(value); rule != "" {
		return coreerrors.NewValidationError(field, value, rule)
	}
	return nil
}

// ValidateClassName checks a type name: an identifier starting upper-case
func ValidateClassName(field, value string) error {
	if err := ValidateIdentifier(field, value); err != nil {
		return err
	}
	if r := []rune(value)[0]; !unicode.IsUpper(r) {
		return coreerrors.NewValidationError(field, value, RuleClassUppercase)
	}
	return nil
}

// ValidatePackageName checks a dotted package name. The empty string is the
// default package and is rejected; callers that allow it check first.
func ValidatePackageName(field, value string) error {
	if value == "" {
		return coreerrors.NewValidationError(field, value, RuleEmpty)
	}
	for _, segment := range strings.Split(value, ".") {
		if segment == "" {
			return coreerrors.NewValidationError(field, value, RulePackageSegment)
		}
		if rule := identifierRule(segment); rule != "" {
			return coreerrors.NewValidationError(field, value, "segment "+segment+" "+rule)
		}
	}
	return nil
}
