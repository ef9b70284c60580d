// Package naming holds Java naming rules: identifier validation, case
// conversion and the derivation of field names from type names.
package naming

import (
	"strings"
	"unicode"
)

// SplitWords splits camelCase, PascalCase, snake_case and kebab-case input.
// A run of capitals is one word, so "URLMapping" splits into "URL" and "Mapping".
func SplitWords(s string) []string {
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s)
	runes := []rune(s)

	var result strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			switch {
			case unicode.IsSpace(prev):
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				result.WriteRune(' ')
			case unicode.IsUpper(prev) && nextLower:
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return strings.Fields(result.String())
}

// Capitalize upper-cases the first letter
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Decapitalize lower-cases the leading word, so "Customer" becomes
// "customer" and "URLMapping" becomes "urlMapping"
func Decapitalize(s string) string {
	words := SplitWords(s)
	if len(words) == 0 {
		return s
	}
	words[0] = strings.ToLower(words[0])
	return strings.Join(words, "")
}

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	words := SplitWords(s)
	for i, word := range words {
		words[i] = Capitalize(strings.ToLower(word))
	}
	return strings.Join(words, "")
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a string to snake_case, the default column naming.
func ToSnakeCase(s string) string {
	words := SplitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}
