package naming

import (
	"strings"
	"unicode"
)

// irregularPlurals maps singular nouns whose plural follows no suffix rule
var irregularPlurals = map[string]string{
	"person":    "people",
	"child":     "children",
	"man":       "men",
	"woman":     "women",
	"mouse":     "mice",
	"goose":     "geese",
	"foot":      "feet",
	"tooth":     "teeth",
	"ox":        "oxen",
	"leaf":      "leaves",
	"life":      "lives",
	"knife":     "knives",
	"wife":      "wives",
	"half":      "halves",
	"shelf":     "shelves",
	"thief":     "thieves",
	"criterion": "criteria",
	"medium":    "media",
	"hero":      "heroes",
	"potato":    "potatoes",
	"tomato":    "tomatoes",
	"echo":      "echoes",
	"quiz":      "quizzes",
}

// uncountables keep their form in the plural
var uncountables = map[string]bool{
	"equipment":   true,
	"information": true,
	"money":       true,
	"species":     true,
	"series":      true,
	"fish":        true,
	"sheep":       true,
	"news":        true,
	"data":        true,
	"metadata":    true,
	"feedback":    true,
	"staff":       true,
	"software":    true,
	"hardware":    true,
	"luggage":     true,
	"baggage":     true,
}

// pluralRule rewrites a lower-case word ending in suffix. The first matching
// rule wins, so more specific suffixes come first.
type pluralRule struct {
	suffix  string
	match   func(word string) bool
	rewrite func(word string) string
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

var pluralRules = []pluralRule{
	{
		// analysis -> analyses
		suffix:  "is",
		rewrite: func(w string) string { return w[:len(w)-2] + "es" },
	},
	{
		// category -> categories, but day -> days
		suffix:  "y",
		match:   func(w string) bool { return len(w) > 1 && !isVowel(w[len(w)-2]) },
		rewrite: func(w string) string { return w[:len(w)-1] + "ies" },
	},
	{suffix: "s", rewrite: addES},
	{suffix: "x", rewrite: addES},
	{suffix: "z", rewrite: addES},
	{suffix: "ch", rewrite: addES},
	{suffix: "sh", rewrite: addES},
}

func addES(w string) string { return w + "es" }

// Pluralize returns the plural of a single word, keeping its capitalization
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)

	var plural string
	switch {
	case uncountables[lower]:
		return word
	case irregularPlurals[lower] != "":
		plural = irregularPlurals[lower]
	default:
		plural = lower + "s"
		for _, rule := range pluralRules {
			if !strings.HasSuffix(lower, rule.suffix) {
				continue
			}
			if rule.match != nil && !rule.match(lower) {
				continue
			}
			plural = rule.rewrite(lower)
			break
		}
	}

	return matchCase(word, plural)
}

// matchCase applies the casing of original to the lower-case plural
func matchCase(original, plural string) string {
	if strings.ToUpper(original) == original && len(original) > 1 {
		return strings.ToUpper(plural)
	}
	if unicode.IsUpper([]rune(original)[0]) {
		return Capitalize(plural)
	}
	// Keep interior capitals of the shared prefix, e.g. "iPhone"
	prefix := 0
	for prefix < len(original) && prefix < len(plural) && strings.EqualFold(original[prefix:prefix+1], plural[prefix:prefix+1]) {
		prefix++
	}
	return original[:prefix] + plural[prefix:]
}

// PluralizeIdentifier pluralizes the last word of a camel-case identifier:
// "orderLine" becomes "orderLines" and "salesPerson" becomes "salesPeople"
func PluralizeIdentifier(ident string) string {
	words := SplitWords(ident)
	if len(words) == 0 {
		return ident
	}
	last := len(words) - 1
	words[last] = Pluralize(words[last])
	if last == 0 {
		return words[0]
	}
	return strings.Join(words, "")
}
