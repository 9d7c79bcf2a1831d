// Package commodityid derives stable commodity identifiers from a commodity
// name and variety.
package commodityid

import (
	"strings"
	"unicode"
)

// Generate returns the identifier for a name/variety pair, e.g.
// ("Apple", "Gala") -> "apple-gala". Runs of characters that are not letters
// or digits collapse into a single hyphen. An empty variety yields the name
// slug alone. Returns "" when neither input holds a letter or digit; callers
// must reject that before storing.
func Generate(name, variety string) string {
	nameSlug := slugify(name)
	varietySlug := slugify(variety)

	switch {
	case varietySlug == "":
		return nameSlug
	case nameSlug == "":
		return varietySlug
	default:
		return nameSlug + "-" + varietySlug
	}
}

func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
