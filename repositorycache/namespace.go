package repositorycache

import (
	"reflect"
	"strings"
	"unicode"
)

// Namespace returns the snake_case name of T, without package path or
// pointer markers, e.g. "seller" for model.Seller and "book_listing" for
// *model.BookListing.
func Namespace[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	// generic instantiations carry their type arguments in brackets
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return toSnake(name)
}

// toSnake lowercases s and separates words with single underscores. Any
// character that is not a letter or digit acts as a separator.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	pending := false
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pending = b.Len() > 0
			continue
		}

		if b.Len() > 0 && !pending && i > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				pending = true
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				pending = true
			case unicode.IsDigit(r) && unicode.IsLetter(prev):
				pending = true
			}
		}

		if pending {
			b.WriteByte('_')
			pending = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
