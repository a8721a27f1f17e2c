package str

import (
	"strings"
	"unicode"
)

// ToScreamingSnakeCase transforms a given string into screaming snake case format
func ToScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return in
	}

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3) // estimate space for underscores

	for i, b := range []byte(in) {
		shouldWrite := true
		needsSeparator := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A' // convert to uppercase
		case 'A' <= b && b <= 'Z':
			needsSeparator = true
		case b == '_' || b == '-':
			shouldWrite = false
			needsSeparator = true
		case '0' <= b && b <= '9':
			needsSeparator = true
		}

		if i > 0 && needsSeparator {
			sb.WriteByte('_')
		}

		if shouldWrite {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}

// ToUpperCamelCase turns any string into an exported Go identifier fragment.
//
// Every rune that cannot be part of an identifier acts as a word separator and is dropped,
// the first letter of each word is upper-cased.
func ToUpperCamelCase(in string) string {
	sb := strings.Builder{}
	sb.Grow(len(in))

	upperNext := true
	for _, r := range in {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// ToLowerCamelCase is like ToUpperCamelCase but lower-cases the leading run of capitals,
// so "HTTPClient" gives "httpClient".
func ToLowerCamelCase(in string) string {
	camel := []rune(ToUpperCamelCase(in))
	if len(camel) == 0 {
		return ""
	}

	i := 0
	for i < len(camel) && unicode.IsUpper(camel[i]) {
		// keep the last capital of an acronym when a lower-case letter follows
		if i > 0 && i+1 < len(camel) && unicode.IsLower(camel[i+1]) {
			break
		}
		camel[i] = unicode.ToLower(camel[i])
		i++
	}

	return string(camel)
}
