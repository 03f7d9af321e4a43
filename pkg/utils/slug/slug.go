package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Make lowercases s, strips diacritics and joins the remaining letter and
// digit runs with single dashes: "Héllo, World!" -> "hello-world".
func Make(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(fold(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Filename sanitises an uploaded file name, keeping the extension and
// replacing anything outside [a-z0-9._-] in the stem.
func Filename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	ext := ""
	if i := strings.LastIndex(name, "."); i > 0 {
		ext = "." + Make(name[i+1:])
		name = name[:i]
	}
	if ext == "." {
		ext = ""
	}

	stem := Make(name)
	if stem == "" {
		stem = "file"
	}
	return stem + ext
}
