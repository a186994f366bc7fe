package parse

import (
	"strings"
	"unicode"
)

// Items splits free-form order text into item tokens.
//
// Separators are whitespace, ';', ',' and the full-width '、'. A
// parenthesized segment directly after a token is that token's note and
// is folded back as "token(note)", never emitted as its own item.
// Full-width parentheses are accepted and normalized to ASCII.
func Items(raw string) []string {
	var out []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		tok := normalizeParens(strings.TrimSpace(cur.String()))
		cur.Reset()
		if tok == "" {
			return
		}
		// "珍奶 (半糖)" arrives as two tokens; glue the note back.
		if strings.HasPrefix(tok, "(") && len(out) > 0 && !strings.HasSuffix(out[len(out)-1], ")") {
			out[len(out)-1] += tok
			return
		}
		out = append(out, tok)
	}

	for _, r := range raw {
		switch {
		case r == '(' || r == '（':
			depth++
			cur.WriteRune(r)
		case r == ')' || r == '）':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth == 0 && isSeparator(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// SplitNote breaks "name(note)" into its parts. Items without a note
// return the whole string as name and an empty note.
func SplitNote(item string) (name, note string) {
	i := strings.IndexByte(item, '(')
	if i < 0 {
		return item, ""
	}
	j := strings.LastIndexByte(item, ')')
	if j < i {
		return item, ""
	}
	return item[:i], item[i+1 : j]
}

// WithNote renders an item as "name(note)", or just the name when the
// note is empty.
func WithNote(name, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return name
	}
	return name + "(" + note + ")"
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ';' || r == ',' || r == '、'
}

func normalizeParens(s string) string {
	if !strings.ContainsRune(s, '（') && !strings.ContainsRune(s, '）') {
		return s
	}
	return strings.NewReplacer("（", "(", "）", ")").Replace(s)
}
