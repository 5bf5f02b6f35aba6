package arabic

import "strings"

// Normalize canonicalizes Arabic text for matching and synonym lookup:
// diacritical marks (tashkeel) are removed, alef variants fold to bare
// alef, teh marbuta folds to heh, yeh folds to alef maqsura, anything
// outside the Arabic block becomes a word break, and whitespace is
// collapsed. Normalize is idempotent and never fails; empty input yields
// an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r >= 0x064B && r <= 0x0652: // tashkeel
			continue
		case r == 'أ' || r == 'إ' || r == 'آ':
			b.WriteRune('ا')
		case r == 'ة':
			b.WriteRune('ه')
		case r == 'ي':
			b.WriteRune('ى')
		case r >= 0x0600 && r <= 0x06FF:
			b.WriteRune(r)
		default:
			// Punctuation, Latin and digits all become word breaks.
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits normalized text into words. Call Normalize first;
// Tokenize itself does no folding.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
