package fuzzer

import "strings"

// bitsquatting flips one bit of each ASCII codepoint in the label and
// keeps the result if the flipped character is still in [a-z0-9-].
func (e *Engine) bitsquatting() []string {
	label := e.triple.Label
	masks := []byte{1, 2, 4, 8, 16, 32, 64, 128}
	var result []string
	for i := 0; i < len(label); i++ {
		c := label[i]
		for _, m := range masks {
			flipped := c ^ m
			if (flipped >= 'a' && flipped <= 'z') || (flipped >= '0' && flipped <= '9') || flipped == '-' {
				result = append(result, label[:i]+string(flipped)+label[i+1:])
			}
		}
	}
	return result
}

// homoglyph performs the two-pass confusable-glyph substitution: pass one
// substitutes every occurrence of a character within every contiguous
// window; pass two feeds every pass-one result back through the same
// procedure. The glyph table is the per-TLD effective table.
func (e *Engine) homoglyph() []string {
	glyphs := glyphsForTLD(e.triple.TLD)
	pass1 := homoglyphPass(e.triple.Label, glyphs)
	seen := make(map[string]bool, len(pass1))
	union := make([]string, 0, len(pass1))
	for _, d := range pass1 {
		if !seen[d] {
			seen[d] = true
			union = append(union, d)
		}
	}
	for _, d := range pass1 {
		for _, d2 := range homoglyphPass(d, glyphs) {
			if !seen[d2] {
				seen[d2] = true
				union = append(union, d2)
			}
		}
	}
	return union
}

func homoglyphPass(label string, glyphs map[string][]string) []string {
	var result []string
	runes := []rune(label)
	n := len(runes)
	for ws := 1; ws < n; ws++ {
		for i := 0; i+ws <= n; i++ {
			win := string(runes[i : i+ws])
			for j := 0; j < ws; j++ {
				c := string(runes[i+j])
				subs, ok := glyphs[c]
				if !ok {
					continue
				}
				for _, g := range subs {
					replaced := strings.ReplaceAll(win, c, g)
					result = append(result, string(runes[:i])+replaced+string(runes[i+ws:]))
				}
			}
		}
	}
	return result
}

// hyphenation inserts a hyphen at each interior position.
func (e *Engine) hyphenation() []string {
	label := e.triple.Label
	var result []string
	for i := 1; i < len(label); i++ {
		result = append(result, label[:i]+"-"+label[i:])
	}
	return result
}

// insertion inserts each keyboard-adjacent character on either side of
// the character it neighbors, for every layout, at interior positions.
func (e *Engine) insertion() []string {
	label := e.triple.Label
	var result []string
	for i := 1; i < len(label)-1; i++ {
		c := label[i]
		for _, kb := range keyboards {
			neighbors, ok := kb[c]
			if !ok {
				continue
			}
			for _, n := range neighbors {
				result = append(result, label[:i]+string(n)+string(c)+label[i+1:])
				result = append(result, label[:i]+string(c)+string(n)+label[i+1:])
			}
		}
	}
	return result
}

// omission deletes each character in turn.
func (e *Engine) omission() []string {
	label := e.triple.Label
	var result []string
	for i := 0; i < len(label); i++ {
		result = append(result, label[:i]+label[i+1:])
	}
	return result
}

// repetition duplicates each alphabetic character in place.
func (e *Engine) repetition() []string {
	label := e.triple.Label
	var result []string
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			result = append(result, label[:i]+string(c)+string(c)+label[i+1:])
		}
	}
	return result
}

// replacement substitutes each character with its keyboard-adjacent
// characters, across every layout.
func (e *Engine) replacement() []string {
	label := e.triple.Label
	var result []string
	for i := 0; i < len(label); i++ {
		c := label[i]
		for _, kb := range keyboards {
			neighbors, ok := kb[c]
			if !ok {
				continue
			}
			for _, n := range neighbors {
				result = append(result, label[:i]+string(n)+label[i+1:])
			}
		}
	}
	return result
}

// subdomainFuzz inserts a dot at each interior position where neither
// neighbor is a hyphen or dot already.
func (e *Engine) subdomainFuzz() []string {
	label := e.triple.Label
	var result []string
	for i := 1; i < len(label)-1; i++ {
		if label[i] != '-' && label[i] != '.' && label[i-1] != '-' && label[i-1] != '.' {
			result = append(result, label[:i]+"."+label[i:])
		}
	}
	return result
}

// transposition swaps each adjacent pair of distinct characters.
func (e *Engine) transposition() []string {
	label := e.triple.Label
	var result []string
	for i := 0; i < len(label)-1; i++ {
		if label[i] != label[i+1] {
			result = append(result, label[:i]+string(label[i+1])+string(label[i])+label[i+2:])
		}
	}
	return result
}

// vowelSwap substitutes each vowel position with every other vowel.
func (e *Engine) vowelSwap() []string {
	label := e.triple.Label
	const vowels = "aeiou"
	var result []string
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !strings.ContainsRune(vowels, rune(c)) {
			continue
		}
		for _, v := range vowels {
			if byte(v) != c {
				result = append(result, label[:i]+string(v)+label[i+1:])
			}
		}
	}
	return result
}

const additionAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// addition appends one character to the label, and additionally inserts
// one before each hyphen segment when the label contains a hyphen.
func (e *Engine) addition() []string {
	label := e.triple.Label
	var result []string
	for _, c := range additionAlphabet {
		result = append(result, label+string(c))
	}
	if strings.Contains(label, "-") {
		for i, c := range label {
			if c != '-' {
				continue
			}
			for _, a := range additionAlphabet {
				result = append(result, label[:i]+string(a)+label[i:])
			}
		}
	}
	return result
}

// plural inserts a pluralizing suffix ("s", or "es" after s/x/z) at each
// interior position from 3 to len-2.
func (e *Engine) plural() []string {
	label := e.triple.Label
	var result []string
	for i := 3; i <= len(label)-2; i++ {
		suffix := "s"
		switch label[i-1] {
		case 's', 'x', 'z':
			suffix = "es"
		}
		result = append(result, label[:i]+suffix+label[i:])
	}
	return result
}

// cyrillic substitutes every Latin letter that has an entry in cyrillicMap
// with its fixed visual analogue (letters without one, such as f, r and z,
// are kept), emitting a result only when at least one character changed.
func (e *Engine) cyrillic() []string {
	label := e.triple.Label
	var b strings.Builder
	changed := false
	for _, r := range label {
		if cy, ok := cyrillicMap[r]; ok {
			b.WriteRune(cy)
			changed = true
		} else {
			b.WriteRune(r)
		}
	}
	if !changed {
		return nil
	}
	return []string{b.String()}
}

// dictionaryFuzz composes the label with each dictionary word as a
// prefix or suffix, with and without a hyphen, plus hyphen-splice
// variants when the label itself contains a hyphen.
func (e *Engine) dictionaryFuzz() []string {
	label := e.triple.Label
	var result []string
	for _, word := range e.dictionary {
		if strings.HasPrefix(label, word) && strings.HasSuffix(label, word) {
			continue
		}
		result = append(result,
			label+"-"+word,
			label+word,
			word+"-"+label,
			word+label,
		)
		if strings.Contains(label, "-") {
			segments := strings.Split(label, "-")
			withLastReplaced := append(append([]string{}, segments[:len(segments)-1]...), word)
			withFirstReplaced := append([]string{word}, segments[1:]...)
			result = append(result, strings.Join(withLastReplaced, "-"), strings.Join(withFirstReplaced, "-"))
		}
	}
	return result
}

// tldSwap returns the TLD dictionary entries, excluding the current TLD.
func (e *Engine) tldSwap() []string {
	var result []string
	for _, tld := range e.tldDictionary {
		if tld == e.triple.TLD {
			continue
		}
		result = append(result, tld)
	}
	return result
}

// various produces the fixed family of structural restructurings
// described in §4.2: TLD/subdomain merges that don't fit any other
// fuzzer's shape.
func (e *Engine) various() []string {
	t := e.triple
	var result []string

	if strings.Contains(t.TLD, ".") {
		parts := strings.Split(t.TLD, ".")
		lastComponent := parts[len(parts)-1]
		result = append(result,
			t.Label+"."+lastComponent,
			t.Label+t.TLD,
			t.Label+strings.ReplaceAll(t.TLD, ".", "")+".com",
		)
	} else {
		result = append(result, t.Label+t.TLD+"."+t.TLD)
		if t.TLD != "com" {
			result = append(result,
				t.Label+"-"+t.TLD+".com",
				t.Label+t.TLD+".com",
			)
		}
	}

	if t.Subdomain != "" {
		flatSub := strings.ReplaceAll(t.Subdomain, ".", "")
		result = append(result,
			flatSub+t.Label+"."+t.TLD,
			t.Subdomain+"-"+t.Label+"."+t.TLD,
		)
	}

	return result
}
