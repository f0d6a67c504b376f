package fuzzer

// Keyboard-adjacency tables, one per physical layout. Each entry maps a key
// to the string of keys touching it. Embedded verbatim as data, per the
// canonical source: insertion and replacement walk these at generation time.
var qwerty = map[byte]string{
	'1': "2q", '2': "3wq1", '3': "4ew2", '4': "5re3", '5': "6tr4", '6': "7yt5", '7': "8uy6", '8': "9iu7", '9': "0oi8", '0': "po9",
	'q': "12wa", 'w': "3esaq2", 'e': "4rdsw3", 'r': "5tfde4", 't': "6ygfr5", 'y': "7uhgt6", 'u': "8ijhy7", 'i': "9okju8", 'o': "0plki9", 'p': "lo0",
	'a': "qwsz", 's': "edxzaw", 'd': "rfcxse", 'f': "tgvcdr", 'g': "yhbvft", 'h': "ujnbgy", 'j': "ikmnhu", 'k': "olmji", 'l': "kop",
	'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk",
}

var qwertz = map[byte]string{
	'1': "2q", '2': "3wq1", '3': "4ew2", '4': "5re3", '5': "6tr4", '6': "7zt5", '7': "8uz6", '8': "9iu7", '9': "0oi8", '0': "po9",
	'q': "12wa", 'w': "3esaq2", 'e': "4rdsw3", 'r': "5tfde4", 't': "6zgfr5", 'z': "7uhgt6", 'u': "8ijhz7", 'i': "9okju8", 'o': "0plki9", 'p': "lo0",
	'a': "qwsy", 's': "edxyaw", 'd': "rfcxse", 'f': "tgvcdr", 'g': "zhbvft", 'h': "ujnbgz", 'j': "ikmnhu", 'k': "olmji", 'l': "kop",
	'y': "asx", 'x': "ysdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk",
}

var azerty = map[byte]string{
	'1': "2a", '2': "3za1", '3': "4ez2", '4': "5re3", '5': "6tr4", '6': "7yt5", '7': "8uy6", '8': "9iu7", '9': "0oi8", '0': "po9",
	'a': "2zq1", 'z': "3esqa2", 'e': "4rdsz3", 'r': "5tfde4", 't': "6ygfr5", 'y': "7uhgt6", 'u': "8ijhy7", 'i': "9okju8", 'o': "0plki9", 'p': "lo0m",
	'q': "zswa", 's': "edxwqz", 'd': "rfcxse", 'f': "tgvcdr", 'g': "yhbvft", 'h': "ujnbgy", 'j': "iknhu", 'k': "olji", 'l': "kopm", 'm': "lp",
	'w': "sxq", 'x': "wsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhj",
}

var keyboards = []map[byte]string{qwerty, qwertz, azerty}

// unicodeGlyphs maps each ASCII lowercase letter, the digits that have a
// plausible visual double (2 3 5 6 8 9), and the digraphs "ae"/"oe" to a
// list of confusables: mostly single Unicode codepoints, plus for some
// letters the ASCII look-alikes that asciiGlyphs also lists. This is the
// base table; it is narrowed or widened per TLD by tldUnicodeOverrides
// below.
var unicodeGlyphs = map[string][]string{
	"a":  {"à", "á", "â", "ã", "ä", "å", "ɑ", "ạ", "ǎ", "ă", "ȧ", "ą", "а", "α"},
	"b":  {"d", "lb", "ʙ", "ɓ", "ḃ", "ḅ", "ḇ", "ƅ", "ь", "в"},
	"c":  {"e", "ƈ", "ċ", "ć", "ç", "č", "ĉ", "с"},
	"d":  {"b", "cl", "dl", "ɗ", "đ", "ď", "ɖ", "ḑ", "ḋ", "ḍ", "ḏ", "ḓ", "ԁ"},
	"e":  {"c", "é", "è", "ê", "ë", "ē", "ĕ", "ě", "ė", "ẹ", "ę", "ȩ", "ɇ", "ḛ", "е"},
	"f":  {"ƒ", "ḟ"},
	"g":  {"q", "ɢ", "ɡ", "ġ", "ğ", "ǵ", "ģ", "ĝ", "ǧ", "ǥ"},
	"h":  {"lh", "ĥ", "ȟ", "ħ", "ɦ", "ḧ", "ḩ", "ⱨ", "ḣ", "ḥ", "ḫ", "ẖ", "һ"},
	"i":  {"1", "l", "í", "ì", "ï", "ı", "ɩ", "ǐ", "ĭ", "ỉ", "ị", "ɨ", "ȋ", "ī", "і"},
	"j":  {"ʝ", "ɉ", "ј"},
	"k":  {"lk", "ik", "lc", "ḳ", "ḵ", "ⱪ", "ķ", "к"},
	"l":  {"1", "i", "ɫ", "ł", "ӏ"},
	"m":  {"n", "nn", "rn", "rr", "ṁ", "ṃ", "ᴍ", "ɱ", "ḿ", "м"},
	"n":  {"m", "r", "ń", "ṅ", "ṇ", "ṉ", "ñ", "ņ", "ǹ", "ň", "ꞑ", "п"},
	"o":  {"0", "ȯ", "ọ", "ỏ", "ơ", "ó", "ö", "о", "ο"},
	"p":  {"ƿ", "ƥ", "ṕ", "ṗ", "р"},
	"q":  {"g", "ʠ", "ԛ"},
	"r":  {"ʀ", "ɼ", "ɽ", "ŕ", "ŗ", "ř", "ɍ", "ɾ", "ȓ", "ȑ", "ṙ", "ṛ", "ṟ"},
	"s":  {"ʂ", "ś", "ṣ", "ṡ", "ș", "ŝ", "š", "ѕ"},
	"t":  {"ţ", "ŧ", "ṫ", "ṭ", "ț", "ƫ", "т"},
	"u":  {"ᴜ", "ǔ", "ŭ", "ü", "ʉ", "ù", "ú", "û", "ũ", "ū", "ų", "ư", "ů", "ű", "ȕ", "ȗ", "ụ", "υ"},
	"v":  {"ṿ", "ⱱ", "ᶌ", "ṽ", "ⱴ", "ѵ"},
	"w":  {"vv", "ŵ", "ẁ", "ẃ", "ẅ", "ⱳ", "ẇ", "ẉ", "ẘ", "ԝ"},
	"x":  {"х"},
	"y":  {"ʏ", "ý", "ÿ", "ŷ", "ƴ", "ȳ", "ɏ", "ỿ", "ẏ", "ỵ", "у"},
	"z":  {"ʐ", "ż", "ź", "ᴢ", "ƶ", "ẓ", "ẕ", "ⱬ"},
	"2":  {"ƻ"},
	"3":  {"ʒ", "Ʒ"},
	"5":  {"ƽ"},
	"6":  {"б"},
	"8":  {"ȣ"},
	"9":  {"ⳝ"},
	"ae": {"æ"},
	"oe": {"œ"},
}

// asciiGlyphs maps a letter or digit to multi-character ASCII-only
// confusables, independent of any Unicode table or TLD IDN policy.
var asciiGlyphs = map[string][]string{
	"b": {"d", "lb", "ib"},
	"d": {"b", "cl", "dl"},
	"h": {"lh", "ih"},
	"i": {"1", "l"},
	"k": {"lk", "ik", "lc"},
	"l": {"1", "i"},
	"m": {"n", "nn", "rn", "rr"},
	"n": {"m", "r"},
	"o": {"0"},
	"q": {"g"},
	"u": {"v"},
	"v": {"u"},
	"w": {"vv"},
}

// tldUnicodeOverrides restricts or widens the Unicode glyph table to match
// each registry's IDN policy. A TLD absent from this map uses the full
// unicodeGlyphs table. An explicit empty map disallows IDN homoglyphs
// entirely for that TLD.
var tldUnicodeOverrides = map[string]map[string][]string{
	"jp": {},
	"cn": {},
	"uk": {},
	"us": {},
	"nl": {},
	"info": {
		"a": {"ą", "á", "à", "â", "ä"},
		"c": {"ć", "ç", "č"},
		"e": {"ę", "é", "è", "ê", "ë"},
		"l": {"ł"},
		"n": {"ń", "ñ"},
		"o": {"ó", "ö"},
		"s": {"ś", "š"},
		"z": {"ź", "ż"},
	},
	"de": unicodeGlyphs,
}

// glyphsForTLD returns the effective homoglyph table for a TLD: the union
// of the ASCII table and the TLD-specific Unicode table, defaulting to the
// full Unicode table when the TLD carries no explicit policy.
func glyphsForTLD(tld string) map[string][]string {
	unicodePart, known := tldUnicodeOverrides[tld]
	if !known {
		unicodePart = unicodeGlyphs
	}
	merged := make(map[string][]string, len(asciiGlyphs)+len(unicodePart))
	for k, v := range asciiGlyphs {
		merged[k] = append(merged[k], v...)
	}
	for k, v := range unicodePart {
		merged[k] = append(merged[k], v...)
	}
	return merged
}

// cyrillicMap is the fixed 1:1 Latin-to-Cyrillic visual analogue map used
// by the cyrillic fuzzer.
var cyrillicMap = map[rune]rune{
	'a': 'а', 'b': 'ь', 'c': 'с', 'd': 'ԁ', 'e': 'е', 'g': 'ɡ', 'h': 'һ',
	'i': 'і', 'j': 'ј', 'k': 'к', 'l': 'ӏ', 'm': 'м', 'n': 'п', 'o': 'о',
	'p': 'р', 'q': 'ԛ', 's': 'ѕ', 't': 'т', 'u': 'υ', 'v': 'ѵ', 'w': 'ԝ',
	'x': 'х', 'y': 'у',
}

// compoundTLDs is the built-in fallback set of second-level labels that,
// when immediately preceding the final label, form a two-label TLD (e.g.
// "co.uk"). Used when no TLD dictionary is supplied.
var compoundTLDs = map[string]bool{
	"org": true, "com": true, "net": true, "gov": true, "edu": true,
	"co": true, "mil": true, "nom": true, "ac": true, "info": true,
	"biz": true, "ne": true,
}
