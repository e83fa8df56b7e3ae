package canonical

import (
	"strings"
	"unicode/utf8"
)

// Words ending in "que" that are not the enclitic -que.
var queExceptions = map[string]bool{
	"atque": true, "quoque": true, "neque": true, "itaque": true, "absque": true,
	"apsque": true, "abusque": true, "adaeque": true, "adusque": true, "denique": true,
	"deque": true, "susque": true, "oblique": true, "peraeque": true, "plenisque": true,
	"quandoque": true, "quisque": true, "quaeque": true, "cuiusque": true, "cuique": true,
	"quemque": true, "quamque": true, "quaque": true, "quique": true, "quorumque": true,
	"quarumque": true, "quibusque": true, "quosque": true, "quasque": true,
	"quotusquisque": true, "quousque": true, "ubique": true, "undique": true, "usque": true,
	"uterque": true, "utique": true, "utroque": true, "utribique": true, "torque": true,
	"coque": true, "concoque": true, "contorque": true, "detorque": true, "decoque": true,
	"excoque": true, "extorque": true, "obtorque": true, "optorque": true, "retorque": true,
	"recoque": true, "attorque": true, "incoque": true, "intorque": true, "praetorque": true,
}

// Noun suffixes, longest first.
var nounSuffixes = []string{
	"ibus", "ius", "ae", "am", "as", "em", "es", "ia", "is", "nt", "os", "ud",
	"um", "us", "a", "e", "i", "o", "u",
}

// Stem reduces a Latin epithet to its stem with the Schinke noun rules, so
// that gender variants (alba, albus, album) compare equal. Only suffixes are
// removed; the spelling of the stem, including j and v, is kept.
func Stem(word string) string {
	w := strings.ToLower(word)
	if strings.HasSuffix(w, "que") {
		if queExceptions[w] {
			return w
		}
		w = strings.TrimSuffix(w, "que")
	}
	for _, suf := range nounSuffixes {
		if strings.HasSuffix(w, suf) && utf8.RuneCountInString(w)-len(suf) >= 2 {
			return strings.TrimSuffix(w, suf)
		}
	}
	return w
}
