package humanid

// DefaultSyllables is the pool every deployed identifier was drawn from.
// Changing it changes every wallet's human ID.
var DefaultSyllables = []string{
	"ba", "be", "bi", "bo", "bu", "ka", "ke", "ki", "ko", "ku",
	"la", "le", "li", "lo", "lu", "ma", "me", "mi", "mo", "mu",
	"na", "ne", "ni", "no", "nu", "ra", "re", "ri", "ro", "ru",
	"sa", "se", "si", "so", "su", "ta", "te", "ti", "to", "tu",
	"va", "ve", "vi", "vo", "vu", "wa", "we", "wi", "wo", "wu",
}

// MarkovStart is the transition table key for the first syllable of a word.
const MarkovStart = "start"

// DefaultMarkov holds syllable transitions used by MarkovWords.
var DefaultMarkov = map[string][]string{
	MarkovStart: {"ba", "ka", "la", "ma", "na", "ra", "sa", "ta", "va", "wa"},
	"ba":        {"la", "na", "ma", "ka", "ra", "ti", "vo"},
	"ka":        {"ba", "la", "ma", "sa", "ri", "to"},
	"la":        {"ba", "ma", "na", "ra", "ki", "vu"},
	"ma":        {"la", "na", "ba", "sa", "ko", "wi"},
	"na":        {"la", "ma", "ba", "ra", "te", "su"},
	"ra":        {"la", "na", "sa", "mi", "tu"},
	"sa":        {"la", "ma", "ra", "bi", "vo"},
	"ta":        {"la", "ra", "sa", "me", "ku"},
	"va":        {"ba", "ma", "na", "ri", "to"},
	"wa":        {"la", "ra", "sa", "ni", "bu"},
}
