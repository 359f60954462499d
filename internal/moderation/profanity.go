package moderation

import (
	"regexp"
	"strings"
)

// profanityLexicon is the static blocklist checked on every guild message.
// Single words are matched against whole tokens; entries containing a space
// are matched as substrings of the full text.
var profanityLexicon = buildLexicon(
	"fuck", "fucker", "fucking", "fucked", "fucks", "fuckoff", "fuckface", "fuckhead",
	"shit", "shitty", "shithead", "shitface", "bullshit", "horseshit", "chickenshit", "batshit", "apeshit", "dipshit",
	"ass", "asshole", "dumbass", "jackass", "asshat", "asswipe", "fatass", "badass",
	"bitch", "bitchy", "bitches", "sonofabitch",
	"bastard", "bastards",
	"damn", "dammit", "goddamn", "goddammit",
	"hell", "hellhole",
	"crap", "crappy",
	"piss", "pissed", "pissoff",
	"dick", "dickhead", "dickface", "dickwad",
	"cock", "cocksucker", "cockhead",
	"cunt", "cunts",
	"twat", "twats",
	"pussy", "pussies",
	"douchebag", "douche", "douchenozzle",
	"motherfucker", "motherfucking", "mofo",
	"nigga", "nigger", "niggas", "niggers", "negro", "nig",
	"faggot", "fag", "fags", "faggots", "faggy",
	"dyke", "dykes",
	"tranny", "trannie",
	"whore", "whores", "whorish",
	"slut", "sluts", "slutty",
	"skank", "skanky",
	"hoe", "hoes", "hoebag",
	"retard", "retarded", "retards", "tard",
	"spic", "spics", "spick",
	"chink", "chinks",
	"gook", "gooks",
	"wetback", "wetbacks",
	"kike", "kikes",
	"beaner", "beaners",
	"cracker", "crackers",
	"honky", "honkey",
	"pedo", "pedophile", "pedophiles", "paedo",
	"rapist", "rape", "raping",
	"molester", "molest",
	"incest",
	"gay sex", "gaysex",
	"porn", "porno", "pornography",
	"nude", "nudes", "nudity",
	"naked",
	"sex", "sexy", "sexting",
	"masturbate", "masturbation", "jerkoff", "wank", "wanker", "wanking",
	"blowjob", "handjob", "rimjob",
	"dildo", "vibrator",
	"cum", "cumshot", "cumming",
	"orgasm", "orgasms",
	"horny", "horney",
	"boobs", "boobies", "tits", "titties", "titty",
	"penis", "vagina", "genitals",
	"anal", "anus",
	"erection", "boner",
	"kys", "killurself", "killyourself",
	"suicide", "suicidal",
	"nazi", "nazis", "hitler",
	"terrorist", "terrorism",
	"jihad", "jihadist",
)

// slurPatterns catch leetspeak and character-substitution variants. They run
// against the text with all non-alphanumeric characters and spaces stripped.
var slurPatterns = []*regexp.Regexp{
	regexp.MustCompile(`n+[i1!]+[g9]+[a@4]+[s$]*`),
	regexp.MustCompile(`n+[i1!]+[g9]+[e3]+[r]+[s$]*`),
	regexp.MustCompile(`f+[a@4]+[g9]+[s$]*`),
	regexp.MustCompile(`f+[a@4]+[g9]+[o0]+[t]+[s$]*`),
	regexp.MustCompile(`r+[e3]+[t]+[a@4]+[r]+[d]+[s$]*`),
	regexp.MustCompile(`c+[u]+[n]+[t]+[s$]*`),
	regexp.MustCompile(`b+[i1!]+[t]+[c]+[h]+[e3]*[s$]*`),
	regexp.MustCompile(`w+[h]+[o0]+[r]+[e3]+[s$]*`),
	regexp.MustCompile(`s+[l1]+[u]+[t]+[s$]*`),
	regexp.MustCompile(`p+[e3]+[d]+[o0]+[s$]*`),
	regexp.MustCompile(`d+[i1!]+[c]+[k]+[s$]*`),
	regexp.MustCompile(`c+[o0]+[c]+[k]+[s$]*`),
	regexp.MustCompile(`p+[u]+[s$]+[y]+`),
	regexp.MustCompile(`a+[s$]+[s$]+[h]+[o0]+[l1]+[e3]+[s$]*`),
}

var (
	wordPattern     = regexp.MustCompile(`\b\w+\b`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
)

type lexicon struct {
	words   map[string]struct{}
	phrases []string
}

func buildLexicon(terms ...string) *lexicon {
	l := &lexicon{words: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		if strings.Contains(term, " ") {
			l.phrases = append(l.phrases, term)
			continue
		}
		l.words[term] = struct{}{}
	}
	return l
}

// DetectProfanity checks text against the lexicon and the fuzzy slur
// patterns. Lexicon words win over phrases, phrases over fuzzy matches; the
// matched term is returned for the moderation notice.
func DetectProfanity(text string) (bool, string) {
	lowered := strings.ToLower(text)

	for _, word := range wordPattern.FindAllString(lowered, -1) {
		if _, ok := profanityLexicon.words[word]; ok {
			return true, word
		}
	}

	for _, phrase := range profanityLexicon.phrases {
		if strings.Contains(lowered, phrase) {
			return true, phrase
		}
	}

	// Strip punctuation and spaces so "f.u c.k" style evasion collapses
	// into something the patterns can see.
	normalized := nonAlphanumeric.ReplaceAllString(lowered, "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	for _, pattern := range slurPatterns {
		if match := pattern.FindString(normalized); match != "" {
			return true, match
		}
	}

	return false, ""
}
