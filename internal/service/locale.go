package service

import "regexp"

// Locale is a presentation variant: fixed narration strings and the label phrases
// the assistant tends to put in front of a bare JSON array.
type Locale struct {
	Code         string
	Greeting     string
	Searching    string
	Failure      string
	LabelPattern *regexp.Regexp
}

// Both variants strip Italian and English labels; the assistant mixes them freely.
// Each part starts on a word boundary so a trailing "i" of a narration word is never taken.
var dataLabelPattern = regexp.MustCompile(`(?i)(?:\b(?:Ecco|Here (?:is|are))\s+)?(?:\b(?:il|i|the)\s+)?\b(?:JSON|dati|data)[:\s-]*$`)

var (
	LocaleIT = Locale{
		Code:         "it",
		Greeting:     "Ciao! Dimmi cosa stai cercando oggi.",
		Searching:    "Sto cercando per te...",
		Failure:      "C'è stato un piccolo problema tecnico, ma puoi riprovare.",
		LabelPattern: dataLabelPattern,
	}
	LocaleEN = Locale{
		Code:         "en",
		Greeting:     "Hi! Tell me what you are looking for today.",
		Searching:    "Searching for you...",
		Failure:      "There was a small technical problem, but you can try again.",
		LabelPattern: dataLabelPattern,
	}
)

// LocaleFor returns the locale for code, defaulting to Italian
func LocaleFor(code string) Locale {
	if code == LocaleEN.Code {
		return LocaleEN
	}
	return LocaleIT
}
