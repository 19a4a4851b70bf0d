package questionnaire

import "strings"

type Command int

const (
	CommandNone Command = iota
	CommandNext
	CommandPrevious
)

// ParseVoiceCommand maps a spoken or typed phrase to a navigation command.
func ParseVoiceCommand(phrase string) Command {
	p := strings.ToLower(phrase)
	switch {
	case strings.Contains(p, "próximo"), strings.Contains(p, "próxima"), strings.Contains(p, "next"):
		return CommandNext
	case strings.Contains(p, "anterior"), strings.Contains(p, "previous"), strings.Contains(p, "voltar"):
		return CommandPrevious
	}
	return CommandNone
}

var businessTypeKeywords = []struct {
	value    string
	keywords []string
}{
	{"ecommerce", []string{"ecommerce", "e-commerce", "loja online"}},
	{"agencia", []string{"agência", "agencia", "marketing"}},
	{"consultoria", []string{"consultoria"}},
	{"saas", []string{"saas", "software"}},
}

// MatchBusinessType finds the business type described by phrase.
func MatchBusinessType(phrase string) (string, bool) {
	p := strings.ToLower(phrase)
	for _, bt := range businessTypeKeywords {
		for _, k := range bt.keywords {
			if strings.Contains(p, k) {
				return bt.value, true
			}
		}
	}
	return "", false
}

// HandleVoiceCommand applies a navigation phrase. Unrecognized phrases do
// nothing.
func (f *Form) HandleVoiceCommand(phrase string) bool {
	switch ParseVoiceCommand(phrase) {
	case CommandNext:
		return f.Next()
	case CommandPrevious:
		return f.Previous()
	}
	return false
}

// HandleBusinessTypeAnswer fills the business type from a spoken answer.
func (f *Form) HandleBusinessTypeAnswer(phrase string) bool {
	bt, ok := MatchBusinessType(phrase)
	if ok {
		f.Answers.BusinessType = bt
	}
	return ok
}
