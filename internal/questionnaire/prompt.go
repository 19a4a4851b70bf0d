package questionnaire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ErrAborted is returned when input ends or the user gives up after a failed
// submission.
var ErrAborted = errors.New("questionnaire aborted")

// Prompter drives a Form over line-oriented input.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Run asks every step until the form is submitted and returns the profile id.
func (p *Prompter) Run(ctx context.Context, f *Form, s Submitter) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.header(f)

		var err error
		switch f.Step() {
		case StepBusinessType:
			err = p.choose(f, "🏢 Qual é o tipo do seu negócio?", BusinessTypeOptions, &f.Answers.BusinessType, MatchBusinessType)
		case StepTeamSize:
			err = p.choose(f, "👥 Qual o tamanho da sua equipe?", TeamSizeOptions, &f.Answers.TeamSize, nil)
		case StepObjective:
			err = p.choose(f, "🎯 Qual é o seu principal objetivo?", ObjectiveOptions, &f.Answers.Objective, nil)
		case StepTools:
			err = p.tools(f)
		case StepContact:
			var done bool
			done, err = p.contact(ctx, f, s)
			if err == nil && done {
				return f.ProfileID(), nil
			}
		}
		if err != nil {
			return "", err
		}
	}
}

func (p *Prompter) header(f *Form) {
	fmt.Fprintln(p.out)
	color.New(color.FgCyan, color.Bold).Fprintf(p.out, "Etapa %d de %d (%.0f%%)\n", f.Step(), TotalSteps, f.Progress())
}

func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// navigate handles "próximo"/"anterior" style input. It reports whether the
// line was a command.
func (p *Prompter) navigate(f *Form, line string) bool {
	cmd := ParseVoiceCommand(line)
	if cmd == CommandNone {
		return false
	}
	if !f.HandleVoiceCommand(line) && cmd == CommandNext {
		p.warn(ErrIncomplete.Error())
	}
	return true
}

func (p *Prompter) warn(msg string) {
	color.New(color.FgYellow).Fprintf(p.out, "⚠ %s\n", msg)
}

func (p *Prompter) choose(f *Form, question string, options []Option, dst *string, match func(string) (string, bool)) error {
	fmt.Fprintln(p.out, question)
	for i, o := range options {
		marker := " "
		if *dst == o.Value {
			marker = "*"
		}
		fmt.Fprintf(p.out, " %s %d) %s\n", marker, i+1, o.Label)
	}

	line, err := p.readLine("> ")
	if err != nil {
		return err
	}
	if p.navigate(f, line) {
		return nil
	}

	if line != "" {
		value, ok := pickOption(options, line)
		if !ok && match != nil {
			value, ok = match(line)
		}
		if !ok {
			p.warn("Opção inválida: " + line)
			return nil
		}
		*dst = value
	}
	if !f.Next() {
		p.warn(ErrIncomplete.Error())
	}
	return nil
}

func pickOption(options []Option, line string) (string, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1].Value, true
		}
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(o.Value, line) {
			return o.Value, true
		}
	}
	return "", false
}

func (p *Prompter) tools(f *Form) error {
	fmt.Fprintln(p.out, "🛠  Quais ferramentas você já usa? (números ou nomes separados por vírgula)")
	for i, t := range SuggestedTools {
		marker := " "
		for _, cur := range f.Answers.CurrentTools {
			if cur == t {
				marker = "*"
			}
		}
		fmt.Fprintf(p.out, " %s %d) %s\n", marker, i+1, t)
	}

	line, err := p.readLine("> ")
	if err != nil {
		return err
	}
	if p.navigate(f, line) {
		return nil
	}
	for _, item := range strings.Split(line, ",") {
		item = strings.TrimSpace(item)
		if n, err := strconv.Atoi(item); err == nil && n >= 1 && n <= len(SuggestedTools) {
			item = SuggestedTools[n-1]
		}
		f.ToggleTool(item)
	}

	other, err := p.readLine("Outras ferramentas (opcional): ")
	if err != nil {
		return err
	}
	if other != "" {
		f.Answers.OtherTools = other
	}
	f.Next()
	return nil
}

// contact collects the last step and submits. done is true once the form has
// been submitted.
func (p *Prompter) contact(ctx context.Context, f *Form, s Submitter) (done bool, err error) {
	fmt.Fprintln(p.out, "🤖 Qual o seu nível de conhecimento em IA?")
	for i, o := range AIKnowledgeOptions {
		fmt.Fprintf(p.out, "   %d) %s\n", i+1, o.Label)
	}
	line, err := p.readLine("> ")
	if err != nil {
		return false, err
	}
	if ParseVoiceCommand(line) == CommandPrevious {
		f.Previous()
		return false, nil
	}
	if line != "" {
		if v, ok := pickOption(AIKnowledgeOptions, line); ok {
			f.Answers.AIKnowledge = v
		} else {
			p.warn("Opção inválida: " + line)
		}
	}

	if f.Answers.Name, err = p.askDefault("Seu nome", f.Answers.Name); err != nil {
		return false, err
	}
	if f.Answers.Email, err = p.askDefault("Seu email", f.Answers.Email); err != nil {
		return false, err
	}

	if !f.Valid() {
		p.warn(ErrIncomplete.Error())
		return false, nil
	}

	for {
		if _, err := f.Submit(ctx, s); err != nil {
			color.New(color.FgRed).Fprintf(p.out, "✗ Erro ao gerar Stack: %v\n", err)
			again, rerr := p.Confirm("Tentar novamente?")
			if rerr != nil {
				return false, rerr
			}
			if !again {
				return false, fmt.Errorf("%w: %w", ErrAborted, err)
			}
			continue
		}
		return true, nil
	}
}

// Confirm asks a yes/no question. Only answers starting with "s" or "y" count
// as yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	line, err := p.readLine(question + " (s/n) ")
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(line)
	return strings.HasPrefix(answer, "s") || strings.HasPrefix(answer, "y"), nil
}

func (p *Prompter) askDefault(label, current string) (string, error) {
	prompt := label + ": "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, current)
	}
	line, err := p.readLine(prompt)
	if err != nil {
		return "", err
	}
	if line == "" {
		return current, nil
	}
	return line, nil
}
