package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

type Step int

const (
	StepBusinessType Step = iota + 1
	StepTeamSize
	StepObjective
	StepTools
	StepContact
)

const TotalSteps = int(StepContact)

type Option struct {
	Value string
	Label string
}

var (
	BusinessTypeOptions = []Option{
		{"ecommerce", "E-commerce (vendas online, produtos físicos/digitais)"},
		{"agencia", "Agência/Marketing (serviços para outros negócios)"},
		{"consultoria", "Consultoria (conhecimento especializado)"},
		{"saas", "SaaS/Tech (software como serviço)"},
	}
	TeamSizeOptions = []Option{
		{"solo", "Apenas eu (1 pessoa)"},
		{"small", "Pequena equipe (2-10)"},
		{"medium", "Média empresa (11-50)"},
		{"large", "Grande empresa (50+)"},
	}
	ObjectiveOptions = []Option{
		{"tempo", "Ganhar tempo automatizando tarefas repetitivas"},
		{"leads", "Gerar mais leads e vendas"},
		{"custos", "Reduzir custos operacionais"},
	}
	AIKnowledgeOptions = []Option{
		{"iniciante", "Iniciante - Pouca ou nenhuma experiência"},
		{"intermediario", "Intermediário - Já usei algumas ferramentas de IA"},
		{"avancado", "Avançado - Experiente com automações e IA"},
	}
	SuggestedTools = []string{"Zapier", "ChatGPT", "Canva", "Notion", "HubSpot", "Make"}
)

var (
	ErrIncomplete   = errors.New("preencha as respostas obrigatórias desta etapa")
	ErrNotLastStep  = errors.New("o envio só é possível na última etapa")
	ErrSubmitFailed = errors.New("Ocorreu um erro ao processar suas informações. Tente novamente.")
)

// Answers holds everything collected so far. Fields may be edited directly
// between steps.
type Answers struct {
	BusinessType string
	TeamSize     string
	Objective    string
	CurrentTools []string
	OtherTools   string
	AIKnowledge  string
	Name         string
	Email        string
}

// Submitter sends a completed questionnaire for generation.
type Submitter interface {
	GenerateStack(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error)
}

// Form is the five step questionnaire state machine.
type Form struct {
	Answers Answers

	step      Step
	profileID string
}

func New() *Form {
	return &Form{step: StepBusinessType}
}

func (f *Form) Step() Step { return f.step }

// Progress is the completion percentage shown in the progress bar.
func (f *Form) Progress() float64 {
	return float64(f.step) / float64(TotalSteps) * 100
}

// ProfileID is set after a successful Submit.
func (f *Form) ProfileID() string { return f.profileID }

// Valid reports whether the current step's answers allow moving on.
func (f *Form) Valid() bool {
	return StepValid(f.step, f.Answers)
}

func StepValid(step Step, a Answers) bool {
	switch step {
	case StepBusinessType:
		return models.IsBusinessType(a.BusinessType)
	case StepTeamSize:
		return models.IsTeamSize(a.TeamSize)
	case StepObjective:
		return models.IsObjective(a.Objective)
	case StepTools:
		return true
	case StepContact:
		return a.AIKnowledge != "" && strings.TrimSpace(a.Name) != "" && strings.TrimSpace(a.Email) != ""
	}
	return false
}

// Next advances one step when the current step is valid. It returns whether
// the step changed.
func (f *Form) Next() bool {
	if !f.Valid() || f.step >= StepContact {
		return false
	}
	f.step++
	return true
}

func (f *Form) Previous() bool {
	if f.step <= StepBusinessType {
		return false
	}
	f.step--
	return true
}

// ToggleTool adds tool to the current tools, or removes it when present.
func (f *Form) ToggleTool(tool string) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return
	}
	if i := slices.Index(f.Answers.CurrentTools, tool); i >= 0 {
		f.Answers.CurrentTools = slices.Delete(f.Answers.CurrentTools, i, i+1)
		return
	}
	f.Answers.CurrentTools = append(f.Answers.CurrentTools, tool)
}

func (f *Form) Request() models.GenerateStackRequest {
	a := f.Answers
	return models.GenerateStackRequest{
		Name:         a.Name,
		Email:        a.Email,
		BusinessType: a.BusinessType,
		TeamSize:     a.TeamSize,
		Objective:    a.Objective,
		CurrentTools: append([]string{}, a.CurrentTools...),
		OtherTools:   a.OtherTools,
		AIKnowledge:  a.AIKnowledge,
	}
}

// Submit sends the answers from the last step. On failure the form keeps its
// step and answers so the user can retry.
func (f *Form) Submit(ctx context.Context, s Submitter) (string, error) {
	if f.step != StepContact {
		return "", ErrNotLastStep
	}
	if !f.Valid() {
		return "", ErrIncomplete
	}

	resp, err := s.GenerateStack(ctx, f.Request())
	if err != nil {
		return "", fmt.Errorf("%w (%v)", ErrSubmitFailed, err)
	}
	f.profileID = resp.ProfileID.String()
	return f.profileID, nil
}
