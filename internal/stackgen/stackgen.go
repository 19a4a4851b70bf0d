package stackgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

// SystemInstruction is sent with every generation request.
const SystemInstruction = "Você é um consultor especialista em automação de negócios com IA. Responda sempre em português brasileiro e forneça recomendações práticas e específicas."

// ErrInvalidResponse marks a completion that did not carry a usable stack.
var ErrInvalidResponse = errors.New("invalid AI response format")

// Model is a single text completion backend running in JSON mode.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Generator turns a business profile into a stack recommendation.
type Generator struct {
	model Model
	log   *logger.Logger
}

func New(model Model, log *logger.Logger) *Generator {
	return &Generator{model: model, log: log.With("service", "stackgen", "model", model.Name())}
}

func (g *Generator) Generate(ctx context.Context, profile *models.BusinessProfile) (*models.GeneratedStack, error) {
	raw, err := g.model.Complete(ctx, BuildPrompt(profile))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	stack, err := ParseStack(raw)
	if err != nil {
		g.log.Warn("rejected generation response", "profile_id", profile.ID, "error", err)
		return nil, err
	}

	g.log.Debug("stack generated", "profile_id", profile.ID, "recommendations", len(stack.Recommendations))
	return stack, nil
}

// BuildPrompt renders the pt-BR instruction for a profile. The output depends
// only on the profile fields.
func BuildPrompt(p *models.BusinessProfile) string {
	tools := "Nenhuma"
	if len(p.CurrentTools) > 0 {
		tools = strings.Join(p.CurrentTools, ", ")
	}
	other := p.OtherTools
	if other == "" {
		other = "Não especificado"
	}

	return fmt.Sprintf(`Você é um especialista em automação de negócios com IA. Analise o perfil abaixo e gere uma Stack de IA personalizada:

PERFIL DO NEGÓCIO:
- Tipo: %s
- Tamanho da equipe: %s
- Objetivo principal: %s
- Ferramentas atuais: %s
- Outras ferramentas: %s
- Conhecimento em IA: %s

INSTRUÇÕES:
1. Crie um título personalizado para a Stack
2. Escreva uma descrição executiva (2-3 frases)
3. Faça uma análise geral das necessidades do negócio
4. Recomende 4-6 ferramentas de IA específicas com:
   - Nome da ferramenta
   - Categoria (ex: "Automação de Marketing", "Atendimento ao Cliente")
   - Caso de uso específico para este negócio
   - Nível de automação: "Alto", "Médio" ou "Baixo"
   - Descrição detalhada do benefício
   - 2-3 recursos/funcionalidades principais
   - Link oficial (quando possível)
5. Dê 3-5 dicas de implementação práticas
6. Estime a economia de tempo/dinheiro mensal

Responda APENAS em JSON no seguinte formato:
{
  "title": "Nome da Stack",
  "description": "Descrição executiva",
  "overallAnalysis": "Análise detalhada das necessidades",
  "implementationTips": ["Dica 1", "Dica 2", "Dica 3"],
  "estimatedSavings": "Estimativa de economia",
  "recommendations": [
    {
      "toolName": "Nome da Ferramenta",
      "category": "Categoria",
      "useCase": "Caso de uso específico",
      "automationLevel": "Alto|Médio|Baixo",
      "description": "Descrição detalhada",
      "link": "https://exemplo.com",
      "features": ["Recurso 1", "Recurso 2", "Recurso 3"]
    }
  ]
}`, p.BusinessType, p.TeamSize, p.Objective, tools, other, p.AIKnowledge)
}

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ParseStack decodes a completion and applies the acceptance check: a
// non-empty string title, a non-empty description and a recommendations array
// must be present. Other fields are decoded leniently, so a scalar where a
// list is expected becomes a one-item list.
func ParseStack(raw string) (*models.GeneratedStack, error) {
	cleaned := stripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var title string
	if err := json.Unmarshal(fields["title"], &title); err != nil || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidResponse)
	}
	recs := strings.TrimSpace(string(fields["recommendations"]))
	if !strings.HasPrefix(recs, "[") {
		return nil, fmt.Errorf("%w: recommendations must be a list", ErrInvalidResponse)
	}

	var w wireStack
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(string(w.Description)) == "" {
		return nil, fmt.Errorf("%w: missing description", ErrInvalidResponse)
	}
	return w.toModel(), nil
}
