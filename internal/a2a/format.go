package a2a

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

// FormatStack renders a generated stack as markdown.
func FormatStack(resp *models.GenerateStackResponse) string {
	if resp == nil || resp.Stack == nil {
		return "No AI stack generated."
	}
	stack := resp.Stack

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stack.Title)
	if stack.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", stack.Description)
	}
	if stack.OverallAnalysis != "" {
		b.WriteString("**Análise:**\n")
		fmt.Fprintf(&b, "%s\n", stack.OverallAnalysis)
	}

	recs := append([]models.AiRecommendation(nil), resp.Recommendations...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	if len(recs) > 0 {
		b.WriteString("\n## Ferramentas Recomendadas\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "\n### %d. %s\n", r.Priority, r.ToolName)
			if r.Category != "" {
				fmt.Fprintf(&b, "- Categoria: %s\n", r.Category)
			}
			if r.AutomationLevel != "" {
				fmt.Fprintf(&b, "- Automação: %s\n", r.AutomationLevel)
			}
			if r.UseCase != "" {
				fmt.Fprintf(&b, "- Caso de uso: %s\n", r.UseCase)
			}
			if r.Description != "" {
				fmt.Fprintf(&b, "- %s\n", r.Description)
			}
			for _, f := range r.Features {
				fmt.Fprintf(&b, "  - %s\n", strings.TrimSpace(f))
			}
			if r.Link != nil && *r.Link != "" {
				fmt.Fprintf(&b, "- Link: %s\n", *r.Link)
			}
		}
	}

	if len(stack.ImplementationTips) > 0 {
		b.WriteString("\n## Dicas de Implementação\n")
		for i, tip := range stack.ImplementationTips {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(tip))
		}
	}

	if stack.EstimatedSavings != "" {
		fmt.Fprintf(&b, "\n**Economia estimada:** %s\n", stack.EstimatedSavings)
	}
	return b.String()
}
