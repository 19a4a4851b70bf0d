package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"

	columnWidth = 38
	columnGap   = "   "
)

// Render writes a loaded view in the requested format.
func Render(w io.Writer, v View, format string) error {
	switch v.State {
	case StateMissingID:
		return fmt.Errorf("ID do perfil não encontrado")
	case StateNotFound:
		return fmt.Errorf("stack não encontrada para o perfil %s", v.ProfileID)
	case StateError:
		return fmt.Errorf("erro ao carregar resultados: %w", v.Err)
	case StateLoading:
		return nil
	}

	switch format {
	case FormatJSON:
		return renderJSON(w, v.Result)
	case FormatYAML:
		return renderYAML(w, v.Result)
	case FormatHuman, "":
		renderHuman(w, v.Result)
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderJSON(w io.Writer, r *models.StackResult) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func renderYAML(w io.Writer, r *models.StackResult) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(out))
	return err
}

// AutomationColor codes Alto green, Médio yellow and everything else gray.
func AutomationColor(level string) *color.Color {
	switch models.NormalizeAutomationLevel(level) {
	case models.AutomationHigh:
		return color.New(color.FgGreen, color.Bold)
	case models.AutomationMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgHiBlack)
	}
}

func renderHuman(w io.Writer, r *models.StackResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)
	green := color.New(color.FgGreen)
	stack := r.Stack

	fmt.Fprintln(w)
	cyan.Fprintf(w, "🚀 %s\n", stack.Title)
	fmt.Fprintln(w, wrapText(stack.Description, 2*columnWidth+len(columnGap), "   "))
	fmt.Fprintln(w)

	if stack.OverallAnalysis != "" {
		white.Fprintln(w, "📊 ANÁLISE:")
		fmt.Fprintln(w, wrapText(stack.OverallAnalysis, 2*columnWidth+len(columnGap), "   "))
		fmt.Fprintln(w)
	}

	if len(r.Recommendations) > 0 {
		white.Fprintln(w, "🧰 FERRAMENTAS RECOMENDADAS:")
		recs := SortByPriority(r.Recommendations)
		for i := 0; i < len(recs); i += 2 {
			left := card(recs[i])
			var right []cardLine
			if i+1 < len(recs) {
				right = card(recs[i+1])
			}
			writeColumns(w, left, right)
			fmt.Fprintln(w)
		}
	}

	if len(stack.ImplementationTips) > 0 {
		white.Fprintln(w, "💡 DICAS DE IMPLEMENTAÇÃO:")
		for i, tip := range stack.ImplementationTips {
			fmt.Fprintf(w, "   %d. %s\n", i+1, strings.TrimSpace(tip))
		}
		fmt.Fprintln(w)
	}

	if stack.EstimatedSavings != "" {
		green.Fprintf(w, "💰 Economia estimada: %s\n\n", stack.EstimatedSavings)
	}

	fmt.Fprintln(w, strings.Repeat("─", 2*columnWidth+len(columnGap)))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Use -o json ou -o yaml para saída estruturada"))
}

type cardLine struct {
	text  string
	color *color.Color
}

func card(r models.AiRecommendation) []cardLine {
	bold := color.New(color.Bold)
	lines := []cardLine{
		{text: fmt.Sprintf("#%d %s", r.Priority, r.ToolName), color: bold},
	}
	if r.Category != "" {
		lines = append(lines, cardLine{text: "Categoria: " + r.Category})
	}
	if r.AutomationLevel != "" {
		lines = append(lines, cardLine{text: "Automação: " + r.AutomationLevel, color: AutomationColor(r.AutomationLevel)})
	}
	for _, l := range strings.Split(wrapText(r.UseCase, columnWidth, ""), "\n") {
		if l != "" {
			lines = append(lines, cardLine{text: l})
		}
	}
	for _, l := range strings.Split(wrapText(r.Description, columnWidth, ""), "\n") {
		if l != "" {
			lines = append(lines, cardLine{text: l})
		}
	}
	for _, f := range r.Features {
		lines = append(lines, cardLine{text: truncate("• "+strings.TrimSpace(f), columnWidth)})
	}
	if r.Link != nil && *r.Link != "" {
		lines = append(lines, cardLine{text: truncate("🔗 "+*r.Link, columnWidth)})
	}
	return lines
}

func writeColumns(w io.Writer, left, right []cardLine) {
	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString("   ")
		b.WriteString(cell(left, i, true))
		if i < len(right) {
			b.WriteString(columnGap)
			b.WriteString(cell(right, i, false))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func cell(lines []cardLine, i int, pad bool) string {
	if i >= len(lines) {
		if pad {
			return strings.Repeat(" ", columnWidth)
		}
		return ""
	}
	l := lines[i]
	text := l.text
	if pad {
		text += strings.Repeat(" ", max(0, columnWidth-utf8.RuneCountInString(text)))
	}
	if l.color != nil {
		return l.color.Sprint(text)
	}
	return text
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		current := indent
		for _, word := range words {
			switch {
			case current == indent:
				current += word
			case utf8.RuneCountInString(current)+utf8.RuneCountInString(word)+1 > width:
				result.WriteString(current + "\n")
				current = indent + word
			default:
				current += " " + word
			}
		}
		if current != indent {
			result.WriteString(current + "\n")
		}
	}
	return strings.TrimSuffix(result.String(), "\n")
}
