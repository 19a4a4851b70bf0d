package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

// StackEmail is the data rendered into the results email.
type StackEmail struct {
	UserName        string
	Stack           *models.AiStack
	Recommendations []models.AiRecommendation
	CheckoutURL     string
}

// Subject is the results email subject line.
func Subject(stack *models.AiStack) string {
	return fmt.Sprintf("🚀 %s - Sua Stack de IA Personalizada", stack.Title)
}

// BadgeColor maps an automation level onto its badge color.
func BadgeColor(level string) string {
	switch level {
	case models.AutomationHigh:
		return "#10B981"
	case models.AutomationMedium:
		return "#F59E0B"
	default:
		return "#6B7280"
	}
}

var stackEmailTmpl = template.Must(template.New("stack").Funcs(template.FuncMap{
	"badge": BadgeColor,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Sua Stack de IA Personalizada - Bizz AI</title>
  <style>
    body { font-family: 'Inter', Arial, sans-serif; line-height: 1.6; color: #3D2C00; }
    .container { max-width: 600px; margin: 0 auto; background-color: #FEFDFB; }
    .header { background: #F8F6F1; padding: 32px; text-align: center; }
    .content { padding: 24px; }
    .footer { background-color: #F0ECE3; padding: 24px; text-align: center; color: #7A5900; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1 style="color: #3D2C00; margin-bottom: 8px; font-size: 28px;">🧠 Bizz AI</h1>
      <h2 style="color: #B8860B; margin: 0; font-size: 20px;">{{.Stack.Title}}</h2>
    </div>
    <div class="content">
      <p style="color: #3D2C00; font-size: 16px;">Olá {{.UserName}}!</p>
      <p style="color: #5C4300; font-size: 16px;">{{.Stack.Description}}</p>

      <h3 style="color: #3D2C00; border-bottom: 2px solid #D4C4A8; padding-bottom: 8px;">📊 Análise do Seu Negócio</h3>
      <p style="color: #5C4300;">{{.Stack.OverallAnalysis}}</p>

      <h3 style="color: #3D2C00; border-bottom: 2px solid #D4C4A8; padding-bottom: 8px;">🚀 Suas Ferramentas Recomendadas</h3>
      {{range .Recommendations}}
      <div style="border: 1px solid #E8E3D3; border-radius: 12px; padding: 20px; margin-bottom: 16px;">
        <h3 style="color: #3D2C00; margin: 0; font-size: 18px;">{{.ToolName}}
          <span style="background-color: {{badge .AutomationLevel}}; color: white; padding: 4px 12px; border-radius: 20px; font-size: 12px;">{{.AutomationLevel}}</span>
        </h3>
        <p style="color: #B8860B; margin: 0 0 8px 0; font-weight: 500;">{{.Category}}</p>
        <p style="color: #5C4300; margin: 0 0 12px 0;">{{.Description}}</p>
        {{range .Features}}
        <div style="margin-bottom: 4px;"><span style="color: #10B981; margin-right: 8px;">✓</span><span style="color: #7A5900; font-size: 14px;">{{.}}</span></div>
        {{end}}
        {{with .Link}}
        <a href="{{.}}" style="background-color: #B8860B; color: white; padding: 8px 16px; text-decoration: none; border-radius: 8px;">Ver Ferramenta</a>
        {{end}}
      </div>
      {{end}}

      {{with .Stack.ImplementationTips}}
      <h3 style="color: #3D2C00; border-bottom: 2px solid #D4C4A8; padding-bottom: 8px;">💡 Dicas de Implementação</h3>
      <ul style="color: #5C4300; padding-left: 20px;">
        {{range .}}<li style="margin-bottom: 8px;">{{.}}</li>{{end}}
      </ul>
      {{end}}

      {{with .Stack.EstimatedSavings}}
      <div style="background-color: #F8F6F1; border-left: 4px solid #B8860B; padding: 16px; margin: 24px 0;">
        <h4 style="color: #3D2C00; margin: 0 0 8px 0;">💰 Economia Estimada</h4>
        <p style="color: #5C4300; margin: 0;">{{.}}</p>
      </div>
      {{end}}

      <div style="text-align: center; margin-top: 32px;">
        <p style="color: #7A5900; margin-bottom: 16px;">Quer implementar sua Stack com nossa ajuda?</p>
        <a href="{{.CheckoutURL}}" style="background-color: #B8860B; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; font-weight: 600;">Agendar Estratégia - R$ 197</a>
      </div>
    </div>
    <div class="footer">
      <p>Esta Stack foi gerada especialmente para você pela Bizz AI</p>
    </div>
  </div>
</body>
</html>
`))

// Render produces the HTML body of the results email.
func Render(data StackEmail) (string, error) {
	var buf bytes.Buffer
	if err := stackEmailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render stack email: %w", err)
	}
	return buf.String(), nil
}
