package stackgen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

type wireStack struct {
	Title              looseString          `json:"title"`
	Description        looseString          `json:"description"`
	OverallAnalysis    looseString          `json:"overallAnalysis"`
	ImplementationTips looseList            `json:"implementationTips"`
	EstimatedSavings   looseString          `json:"estimatedSavings"`
	Recommendations    []wireRecommendation `json:"recommendations"`
}

type wireRecommendation struct {
	ToolName        looseString `json:"toolName"`
	Category        looseString `json:"category"`
	UseCase         looseString `json:"useCase"`
	AutomationLevel looseString `json:"automationLevel"`
	Description     looseString `json:"description"`
	Link            looseString `json:"link"`
	Features        looseList   `json:"features"`
}

func (w wireStack) toModel() *models.GeneratedStack {
	out := &models.GeneratedStack{
		Title:              string(w.Title),
		Description:        string(w.Description),
		OverallAnalysis:    string(w.OverallAnalysis),
		ImplementationTips: []string(w.ImplementationTips),
		EstimatedSavings:   string(w.EstimatedSavings),
		Recommendations:    make([]models.GeneratedRecommendation, 0, len(w.Recommendations)),
	}
	for _, r := range w.Recommendations {
		out.Recommendations = append(out.Recommendations, models.GeneratedRecommendation{
			ToolName:        string(r.ToolName),
			Category:        string(r.Category),
			UseCase:         string(r.UseCase),
			AutomationLevel: models.NormalizeAutomationLevel(string(r.AutomationLevel)),
			Description:     string(r.Description),
			Link:            string(r.Link),
			Features:        []string(r.Features),
		})
	}
	return out
}

// looseString accepts a JSON string, null, a scalar (kept as its literal
// text) or an array (items joined with a space).
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case data[0] == '[':
		var items looseList
		if err := items.UnmarshalJSON(data); err != nil {
			return err
		}
		*s = looseString(strings.Join(items, " "))
	default:
		*s = looseString(data)
	}
	return nil
}

// looseList accepts a JSON array or a single value, which becomes a one-item
// list. Blank items are dropped.
type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		var one looseString
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = nil
		if v := strings.TrimSpace(string(one)); v != "" {
			*l = looseList{v}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(looseList, 0, len(raw))
	for _, item := range raw {
		var v looseString
		if err := v.UnmarshalJSON(item); err != nil {
			return err
		}
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}
