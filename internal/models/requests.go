package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GenerateStackRequest is the questionnaire payload accepted by POST /api/generate-stack.
type GenerateStackRequest struct {
	Name         string   `json:"name" yaml:"name" validate:"required"`
	Email        string   `json:"email" yaml:"email" validate:"required"`
	BusinessType string   `json:"businessType" yaml:"businessType" validate:"required,oneof=ecommerce agencia consultoria saas"`
	TeamSize     string   `json:"teamSize" yaml:"teamSize" validate:"required,oneof=solo small medium large"`
	Objective    string   `json:"objective" yaml:"objective" validate:"required,oneof=tempo leads custos"`
	CurrentTools []string `json:"currentTools" yaml:"currentTools"`
	OtherTools   string   `json:"otherTools" yaml:"otherTools"`
	AIKnowledge  string   `json:"aiKnowledge" yaml:"aiKnowledge" validate:"required,oneof=iniciante intermediario avancado"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Normalize trims every text field and drops blank tool entries.
func (r *GenerateStackRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.TeamSize = strings.TrimSpace(r.TeamSize)
	r.Objective = strings.TrimSpace(r.Objective)
	r.OtherTools = strings.TrimSpace(r.OtherTools)
	r.AIKnowledge = strings.TrimSpace(r.AIKnowledge)

	tools := make([]string, 0, len(r.CurrentTools))
	for _, t := range r.CurrentTools {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	r.CurrentTools = tools
}

// Validate checks presence of the contact fields and that the four enumerated
// answers hold known values. Email format is not checked.
func (r GenerateStackRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a recognized option", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// GenerateStackResponse is returned by a successful generation.
type GenerateStackResponse struct {
	StackID         uuid.UUID          `json:"stackId" yaml:"stackId"`
	ProfileID       uuid.UUID          `json:"profileId" yaml:"profileId"`
	UserID          uuid.UUID          `json:"userId" yaml:"userId"`
	Stack           *AiStack           `json:"stack" yaml:"stack"`
	Recommendations []AiRecommendation `json:"recommendations" yaml:"recommendations"`
}

// StackResult is the persisted aggregate read back by profile id.
type StackResult struct {
	Stack           *AiStack           `json:"stack" yaml:"stack"`
	Recommendations []AiRecommendation `json:"recommendations" yaml:"recommendations"`
}

// GeneratedStack is the JSON object the generation service must return.
type GeneratedStack struct {
	Title              string                    `json:"title"`
	Description        string                    `json:"description"`
	OverallAnalysis    string                    `json:"overallAnalysis"`
	ImplementationTips []string                  `json:"implementationTips"`
	EstimatedSavings   string                    `json:"estimatedSavings"`
	Recommendations    []GeneratedRecommendation `json:"recommendations"`
}

type GeneratedRecommendation struct {
	ToolName        string   `json:"toolName"`
	Category        string   `json:"category"`
	UseCase         string   `json:"useCase"`
	AutomationLevel string   `json:"automationLevel"`
	Description     string   `json:"description"`
	Link            string   `json:"link,omitempty"`
	Features        []string `json:"features"`
}

// PaymentIntentRequest is the body of POST /api/create-payment-intent.
type PaymentIntentRequest struct {
	Amount *int64 `json:"amount"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
