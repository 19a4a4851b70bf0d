package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Automation levels recognized for color coding.
const (
	AutomationHigh   = "Alto"
	AutomationMedium = "Médio"
	AutomationLow    = "Baixo"
)

// NormalizeAutomationLevel folds case and the unaccented "medio" spelling onto
// the canonical levels. Unknown values are returned trimmed but unchanged.
func NormalizeAutomationLevel(level string) string {
	l := strings.TrimSpace(level)
	switch strings.ToLower(l) {
	case "alto", "high":
		return AutomationHigh
	case "médio", "medio", "medium":
		return AutomationMedium
	case "baixo", "low":
		return AutomationLow
	}
	return l
}

type AiStack struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id" yaml:"id"`
	ProfileID          uuid.UUID                   `gorm:"type:uuid;not null;index;column:profile_id" json:"profileId" yaml:"profileId"`
	Profile            *BusinessProfile            `gorm:"foreignKey:ProfileID;constraint:OnDelete:RESTRICT" json:"-" yaml:"-"`
	Title              string                      `gorm:"not null;column:title" json:"title" yaml:"title"`
	Description        string                      `gorm:"not null;column:description" json:"description" yaml:"description"`
	OverallAnalysis    string                      `gorm:"not null;column:overall_analysis" json:"overallAnalysis" yaml:"overallAnalysis"`
	ImplementationTips datatypes.JSONSlice[string] `gorm:"column:implementation_tips" json:"implementationTips" yaml:"implementationTips"`
	EstimatedSavings   string                      `gorm:"column:estimated_savings" json:"estimatedSavings" yaml:"estimatedSavings"`
	CreatedAt          time.Time                   `gorm:"not null" json:"createdAt" yaml:"createdAt"`
}

func (AiStack) TableName() string { return "ai_stacks" }

func (s *AiStack) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ImplementationTips == nil {
		s.ImplementationTips = datatypes.JSONSlice[string]{}
	}
	return nil
}

type AiRecommendation struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id" yaml:"id"`
	ProfileID       uuid.UUID                   `gorm:"type:uuid;not null;index;column:profile_id" json:"profileId" yaml:"profileId"`
	Profile         *BusinessProfile            `gorm:"foreignKey:ProfileID;constraint:OnDelete:RESTRICT" json:"-" yaml:"-"`
	ToolName        string                      `gorm:"not null;column:tool_name" json:"toolName" yaml:"toolName"`
	Category        string                      `gorm:"not null;column:category" json:"category" yaml:"category"`
	UseCase         string                      `gorm:"not null;column:use_case" json:"useCase" yaml:"useCase"`
	AutomationLevel string                      `gorm:"not null;column:automation_level" json:"automationLevel" yaml:"automationLevel"`
	Description     string                      `gorm:"not null;column:description" json:"description" yaml:"description"`
	Link            *string                     `gorm:"column:link" json:"link,omitempty" yaml:"link,omitempty"`
	Features        datatypes.JSONSlice[string] `gorm:"column:features" json:"features" yaml:"features"`
	Priority        int                         `gorm:"not null;default:1;column:priority" json:"priority" yaml:"priority"`
	CreatedAt       time.Time                   `gorm:"not null" json:"createdAt" yaml:"createdAt"`
}

func (AiRecommendation) TableName() string { return "ai_recommendations" }

func (r *AiRecommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Features == nil {
		r.Features = datatypes.JSONSlice[string]{}
	}
	return nil
}
