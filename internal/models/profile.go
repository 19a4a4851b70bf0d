package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer enumerations offered by the questionnaire.
var (
	BusinessTypes = []string{"ecommerce", "agencia", "consultoria", "saas"}
	TeamSizes     = []string{"solo", "small", "medium", "large"}
	Objectives    = []string{"tempo", "leads", "custos"}
	AIKnowledge   = []string{"iniciante", "intermediario", "avancado"}
)

func IsBusinessType(v string) bool { return slices.Contains(BusinessTypes, v) }
func IsTeamSize(v string) bool     { return slices.Contains(TeamSizes, v) }
func IsObjective(v string) bool    { return slices.Contains(Objectives, v) }
func IsAIKnowledge(v string) bool  { return slices.Contains(AIKnowledge, v) }

// BusinessProfile is one questionnaire submission. Rows are write-once.
type BusinessProfile struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id" yaml:"id"`
	UserID       uuid.UUID                   `gorm:"type:uuid;not null;index;column:user_id" json:"userId" yaml:"userId"`
	User         *User                       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-" yaml:"-"`
	BusinessType string                      `gorm:"not null;column:business_type" json:"businessType" yaml:"businessType"`
	TeamSize     string                      `gorm:"not null;column:team_size" json:"teamSize" yaml:"teamSize"`
	Objective    string                      `gorm:"not null;column:objective" json:"objective" yaml:"objective"`
	CurrentTools datatypes.JSONSlice[string] `gorm:"column:current_tools" json:"currentTools" yaml:"currentTools"`
	OtherTools   string                      `gorm:"column:other_tools" json:"otherTools" yaml:"otherTools"`
	AIKnowledge  string                      `gorm:"not null;column:ai_knowledge" json:"aiKnowledge" yaml:"aiKnowledge"`
	CreatedAt    time.Time                   `gorm:"not null" json:"createdAt" yaml:"createdAt"`
}

func (BusinessProfile) TableName() string { return "business_profiles" }

func (p *BusinessProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CurrentTools == nil {
		p.CurrentTools = datatypes.JSONSlice[string]{}
	}
	return nil
}
