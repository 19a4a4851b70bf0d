package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() GenerateStackRequest {
	return GenerateStackRequest{
		Name:         "Ana",
		Email:        "ana@x.com",
		BusinessType: "saas",
		TeamSize:     "small",
		Objective:    "leads",
		CurrentTools: []string{"Notion"},
		AIKnowledge:  "intermediario",
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	assert.NoError(t, validRequest().Validate())
}

func TestValidateReportsEachProblem(t *testing.T) {
	req := validRequest()
	req.Email = ""
	req.TeamSize = "huge"

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), `teamSize "huge" is not a recognized option`)
	assert.NotContains(t, err.Error(), "businessType")
}

func TestValidateDoesNotCheckEmailFormat(t *testing.T) {
	req := validRequest()
	req.Email = "not-an-email"
	assert.NoError(t, req.Validate())
}

func TestNormalizeTrimsAndDropsBlankTools(t *testing.T) {
	req := GenerateStackRequest{
		Name:         "  Ana ",
		BusinessType: " saas",
		CurrentTools: []string{" Notion ", "", "   ", "Slack"},
	}
	req.Normalize()

	assert.Equal(t, "Ana", req.Name)
	assert.Equal(t, "saas", req.BusinessType)
	assert.Equal(t, []string{"Notion", "Slack"}, req.CurrentTools)
}

func TestNormalizeAutomationLevel(t *testing.T) {
	cases := map[string]string{
		"Alto":    AutomationHigh,
		" medio ": AutomationMedium,
		"MÉDIO":   AutomationMedium,
		"low":     AutomationLow,
		"Total":   "Total",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAutomationLevel(in), in)
	}
}
