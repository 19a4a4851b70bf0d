package a2a

import "strings"

type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Skills             []Skill      `json:"skills"`
}

type Capabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}

const stackExample = `{"name":"Ana","email":"ana@x.com","businessType":"saas","teamSize":"small","objective":"leads","currentTools":["Notion"],"aiKnowledge":"intermediario"}`

// NewAgentCard describes the stack agent served from baseURL.
func NewAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name:        "AI Stack Advisor",
		Description: "Recommends a personalized stack of AI tools for a small business from its questionnaire answers.",
		URL:         strings.TrimSuffix(baseURL, "/") + "/a2a/stack",
		Version:     "1.0.0",
		Capabilities: Capabilities{
			StateTransitionHistory: true,
		},
		DefaultInputModes:  []string{"application/json", "text/plain"},
		DefaultOutputModes: []string{"text/markdown", "application/json"},
		Skills: []Skill{{
			ID:          "generate-ai-stack",
			Name:        "Generate AI stack",
			Description: "Takes business type, team size, objective, current tools and AI familiarity and returns a prioritized list of AI tools with an implementation plan.",
			Tags:        []string{"ai", "automation", "small-business", "recommendations"},
			Examples:    []string{stackExample},
		}},
	}
}
