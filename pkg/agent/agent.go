package agent

import "gopkg.in/yaml.v3"

// Agent is a participant in a meetup round.
// Agents are values: changing the category yields a new Agent.
type Agent struct {
	Name     string    `json:"name" yaml:"name"`
	Category Condition `json:"category" yaml:"category"`
}

// New returns an Agent with the given name and condition.
func New(name string, category Condition) Agent {
	return Agent{Name: name, Category: category}
}

// WithCategory returns a copy of the agent carrying the given condition.
func (a Agent) WithCategory(c Condition) Agent {
	return Agent{Name: a.Name, Category: c}
}

// Validate checks that the agent's category is a defined condition.
// Names are descriptive only and may be empty or repeated.
func (a Agent) Validate() error {
	if !a.Category.IsValid() {
		return &ValidationError{Field: "category", Message: "invalid condition " + string(a.Category)}
	}
	return nil
}

// UnmarshalYAML accepts categories in any letter case.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCondition(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
