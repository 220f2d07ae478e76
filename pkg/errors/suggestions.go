package errors

import "sort"

// Registry maps error codes to remediation suggestions.
type Registry struct {
	suggestions map[string][]Suggestion
}

// Suggestion is a remediation hint. Higher priority suggestions are shown first.
type Suggestion struct {
	Text     string
	Priority int
}

// NewRegistry creates a new suggestion registry.
func NewRegistry() *Registry {
	return &Registry{
		suggestions: make(map[string][]Suggestion),
	}
}

// Register adds a suggestion for an error code.
func (r *Registry) Register(code, text string) *Registry {
	return r.RegisterWithPriority(code, text, 0)
}

// RegisterWithPriority adds a suggestion with explicit priority.
func (r *Registry) RegisterWithPriority(code, text string, priority int) *Registry {
	r.suggestions[code] = append(r.suggestions[code], Suggestion{
		Text:     text,
		Priority: priority,
	})
	return r
}

// Get returns the suggestion texts for a code, highest priority first.
func (r *Registry) Get(code string) []string {
	all := r.suggestions[code]
	if len(all) == 0 {
		return nil
	}
	sorted := make([]Suggestion, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	result := make([]string, len(sorted))
	for i, s := range sorted {
		result[i] = s.Text
	}
	return result
}

// HasSuggestions returns true if any suggestions exist for the error code.
func (r *Registry) HasSuggestions(code string) bool {
	return len(r.suggestions[code]) > 0
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global registry of built-in suggestions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// AttachSuggestions appends the built-in suggestions for err's code.
func AttachSuggestions(err *MeetupError) *MeetupError {
	if err == nil {
		return nil
	}
	err.Suggestions = append(err.Suggestions, defaultRegistry.Get(err.Code)...)
	return err
}

func init() {
	defaultRegistry.
		RegisterWithPriority(ErrConfigNotFound, "Create a default config with: meetup -init", 10).
		Register(ErrConfigNotFound, "Pass an explicit path with -config or -listing").
		Register(ErrConfigReadFailed, "Check the file permissions").
		RegisterWithPriority(ErrConfigParseFailed, "Check the YAML syntax (indentation uses spaces)", 10).
		Register(ErrConfigParseFailed, "Valid conditions are: cure, healthy, sick, dying, dead").
		Register(ErrConfigInvalid, "Every listing entry needs a name and a category").
		Register(ErrConfigWriteFailed, "Check that the target directory is writable").
		Register(ErrConditionInvalid, "Valid conditions are: cure, healthy, sick, dying, dead").
		Register(ErrAgentNameRequired, "Give every agent a name, e.g. '- name: a'").
		Register(ErrFormatUnsupported, "Supported formats are: table, yaml, json, csv").
		Register(ErrAgentNotFound, "Use /list to see the agents in the working listing").
		Register(ErrCommandUnknown, "Type /help to see available commands").
		Register(ErrCommandInvalidArgs, "Type /help to see command usage").
		Register(ErrRoundNotFound, "Use /rounds to list recorded rounds").
		Register(ErrIOWriteFailed, "Check that the output path is writable")
}
