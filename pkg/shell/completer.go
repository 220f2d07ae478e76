package shell

import (
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/r3d91ll/meetup/pkg/agent"
	"github.com/r3d91ll/meetup/pkg/export"
)

// commands is the static list of shell commands (without the / prefix).
var commands = []string{
	"add",
	"remove",
	"list",
	"meet",
	"rounds",
	"transitions",
	"load",
	"save",
	"export",
	"reset",
	"help",
	"quit",
	"exit",
}

// NameSource supplies the agent names currently in the working listing.
type NameSource interface {
	Names() []string
}

// Completer provides tab completion for commands, condition names, agent
// names and export formats. It implements readline.AutoCompleter.
type Completer struct {
	names NameSource
}

// NewCompleter creates a completer. names may be nil.
func NewCompleter(names NameSource) *Completer {
	return &Completer{names: names}
}

var _ readline.AutoCompleter = (*Completer)(nil)

// Do implements readline.AutoCompleter. It returns candidate suffixes and
// the length of the word being completed.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	text := string(line[:pos])
	wordStart := strings.LastIndexAny(text, " \t") + 1
	word := text[wordStart:]
	fields := strings.Fields(text[:wordStart])

	if len(fields) == 0 {
		if !strings.HasPrefix(word, "/") {
			return nil, 0
		}
		return complete(commands, strings.TrimPrefix(word, "/"), len([]rune(word)))
	}

	// fields[0] is the command; argIndex counts completed arguments.
	argIndex := len(fields) - 1
	switch fields[0] {
	case "/add":
		if argIndex == 1 {
			return complete(conditionNames(), word, len([]rune(word)))
		}
	case "/remove":
		if argIndex == 0 && c.names != nil {
			return complete(c.names.Names(), word, len([]rune(word)))
		}
	case "/export":
		if argIndex == 0 {
			return complete(formatNames(), word, len([]rune(word)))
		}
	}
	return nil, 0
}

// complete returns the suffixes of candidates that start with prefix.
func complete(candidates []string, prefix string, length int) ([][]rune, int) {
	seen := make(map[string]bool)
	var sorted []string
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) && !seen[cand] {
			seen[cand] = true
			sorted = append(sorted, cand)
		}
	}
	sort.Strings(sorted)

	var matches [][]rune
	for _, cand := range sorted {
		matches = append(matches, []rune(cand[len(prefix):]+" "))
	}
	return matches, length
}

func conditionNames() []string {
	names := make([]string, len(agent.Conditions))
	for i, c := range agent.Conditions {
		names[i] = c.String()
	}
	return names
}

func formatNames() []string {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		if f != export.FormatTable {
			names = append(names, string(f))
		}
	}
	return names
}
