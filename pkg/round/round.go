// Package round records what happened in a meetup round.
//
// A Round keeps the listing before and after one call of the meetup engine,
// together with one Transition per agent describing whom the agent met and
// which rule applied. Rounds are records only: nothing in this package starts
// a new round on its own.
package round

import (
	"time"

	"github.com/google/uuid"

	"github.com/r3d91ll/meetup/pkg/agent"
	"github.com/r3d91ll/meetup/pkg/meetup"
)

// Rule names the outcome of a meeting for one agent.
type Rule string

const (
	RuleExempt    Rule = "exempt"    // healthy or dead, did not meet
	RuleUnpaired  Rule = "unpaired"  // odd agent out, did not meet
	RuleCured     Rule = "cured"     // improved by a cure carrier
	RuleWorsened  Rule = "worsened"  // met another non-cure agent
	RuleUnchanged Rule = "unchanged" // cure carrier, keeps its condition
)

// Transition is one agent's change during a round.
type Transition struct {
	Name    string          `json:"name" yaml:"name"`
	From    agent.Condition `json:"from" yaml:"from"`
	To      agent.Condition `json:"to" yaml:"to"`
	Partner string          `json:"partner,omitempty" yaml:"partner,omitempty"`
	Rule    Rule            `json:"rule" yaml:"rule"`
}

// Changed returns true if the agent's condition changed.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Improved returns true if the agent moved toward health.
func (t Transition) Improved() bool {
	return t.To.Severity() < t.From.Severity()
}

// Round is the record of one meetup call.
type Round struct {
	ID          string        `json:"id" yaml:"id"`
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	Before      []agent.Agent `json:"before" yaml:"before"`
	After       []agent.Agent `json:"after" yaml:"after"`
	Transitions []Transition  `json:"transitions" yaml:"transitions"`
}

// Run calls the meetup engine on listing and records the result.
// Transitions follow the order of the returned listing.
func Run(listing []agent.Agent) (*Round, error) {
	after, err := meetup.Meetup(listing)
	if err != nil {
		return nil, err
	}

	before := make([]agent.Agent, len(listing))
	copy(before, listing)

	r := &Round{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		Before:      before,
		After:       after,
		Transitions: make([]Transition, 0, len(after)),
	}

	// Transitions are matched by position rather than name because names
	// may repeat. Meetup emits exempt agents first, then pairs, then the tail.
	exempt, eligible := meetup.Partition(listing)
	for _, a := range exempt {
		r.Transitions = append(r.Transitions, Transition{
			Name: a.Name, From: a.Category, To: a.Category, Rule: RuleExempt,
		})
	}
	for i := 0; i+1 < len(eligible); i += 2 {
		x, y := eligible[i], eligible[i+1]
		nx, ny := after[len(exempt)+i], after[len(exempt)+i+1]
		r.Transitions = append(r.Transitions,
			Transition{Name: x.Name, From: x.Category, To: nx.Category, Partner: y.Name, Rule: ruleFor(x, y)},
			Transition{Name: y.Name, From: y.Category, To: ny.Category, Partner: x.Name, Rule: ruleFor(y, x)},
		)
	}
	if len(eligible)%2 == 1 {
		last := eligible[len(eligible)-1]
		r.Transitions = append(r.Transitions, Transition{
			Name: last.Name, From: last.Category, To: last.Category, Rule: RuleUnpaired,
		})
	}

	return r, nil
}

func ruleFor(self, partner agent.Agent) Rule {
	switch {
	case self.Category == agent.Cure:
		return RuleUnchanged
	case partner.Category == agent.Cure:
		return RuleCured
	default:
		return RuleWorsened
	}
}

// Changes returns only the transitions that changed a condition.
func (r *Round) Changes() []Transition {
	var result []Transition
	for _, t := range r.Transitions {
		if t.Changed() {
			result = append(result, t)
		}
	}
	return result
}
