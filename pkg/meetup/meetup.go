// Package meetup runs one round of pairwise meetings over an agent listing.
//
// Healthy and dead agents sit the round out. The remaining agents meet in
// consecutive pairs, in their original relative order. When one side of a
// pair carries the cure the other side improves one step, two cure carriers
// leave each other alone, and any other pair worsens one step each. An odd
// agent left over at the end does not meet anyone.
//
// The returned listing holds the exempt agents first, then the met agents in
// pair order, then the unpaired agent. Callers must not rely on the input
// order being kept.
package meetup

import (
	"fmt"
	"strconv"

	"github.com/r3d91ll/meetup/pkg/agent"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
)

// Meetup runs one round over agents and returns the updated listing.
// The input slice is not modified. An agent whose category is not one of the
// defined conditions fails the whole round with a CONDITION_INVALID error.
func Meetup(agents []agent.Agent) ([]agent.Agent, error) {
	if err := validate(agents); err != nil {
		return nil, err
	}

	exempt, eligible := Partition(agents)

	result := make([]agent.Agent, 0, len(agents))
	result = append(result, exempt...)

	for i := 0; i+1 < len(eligible); i += 2 {
		a, b := Pair(eligible[i], eligible[i+1])
		result = append(result, a, b)
	}
	if len(eligible)%2 == 1 {
		result = append(result, eligible[len(eligible)-1])
	}

	return result, nil
}

// MustMeetup is like Meetup but panics on an invalid category.
func MustMeetup(agents []agent.Agent) []agent.Agent {
	result, err := Meetup(agents)
	if err != nil {
		panic(err)
	}
	return result
}

// Partition splits agents, keeping relative order, into those exempt from
// meeting (healthy, dead) and those eligible to meet (cure, sick, dying).
func Partition(agents []agent.Agent) (exempt, eligible []agent.Agent) {
	for _, a := range agents {
		if a.Category.IsExempt() {
			exempt = append(exempt, a)
		} else {
			eligible = append(eligible, a)
		}
	}
	return exempt, eligible
}

// Pair applies the meeting rule to one pair and returns the new values.
func Pair(a, b agent.Agent) (agent.Agent, agent.Agent) {
	aCure := a.Category == agent.Cure
	bCure := b.Category == agent.Cure

	switch {
	case aCure && bCure:
		return a, b
	case aCure:
		return a, b.WithCategory(agent.Improve(b.Category))
	case bCure:
		return a.WithCategory(agent.Improve(a.Category)), b
	default:
		return a.WithCategory(agent.Worsen(a.Category)), b.WithCategory(agent.Worsen(b.Category))
	}
}

func validate(agents []agent.Agent) error {
	for i, a := range agents {
		if err := a.Validate(); err != nil {
			return merrors.Validationf(merrors.ErrConditionInvalid,
				"agent %q has an invalid condition", a.Name).
				WithContext("index", strconv.Itoa(i)).
				WithContext("name", a.Name).
				WithContext("category", fmt.Sprintf("%q", string(a.Category))).
				WithCause(err)
		}
	}
	return nil
}
