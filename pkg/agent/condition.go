// Package agent defines the agents that take part in a meetup round and the
// health conditions they carry.
package agent

import "strings"

// Condition is an agent's health state.
type Condition string

const (
	// Cure carries the cure. It never changes and improves any partner.
	Cure Condition = "cure"

	// Healthy agents are exempt from meetups.
	Healthy Condition = "healthy"

	// Sick is the first step of the illness.
	Sick Condition = "sick"

	// Dying is one step from death.
	Dying Condition = "dying"

	// Dead agents are exempt from meetups.
	Dead Condition = "dead"
)

// Conditions lists every valid condition in declaration order.
var Conditions = []Condition{Cure, Healthy, Sick, Dying, Dead}

// String returns the string representation of the condition.
func (c Condition) String() string {
	return string(c)
}

// IsValid returns true if this is one of the five defined conditions.
func (c Condition) IsValid() bool {
	switch c {
	case Cure, Healthy, Sick, Dying, Dead:
		return true
	default:
		return false
	}
}

// IsExempt returns true for conditions that sit out a meetup round.
func (c Condition) IsExempt() bool {
	return c == Healthy || c == Dead
}

// Severity orders the progressing conditions: sick < dying < dead.
// Cure, healthy and unknown values report 0.
func (c Condition) Severity() int {
	switch c {
	case Sick:
		return 1
	case Dying:
		return 2
	case Dead:
		return 3
	default:
		return 0
	}
}

// Description returns a human-readable description of the condition.
func (c Condition) Description() string {
	switch c {
	case Cure:
		return "Carries the cure, improves any partner it meets"
	case Healthy:
		return "Healthy, does not take part in meetups"
	case Sick:
		return "Sick, worsens to dying or improves to healthy"
	case Dying:
		return "Dying, worsens to dead or improves to sick"
	case Dead:
		return "Dead, does not take part in meetups"
	default:
		return "Unknown condition"
	}
}

// ParseCondition converts a case-insensitive name into a Condition.
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return c, &ValidationError{Field: "category", Message: "unknown condition " + strings.TrimSpace(s)}
	}
	return c, nil
}

// Improve moves a condition one step toward health.
func Improve(c Condition) Condition {
	switch c {
	case Dying:
		return Sick
	case Sick:
		return Healthy
	default:
		return c
	}
}

// Worsen moves a condition one step toward death.
func Worsen(c Condition) Condition {
	switch c {
	case Sick:
		return Dying
	case Dying:
		return Dead
	default:
		return c
	}
}
