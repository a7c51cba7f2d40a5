// Package lifecycle holds the announcement status state machine.
package lifecycle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"antiquites/internal/domain"
)

type Action string

const (
	ActionValidate Action = "validate"
	ActionReject   Action = "reject"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// Key selects a rule: the current status and the requested action.
type Key struct {
	From   domain.Status
	Action Action
}

// Rule describes one edge of the state machine.
type Rule struct {
	To domain.Status
	// SetPrice writes price and validated_at with the status. Without it both are cleared.
	SetPrice bool
	// Relaxed edges re-apply an action to an already-terminal listing.
	// They are only followed when the machine is not strict.
	Relaxed bool
}

var table = map[Key]Rule{
	{domain.StatusPending, ActionValidate}: {To: domain.StatusValidated, SetPrice: true},
	{domain.StatusPending, ActionReject}:   {To: domain.StatusRejected},

	{domain.StatusValidated, ActionValidate}: {To: domain.StatusValidated, SetPrice: true, Relaxed: true},
	{domain.StatusValidated, ActionReject}:   {To: domain.StatusRejected, Relaxed: true},
	{domain.StatusRejected, ActionValidate}:  {To: domain.StatusValidated, SetPrice: true, Relaxed: true},
	{domain.StatusRejected, ActionReject}:    {To: domain.StatusRejected, Relaxed: true},
}

// Machine applies the transition table. The zero value is permissive: re-validating or
// re-rejecting a terminal listing rewrites it. Strict refuses those edges.
type Machine struct {
	Strict bool
	// Table replaces the built-in transitions when set.
	Table map[Key]Rule
}

// Next returns the rule for applying action to a listing currently in from.
func (m Machine) Next(from domain.Status, action Action) (Rule, error) {
	rules := m.Table
	if rules == nil {
		rules = table
	}
	r, ok := rules[Key{From: domain.ParseStatus(string(from)), Action: action}]
	if !ok || (r.Relaxed && m.Strict) {
		return Rule{}, fmt.Errorf("%w: %s from %q", ErrIllegalTransition, action, from)
	}
	return r, nil
}

// ParsePrice validates the price an admin assigns when publishing a listing.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &domain.ValidationError{Field: "price", Reason: "required"}
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &domain.ValidationError{Field: "price", Reason: "must be a number"}
	}
	return CheckPrice(p)
}

func CheckPrice(p float64) (float64, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &domain.ValidationError{Field: "price", Reason: "must be a number"}
	}
	if p < 0 {
		return 0, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return p, nil
}
