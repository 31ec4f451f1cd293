package services

import "invoicedash/internal/models"

// OutcomeKind tags which field of an Outcome is populated
type OutcomeKind int

const (
	// OutcomeRerender returns the submitted form with inline errors
	OutcomeRerender OutcomeKind = iota
	// OutcomeRespond returns a structured result without navigating
	OutcomeRespond
	// OutcomeNavigate tells the dispatcher to send the client to Location.
	// Nothing in the action runs after it is produced.
	OutcomeNavigate
)

// Outcome is the non-fatal result of a form action
type Outcome struct {
	Kind     OutcomeKind
	State    models.ActionState
	Result   models.ActionResult
	Location string
}

func Rerender(state models.ActionState) Outcome {
	return Outcome{Kind: OutcomeRerender, State: state}
}

func Respond(result models.ActionResult) Outcome {
	return Outcome{Kind: OutcomeRespond, Result: result}
}

func Navigate(location string) Outcome {
	return Outcome{Kind: OutcomeNavigate, Location: location}
}
