package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when the pre-submission validation gate fails.
// A failing gate aborts the entire batch with zero side effects.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrConflict is returned when an append collides with an existing record
// (e.g. a second terminal history entry for the same stage and identifier)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrInvalidStage is returned when a request names an unknown workflow stage
type ErrInvalidStage struct {
	Name string
}

func (e *ErrInvalidStage) Error() string {
	return fmt.Sprintf("invalid stage: %s", e.Name)
}

// ErrAlreadyProcessed is returned when a line already has a history entry
// for the stage being submitted. The line is never offered twice.
type ErrAlreadyProcessed struct {
	OrderIdentifier string
	Stage           string
}

func (e *ErrAlreadyProcessed) Error() string {
	return fmt.Sprintf("%s already processed at stage %s", e.OrderIdentifier, e.Stage)
}

// ErrNotEligible is returned when a line is submitted for a stage it has
// not reached: the prior stage is incomplete or the line was rejected
// earlier. Submission enforces the same eligibility the pending set shows.
type ErrNotEligible struct {
	OrderIdentifier string
	Stage           string
	Reason          string
}

func (e *ErrNotEligible) Error() string {
	return fmt.Sprintf("%s is not eligible for stage %s: %s", e.OrderIdentifier, e.Stage, e.Reason)
}

// ErrEmptySelection is returned when a batch action is requested with
// nothing selected
type ErrEmptySelection struct{}

func (e *ErrEmptySelection) Error() string {
	return "selection is empty"
}
