package domain

import (
	"errors"

	"kanban-backend/pkg/sequence"
)

var (
	// ErrInvalidSequence marks a target sequence outside its scope's bounds.
	ErrInvalidSequence = sequence.ErrInvalidSequence
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrInvalidAssignee = errors.New("assignee must be a member of the team")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrStorage wraps a transaction that failed to commit.
	ErrStorage = errors.New("storage failure")
)
