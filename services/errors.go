package services

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// statuses; everything else becomes a 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrTeamNotFound       = errors.New("invalid team access code")
	ErrAlreadyTeamMember  = errors.New("already part of a team")
	ErrNotTeamMember      = errors.New("not part of any team")
	ErrSessionActive      = errors.New("a work session is already active")
	ErrNoActiveSession    = errors.New("no active work session")
)
