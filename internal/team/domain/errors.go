package domain

import "errors"

var (
	ErrTeamNameTaken     = errors.New("team name already in use")
	ErrAlreadyLeader     = errors.New("user already leads a team")
	ErrNotLeader         = errors.New("only the team leader can do this")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotMember         = errors.New("user does not belong to a team")
	ErrAlreadyInvited    = errors.New("user already has a pending invitation")
	ErrInviteeIsLeader   = errors.New("a team leader cannot be invited")
	ErrAlreadyMember     = errors.New("user already belongs to this team")
	ErrNoInvitation      = errors.New("no pending invitation")
	ErrLeaderCannotLeave = errors.New("a team leader cannot switch teams")
)
