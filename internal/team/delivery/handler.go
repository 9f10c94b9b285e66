package delivery

import (
	"errors"
	"net/http"

	teamdomain "kanban-backend/internal/team/domain"
	teamdto "kanban-backend/internal/team/dto"
	"kanban-backend/internal/team/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TeamHandler handles team and invitation HTTP requests
type TeamHandler struct {
	teamUsecase usecase.TeamUsecase
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamUsecase usecase.TeamUsecase) *TeamHandler {
	return &TeamHandler{
		teamUsecase: teamUsecase,
	}
}

// CreateTeam creates a team led by the caller together with its board
// POST /api/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID := c.GetString("userID")

	var req teamdto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamUsecase.CreateTeam(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// Invite offers a user a place in the caller's team
// POST /api/teams/invite
func (h *TeamHandler) Invite(c *gin.Context) {
	userID := c.GetString("userID")

	var req teamdto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.teamUsecase.Invite(c.Request.Context(), userID, req.Target, req.Team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

// GetInvitation returns the caller's pending invitation
// GET /api/teams/invitations
func (h *TeamHandler) GetInvitation(c *gin.Context) {
	invitation, err := h.teamUsecase.PendingInvitation(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitation)
}

// AcceptInvitation joins the inviting team
// POST /api/teams/invitations/accept
func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	membership, err := h.teamUsecase.AcceptInvitation(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, membership)
}

// GetMembership returns the caller's team and role
// GET /api/teams/me
func (h *TeamHandler) GetMembership(c *gin.Context) {
	membership, err := h.teamUsecase.Membership(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, membership)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, teamdomain.ErrNoInvitation):
		c.Status(http.StatusNoContent)
	case errors.Is(err, teamdomain.ErrTeamNameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, teamdomain.ErrAlreadyLeader), errors.Is(err, teamdomain.ErrNotLeader):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, teamdomain.ErrTeamNotFound), errors.Is(err, teamdomain.ErrUserNotFound),
		errors.Is(err, teamdomain.ErrNotMember):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, teamdomain.ErrAlreadyInvited), errors.Is(err, teamdomain.ErrInviteeIsLeader),
		errors.Is(err, teamdomain.ErrAlreadyMember), errors.Is(err, teamdomain.ErrLeaderCannotLeave):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Team request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
