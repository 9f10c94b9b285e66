package delivery

import (
	"errors"
	"net/http"

	boarddomain "kanban-backend/internal/board/domain"
	boarddto "kanban-backend/internal/board/dto"
	"kanban-backend/internal/board/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoardHandler handles board, column and ticket HTTP requests
type BoardHandler struct {
	boardUsecase usecase.BoardUsecase
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(boardUsecase usecase.BoardUsecase) *BoardHandler {
	return &BoardHandler{
		boardUsecase: boardUsecase,
	}
}

// GetBoard returns the caller's team board
// GET /api/boards?shape=title
func (h *BoardHandler) GetBoard(c *gin.Context) {
	view, err := h.boardUsecase.GetBoard(c.Request.Context(), c.GetString("userID"))
	h.respond(c, http.StatusOK, view, err)
}

// CreateColumn appends a column to the board
// POST /api/boards/columns
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	var req boarddto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.CreateColumn(c.Request.Context(), c.GetString("userID"), req.Title)
	h.respond(c, http.StatusCreated, view, err)
}

// UpdateColumn renames and/or reorders a column
// PATCH /api/boards/columns/:id
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	var req boarddto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.UpdateColumn(c.Request.Context(), c.GetString("userID"), c.Param("id"), &req)
	h.respond(c, http.StatusOK, view, err)
}

// ReorderColumn moves the column currently at one sequence to another
// PUT /api/boards/columns/sequence
func (h *BoardHandler) ReorderColumn(c *gin.Context) {
	var req boarddto.ReorderColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.ReorderColumnAt(c.Request.Context(), c.GetString("userID"), *req.Column, *req.Sequence)
	h.respond(c, http.StatusOK, view, err)
}

// DeleteColumn removes a column with its tickets
// DELETE /api/boards/columns/:id
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	view, err := h.boardUsecase.DeleteColumn(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

// CreateTicket appends a ticket to a column
// POST /api/boards/tickets
func (h *BoardHandler) CreateTicket(c *gin.Context) {
	var req boarddto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.CreateTicket(c.Request.Context(), c.GetString("userID"), &req)
	h.respond(c, http.StatusCreated, view, err)
}

// UpdateTicket edits ticket attributes
// PATCH /api/boards/tickets/:id
func (h *BoardHandler) UpdateTicket(c *gin.Context) {
	var req boarddto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.UpdateTicket(c.Request.Context(), c.GetString("userID"), c.Param("id"), &req)
	h.respond(c, http.StatusOK, view, err)
}

// ReorderTicket moves a ticket within its column
// PUT /api/boards/tickets/:id/sequence
func (h *BoardHandler) ReorderTicket(c *gin.Context) {
	var req boarddto.ReorderTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.boardUsecase.ReorderTicket(c.Request.Context(), c.GetString("userID"), c.Param("id"), *req.Sequence)
	h.respond(c, http.StatusOK, view, err)
}

// MoveTicket moves a ticket into another column at a given sequence
// PUT /api/boards/tickets/:id/move
func (h *BoardHandler) MoveTicket(c *gin.Context) {
	var req boarddto.MoveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ColumnID == "" && req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column or column_id is required"})
		return
	}

	dest := boarddomain.Destination{ColumnID: req.ColumnID}
	if req.Column != nil {
		dest.Position = *req.Column
	}

	view, err := h.boardUsecase.MoveTicket(c.Request.Context(), c.GetString("userID"), c.Param("id"), dest, *req.Sequence)
	h.respond(c, http.StatusOK, view, err)
}

// DeleteTicket removes a ticket
// DELETE /api/boards/tickets/:id
func (h *BoardHandler) DeleteTicket(c *gin.Context) {
	view, err := h.boardUsecase.DeleteTicket(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *BoardHandler) respond(c *gin.Context, status int, view *boarddto.BoardView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("shape") == "title" {
		c.JSON(status, view.TitleKeyed())
		return
	}
	c.JSON(status, view)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, boarddomain.ErrInvalidSequence),
		errors.Is(err, boarddomain.ErrInvalidTag),
		errors.Is(err, boarddomain.ErrInvalidAssignee),
		errors.Is(err, boarddomain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, boarddomain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, boarddomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Board request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
