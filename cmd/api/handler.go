package api

import (
	"net/http"
	"time"

	authdelivery "kanban-backend/internal/auth/delivery"
	authusecase "kanban-backend/internal/auth/usecase"
	boarddelivery "kanban-backend/internal/board/delivery"
	boardusecase "kanban-backend/internal/board/usecase"
	teamdelivery "kanban-backend/internal/team/delivery"
	teamusecase "kanban-backend/internal/team/usecase"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	authUsecase  authusecase.AuthUsecase
	authHandler  *authdelivery.AuthHandler
	teamHandler  *teamdelivery.TeamHandler
	boardHandler *boarddelivery.BoardHandler
}

func NewHandler(authUc authusecase.AuthUsecase, teamUc teamusecase.TeamUsecase, boardUc boardusecase.BoardUsecase) *Handler {
	return &Handler{
		authUsecase:  authUc,
		authHandler:  authdelivery.NewAuthHandler(authUc),
		teamHandler:  teamdelivery.NewTeamHandler(teamUc),
		boardHandler: boarddelivery.NewBoardHandler(boardUc),
	}
}

// Router builds the gin engine with logging, recovery, CORS and all routes.
func (h *Handler) Router(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.teamHandler, h.boardHandler)
	return r
}
