package api

import (
	"net/http"

	authdelivery "kanban-backend/internal/auth/delivery"
	authusecase "kanban-backend/internal/auth/usecase"
	boarddelivery "kanban-backend/internal/board/delivery"
	teamdelivery "kanban-backend/internal/team/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authusecase.AuthUsecase, authHandler *authdelivery.AuthHandler, teamHandler *teamdelivery.TeamHandler, boardHandler *boarddelivery.BoardHandler) {
	requireAuth := authdelivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/logout", requireAuth, authHandler.Logout)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/me", teamHandler.GetMembership)
			teams.POST("/invite", teamHandler.Invite)
			teams.GET("/invitations", teamHandler.GetInvitation)
			teams.POST("/invitations/accept", teamHandler.AcceptInvitation)
		}

		// Board routes (protected), always the caller's team board
		boards := api.Group("/boards")
		boards.Use(requireAuth)
		{
			boards.GET("", boardHandler.GetBoard)

			boards.POST("/columns", boardHandler.CreateColumn)
			boards.PUT("/columns/sequence", boardHandler.ReorderColumn)
			boards.PATCH("/columns/:id", boardHandler.UpdateColumn)
			boards.DELETE("/columns/:id", boardHandler.DeleteColumn)

			boards.POST("/tickets", boardHandler.CreateTicket)
			boards.PATCH("/tickets/:id", boardHandler.UpdateTicket)
			boards.PUT("/tickets/:id/sequence", boardHandler.ReorderTicket)
			boards.PUT("/tickets/:id/move", boardHandler.MoveTicket)
			boards.DELETE("/tickets/:id", boardHandler.DeleteTicket)
		}
	}
}
