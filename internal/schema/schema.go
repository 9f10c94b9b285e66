// Package schema lists the persisted models and migrates them.
package schema

import (
	authdomain "kanban-backend/internal/auth/domain"
	boarddomain "kanban-backend/internal/board/domain"
	teamdomain "kanban-backend/internal/team/domain"

	"gorm.io/gorm"
)

func Models() []interface{} {
	return []interface{}{
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&teamdomain.Team{},
		&teamdomain.Membership{},
		&teamdomain.Invitation{},
		&boarddomain.Board{},
		&boarddomain.Column{},
		&boarddomain.Ticket{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
