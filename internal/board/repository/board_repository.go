package repository

import (
	"context"
	"errors"
	"fmt"

	boarddomain "kanban-backend/internal/board/domain"
	"kanban-backend/pkg/database"
	"kanban-backend/pkg/sequence"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// boardRepository implements BoardRepository interface
type boardRepository struct {
	db       *gorm.DB
	attempts int
}

// NewBoardRepository creates a new instance of boardRepository. Transactions
// that hit a transient conflict are run again up to attempts times.
func NewBoardRepository(db *gorm.DB, attempts int) BoardRepository {
	return &boardRepository{
		db:       db,
		attempts: attempts,
	}
}

// withBoardLock runs fn in a transaction that first locks the board row.
// Columns and tickets of a board share this one lock.
func (r *boardRepository) withBoardLock(ctx context.Context, boardID string, fn func(tx *gorm.DB) error) error {
	err := database.WithRetry(ctx, r.attempts, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var board boarddomain.Board
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("id = ?", boardID).
				First(&board).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("board %s: %w", boardID, boarddomain.ErrNotFound)
			}
			if err != nil {
				return err
			}
			return fn(tx)
		})
	})
	return storageError(err)
}

// storageError leaves domain errors alone and marks everything else as a
// storage failure.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range []error{
		boarddomain.ErrNotFound,
		boarddomain.ErrInvalidSequence,
		boarddomain.ErrInvalidInput,
		boarddomain.ErrInvalidTag,
		boarddomain.ErrInvalidAssignee,
		boarddomain.ErrForbidden,
	} {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", boarddomain.ErrStorage, err)
}

func findColumn(tx *gorm.DB, boardID, columnID string) (*boarddomain.Column, error) {
	var column boarddomain.Column
	err := tx.Where("id = ? AND board_id = ?", columnID, boardID).First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("column %s: %w", columnID, boarddomain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func findColumnAt(tx *gorm.DB, boardID string, position int) (*boarddomain.Column, error) {
	var column boarddomain.Column
	err := tx.Where("board_id = ? AND sequence = ?", boardID, position).First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("column at %d: %w", position, boarddomain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// findTicket only matches tickets whose column belongs to boardID.
func findTicket(tx *gorm.DB, boardID, ticketID string) (*boarddomain.Ticket, error) {
	var ticket boarddomain.Ticket
	err := tx.Where("id = ? AND column_id IN (?)",
		ticketID,
		tx.Session(&gorm.Session{NewDB: true}).Table(columnsTable).Select("id").Where("board_id = ?", boardID),
	).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, boarddomain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *boardRepository) FindByTeam(ctx context.Context, teamID string) (*boarddomain.Board, error) {
	var board boarddomain.Board
	err := r.db.WithContext(ctx).Preload("Team").Where("team_id = ?", teamID).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) ListBoards(ctx context.Context) ([]boarddomain.Board, error) {
	var boards []boarddomain.Board
	err := r.db.WithContext(ctx).Preload("Team").Order("created_at").Find(&boards).Error
	return boards, err
}

func (r *boardRepository) LoadAggregate(ctx context.Context, boardID string) (*boarddomain.Board, error) {
	var board boarddomain.Board
	err := r.db.WithContext(ctx).
		Preload("Team").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Preload("Columns.Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence")
		}).
		Preload("Columns.Tickets.Assignee").
		Where("id = ?", boardID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("board %s: %w", boardID, boarddomain.ErrNotFound)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return &board, nil
}

func (r *boardRepository) CreateColumn(ctx context.Context, boardID, title string) (*boarddomain.Column, error) {
	column := &boarddomain.Column{
		ID:      uuid.New().String(),
		BoardID: boardID,
		Title:   title,
	}
	err := r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		next, err := columnScope(boardID).next(tx)
		if err != nil {
			return err
		}
		column.Sequence = next
		return tx.Create(column).Error
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumn renames and/or reorders a column in one transaction. The
// target sequence is checked before anything is written.
func (r *boardRepository) UpdateColumn(ctx context.Context, boardID, columnID string, title *string, to *int) error {
	if to != nil {
		if err := sequence.ValidatePositive(*to); err != nil {
			return err
		}
	}
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		column, err := findColumn(tx, boardID, columnID)
		if err != nil {
			return err
		}
		columns := columnScope(boardID)
		if to != nil {
			count, err := columns.count(tx)
			if err != nil {
				return err
			}
			if err := sequence.Validate(*to, count); err != nil {
				return err
			}
		}
		if title != nil {
			if err := tx.Model(column).UpdateColumn("title", *title).Error; err != nil {
				return err
			}
		}
		if to == nil {
			return nil
		}
		return columns.reorder(tx, column.ID, column.Sequence, *to)
	})
}

func (r *boardRepository) ReorderColumn(ctx context.Context, boardID, columnID string, to int) error {
	if err := sequence.ValidatePositive(to); err != nil {
		return err
	}
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		column, err := findColumn(tx, boardID, columnID)
		if err != nil {
			return err
		}
		return columnScope(boardID).reorder(tx, column.ID, column.Sequence, to)
	})
}

func (r *boardRepository) ReorderColumnAt(ctx context.Context, boardID string, from, to int) error {
	if err := sequence.ValidatePositive(from); err != nil {
		return err
	}
	if err := sequence.ValidatePositive(to); err != nil {
		return err
	}
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		column, err := findColumnAt(tx, boardID, from)
		if err != nil {
			return err
		}
		return columnScope(boardID).reorder(tx, column.ID, column.Sequence, to)
	})
}

func (r *boardRepository) DeleteColumn(ctx context.Context, boardID, columnID string) error {
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		column, err := findColumn(tx, boardID, columnID)
		if err != nil {
			return err
		}
		if err := tx.Where("column_id = ?", column.ID).Delete(&boarddomain.Ticket{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(column).Error; err != nil {
			return err
		}
		return columnScope(boardID).compact(tx)
	})
}

func (r *boardRepository) CreateTicket(ctx context.Context, boardID string, ticket *boarddomain.Ticket) error {
	ticket.ID = uuid.New().String()
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		column, err := findColumn(tx, boardID, ticket.ColumnID)
		if err != nil {
			return err
		}
		next, err := ticketScope(column.ID).next(tx)
		if err != nil {
			return err
		}
		ticket.Sequence = next
		return tx.Omit(clause.Associations).Create(ticket).Error
	})
}

func (r *boardRepository) UpdateTicket(ctx context.Context, boardID, ticketID string, fields boarddomain.TicketFields) error {
	updates := map[string]interface{}{}
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Tag != nil {
		updates["tag"] = *fields.Tag
	}
	if fields.ClearAssignee {
		updates["assignee_id"] = nil
	} else if fields.AssigneeID != nil {
		updates["assignee_id"] = *fields.AssigneeID
	}
	if fields.WorkAmount != nil {
		updates["work_amount"] = *fields.WorkAmount
	}
	if fields.DueDate != nil {
		updates["due_date"] = *fields.DueDate
	}

	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		ticket, err := findTicket(tx, boardID, ticketID)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Table(ticketsTable).Where("id = ?", ticket.ID).UpdateColumns(updates).Error
	})
}

func (r *boardRepository) ReorderTicket(ctx context.Context, boardID, ticketID string, to int) error {
	if err := sequence.ValidatePositive(to); err != nil {
		return err
	}
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		ticket, err := findTicket(tx, boardID, ticketID)
		if err != nil {
			return err
		}
		return ticketScope(ticket.ColumnID).reorder(tx, ticket.ID, ticket.Sequence, to)
	})
}

// MoveTicket places the ticket at sequence to of the destination column and
// closes the gap it leaves in its source column. to must name an existing
// position of the destination. A destination equal to the source is a plain
// reorder.
func (r *boardRepository) MoveTicket(ctx context.Context, boardID, ticketID string, dest boarddomain.Destination, to int) error {
	if err := sequence.ValidatePositive(to); err != nil {
		return err
	}
	if dest.ColumnID == "" {
		if err := sequence.ValidatePositive(dest.Position); err != nil {
			return err
		}
	}

	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		ticket, err := findTicket(tx, boardID, ticketID)
		if err != nil {
			return err
		}

		var target *boarddomain.Column
		if dest.ColumnID != "" {
			target, err = findColumn(tx, boardID, dest.ColumnID)
		} else {
			target, err = findColumnAt(tx, boardID, dest.Position)
		}
		if err != nil {
			return err
		}

		source := ticketScope(ticket.ColumnID)
		if target.ID == ticket.ColumnID {
			return source.reorder(tx, ticket.ID, ticket.Sequence, to)
		}

		destination := ticketScope(target.ID)
		count, err := destination.count(tx)
		if err != nil {
			return err
		}
		if err := sequence.Validate(to, count); err != nil {
			return err
		}

		if err := destination.shift(tx, sequence.Insert(to, count), ""); err != nil {
			return err
		}
		err = tx.Table(ticketsTable).Where("id = ?", ticket.ID).UpdateColumns(map[string]interface{}{
			"column_id": target.ID,
			"sequence":  to,
		}).Error
		if err != nil {
			return err
		}
		return source.compact(tx)
	})
}

func (r *boardRepository) DeleteTicket(ctx context.Context, boardID, ticketID string) error {
	return r.withBoardLock(ctx, boardID, func(tx *gorm.DB) error {
		ticket, err := findTicket(tx, boardID, ticketID)
		if err != nil {
			return err
		}
		if err := tx.Delete(ticket).Error; err != nil {
			return err
		}
		return ticketScope(ticket.ColumnID).compact(tx)
	})
}
