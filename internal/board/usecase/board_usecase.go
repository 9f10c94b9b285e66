package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	boarddomain "kanban-backend/internal/board/domain"
	boarddto "kanban-backend/internal/board/dto"
	"kanban-backend/internal/board/repository"
	"kanban-backend/pkg/cache"

	"go.uber.org/zap"
)

const dueDateLayout = "2006-01-02"

// boardUsecase implements BoardUsecase interface
type boardUsecase struct {
	boardRepo repository.BoardRepository
	members   MembershipReader
	users     UserFinder
	cache     cache.BoardCache
}

// NewBoardUsecase creates a new instance of boardUsecase. boardCache may be
// nil, in which case every read goes to the database.
func NewBoardUsecase(boardRepo repository.BoardRepository, members MembershipReader, users UserFinder, boardCache cache.BoardCache) BoardUsecase {
	return &boardUsecase{
		boardRepo: boardRepo,
		members:   members,
		users:     users,
		cache:     boardCache,
	}
}

// boardOf returns the board of the caller's team. leaderOnly restricts the
// call to the team leader.
func (u *boardUsecase) boardOf(ctx context.Context, userID string, leaderOnly bool) (*boarddomain.Board, error) {
	membership, err := u.members.MembershipOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, fmt.Errorf("%w: user has no team", boarddomain.ErrForbidden)
	}
	if leaderOnly && !membership.IsLeader() {
		return nil, fmt.Errorf("%w: leader only", boarddomain.ErrForbidden)
	}

	board, err := u.boardRepo.FindByTeam(ctx, membership.TeamID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("board of team %s: %w", membership.TeamID, boarddomain.ErrNotFound)
	}
	return board, nil
}

// refresh reloads the board, writes it through to the cache and returns it.
func (u *boardUsecase) refresh(ctx context.Context, boardID string) (*boarddto.BoardView, error) {
	board, err := u.boardRepo.LoadAggregate(ctx, boardID)
	if err != nil {
		return nil, err
	}
	view := boarddto.NewBoardView(board)

	if u.cache != nil && view.Team != "" {
		if err := u.cache.Set(ctx, view.Team, view); err != nil {
			zap.L().Warn("Failed to cache board", zap.String("team", view.Team), zap.Error(err))
			// a stale entry would outlive this change
			if err := u.cache.Delete(ctx, view.Team); err != nil {
				zap.L().Warn("Failed to drop cached board", zap.String("team", view.Team), zap.Error(err))
			}
		}
	}
	return view, nil
}

func (u *boardUsecase) GetBoard(ctx context.Context, userID string) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if u.cache != nil && board.Team != nil {
		var view boarddto.BoardView
		found, err := u.cache.Get(ctx, board.Team.Name, &view)
		if err != nil {
			zap.L().Warn("Board cache read failed", zap.String("team", board.Team.Name), zap.Error(err))
		} else if found {
			return &view, nil
		}
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) CreateColumn(ctx context.Context, userID, title string) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: column title is required", boarddomain.ErrInvalidInput)
	}

	if _, err := u.boardRepo.CreateColumn(ctx, board.ID, title); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) UpdateColumn(ctx context.Context, userID, columnID string, req *boarddto.UpdateColumnRequest) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: column title is required", boarddomain.ErrInvalidInput)
		}
		title = &trimmed
	}
	if title == nil && req.Sequence == nil {
		return u.refresh(ctx, board.ID)
	}
	if err := u.boardRepo.UpdateColumn(ctx, board.ID, columnID, title, req.Sequence); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) ReorderColumnAt(ctx context.Context, userID string, from, to int) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if err := u.boardRepo.ReorderColumnAt(ctx, board.ID, from, to); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) DeleteColumn(ctx context.Context, userID, columnID string) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if err := u.boardRepo.DeleteColumn(ctx, board.ID, columnID); err != nil {
		return nil, err
	}

	zap.L().Info("Column deleted", zap.String("boardID", board.ID), zap.String("columnID", columnID))
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) CreateTicket(ctx context.Context, userID string, req *boarddto.CreateTicketRequest) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	tag, err := boarddomain.ParseTag(req.Tag)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.WorkAmount < 0 {
		return nil, fmt.Errorf("%w: work amount must not be negative", boarddomain.ErrInvalidInput)
	}

	ticket := &boarddomain.Ticket{
		ColumnID:   req.ColumnID,
		Title:      strings.TrimSpace(req.Title),
		Tag:        tag,
		WorkAmount: req.WorkAmount,
		DueDate:    dueDate,
	}
	if req.Assignee != nil && *req.Assignee != "" {
		assigneeID, err := u.resolveAssignee(ctx, board.TeamID, *req.Assignee)
		if err != nil {
			return nil, err
		}
		ticket.AssigneeID = &assigneeID
	}

	if err := u.boardRepo.CreateTicket(ctx, board.ID, ticket); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) UpdateTicket(ctx context.Context, userID, ticketID string, req *boarddto.UpdateTicketRequest) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	var fields boarddomain.TicketFields
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: ticket title is required", boarddomain.ErrInvalidInput)
		}
		fields.Title = &title
	}
	if req.Tag != nil {
		tag, err := boarddomain.ParseTag(*req.Tag)
		if err != nil {
			return nil, err
		}
		fields.Tag = &tag
	}
	if req.Assignee != nil {
		if *req.Assignee == "" {
			fields.ClearAssignee = true
		} else {
			assigneeID, err := u.resolveAssignee(ctx, board.TeamID, *req.Assignee)
			if err != nil {
				return nil, err
			}
			fields.AssigneeID = &assigneeID
		}
	}
	if req.WorkAmount != nil {
		if *req.WorkAmount < 0 {
			return nil, fmt.Errorf("%w: work amount must not be negative", boarddomain.ErrInvalidInput)
		}
		fields.WorkAmount = req.WorkAmount
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		fields.DueDate = &dueDate
	}

	if err := u.boardRepo.UpdateTicket(ctx, board.ID, ticketID, fields); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) ReorderTicket(ctx context.Context, userID, ticketID string, to int) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if err := u.boardRepo.ReorderTicket(ctx, board.ID, ticketID, to); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) MoveTicket(ctx context.Context, userID, ticketID string, dest boarddomain.Destination, to int) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if err := u.boardRepo.MoveTicket(ctx, board.ID, ticketID, dest, to); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) DeleteTicket(ctx context.Context, userID, ticketID string) (*boarddto.BoardView, error) {
	board, err := u.boardOf(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if err := u.boardRepo.DeleteTicket(ctx, board.ID, ticketID); err != nil {
		return nil, err
	}
	return u.refresh(ctx, board.ID)
}

func (u *boardUsecase) PreloadAll(ctx context.Context) (int, error) {
	if u.cache == nil {
		return 0, nil
	}

	boards, err := u.boardRepo.ListBoards(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, board := range boards {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if _, err := u.refresh(ctx, board.ID); err != nil {
			zap.L().Warn("Failed to preload board", zap.String("boardID", board.ID), zap.Error(err))
			continue
		}
		stored++
	}
	return stored, nil
}

// resolveAssignee maps a username to a user id, requiring membership in teamID.
func (u *boardUsecase) resolveAssignee(ctx context.Context, teamID, username string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("%w: unknown user %q", boarddomain.ErrInvalidAssignee, username)
	}

	membership, err := u.members.MembershipOf(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if membership == nil || membership.TeamID != teamID {
		return "", fmt.Errorf("%w: %q", boarddomain.ErrInvalidAssignee, username)
	}
	return user.ID, nil
}

func parseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(dueDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date must be YYYY-MM-DD", boarddomain.ErrInvalidInput)
	}
	return t, nil
}
