package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	authdomain "kanban-backend/internal/auth/domain"
	boarddomain "kanban-backend/internal/board/domain"
	teamdomain "kanban-backend/internal/team/domain"
	"kanban-backend/internal/testutil"
	"kanban-backend/pkg/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	repo    BoardRepository
	boardID string
	writes  int64
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	f := &fixture{t: t, db: db, repo: NewBoardRepository(db, 3)}
	f.boardID = f.addBoard("alpha")

	count := func(tx *gorm.DB) {
		if tx.Error == nil {
			atomic.AddInt64(&f.writes, tx.RowsAffected)
		}
	}
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:count_updates", count))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:count_creates", count))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:count_deletes", count))
	return f
}

func (f *fixture) addBoard(teamName string) string {
	team := &teamdomain.Team{ID: "team-" + teamName, Name: teamName, LeaderID: "leader-" + teamName}
	require.NoError(f.t, f.db.Create(team).Error)
	board := &boarddomain.Board{ID: "board-" + teamName, TeamID: team.ID}
	require.NoError(f.t, f.db.Create(board).Error)
	return board.ID
}

func (f *fixture) addColumns(boardID string, titles ...string) []string {
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		column, err := f.repo.CreateColumn(context.Background(), boardID, title)
		require.NoError(f.t, err)
		ids = append(ids, column.ID)
	}
	return ids
}

func (f *fixture) addTickets(boardID, columnID string, titles ...string) []string {
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		ticket := &boarddomain.Ticket{
			ColumnID: columnID,
			Title:    title,
			Tag:      boarddomain.TagBackend,
			DueDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(f.t, f.repo.CreateTicket(context.Background(), boardID, ticket))
		ids = append(ids, ticket.ID)
	}
	return ids
}

type orderRow struct {
	ID       string
	Title    string
	Sequence int
}

// order returns titles of a scope by sequence after checking the scope is 1..n.
func (f *fixture) order(s scope) []string {
	var rows []orderRow
	require.NoError(f.t, s.rows(f.db).Select("id, title, sequence").Order("sequence").Scan(&rows).Error)

	items := make([]sequence.Item, 0, len(rows))
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, sequence.Item{ID: row.ID, Sequence: row.Sequence})
		titles = append(titles, row.Title)
	}
	require.True(f.t, sequence.Contiguous(items), "sequences of %s not contiguous: %+v", s.parent, rows)
	return titles
}

func (f *fixture) columns() []string {
	return f.order(columnScope(f.boardID))
}

func (f *fixture) tickets(columnID string) []string {
	return f.order(ticketScope(columnID))
}

func TestCreateAppends(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "todo", "doing")
	f.addTickets(f.boardID, cols[0], "a", "b", "c")

	assert.Equal(t, []string{"todo", "doing"}, f.columns())
	assert.Equal(t, []string{"a", "b", "c"}, f.tickets(cols[0]))
	assert.Empty(t, f.tickets(cols[1]))
}

func TestCreateTicketInForeignColumn(t *testing.T) {
	f := newFixture(t)
	otherBoard := f.addBoard("beta")
	foreign := f.addColumns(otherBoard, "theirs")

	ticket := &boarddomain.Ticket{ColumnID: foreign[0], Title: "x", Tag: boarddomain.TagQA}
	err := f.repo.CreateTicket(context.Background(), f.boardID, ticket)
	assert.ErrorIs(t, err, boarddomain.ErrNotFound)
}

func TestReorderColumnAt(t *testing.T) {
	f := newFixture(t)
	f.addColumns(f.boardID, "A", "B", "C", "D")

	require.NoError(t, f.repo.ReorderColumnAt(context.Background(), f.boardID, 1, 3))
	assert.Equal(t, []string{"B", "C", "A", "D"}, f.columns())
}

func TestReorderColumnByID(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B", "C", "D")

	require.NoError(t, f.repo.ReorderColumn(context.Background(), f.boardID, cols[3], 1))
	assert.Equal(t, []string{"D", "A", "B", "C"}, f.columns())
}

func TestUpdateColumn(t *testing.T) {
	ctx := context.Background()
	title := func(v string) *string { return &v }
	to := func(v int) *int { return &v }

	t.Run("rename and reorder", func(t *testing.T) {
		f := newFixture(t)
		cols := f.addColumns(f.boardID, "A", "B", "C")

		require.NoError(t, f.repo.UpdateColumn(ctx, f.boardID, cols[0], title("first"), to(3)))
		assert.Equal(t, []string{"B", "C", "first"}, f.columns())
	})

	t.Run("rename only", func(t *testing.T) {
		f := newFixture(t)
		cols := f.addColumns(f.boardID, "A", "B")

		require.NoError(t, f.repo.UpdateColumn(ctx, f.boardID, cols[1], title("second"), nil))
		assert.Equal(t, []string{"A", "second"}, f.columns())
	})

	tests := []struct {
		name string
		id   func(cols []string) string
		to   int
		want error
	}{
		{"beyond count", func(cols []string) string { return cols[0] }, 100, boarddomain.ErrInvalidSequence},
		{"zero", func(cols []string) string { return cols[0] }, 0, boarddomain.ErrInvalidSequence},
		{"missing column", func([]string) string { return "nope" }, 1, boarddomain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cols := f.addColumns(f.boardID, "A", "B")
			f.writes = 0

			err := f.repo.UpdateColumn(ctx, f.boardID, tt.id(cols), title("RENAMED"), to(tt.to))
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.writes)
			assert.Equal(t, []string{"A", "B"}, f.columns())
		})
	}
}

func TestReorderTicketToFront(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A")
	ids := f.addTickets(f.boardID, cols[0], "t1", "t2", "t3")

	require.NoError(t, f.repo.ReorderTicket(context.Background(), f.boardID, ids[2], 1))
	assert.Equal(t, []string{"t3", "t1", "t2"}, f.tickets(cols[0]))
}

func TestMoveTicketAcrossColumns(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B")
	a := f.addTickets(f.boardID, cols[0], "a1", "a2", "a3")
	f.addTickets(f.boardID, cols[1], "b1", "b2")

	// column B is second on the board
	err := f.repo.MoveTicket(context.Background(), f.boardID, a[0], boarddomain.Destination{Position: 2}, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "a1", "b2"}, f.tickets(cols[1]))
	assert.Equal(t, []string{"a2", "a3"}, f.tickets(cols[0]))
}

func TestMoveTicketByColumnID(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B")
	a := f.addTickets(f.boardID, cols[0], "a1", "a2", "a3")
	f.addTickets(f.boardID, cols[1], "b1", "b2")

	// the id wins over a stale position
	err := f.repo.MoveTicket(context.Background(), f.boardID, a[1], boarddomain.Destination{ColumnID: cols[1], Position: 1}, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a2", "b1", "b2"}, f.tickets(cols[1]))
	assert.Equal(t, []string{"a1", "a3"}, f.tickets(cols[0]))
}

func TestMoveTicketBounds(t *testing.T) {
	ctx := context.Background()

	t.Run("last position", func(t *testing.T) {
		f := newFixture(t)
		cols := f.addColumns(f.boardID, "A", "B")
		a := f.addTickets(f.boardID, cols[0], "a1")
		f.addTickets(f.boardID, cols[1], "b1", "b2")

		require.NoError(t, f.repo.MoveTicket(ctx, f.boardID, a[0], boarddomain.Destination{ColumnID: cols[1]}, 2))
		assert.Equal(t, []string{"b1", "a1", "b2"}, f.tickets(cols[1]))
		assert.Empty(t, f.tickets(cols[0]))
	})

	t.Run("into empty column", func(t *testing.T) {
		f := newFixture(t)
		cols := f.addColumns(f.boardID, "A", "B")
		a := f.addTickets(f.boardID, cols[0], "a1", "a2")
		f.writes = 0

		err := f.repo.MoveTicket(ctx, f.boardID, a[1], boarddomain.Destination{Position: 2}, 1)
		assert.ErrorIs(t, err, boarddomain.ErrInvalidSequence)
		assert.Zero(t, f.writes)
		assert.Empty(t, f.tickets(cols[1]))
		assert.Equal(t, []string{"a1", "a2"}, f.tickets(cols[0]))
	})

	tests := []struct {
		name string
		dest boarddomain.Destination
		to   int
		want error
	}{
		{"after last", boarddomain.Destination{Position: 2}, 3, boarddomain.ErrInvalidSequence},
		{"past the end", boarddomain.Destination{Position: 2}, 4, boarddomain.ErrInvalidSequence},
		{"zero", boarddomain.Destination{Position: 2}, 0, boarddomain.ErrInvalidSequence},
		{"negative position", boarddomain.Destination{Position: -1}, 1, boarddomain.ErrInvalidSequence},
		{"missing position", boarddomain.Destination{Position: 9}, 1, boarddomain.ErrNotFound},
		{"missing column id", boarddomain.Destination{ColumnID: "nope"}, 1, boarddomain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cols := f.addColumns(f.boardID, "A", "B")
			a := f.addTickets(f.boardID, cols[0], "a1", "a2")
			f.addTickets(f.boardID, cols[1], "b1", "b2")
			f.writes = 0

			err := f.repo.MoveTicket(ctx, f.boardID, a[0], tt.dest, tt.to)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.writes)
			assert.Equal(t, []string{"a1", "a2"}, f.tickets(cols[0]))
			assert.Equal(t, []string{"b1", "b2"}, f.tickets(cols[1]))
		})
	}
}

func TestRejectedReorderWritesNothing(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		to   int
		want error
	}{
		{"zero", 0, boarddomain.ErrInvalidSequence},
		{"negative", -3, boarddomain.ErrInvalidSequence},
		{"beyond count", 100, boarddomain.ErrInvalidSequence},
		{"one past count", 5, boarddomain.ErrInvalidSequence},
		{"same position", 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cols := f.addColumns(f.boardID, "A", "B", "C", "D")
			ids := f.addTickets(f.boardID, cols[0], "t1", "t2", "t3", "t4")
			f.writes = 0

			err := f.repo.ReorderColumn(ctx, f.boardID, cols[1], tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}

			err = f.repo.ReorderTicket(ctx, f.boardID, ids[1], tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}

			assert.Zero(t, f.writes)
			assert.Equal(t, []string{"A", "B", "C", "D"}, f.columns())
			assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, f.tickets(cols[0]))
		})
	}
}

func TestReorderColumnAtMissingSource(t *testing.T) {
	f := newFixture(t)
	f.addColumns(f.boardID, "A", "B")

	assert.ErrorIs(t, f.repo.ReorderColumnAt(context.Background(), f.boardID, 3, 1), boarddomain.ErrNotFound)
	assert.ErrorIs(t, f.repo.ReorderColumnAt(context.Background(), f.boardID, 0, 1), boarddomain.ErrInvalidSequence)
}

func TestSameColumnMoveMatchesReorder(t *testing.T) {
	ctx := context.Background()
	const n = 4
	titles := []string{"t1", "t2", "t3", "t4"}

	for from := 1; from <= n; from++ {
		for to := 1; to <= n; to++ {
			t.Run(fmt.Sprintf("%d to %d", from, to), func(t *testing.T) {
				reordered := newFixture(t)
				rc := reordered.addColumns(reordered.boardID, "A", "B")
				rids := reordered.addTickets(reordered.boardID, rc[0], titles...)
				require.NoError(t, reordered.repo.ReorderTicket(ctx, reordered.boardID, rids[from-1], to))

				moved := newFixture(t)
				mc := moved.addColumns(moved.boardID, "A", "B")
				mids := moved.addTickets(moved.boardID, mc[0], titles...)
				require.NoError(t, moved.repo.MoveTicket(ctx, moved.boardID, mids[from-1], boarddomain.Destination{Position: 1}, to))

				assert.Equal(t, reordered.tickets(rc[0]), moved.tickets(mc[0]))
			})
		}
	}
}

func TestReorderRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addColumns(f.boardID, "A", "B", "C", "D", "E")

	require.NoError(t, f.repo.ReorderColumnAt(ctx, f.boardID, 2, 5))
	assert.Equal(t, []string{"A", "C", "D", "E", "B"}, f.columns())
	require.NoError(t, f.repo.ReorderColumnAt(ctx, f.boardID, 5, 2))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, f.columns())
}

func TestDeleteTicketCompacts(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A")
	ids := f.addTickets(f.boardID, cols[0], "t1", "t2", "t3", "t4")

	require.NoError(t, f.repo.DeleteTicket(context.Background(), f.boardID, ids[1]))
	assert.Equal(t, []string{"t1", "t3", "t4"}, f.tickets(cols[0]))

	require.NoError(t, f.repo.DeleteTicket(context.Background(), f.boardID, ids[3]))
	assert.Equal(t, []string{"t1", "t3"}, f.tickets(cols[0]))
}

func TestDeleteColumnCompactsAndDropsTickets(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B", "C")
	f.addTickets(f.boardID, cols[0], "a1", "a2")

	require.NoError(t, f.repo.DeleteColumn(context.Background(), f.boardID, cols[0]))
	assert.Equal(t, []string{"B", "C"}, f.columns())

	var left int64
	require.NoError(t, f.db.Model(&boarddomain.Ticket{}).Where("column_id = ?", cols[0]).Count(&left).Error)
	assert.Zero(t, left)
}

func TestOtherBoardIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mine := f.addColumns(f.boardID, "mine")
	otherBoard := f.addBoard("beta")
	theirs := f.addColumns(otherBoard, "theirs")
	theirTicket := f.addTickets(otherBoard, theirs[0], "secret")

	assert.ErrorIs(t, f.repo.ReorderTicket(ctx, f.boardID, theirTicket[0], 1), boarddomain.ErrNotFound)
	assert.ErrorIs(t, f.repo.DeleteTicket(ctx, f.boardID, theirTicket[0]), boarddomain.ErrNotFound)
	assert.ErrorIs(t, f.repo.DeleteColumn(ctx, f.boardID, theirs[0]), boarddomain.ErrNotFound)
	assert.ErrorIs(t, f.repo.MoveTicket(ctx, f.boardID, theirTicket[0], boarddomain.Destination{ColumnID: mine[0]}, 1), boarddomain.ErrNotFound)
	assert.ErrorIs(t, f.repo.ReorderColumn(ctx, "no-such-board", mine[0], 1), boarddomain.ErrNotFound)

	assert.Equal(t, []string{"secret"}, f.order(ticketScope(theirs[0])))
}

func TestUpdateTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := &authdomain.User{ID: "u1", Username: "alice"}
	require.NoError(t, f.db.Create(user).Error)
	cols := f.addColumns(f.boardID, "A")
	ids := f.addTickets(f.boardID, cols[0], "t1")

	title := "renamed"
	tag := boarddomain.TagDesign
	work := 2.5
	require.NoError(t, f.repo.UpdateTicket(ctx, f.boardID, ids[0], boarddomain.TicketFields{
		Title:      &title,
		Tag:        &tag,
		AssigneeID: &user.ID,
		WorkAmount: &work,
	}))

	board, err := f.repo.LoadAggregate(ctx, f.boardID)
	require.NoError(t, err)
	ticket := board.Columns[0].Tickets[0]
	assert.Equal(t, "renamed", ticket.Title)
	assert.Equal(t, boarddomain.TagDesign, ticket.Tag)
	assert.Equal(t, 2.5, ticket.WorkAmount)
	require.NotNil(t, ticket.Assignee)
	assert.Equal(t, "alice", ticket.Assignee.Username)

	require.NoError(t, f.repo.UpdateTicket(ctx, f.boardID, ids[0], boarddomain.TicketFields{ClearAssignee: true}))
	board, err = f.repo.LoadAggregate(ctx, f.boardID)
	require.NoError(t, err)
	assert.Nil(t, board.Columns[0].Tickets[0].AssigneeID)
}

func TestLoadAggregateOrdersBySequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B", "C")
	ids := f.addTickets(f.boardID, cols[1], "b1", "b2", "b3")
	require.NoError(t, f.repo.ReorderColumn(ctx, f.boardID, cols[2], 1))
	require.NoError(t, f.repo.ReorderTicket(ctx, f.boardID, ids[0], 3))

	board, err := f.repo.LoadAggregate(ctx, f.boardID)
	require.NoError(t, err)
	require.NotNil(t, board.Team)
	assert.Equal(t, "alpha", board.Team.Name)

	var columnTitles []string
	for _, c := range board.Columns {
		columnTitles = append(columnTitles, c.Title)
	}
	assert.Equal(t, []string{"C", "A", "B"}, columnTitles)

	var ticketTitles []string
	for _, tk := range board.Columns[2].Tickets {
		ticketTitles = append(ticketTitles, tk.Title)
	}
	assert.Equal(t, []string{"b2", "b3", "b1"}, ticketTitles)
}

func TestStorageFailureIsWrapped(t *testing.T) {
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B")

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = f.repo.ReorderColumn(context.Background(), f.boardID, cols[0], 2)
	assert.ErrorIs(t, err, boarddomain.ErrStorage)
	assert.NotErrorIs(t, err, boarddomain.ErrNotFound)
}

func TestMoveTicketRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	injected := errors.New("injected")

	// a move from A into B at 1 writes: shift B, reassign a1, renumber a2, renumber a3
	for failAt := int64(1); failAt <= 4; failAt++ {
		t.Run(fmt.Sprintf("fail on update %d", failAt), func(t *testing.T) {
			f := newFixture(t)
			cols := f.addColumns(f.boardID, "A", "B")
			a := f.addTickets(f.boardID, cols[0], "a1", "a2", "a3")
			f.addTickets(f.boardID, cols[1], "b1", "b2")

			var updates int64
			var armed atomic.Bool
			armed.Store(true)
			failing := func(tx *gorm.DB) {
				if armed.Load() && atomic.AddInt64(&updates, 1) == failAt {
					_ = tx.AddError(injected)
				}
			}
			require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_update", failing))

			err := f.repo.MoveTicket(ctx, f.boardID, a[0], boarddomain.Destination{ColumnID: cols[1]}, 1)
			assert.ErrorIs(t, err, boarddomain.ErrStorage)
			assert.ErrorIs(t, err, injected)

			armed.Store(false)
			assert.Equal(t, []string{"a1", "a2", "a3"}, f.tickets(cols[0]))
			assert.Equal(t, []string{"b1", "b2"}, f.tickets(cols[1]))

			require.NoError(t, f.repo.MoveTicket(ctx, f.boardID, a[0], boarddomain.Destination{ColumnID: cols[1]}, 1))
			assert.Equal(t, []string{"a2", "a3"}, f.tickets(cols[0]))
			assert.Equal(t, []string{"a1", "b1", "b2"}, f.tickets(cols[1]))
		})
	}
}

func TestConcurrentReordersKeepSequencesContiguous(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cols := f.addColumns(f.boardID, "A", "B", "C")
	var tickets []string
	for i, col := range cols {
		for j := 0; j < 4; j++ {
			tickets = append(tickets, f.addTickets(f.boardID, col, fmt.Sprintf("t%d%d", i, j))...)
		}
	}

	const workers, rounds = 6, 25
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rnd := rand.New(rand.NewSource(int64(w)))
		g.Go(func() error {
			for i := 0; i < rounds; i++ {
				ticket := tickets[rnd.Intn(len(tickets))]
				to := rnd.Intn(6) + 1
				var err error
				switch rnd.Intn(3) {
				case 0:
					err = f.repo.ReorderTicket(gctx, f.boardID, ticket, to)
				case 1:
					dest := boarddomain.Destination{ColumnID: cols[rnd.Intn(len(cols))]}
					err = f.repo.MoveTicket(gctx, f.boardID, ticket, dest, to)
				default:
					err = f.repo.ReorderColumn(gctx, f.boardID, cols[rnd.Intn(len(cols))], rnd.Intn(3)+1)
				}
				// out-of-range targets are expected; anything else is not
				if err != nil && !errors.Is(err, boarddomain.ErrInvalidSequence) {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, f.columns(), len(cols))
	total := 0
	for _, col := range cols {
		total += len(f.tickets(col))
	}
	assert.Equal(t, len(tickets), total)
}
