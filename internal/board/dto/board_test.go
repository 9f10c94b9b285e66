package dto

import (
	"encoding/json"
	"testing"
	"time"

	authdomain "kanban-backend/internal/auth/domain"
	boarddomain "kanban-backend/internal/board/domain"
	teamdomain "kanban-backend/internal/team/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard() *boarddomain.Board {
	assignee := "u1"
	return &boarddomain.Board{
		ID:   "b1",
		Team: &teamdomain.Team{Name: "alpha"},
		Columns: []boarddomain.Column{
			{
				ID: "c1", Title: "todo", Sequence: 1,
				Tickets: []boarddomain.Ticket{
					{
						ID: "t1", Title: "login page", Tag: boarddomain.TagFrontend, Sequence: 1,
						AssigneeID: &assignee, Assignee: &authdomain.User{ID: "u1", Username: "alice"},
						WorkAmount: 1.5, DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
					},
					{
						ID: "t2", Title: "api", Tag: boarddomain.TagBackend, Sequence: 2,
						DueDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
					},
				},
			},
			{ID: "c2", Title: "done", Sequence: 2},
		},
	}
}

func TestNewBoardView(t *testing.T) {
	view := NewBoardView(sampleBoard())

	assert.Equal(t, "alpha", view.Team)
	require.Len(t, view.Columns, 2)
	assert.Equal(t, "todo", view.Columns[0].Title)
	require.Len(t, view.Columns[0].Tickets, 2)

	first := view.Columns[0].Tickets[0]
	require.NotNil(t, first.Assignee)
	assert.Equal(t, "alice", *first.Assignee)
	assert.Equal(t, "2024-05-01", first.DueDate)
	assert.Nil(t, view.Columns[0].Tickets[1].Assignee)

	// empty columns serialize as [] rather than null
	raw, err := json.Marshal(view.Columns[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tickets":[]`)
}

func TestTitleKeyed(t *testing.T) {
	raw, err := json.Marshal(NewBoardView(sampleBoard()).TitleKeyed())
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "alpha", got["team"])

	columns := got["column"].(map[string]interface{})
	todo := columns["todo"].(map[string]interface{})
	assert.Equal(t, "c1", todo["id"])
	assert.EqualValues(t, 1, todo["sequence"])

	tickets := todo["tickets"].(map[string]interface{})
	login := tickets["login page"].(map[string]interface{})
	assert.Equal(t, "FE", login["tag"])
	assert.Equal(t, "alice", login["assignee"])
	assert.EqualValues(t, 1.5, login["work_amount"])
	assert.Equal(t, "2024-05-01", login["due_date"])

	api := tickets["api"].(map[string]interface{})
	assert.Nil(t, api["assignee"])
}

func TestTitleKeyedCollapsesDuplicateTitles(t *testing.T) {
	board := sampleBoard()
	board.Columns[0].Tickets[1].Title = "login page"

	legacy := NewBoardView(board).TitleKeyed()
	assert.Len(t, legacy.Columns["todo"].Tickets, 1)
	assert.Equal(t, "t2", legacy.Columns["todo"].Tickets["login page"].ID)
}
