package dto

import (
	boarddomain "kanban-backend/internal/board/domain"
)

const dateLayout = "2006-01-02"

// BoardView is the response shape of a board: collections keyed by position
// with titles as fields.
type BoardView struct {
	ID      string       `json:"id"`
	Team    string       `json:"team"`
	Columns []ColumnView `json:"columns"`
}

type ColumnView struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Sequence int          `json:"sequence"`
	Tickets  []TicketView `json:"tickets"`
}

type TicketView struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Tag        string  `json:"tag"`
	Assignee   *string `json:"assignee"`
	WorkAmount float64 `json:"work_amount"`
	DueDate    string  `json:"due_date"`
	Sequence   int     `json:"sequence"`
}

// NewBoardView builds the view of a loaded board aggregate.
func NewBoardView(board *boarddomain.Board) *BoardView {
	view := &BoardView{
		ID:      board.ID,
		Columns: make([]ColumnView, 0, len(board.Columns)),
	}
	if board.Team != nil {
		view.Team = board.Team.Name
	}

	for _, column := range board.Columns {
		cv := ColumnView{
			ID:       column.ID,
			Title:    column.Title,
			Sequence: column.Sequence,
			Tickets:  make([]TicketView, 0, len(column.Tickets)),
		}
		for _, ticket := range column.Tickets {
			tv := TicketView{
				ID:         ticket.ID,
				Title:      ticket.Title,
				Tag:        string(ticket.Tag),
				WorkAmount: ticket.WorkAmount,
				DueDate:    ticket.DueDate.Format(dateLayout),
				Sequence:   ticket.Sequence,
			}
			if ticket.Assignee != nil {
				username := ticket.Assignee.Username
				tv.Assignee = &username
			}
			cv.Tickets = append(cv.Tickets, tv)
		}
		view.Columns = append(view.Columns, cv)
	}
	return view
}

// TitleKeyedBoard is the legacy response shape where columns and tickets are
// keyed by title. Same-titled siblings collapse to the last one.
type TitleKeyedBoard struct {
	Team    string                      `json:"team"`
	Columns map[string]TitleKeyedColumn `json:"column"`
}

type TitleKeyedColumn struct {
	ID       string                      `json:"id"`
	Sequence int                         `json:"sequence"`
	Tickets  map[string]TitleKeyedTicket `json:"tickets"`
}

type TitleKeyedTicket struct {
	ID         string  `json:"id"`
	Tag        string  `json:"tag"`
	Assignee   *string `json:"assignee"`
	WorkAmount float64 `json:"work_amount"`
	DueDate    string  `json:"due_date"`
	Sequence   int     `json:"sequence"`
}

// TitleKeyed converts the view to the legacy shape.
func (v *BoardView) TitleKeyed() *TitleKeyedBoard {
	out := &TitleKeyedBoard{
		Team:    v.Team,
		Columns: make(map[string]TitleKeyedColumn, len(v.Columns)),
	}
	for _, column := range v.Columns {
		tickets := make(map[string]TitleKeyedTicket, len(column.Tickets))
		for _, ticket := range column.Tickets {
			tickets[ticket.Title] = TitleKeyedTicket{
				ID:         ticket.ID,
				Tag:        ticket.Tag,
				Assignee:   ticket.Assignee,
				WorkAmount: ticket.WorkAmount,
				DueDate:    ticket.DueDate,
				Sequence:   ticket.Sequence,
			}
		}
		out.Columns[column.Title] = TitleKeyedColumn{
			ID:       column.ID,
			Sequence: column.Sequence,
			Tickets:  tickets,
		}
	}
	return out
}
