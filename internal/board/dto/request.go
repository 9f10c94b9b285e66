package dto

type CreateColumnRequest struct {
	Title string `json:"title" binding:"required,max=100"`
}

type UpdateColumnRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=100"`
	Sequence *int    `json:"sequence"`
}

// ReorderColumnRequest addresses the column by its current sequence.
type ReorderColumnRequest struct {
	Column   *int `json:"column" binding:"required"`
	Sequence *int `json:"sequence" binding:"required"`
}

type CreateTicketRequest struct {
	ColumnID   string  `json:"column_id" binding:"required"`
	Title      string  `json:"title" binding:"required,max=100"`
	Tag        string  `json:"tag" binding:"required"`
	Assignee   *string `json:"assignee"`
	WorkAmount float64 `json:"work_amount" binding:"gte=0"`
	DueDate    string  `json:"due_date" binding:"required"`
}

// UpdateTicketRequest leaves nil fields unchanged. An empty assignee clears it.
type UpdateTicketRequest struct {
	Title      *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Tag        *string  `json:"tag"`
	Assignee   *string  `json:"assignee"`
	WorkAmount *float64 `json:"work_amount" binding:"omitempty,gte=0"`
	DueDate    *string  `json:"due_date"`
}

type ReorderTicketRequest struct {
	Sequence *int `json:"sequence" binding:"required"`
}

// MoveTicketRequest names the destination by board position or, when set,
// by column id.
type MoveTicketRequest struct {
	Column   *int   `json:"column"`
	ColumnID string `json:"column_id"`
	Sequence *int   `json:"sequence" binding:"required"`
}
