package repository

import (
	"kanban-backend/pkg/sequence"

	"gorm.io/gorm"
)

const (
	columnsTable = "board_columns"
	ticketsTable = "tickets"
)

// scope is one ordered collection: the rows of table whose key column equals parent.
type scope struct {
	table  string
	key    string
	parent string
}

func columnScope(boardID string) scope {
	return scope{table: columnsTable, key: "board_id", parent: boardID}
}

func ticketScope(columnID string) scope {
	return scope{table: ticketsTable, key: "column_id", parent: columnID}
}

func (s scope) rows(tx *gorm.DB) *gorm.DB {
	return tx.Table(s.table).Where(s.key+" = ?", s.parent)
}

func (s scope) count(tx *gorm.DB) (int, error) {
	var n int64
	err := s.rows(tx).Count(&n).Error
	return int(n), err
}

// next is the sequence a new item gets: one past the current maximum.
func (s scope) next(tx *gorm.DB) (int, error) {
	var max int
	err := s.rows(tx).Select("COALESCE(MAX(sequence), 0)").Scan(&max).Error
	return max + 1, err
}

// shift applies sh as a single ranged update, leaving except untouched.
func (s scope) shift(tx *gorm.DB, sh sequence.Shift, except string) error {
	if sh.Empty() {
		return nil
	}
	q := s.rows(tx).Where("sequence BETWEEN ? AND ?", sh.Low, sh.High)
	if except != "" {
		q = q.Where("id <> ?", except)
	}
	return q.UpdateColumn("sequence", gorm.Expr("sequence + ?", sh.Delta)).Error
}

func (s scope) place(tx *gorm.DB, id string, seq int) error {
	return tx.Table(s.table).Where("id = ?", id).UpdateColumn("sequence", seq).Error
}

// reorder moves id from one sequence to another inside the scope. The bound
// check happens before the first write.
func (s scope) reorder(tx *gorm.DB, id string, from, to int) error {
	count, err := s.count(tx)
	if err != nil {
		return err
	}
	if err := sequence.Validate(to, count); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if err := s.shift(tx, sequence.Reorder(from, to), id); err != nil {
		return err
	}
	return s.place(tx, id, to)
}

// compact renumbers the remaining rows to 1..n in their current order,
// writing only the rows whose value changes.
func (s scope) compact(tx *gorm.DB) error {
	var items []sequence.Item
	if err := s.rows(tx).Select("id, sequence").Order("sequence").Scan(&items).Error; err != nil {
		return err
	}
	for _, item := range sequence.Renumber(items) {
		if err := s.place(tx, item.ID, item.Sequence); err != nil {
			return err
		}
	}
	return nil
}
