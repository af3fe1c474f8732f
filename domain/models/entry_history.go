package models

import "time"

// EntryHistory is one logged check-in event. Rows are created on check-in and
// never mutated. AccountID is indexed but not constrained: external importers
// write rows with the sentinel account id.
type EntryHistory struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	AccountID int64     `gorm:"index;not null" json:"account_id"`
	FaceImage string    `gorm:"size:255" json:"face_image"`
	EnterAt   time.Time `gorm:"column:enter_at;autoCreateTime" json:"enter_at"`
}

func (EntryHistory) TableName() string {
	return "tbl_enter_history"
}
