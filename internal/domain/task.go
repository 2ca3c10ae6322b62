package domain

import "time"

type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ChannelLink string    `db:"channel_link" json:"channel_link"`
	ChannelID   string    `db:"channel_id" json:"channel_id"`
	Reward      float64   `db:"reward" json:"reward"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
