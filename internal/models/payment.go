package models

import "time"

type AdminReviewItem struct {
	ChatID         int64     `db:"chat_id"`
	AdminMessageID int       `db:"message_id"`
	CreatedAt      time.Time `db:"created_at"`
}

type PaidUser struct {
	ChatID int64     `db:"chat_id"`
	PaidAt time.Time `db:"paid_at"`
}

type CooldownEntry struct {
	ChatID int64
	Action string
	LastAt time.Time
}
