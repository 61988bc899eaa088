package model

import (
	"time"
)

// Entity is implemented by every stored record.
type Entity interface {
	TableName() string
}

// Keyed marks entities addressable by a unique business key (registry,
// badge number, natural name) in addition to their primary key.
type Keyed interface {
	Entity
	KeyColumn() string
}

// Identifiable lets the persistence layer assign a primary key when the
// caller did not supply one.
type Identifiable interface {
	EnsureID()
}

// Stampable lets the persistence layer set audit timestamps on insert.
type Stampable interface {
	StampCreate(now time.Time)
}

// Base contains the audit timestamps shared by all mutable records.
// created_at is write-once, updated_at is touched on every update.
type Base struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (b *Base) StampCreate(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now
}

// PageInfo describes one page of a larger result set.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
