package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          string // ULID
	UserID      uuid.UUID
	CreatedAt   time.Time
	ModifiedAt  time.Time
	Title       string
	Description string
	Ingredients string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
}
