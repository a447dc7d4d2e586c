// internal/models/context.go
package models

import "github.com/google/uuid"

// ActionContext identifies who is acting on which game. Every processor's
// first validation step resolves this pair against current game state; a
// stale or invalid context yields a rejection, never a partial mutation.
type ActionContext struct {
	GameID uuid.UUID `json:"gameId"`
	UserID uuid.UUID `json:"userId"`
}
