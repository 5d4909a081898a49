package session

import "github.com/undercover-bot/undercover/internal/models"

type SaveInput struct {
	Session *models.Session
}

type GetInput struct {
	SessionID string
}

type DeleteInput struct {
	SessionID string
}

type ExistsInput struct {
	SessionID string
}
