package player

import "github.com/undercover-bot/undercover/internal/models"

type SaveInput struct {
	Player *models.Player
}

type GetInput struct {
	PlayerID string
}
