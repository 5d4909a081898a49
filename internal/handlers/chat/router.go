// Package chat routes parsed user messages to the game service and turns
// results and errors into reply text. It is the catch-all boundary: a
// reply always comes back, whatever fails underneath.
package chat

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/undercover-bot/undercover/internal/apperr"
	"github.com/undercover-bot/undercover/internal/services/game"
)

const helpText = `Undercover — who is the impostor?
create            start a new room
join <code>       join a room
start             begin the game (owner only)
vote <n|name>     eliminate a player (owner only)
word              see your secret word again
status            show the room
end               end the game early (owner only)`

// Router maps decoded commands to game service calls
type Router struct {
	gameService game.Service
}

// Config holds configuration for the router
type Config struct {
	// GameService handles the decoded commands
	GameService game.Service
}

// NewRouter creates a new command router
func NewRouter(cfg *Config) (*Router, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	return &Router{gameService: cfg.GameService}, nil
}

// Handle processes one inbound message and always returns a reply for the
// invoking user, even when the command fails internally.
func (r *Router) Handle(ctx context.Context, userID, text string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Any("panic", rec).
				Str("user_id", userID).
				Msg("panic while handling command")
			reply = apperr.UserMessage(nil)
		}
	}()

	cmd, err := Parse(text)
	if err != nil {
		log.Warn().
			Str("user_id", userID).
			Str("text", text).
			Str("code", apperr.CodeOf(err)).
			Msg("unparseable command")
		return apperr.UserMessage(err)
	}

	reply, err = r.route(ctx, userID, cmd)
	if err != nil {
		return r.replyForError(userID, cmd, err)
	}

	return reply
}

func (r *Router) route(ctx context.Context, userID string, cmd *Command) (string, error) {
	switch cmd.Kind {
	case CommandCreate:
		out, err := r.gameService.CreateSession(ctx, &game.CreateSessionInput{PlayerID: userID})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandJoin:
		out, err := r.gameService.JoinSession(ctx, &game.JoinSessionInput{PlayerID: userID, SessionID: cmd.Arg})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandStart:
		out, err := r.gameService.StartSession(ctx, &game.StartSessionInput{PlayerID: userID})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandVote:
		out, err := r.gameService.VotePlayer(ctx, &game.VotePlayerInput{PlayerID: userID, Target: cmd.Arg})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandEnd:
		out, err := r.gameService.EndSession(ctx, &game.EndSessionInput{PlayerID: userID})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandStatus:
		out, err := r.gameService.GetStatus(ctx, &game.GetStatusInput{PlayerID: userID})
		if err != nil {
			return "", err
		}
		return out.Message, nil

	case CommandWord:
		out, err := r.gameService.GetWord(ctx, &game.GetWordInput{PlayerID: userID})
		if err != nil {
			return "", err
		}
		return "Your word: " + out.Word, nil

	case CommandHelp:
		return helpText, nil

	default:
		return "", apperr.UnknownCommand(string(cmd.Kind))
	}
}

// replyForError logs by tier and converts the error to user-facing text.
// Server faults get the full cause chain at error level; business and
// request failures are expected outcomes and log at warn without one.
func (r *Router) replyForError(userID string, cmd *Command, err error) string {
	if apperr.KindOf(err) == apperr.KindServer {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("command", string(cmd.Kind)).
			Str("code", apperr.CodeOf(err)).
			Msg("command failed")
	} else {
		log.Warn().
			Str("user_id", userID).
			Str("command", string(cmd.Kind)).
			Str("code", apperr.CodeOf(err)).
			Str("reason", err.Error()).
			Msg("command rejected")
	}

	return apperr.UserMessage(err)
}
