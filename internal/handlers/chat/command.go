package chat

import (
	"strings"

	"github.com/undercover-bot/undercover/internal/apperr"
)

// CommandKind enumerates the closed set of user commands. Free text is
// decoded into one of these exactly once, at this boundary; everything
// below works with typed requests.
type CommandKind string

const (
	CommandCreate CommandKind = "create"
	CommandJoin   CommandKind = "join"
	CommandStart  CommandKind = "start"
	CommandVote   CommandKind = "vote"
	CommandEnd    CommandKind = "end"
	CommandStatus CommandKind = "status"
	CommandWord   CommandKind = "word"
	CommandHelp   CommandKind = "help"
)

// Command is one decoded user command
type Command struct {
	Kind CommandKind

	// Arg is the session id for join, the target for vote, empty otherwise
	Arg string
}

// Parse decodes free text into a Command. Matching is case-insensitive;
// join and vote require an argument.
func Parse(text string) (*Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return nil, apperr.UnknownCommand(text)
	}

	kind := CommandKind(fields[0])
	arg := strings.Join(fields[1:], " ")

	switch kind {
	case CommandCreate, CommandStart, CommandEnd, CommandStatus, CommandWord, CommandHelp:
		return &Command{Kind: kind}, nil

	case CommandJoin:
		if arg == "" {
			return nil, apperr.New(apperr.KindClient, apperr.CodeUnknownCommand,
				"Which room? Send 'join <room code>'.")
		}
		return &Command{Kind: kind, Arg: arg}, nil

	case CommandVote:
		if arg == "" {
			return nil, apperr.New(apperr.KindClient, apperr.CodeUnknownCommand,
				"Who? Send 'vote <number>' or 'vote <name>'.")
		}
		return &Command{Kind: kind, Arg: arg}, nil

	default:
		return nil, apperr.UnknownCommand(text)
	}
}
