package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// Commands are restricted by the access middleware unless Public is set.
// Aliases are matched against plain message text, e.g. reply keyboard labels.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Public      bool
	Hidden      bool
	Aliases     []string
}
