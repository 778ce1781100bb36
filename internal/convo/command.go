package convo

import "strings"

// Command is a global keyword that short-circuits the dialog flow no matter
// which stage the conversation is in.
type Command int

const (
	CmdNone Command = iota
	CmdGreeting
	CmdHelp
	CmdMenu
	CmdExit
	CmdJoin
	CmdTest
	CmdDiag
)

// ParseCommand recognizes the global keywords, case-insensitively. Only the
// chat channel carries free text, so the interceptor applies there; voice
// equivalents arrive as call-status events.
func ParseCommand(text string) Command {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "hello", "hi", "hlo":
		return CmdGreeting
	case "help":
		return CmdHelp
	case "menu":
		return CmdMenu
	case "exit", "reset":
		return CmdExit
	case "test":
		return CmdTest
	case "debug api", "ping":
		return CmdDiag
	}
	if strings.HasPrefix(t, "join") {
		return CmdJoin
	}
	return CmdNone
}
