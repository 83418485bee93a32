package orch

import "strings"

type CommandKind int

const (
	CmdUnknown CommandKind = iota
	// CmdStructured is a `{`-prefixed frame, reserved and only logged.
	CmdStructured
	CmdGameNew
	CmdGameStart
	CmdGameEnd
	CmdPlayerChangeName
)

func (k CommandKind) String() string {
	switch k {
	case CmdStructured:
		return "structured"
	case CmdGameNew:
		return "game|new"
	case CmdGameStart:
		return "game|start"
	case CmdGameEnd:
		return "game|end"
	case CmdPlayerChangeName:
		return "player|changeName"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind CommandKind
	Args []string
}

// ParseCommand reads `<family>|<action>|<args...>`. Matching is case-sensitive.
// Anything it does not recognise, including missing arguments, is CmdUnknown.
func ParseCommand(text string) Command {
	if strings.HasPrefix(text, "{") {
		return Command{Kind: CmdStructured, Args: []string{text}}
	}
	parts := strings.Split(text, "|")
	if len(parts) < 2 {
		return Command{Kind: CmdUnknown}
	}
	family, action, args := parts[0], parts[1], parts[2:]

	switch family {
	case "game":
		switch action {
		case "new":
			return Command{Kind: CmdGameNew}
		case "start":
			return Command{Kind: CmdGameStart}
		case "end":
			return Command{Kind: CmdGameEnd}
		}
	case "player":
		switch action {
		case "changeName":
			if len(args) == 0 {
				return Command{Kind: CmdUnknown}
			}
			return Command{Kind: CmdPlayerChangeName, Args: args[:1]}
		}
	}
	return Command{Kind: CmdUnknown}
}
