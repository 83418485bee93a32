package domain

// Payloads pushed to clients. The wire format is `|` delimited, no escaping.
const (
	EventJoin  = "game|join"
	EventQuit  = "game|quit"
	EventStart = "game|start"
	EventEnd   = "game|end"
)

func PlayerUpdate(id MemberID) string {
	return "player|playerUpdate|" + string(id)
}
