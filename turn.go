package dumpchat

import "context"

// Role is the author of a turn.
type Role string

// Turn roles. RoleUnknown is only ever a hint for a copy control whose
// surroundings do not identify its author.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleUnknown   Role = "unknown"
)

// Turn is one message slot of a conversation in document order.
type Turn struct {
	// Index is the turn's position among discovered turns. Captures and
	// reads are attributed by Index, never by position in a filtered list.
	Index int
	Role  Role
	// Root is the turn container.
	Root Element
	// CopyControl triggers a clipboard write of the turn's text. Nil when
	// the turn has none.
	CopyControl Element
}

// TurnDiscoverer finds the turns of a conversation page.
type TurnDiscoverer interface {
	// DiscoverTurns returns visible turns in document order with their
	// roles and copy controls. Turns of unknown role are omitted.
	DiscoverTurns(ctx context.Context, page Page) ([]*Turn, error)
}
