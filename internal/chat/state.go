package chat

// State is the closed set of conversation states. Dispatch is a
// switch over this enum, so an unhandled state is a compile-time
// smell instead of a stray map key.
type State int

const (
	// StateMainMenu shows the four-option menu.
	StateMainMenu State = iota
	// StateAwaitingName waits for a first-time caller's name.
	StateAwaitingName
	// StateChoosingBarber waits for a 1-based barber index.
	StateChoosingBarber
	// StateChoosingSlot waits for a 1-based index into the offered slots.
	StateChoosingSlot
	// StateAwaitingCancelID waits for an appointment id to cancel.
	StateAwaitingCancelID
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main_menu"
	case StateAwaitingName:
		return "awaiting_name"
	case StateChoosingBarber:
		return "choosing_barber"
	case StateChoosingSlot:
		return "choosing_slot"
	case StateAwaitingCancelID:
		return "awaiting_cancel_id"
	default:
		return "unknown"
	}
}

// Session is the per-caller dialogue state between messages. It lives
// in the session store, keyed by the normalized phone number, and is
// gone after a process restart unless a redis store is configured.
type Session struct {
	ClientID     int64    `json:"client_id"`
	State        State    `json:"state"`
	Barber       string   `json:"barber,omitempty"`
	OfferedSlots []string `json:"offered_slots,omitempty"`
}
