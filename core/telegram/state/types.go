package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step in a conversation.
type State string

const (
	// StateIdle indicates there is no active conversation with the chat.
	StateIdle State = "idle"
)

// Session stores the conversation position for a single chat. Service holds
// the category chosen earlier in the flow, empty until one is selected.
type Session struct {
	State   State
	Service string
}

// Manager orchestrates per-chat sessions and FSM state transitions. Sessions
// are keyed by chat ID and fully isolated from one another; each chat has at
// most one flow in progress.
type Manager interface {
	GetState(chatID int64) State
	SetState(chatID int64, st State)
	SetService(chatID int64, service string)
	Service(chatID int64) (string, bool)
	Clear(chatID int64)

	InProgress(chatID int64) bool
	ActiveCount() int
	ManagerHandler(c tele.Context) error
}
