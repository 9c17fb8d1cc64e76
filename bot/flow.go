package bot

import (
	"fmt"
	"strings"

	"citybot/core/telegram/format"
	"citybot/core/telegram/state"

	"github.com/google/uuid"
)

// Conversation states of the request flow. A chat with no session is idle.
const (
	StateAwaitingService  state.State = "awaiting_service"
	StateAwaitingLocation state.State = "awaiting_location"
)

// Keyboard selects which markup accompanies a flow reply.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardServices
	KeyboardLocation
	KeyboardRemove
)

// Reply is one outbound message produced by the flow engine. Edit marks
// replies that should replace the message carrying the pressed button.
type Reply struct {
	Text      string
	Keyboard  Keyboard
	Edit      bool
	NoPreview bool
}

// Flow drives the request conversation: /start -> pick a service -> submit a
// location -> confirmation. It owns no transport; every operation takes a chat
// ID, mutates the session store, and returns the messages to send, which keeps
// the conversation logic testable without a live bot.
type Flow struct {
	sessions state.Manager
	newRef   func() string
}

// NewFlow builds a Flow on top of the given session store.
func NewFlow(sessions state.Manager) *Flow {
	return &Flow{
		sessions: sessions,
		newRef:   uuid.NewString,
	}
}

// Start begins (or restarts) the flow for a chat. Any in-progress session is
// overwritten: the service selection is dropped and the chat moves to
// awaiting a service choice.
func (f *Flow) Start(chatID int64, firstName string) Reply {
	f.sessions.Clear(chatID)
	f.sessions.SetState(chatID, StateAwaitingService)
	return Reply{
		Text:     welcomeMessage(firstName),
		Keyboard: KeyboardServices,
	}
}

// SelectService handles a service button press. It only applies while the
// chat awaits a service choice; stale presses from older keyboards report
// ok=false and must be ignored by the caller.
func (f *Flow) SelectService(chatID int64, data string) ([]Reply, bool) {
	if f.sessions.GetState(chatID) != StateAwaitingService {
		return nil, false
	}
	cat, ok := ParseService(data)
	if !ok {
		return nil, false
	}

	f.sessions.SetService(chatID, string(cat))
	f.sessions.SetState(chatID, StateAwaitingLocation)

	return []Reply{
		{Text: serviceSelectedMessage(cat.Label()), Edit: true},
		{Text: locationPromptText, Keyboard: KeyboardLocation},
	}, true
}

// SubmitText handles free text while a location is awaited. The cancel button
// label aborts the flow; any other non-empty text becomes the location and
// completes the request.
func (f *Flow) SubmitText(chatID int64, text string) (Reply, bool) {
	if f.sessions.GetState(chatID) != StateAwaitingLocation {
		return Reply{}, false
	}

	text = strings.TrimSpace(text)
	if text == cancelLabel {
		return f.Cancel(chatID), true
	}
	if text == "" {
		return Reply{}, false
	}

	return f.confirm(chatID, format.EscapeMarkdown(text), false), true
}

// SubmitCoordinates handles a shared GPS location while one is awaited. The
// confirmation links the coordinates to an online map.
func (f *Flow) SubmitCoordinates(chatID int64, lat, lon float64) (Reply, bool) {
	if f.sessions.GetState(chatID) != StateAwaitingLocation {
		return Reply{}, false
	}

	mapsLink := fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon)
	rendered := fmt.Sprintf("[%.6f, %.6f](%s)", lat, lon, mapsLink)
	reply := f.confirm(chatID, rendered, true)
	return reply, true
}

// Cancel aborts the flow from any state and clears the session.
func (f *Flow) Cancel(chatID int64) Reply {
	f.sessions.Clear(chatID)
	return Reply{
		Text:     cancelledText,
		Keyboard: KeyboardRemove,
	}
}

func (f *Flow) confirm(chatID int64, renderedLocation string, noPreview bool) Reply {
	label := ServiceCategory("").Label()
	if svc, ok := f.sessions.Service(chatID); ok {
		label = ServiceCategory(svc).Label()
	}
	reference := f.newRef()
	f.sessions.Clear(chatID)

	return Reply{
		Text:      confirmationMessage(label, renderedLocation, reference),
		Keyboard:  KeyboardRemove,
		NoPreview: noPreview,
	}
}
