package state

import (
	"log/slog"

	"citybot/core/logger"
	tghelpers "citybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

var fsmHandlers = map[State]tele.HandlerFunc{}

// RegisterHandler associates a state with the handler invoked for incoming
// messages while a chat sits in that state.
func RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	fsmHandlers[st] = h
}

// dispatch executes the handler registered for the chat's current state, if any.
func dispatch(m Manager, c tele.Context) error {
	chatID := chatIDOf(c)
	current := m.GetState(chatID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}

func chatIDOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}
