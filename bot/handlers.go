package bot

import (
	"fmt"
	"time"

	"citybot/core/logger"
	"citybot/core/telegram/callbacks"
	tghelpers "citybot/core/telegram/helpers"
	"citybot/core/telegram/keyboard"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func chatIDOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}

func firstNameOf(c tele.Context) string {
	if sender := c.Sender(); sender != nil {
		return sender.FirstName
	}
	return ""
}

// sendReply renders one flow reply over the Telegram transport.
func sendReply(c tele.Context, r Reply) error {
	var markup *tele.ReplyMarkup
	switch r.Keyboard {
	case KeyboardServices:
		markup = ServicesKeyboard()
	case KeyboardLocation:
		markup = LocationKeyboard()
	case KeyboardRemove:
		markup = keyboard.RemoveKeyboard()
	}

	if r.Edit {
		return tghelpers.EditMD(c, r.Text, markupArg(markup)...)
	}

	opts := &tele.SendOptions{
		ParseMode:             tele.ModeMarkdown,
		ReplyMarkup:           markup,
		DisableWebPagePreview: r.NoPreview,
	}
	return tghelpers.SendText(c, r.Text, opts)
}

func markupArg(m *tele.ReplyMarkup) []*tele.ReplyMarkup {
	if m == nil {
		return nil
	}
	return []*tele.ReplyMarkup{m}
}

func (a *App) onStart(c tele.Context) error {
	chatID := chatIDOf(c)
	reply := a.flow.Start(chatID, firstNameOf(c))

	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "flow", "flow.start",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
	)
	return sendReply(c, reply)
}

func (a *App) onCancel(c tele.Context) error {
	chatID := chatIDOf(c)
	reply := a.flow.Cancel(chatID)

	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "flow", "flow.cancel",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
	)
	return sendReply(c, reply)
}

func (a *App) onHelp(c tele.Context) error {
	return tghelpers.SendMD(c, helpText)
}

// onServiceSelected handles presses of the service inline buttons. Stale
// presses from keyboards of finished flows are ignored; the router has
// already answered the callback.
func (a *App) onServiceSelected(c tele.Context) error {
	chatID := chatIDOf(c)
	payload := callbacks.CallbackPayload(c)

	replies, ok := a.flow.SelectService(chatID, payload)
	ctx := tghelpers.BuildContext(c)
	if !ok {
		logger.Info(ctx, "flow", "flow.select_service",
			slog.String("status", "skip"),
			slog.Int64("chat_id", chatID),
			slog.String("service", logger.SanitizeLimit(payload, 32)),
			slog.String("reason", "stale_or_unknown"),
		)
		return nil
	}

	logger.Info(ctx, "flow", "flow.select_service",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("service", payload),
	)
	for _, r := range replies {
		if err := sendReply(c, r); err != nil {
			return err
		}
	}
	return nil
}

// onAwaitingService answers free text sent while a service choice is pending.
func (a *App) onAwaitingService(c tele.Context) error {
	return tghelpers.SendText(c, useButtonsText)
}

// onIdleText answers free text from chats with no flow in progress.
func (a *App) onIdleText(c tele.Context) error {
	return tghelpers.SendText(c, idleHintText)
}

// onAwaitingLocation completes the flow from either a shared GPS location or
// a typed area.
func (a *App) onAwaitingLocation(c tele.Context) error {
	chatID := chatIDOf(c)
	ctx := tghelpers.BuildContext(c)

	msg := c.Message()
	if msg != nil && msg.Location != nil {
		reply, ok := a.flow.SubmitCoordinates(chatID, float64(msg.Location.Lat), float64(msg.Location.Lng))
		if !ok {
			return nil
		}
		logger.Info(ctx, "flow", "flow.confirm",
			slog.String("status", "ok"),
			slog.Int64("chat_id", chatID),
			slog.String("location", "gps"),
		)
		return sendReply(c, reply)
	}

	reply, ok := a.flow.SubmitText(chatID, c.Text())
	if !ok {
		return nil
	}
	logger.Info(ctx, "flow", "flow.confirm",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.String("location", logger.SanitizeLimit(c.Text(), 64)),
	)
	return sendReply(c, reply)
}

func (a *App) onStats(c tele.Context) error {
	uptime := time.Since(a.startedAt).Round(time.Second)
	var sendErrors uint64
	if d := a.dispatcher(); d != nil {
		sendErrors = d.ErrorCount()
	}
	text := "*Bot stats*\n\n" +
		fmt.Sprintf("Uptime: `%s`\n", uptime) +
		fmt.Sprintf("Active flows: `%d`\n", a.sessions.ActiveCount()) +
		fmt.Sprintf("Send errors: `%d`", sendErrors)
	return tghelpers.SendMD(c, text)
}
