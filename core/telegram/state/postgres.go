package state

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"citybot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const queryTimeout = 3 * time.Second

type sessionRow struct {
	ChatID  int64  `db:"chat_id"`
	State   string `db:"state"`
	Service string `db:"service"`
}

type postgresManager struct {
	db *sqlx.DB
}

// NewPostgresManager constructs a Manager backed by the sessions table, so
// in-progress flows survive restarts. Read failures degrade to an idle
// session and are logged; they never crash the update handler.
func NewPostgresManager(db *sqlx.DB) Manager {
	return &postgresManager{db: db}
}

func (m *postgresManager) load(chatID int64) (Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var row sessionRow
	err := m.db.GetContext(ctx, &row,
		`SELECT chat_id, state, service FROM sessions WHERE chat_id = $1`, chatID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Sess.Error("session load failed",
				slog.String("event", "session.load"),
				slog.Int64("chat_id", chatID),
				slog.String("err", err.Error()),
			)
		}
		return Session{State: StateIdle}, false
	}
	return Session{State: State(row.State), Service: row.Service}, true
}

func (m *postgresManager) save(chatID int64, sess Session) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := m.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, state, service, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (chat_id)
		 DO UPDATE SET state = EXCLUDED.state, service = EXCLUDED.service, updated_at = now()`,
		chatID, string(sess.State), sess.Service)
	if err != nil {
		logger.Sess.Error("session save failed",
			slog.String("event", "session.save"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

// GetState returns the stored FSM state of a chat, or StateIdle.
func (m *postgresManager) GetState(chatID int64) State {
	sess, _ := m.load(chatID)
	return sess.State
}

// SetState upserts the FSM state, preserving the selected service.
func (m *postgresManager) SetState(chatID int64, st State) {
	sess, _ := m.load(chatID)
	sess.State = st
	m.save(chatID, sess)
}

// SetService records the selected service category for the chat.
func (m *postgresManager) SetService(chatID int64, service string) {
	sess, _ := m.load(chatID)
	sess.Service = service
	m.save(chatID, sess)
}

// Service returns the selected service category for the chat, if any.
func (m *postgresManager) Service(chatID int64) (string, bool) {
	sess, ok := m.load(chatID)
	if !ok || sess.Service == "" {
		return "", false
	}
	return sess.Service, true
}

// Clear deletes the session row for a chat.
func (m *postgresManager) Clear(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE chat_id = $1`, chatID); err != nil {
		logger.Sess.Error("session clear failed",
			slog.String("event", "session.clear"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

// InProgress reports whether the chat currently has an active FSM state.
func (m *postgresManager) InProgress(chatID int64) bool {
	return m.GetState(chatID) != StateIdle
}

// ActiveCount returns the number of chats with a flow in progress.
func (m *postgresManager) ActiveCount() int {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var n int
	err := m.db.GetContext(ctx, &n,
		`SELECT count(*) FROM sessions WHERE state <> $1`, string(StateIdle))
	if err != nil {
		logger.Sess.Error("session count failed",
			slog.String("event", "session.count"),
			slog.String("err", err.Error()),
		)
		return 0
	}
	return n
}

// ManagerHandler executes the handler registered for the chat's current state, if any.
func (m *postgresManager) ManagerHandler(c tele.Context) error {
	return dispatch(m, c)
}
