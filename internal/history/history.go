// Package history persists conversation turns so a session can be
// resumed. Each turn keeps the user message plus the raw Response JSON,
// which replays losslessly as input items for the next call.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3/responses"

	"clifton/internal/db"
)

type Store struct {
	conn *sql.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{conn: database.Conn()}
}

// Session is a summary row for listing.
type Session struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) EnsureSession(ctx context.Context, sessionID, channel string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO sessions (id, channel) VALUES (?, ?)
		ON CONFLICT (id) DO NOTHING`,
		sessionID, channel)
	if err != nil {
		return fmt.Errorf("ensuring session %s: %w", sessionID, err)
	}
	return nil
}

func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, channel, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Channel, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *Store) SaveTurn(ctx context.Context, sessionID, userMessage string, resp *responses.Response) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO turns (session_id, user_message, response_json, model)
		VALUES (?, ?, ?, ?)`,
		sessionID, userMessage, resp.RawJSON(), string(resp.Model))
	if err != nil {
		return fmt.Errorf("saving turn for session %s: %w", sessionID, err)
	}
	return nil
}

// LoadInputHistory replays every stored turn of a session as input items.
func (s *Store) LoadInputHistory(ctx context.Context, sessionID string) ([]responses.ResponseInputItemUnionParam, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_message, response_json FROM turns
		WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading turns for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var items []responses.ResponseInputItemUnionParam
	for rows.Next() {
		var id int64
		var userMessage, responseJSON string
		if err := rows.Scan(&id, &userMessage, &responseJSON); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}

		items = append(items, responses.ResponseInputItemParamOfMessage(userMessage, "user"))

		var resp responses.Response
		if err := json.Unmarshal([]byte(responseJSON), &resp); err != nil {
			slog.Warn("skipping turn with invalid response JSON", "turn_id", id, "error", err)
			continue
		}
		items = append(items, OutputToInput(resp.Output)...)
	}

	return items, rows.Err()
}

// OutputToInput converts response output items into input item params
// for the next API call.
func OutputToInput(output []responses.ResponseOutputItemUnion) []responses.ResponseInputItemUnionParam {
	var items []responses.ResponseInputItemUnionParam
	for _, item := range output {
		switch item.Type {
		case "message":
			v := item.AsMessage().ToParam()
			items = append(items, responses.ResponseInputItemUnionParam{OfOutputMessage: &v})
		case "function_call":
			v := item.AsFunctionCall().ToParam()
			items = append(items, responses.ResponseInputItemUnionParam{OfFunctionCall: &v})
		case "reasoning":
			v := item.AsReasoning().ToParam()
			items = append(items, responses.ResponseInputItemUnionParam{OfReasoning: &v})
		default:
			slog.Debug("skipping unknown output item type", "type", item.Type)
		}
	}
	return items
}
