package conversation

import (
	"context"
	"errors"
	"io"
	"log"

	"earthcare-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const threadColumns = `id::text, session_id, customer_id::text, email, started_at, last_activity, is_active`

func (r *postgresRepo) GetOrCreateThread(ctx context.Context, sessionID, email string) (*domain.ConversationThread, error) {
	// DO UPDATE instead of DO NOTHING so the existing row is returned on
	// conflict; last_activity is bumped either way.
	const q = `
INSERT INTO conversation_threads (session_id, email)
VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE SET last_activity = now()
RETURNING ` + threadColumns
	t, err := r.scanThread(r.pool.QueryRow(ctx, q, sessionID, email))
	if err != nil {
		r.logger.Printf("conversation repo: get-or-create session=%s error=%v", sessionID, err)
		return nil, err
	}
	return t, nil
}

func (r *postgresRepo) GetThreadBySession(ctx context.Context, sessionID string) (*domain.ConversationThread, error) {
	q := `SELECT ` + threadColumns + `
FROM conversation_threads
WHERE session_id = $1`
	t, err := r.scanThread(r.pool.QueryRow(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresRepo) LinkCustomer(ctx context.Context, threadID, customerID string) error {
	const q = `
UPDATE conversation_threads
SET customer_id = $2
WHERE id = $1 AND customer_id IS NULL`
	if _, err := r.pool.Exec(ctx, q, threadID, customerID); err != nil {
		r.logger.Printf("conversation repo: link customer thread=%s error=%v", threadID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	const q = `
INSERT INTO messages (thread_id, role, content, user_ip, user_agent)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	stored := msg
	if err := r.pool.QueryRow(ctx, q, msg.ThreadID, msg.Role, msg.Content, msg.UserIP, msg.UserAgent).
		Scan(&stored.ID, &stored.CreatedAt); err != nil {
		r.logger.Printf("conversation repo: append thread=%s role=%s error=%v", msg.ThreadID, msg.Role, err)
		return nil, err
	}

	const touch = `UPDATE conversation_threads SET last_activity = now() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, touch, msg.ThreadID); err != nil {
		r.logger.Printf("conversation repo: touch thread=%s error=%v", msg.ThreadID, err)
	}
	return &stored, nil
}

func (r *postgresRepo) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	const q = `
SELECT id::text, thread_id::text, role, content, user_ip, user_agent, created_at
FROM messages
WHERE thread_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, q, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &m.UserIP, &m.UserAgent, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *postgresRepo) scanThread(row pgx.Row) (*domain.ConversationThread, error) {
	var t domain.ConversationThread
	if err := row.Scan(&t.ID, &t.SessionID, &t.CustomerID, &t.Email, &t.StartedAt, &t.LastActivity, &t.IsActive); err != nil {
		return nil, err
	}
	return &t, nil
}
