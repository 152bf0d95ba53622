package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/courier/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
			f.first_name, f.last_name, f.phone,
			t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users f ON m.from_username = f.username
		JOIN users t ON m.to_username = t.username
		WHERE m.id = $1`

	var msg domain.Message
	var from, to domain.UserSummary
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &msg.ReadAt,
		&from.FirstName, &from.LastName, &from.Phone,
		&to.FirstName, &to.LastName, &to.Phone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	from.Username = msg.FromUsername
	to.Username = msg.ToUsername
	msg.FromUser = &from
	msg.ToUser = &to
	return &msg, nil
}

// MarkRead stamps read_at once; a message that is already read keeps its
// original timestamp. Returns false when the id does not exist.
func (r *MessageRepo) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET read_at = COALESCE(read_at, $2) WHERE id = $1`, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MessageRepo) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
			t.first_name, t.last_name, t.phone
		FROM messages m
		JOIN users t ON m.to_username = t.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at, m.id`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var to domain.UserSummary
		if err := rows.Scan(
			&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &msg.ReadAt,
			&to.FirstName, &to.LastName, &to.Phone,
		); err != nil {
			return nil, err
		}
		to.Username = msg.ToUsername
		msg.ToUser = &to
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
			f.first_name, f.last_name, f.phone
		FROM messages m
		JOIN users f ON m.from_username = f.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at, m.id`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var from domain.UserSummary
		if err := rows.Scan(
			&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &msg.ReadAt,
			&from.FirstName, &from.LastName, &from.Phone,
		); err != nil {
			return nil, err
		}
		from.Username = msg.FromUsername
		msg.FromUser = &from
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
