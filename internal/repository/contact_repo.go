package repository

import (
	"context"
	"fmt"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository stores contact-form messages.
type ContactRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
}

type contactRepo struct {
	pool *pgxpool.Pool
}

// NewContactRepo creates a new ContactRepository.
func NewContactRepo(pool *pgxpool.Pool) ContactRepository {
	return &contactRepo{pool: pool}
}

func (r *contactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	const q = `
        INSERT INTO contact_messages (user_id, name, email, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, is_read, created_at
    `
	err := r.pool.QueryRow(ctx, q, m.UserID, m.Name, m.Email, m.Message).Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact message from %s: %w", m.Email, err)
	}
	return nil
}
