package repositories

import (
	"context"

	"edustaff-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type InquiryRepository struct {
	DB *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{DB: db}
}

func (r *InquiryRepository) Create(ctx context.Context, q *models.UserInquiry) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO user_inquiries (name, email, phn, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, q.Name, q.Email, q.Phone, q.Message, q.CreatedAt).Scan(&q.ID, &q.CreatedAt)
}

// List returns inquiries newest first
func (r *InquiryRepository) List(ctx context.Context) ([]models.UserInquiry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, phn, message, created_at
		FROM user_inquiries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserInquiry{}
	for rows.Next() {
		var q models.UserInquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
