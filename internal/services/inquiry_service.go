package services

import (
	"context"
	"strings"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/timeutil"
)

const maxInquiryLength = 2000

type InquiryService struct {
	Repo InquiryStore
	now  func() time.Time
}

func NewInquiryService(repo InquiryStore) *InquiryService {
	return &InquiryService{Repo: repo, now: timeutil.Now}
}

// Submit stores a public contact request.
func (s *InquiryService) Submit(ctx context.Context, q *models.UserInquiry) (*models.UserInquiry, error) {
	if err := required("name", q.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(q.Email); err != nil {
		return nil, err
	}
	if err := validatePhone(q.Phone); err != nil {
		return nil, err
	}
	if err := required("querry", q.Message); err != nil {
		return nil, err
	}
	if len(q.Message) > maxInquiryLength {
		return nil, apperr.Validationf("querry must be at most %d characters", maxInquiryLength)
	}

	in := &models.UserInquiry{
		Name:      strings.TrimSpace(q.Name),
		Email:     strings.ToLower(strings.TrimSpace(q.Email)),
		Phone:     strings.TrimSpace(q.Phone),
		Message:   strings.TrimSpace(q.Message),
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, in); err != nil {
		return nil, apperr.Storage(err, "store inquiry")
	}
	return in, nil
}

func (s *InquiryService) List(ctx context.Context) ([]models.UserInquiry, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "list inquiries")
	}
	return list, nil
}
