package services

import (
	"context"
	"strings"
	"testing"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/models"
)

func TestInquirySubmit(t *testing.T) {
	repo := &memInquiries{}
	svc := NewInquiryService(repo)
	svc.now = clock

	got, err := svc.Submit(context.Background(), &models.UserInquiry{
		Name:    " Kavya ",
		Email:   "Kavya@Example.com",
		Phone:   "9876501234",
		Message: "Are there openings in Pune?",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.ID != 1 || got.Name != "Kavya" || got.Email != "kavya@example.com" || !got.CreatedAt.Equal(fixedNow) {
		t.Errorf("stored = %+v", got)
	}

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Errorf("List = %v, %v", list, err)
	}
}

func TestInquiryValidation(t *testing.T) {
	base := models.UserInquiry{Name: "Kavya", Email: "kavya@example.com", Phone: "9876501234", Message: "hello"}
	tests := []struct {
		name   string
		mutate func(*models.UserInquiry)
	}{
		{"no name", func(q *models.UserInquiry) { q.Name = "" }},
		{"bad email", func(q *models.UserInquiry) { q.Email = "kavya" }},
		{"bad phone", func(q *models.UserInquiry) { q.Phone = "phone" }},
		{"empty message", func(q *models.UserInquiry) { q.Message = " " }},
		{"long message", func(q *models.UserInquiry) { q.Message = strings.Repeat("x", maxInquiryLength+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memInquiries{}
			q := base
			tt.mutate(&q)
			if _, err := NewInquiryService(repo).Submit(context.Background(), &q); apperr.KindOf(err) != apperr.Validation {
				t.Errorf("err = %v, want validation", err)
			}
			if len(repo.rows) != 0 {
				t.Errorf("invalid inquiry stored")
			}
		})
	}
}
