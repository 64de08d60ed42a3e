package models

import "time"

type UserInquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phn"`
	Message   string    `json:"querry"`
	CreatedAt time.Time `json:"created_at"`
}
