package models

import "time"

type Address struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Recipient string    `json:"recipient"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Address) FullAddress() string {
	return a.Street + ", " + a.City
}
