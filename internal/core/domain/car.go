package domain

import "time"

type CarStatus string

const (
	CarActive   CarStatus = "active"
	CarSold     CarStatus = "sold"
	CarArchived CarStatus = "archived"
	CarPending  CarStatus = "pending"
)

func (s CarStatus) Valid() bool {
	switch s {
	case CarActive, CarSold, CarArchived, CarPending:
		return true
	}
	return false
}

type Car struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	Year        int       `json:"year"`
	Mileage     float64   `json:"mileage"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Status      CarStatus `json:"status"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
