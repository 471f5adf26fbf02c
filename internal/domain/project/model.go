package project

import "time"

// Project is a fixed-supply pool of credits sold at a fixed price.
type Project struct {
	ID               int64     `json:"id"`
	Creator          string    `json:"creator"`
	Name             string    `json:"name"`
	TotalCredits     int64     `json:"total_credits"`
	AvailableCredits int64     `json:"available_credits"`
	SoldCredits      int64     `json:"sold_credits"`
	CreditPrice      int64     `json:"credit_price"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summary is a lightweight representation for listing projects.
type Summary struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	TotalCredits     int64     `json:"total_credits"`
	AvailableCredits int64     `json:"available_credits"`
	CreditPrice      int64     `json:"credit_price"`
	ActiveListings   int       `json:"active_listings"`
	CreatedAt        time.Time `json:"created_at"`
}
