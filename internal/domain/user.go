package domain

import "time"

// User represents a registered shopper together with the cart they saved last.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Cart         Cart
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
