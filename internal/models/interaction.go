package models

import "time"

// Interaction is one logged question/answer exchange.
type Interaction struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	UserIP    string    `json:"user_ip"`
	Timestamp time.Time `json:"timestamp"`
}
