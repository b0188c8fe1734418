package domain

import "time"

// Lead is a visitor introduction captured by the lead form. The name is
// stored trimmed and the email lower-cased; nothing else about the
// visitor is retained.
type Lead struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
