package domain

import "time"

// Customer is the owning entity of an employment progression. It is managed
// by another service; this one only reads it.
type Customer struct {
	ID                string     `json:"id"`
	DateOfTermination *time.Time `json:"date_of_termination,omitempty"`
}

// IsReadOnly reports whether the customer record has been closed for edits.
func (c *Customer) IsReadOnly() bool {
	return c != nil && c.DateOfTermination != nil
}
