package domain

import (
	"strings"
	"time"
)

// ChangeKind tells subscribers what happened to a record.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
)

// Notification is the message announced after a successful write.
type Notification struct {
	Change                  ChangeKind `json:"change"`
	CustomerID              string     `json:"customerId"`
	EmploymentProgressionID string     `json:"employmentProgressionId"`
	ResourceURL             string     `json:"resourceUrl"`
	TouchpointID            string     `json:"touchpointId"`
	LastModifiedDate        time.Time  `json:"lastModifiedDate"`
}

// NewNotification builds the message for a stored record. The resource URL
// is the caller's base URL followed by the record id.
func NewNotification(change ChangeKind, p *EmploymentProgression, baseURL string) (*Notification, error) {
	if p == nil {
		return nil, ErrNilRecord
	}
	n := &Notification{
		Change:                  change,
		CustomerID:              p.CustomerID,
		EmploymentProgressionID: p.ID,
		ResourceURL:             strings.TrimRight(baseURL, "/") + "/" + p.ID,
		TouchpointID:            p.LastModifiedTouchpointID,
	}
	if p.LastModifiedDate != nil {
		n.LastModifiedDate = p.LastModifiedDate.UTC()
	}
	return n, nil
}
