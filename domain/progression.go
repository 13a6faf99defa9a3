package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Persisted document keys.
const (
	FieldID                       = "id"
	FieldCustomerID               = "customerId"
	FieldDateProgressionRecorded  = "dateProgressionRecorded"
	FieldCurrentEmploymentStatus  = "currentEmploymentStatus"
	FieldEconomicShockStatus      = "economicShockStatus"
	FieldEconomicShockCode        = "economicShockCode"
	FieldEmployerName             = "employerName"
	FieldEmployerAddress          = "employerAddress"
	FieldEmployerPostcode         = "employerPostcode"
	FieldLatitude                 = "latitude"
	FieldLongitude                = "longitude"
	FieldEmploymentHours          = "employmentHours"
	FieldDateOfEmployment         = "dateOfEmployment"
	FieldDateOfLastEmployment     = "dateOfLastEmployment"
	FieldLengthOfUnemployment     = "lengthOfUnemployment"
	FieldLastModifiedDate         = "lastModifiedDate"
	FieldLastModifiedTouchpointID = "lastModifiedTouchpointId"
	FieldCreatedBy                = "createdBy"
)

// EmploymentProgression is the stored document describing a customer's
// employment situation at a point in time.
type EmploymentProgression struct {
	ID                       string                   `json:"id"`
	CustomerID               string                   `json:"customerId" validate:"required"`
	DateProgressionRecorded  *time.Time               `json:"dateProgressionRecorded,omitempty"`
	CurrentEmploymentStatus  *CurrentEmploymentStatus `json:"currentEmploymentStatus,omitempty" validate:"required"`
	EconomicShockStatus      *EconomicShockStatus     `json:"economicShockStatus,omitempty" validate:"required"`
	EconomicShockCode        string                   `json:"economicShockCode,omitempty" validate:"omitempty,max=50,noanglebrackets"`
	EmployerName             string                   `json:"employerName,omitempty" validate:"omitempty,max=200,employername"`
	EmployerAddress          string                   `json:"employerAddress,omitempty" validate:"omitempty,max=500,noanglebrackets"`
	EmployerPostcode         string                   `json:"employerPostcode,omitempty" validate:"omitempty,max=10,ukpostcode"`
	Latitude                 *float64                 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude                *float64                 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	EmploymentHours          *EmploymentHours         `json:"employmentHours,omitempty"`
	DateOfEmployment         *time.Time               `json:"dateOfEmployment,omitempty"`
	DateOfLastEmployment     *time.Time               `json:"dateOfLastEmployment,omitempty"`
	LengthOfUnemployment     *LengthOfUnemployment    `json:"lengthOfUnemployment,omitempty"`
	LastModifiedDate         *time.Time               `json:"lastModifiedDate,omitempty"`
	LastModifiedTouchpointID string                   `json:"lastModifiedTouchpointId,omitempty" validate:"required,len=10,number"`
	CreatedBy                string                   `json:"createdBy,omitempty"`
}

// SetDefaults fills the server-controlled fields of a new record.
func (p *EmploymentProgression) SetDefaults(now time.Time) {
	if p == nil {
		return
	}
	if p.DateProgressionRecorded == nil {
		p.DateProgressionRecorded = &now
	}
	if p.LastModifiedDate == nil {
		p.LastModifiedDate = &now
	}
	if p.EconomicShockStatus == nil {
		status := EconomicShockNotApplicable
		p.EconomicShockStatus = &status
	}
}

// SetIDs stamps identity and audit fields that are never taken from the client.
func (p *EmploymentProgression) SetIDs(id, customerID, touchpointID string) {
	if p == nil {
		return
	}
	p.ID = id
	p.CustomerID = customerID
	p.LastModifiedTouchpointID = touchpointID
	p.CreatedBy = touchpointID
}

// ClearCoordinates drops derived coordinates.
func (p *EmploymentProgression) ClearCoordinates() {
	if p == nil {
		return
	}
	p.Latitude = nil
	p.Longitude = nil
}

// SetCoordinates applies geocoded coordinates.
func (p *EmploymentProgression) SetCoordinates(c *Coordinates) {
	if p == nil || c == nil {
		return
	}
	lat, lon := c.Latitude, c.Longitude
	p.Latitude = &lat
	p.Longitude = &lon
}

// EmploymentProgressionPatch is a partial update; nil fields are left untouched.
type EmploymentProgressionPatch struct {
	ID                       string                   `json:"id"`
	CustomerID               string                   `json:"customerId"`
	DateProgressionRecorded  *time.Time               `json:"dateProgressionRecorded,omitempty"`
	CurrentEmploymentStatus  *CurrentEmploymentStatus `json:"currentEmploymentStatus,omitempty"`
	EconomicShockStatus      *EconomicShockStatus     `json:"economicShockStatus,omitempty"`
	EconomicShockCode        *string                  `json:"economicShockCode,omitempty"`
	EmployerName             *string                  `json:"employerName,omitempty"`
	EmployerAddress          *string                  `json:"employerAddress,omitempty"`
	EmployerPostcode         *string                  `json:"employerPostcode,omitempty"`
	Latitude                 *float64                 `json:"latitude,omitempty"`
	Longitude                *float64                 `json:"longitude,omitempty"`
	EmploymentHours          *EmploymentHours         `json:"employmentHours,omitempty"`
	DateOfEmployment         *time.Time               `json:"dateOfEmployment,omitempty"`
	DateOfLastEmployment     *time.Time               `json:"dateOfLastEmployment,omitempty"`
	LengthOfUnemployment     *LengthOfUnemployment    `json:"lengthOfUnemployment,omitempty"`
	LastModifiedDate         *time.Time               `json:"lastModifiedDate,omitempty"`
	LastModifiedTouchpointID string                   `json:"lastModifiedTouchpointId,omitempty"`
}

// SetIDs stamps the target record and the calling touchpoint.
func (p *EmploymentProgressionPatch) SetIDs(id, customerID, touchpointID string) {
	if p == nil {
		return
	}
	p.ID = id
	p.CustomerID = customerID
	p.LastModifiedTouchpointID = touchpointID
}

func (p *EmploymentProgressionPatch) SetDefaults(now time.Time) {
	if p == nil {
		return
	}
	if p.LastModifiedDate == nil {
		p.LastModifiedDate = &now
	}
}

// HasPostcode reports whether the patch changes the employer postcode.
func (p *EmploymentProgressionPatch) HasPostcode() bool {
	return p != nil && p.EmployerPostcode != nil && *p.EmployerPostcode != ""
}

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DecodeProgression parses a full record. A body that is empty or the JSON
// literal null yields ErrEmptyBody.
func DecodeProgression(body []byte) (*EmploymentProgression, error) {
	if isEmptyJSON(body) {
		return nil, ErrEmptyBody
	}
	var p EmploymentProgression
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, WrapError(ErrCodeUnprocessable, "invalid employment progression payload", err)
	}
	return &p, nil
}

// DecodePatch parses a patch payload. An empty or null body yields a nil patch.
func DecodePatch(body []byte) (*EmploymentProgressionPatch, error) {
	if isEmptyJSON(body) {
		return nil, nil
	}
	var p EmploymentProgressionPatch
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, WrapError(ErrCodeUnprocessable, "invalid employment progression patch payload", err)
	}
	return &p, nil
}

func isEmptyJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
