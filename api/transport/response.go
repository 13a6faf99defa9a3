package transport

import (
	"time"

	"github.com/fastygo/progression/domain"
)

// Envelope wraps error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// ValidationMeta lists the failed rules of a 422 response.
type ValidationMeta struct {
	Violations []domain.Violation `json:"violations"`
}

// ProgressionResponse is the public shape of a record. The storage id is
// published as EmploymentProgressionId and createdBy is never exposed.
type ProgressionResponse struct {
	EmploymentProgressionID  string                          `json:"EmploymentProgressionId"`
	CustomerID               string                          `json:"customerId"`
	DateProgressionRecorded  *time.Time                      `json:"dateProgressionRecorded,omitempty"`
	CurrentEmploymentStatus  *domain.CurrentEmploymentStatus `json:"currentEmploymentStatus,omitempty"`
	EconomicShockStatus      *domain.EconomicShockStatus     `json:"economicShockStatus,omitempty"`
	EconomicShockCode        string                          `json:"economicShockCode,omitempty"`
	EmployerName             string                          `json:"employerName,omitempty"`
	EmployerAddress          string                          `json:"employerAddress,omitempty"`
	EmployerPostcode         string                          `json:"employerPostcode,omitempty"`
	Latitude                 *float64                        `json:"latitude,omitempty"`
	Longitude                *float64                        `json:"longitude,omitempty"`
	EmploymentHours          *domain.EmploymentHours         `json:"employmentHours,omitempty"`
	DateOfEmployment         *time.Time                      `json:"dateOfEmployment,omitempty"`
	DateOfLastEmployment     *time.Time                      `json:"dateOfLastEmployment,omitempty"`
	LengthOfUnemployment     *domain.LengthOfUnemployment    `json:"lengthOfUnemployment,omitempty"`
	LastModifiedDate         *time.Time                      `json:"lastModifiedDate,omitempty"`
	LastModifiedTouchpointID string                          `json:"lastModifiedTouchpointId,omitempty"`
}

func NewProgressionResponse(p *domain.EmploymentProgression) ProgressionResponse {
	return ProgressionResponse{
		EmploymentProgressionID:  p.ID,
		CustomerID:               p.CustomerID,
		DateProgressionRecorded:  p.DateProgressionRecorded,
		CurrentEmploymentStatus:  p.CurrentEmploymentStatus,
		EconomicShockStatus:      p.EconomicShockStatus,
		EconomicShockCode:        p.EconomicShockCode,
		EmployerName:             p.EmployerName,
		EmployerAddress:          p.EmployerAddress,
		EmployerPostcode:         p.EmployerPostcode,
		Latitude:                 p.Latitude,
		Longitude:                p.Longitude,
		EmploymentHours:          p.EmploymentHours,
		DateOfEmployment:         p.DateOfEmployment,
		DateOfLastEmployment:     p.DateOfLastEmployment,
		LengthOfUnemployment:     p.LengthOfUnemployment,
		LastModifiedDate:         p.LastModifiedDate,
		LastModifiedTouchpointID: p.LastModifiedTouchpointID,
	}
}

func NewProgressionListResponse(items []domain.EmploymentProgression) []ProgressionResponse {
	out := make([]ProgressionResponse, 0, len(items))
	for i := range items {
		out = append(out, NewProgressionResponse(&items[i]))
	}
	return out
}
