package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMalformedDocument = errors.New("stored employment progression is not a JSON object")

type document map[string]json.RawMessage

func parseDocument(raw []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse stored employment progression: %w", err)
	}
	if doc == nil {
		return nil, errMalformedDocument
	}
	return doc, nil
}

func (d document) set(key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	d[key] = encoded
	return nil
}

// MergePatch applies the fields present on patch to the serialized baseline
// document. Keys not named by the patch, including ones this service does
// not know about, are carried over untouched.
func MergePatch(baseline []byte, patch *EmploymentProgressionPatch) ([]byte, error) {
	doc, err := parseDocument(baseline)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return json.Marshal(doc)
	}

	var setErr error
	apply := func(key string, present bool, value any) {
		if setErr != nil || !present {
			return
		}
		setErr = doc.set(key, value)
	}

	apply(FieldDateProgressionRecorded, patch.DateProgressionRecorded != nil, patch.DateProgressionRecorded)
	apply(FieldCurrentEmploymentStatus, patch.CurrentEmploymentStatus != nil, patch.CurrentEmploymentStatus)
	apply(FieldEconomicShockStatus, patch.EconomicShockStatus != nil, patch.EconomicShockStatus)
	apply(FieldEconomicShockCode, nonEmpty(patch.EconomicShockCode), patch.EconomicShockCode)
	apply(FieldEmployerName, nonEmpty(patch.EmployerName), patch.EmployerName)
	apply(FieldEmployerAddress, nonEmpty(patch.EmployerAddress), patch.EmployerAddress)

	apply(FieldEmployerPostcode, patch.HasPostcode(), patch.EmployerPostcode)
	apply(FieldLatitude, patch.Latitude != nil, patch.Latitude)
	apply(FieldLongitude, patch.Longitude != nil, patch.Longitude)

	apply(FieldEmploymentHours, patch.EmploymentHours != nil, patch.EmploymentHours)
	apply(FieldDateOfEmployment, patch.DateOfEmployment != nil, patch.DateOfEmployment)
	apply(FieldDateOfLastEmployment, patch.DateOfLastEmployment != nil, patch.DateOfLastEmployment)
	apply(FieldLengthOfUnemployment, patch.LengthOfUnemployment != nil, patch.LengthOfUnemployment)
	apply(FieldLastModifiedDate, patch.LastModifiedDate != nil, patch.LastModifiedDate)
	apply(FieldLastModifiedTouchpointID, patch.LastModifiedTouchpointID != "", patch.LastModifiedTouchpointID)

	if setErr != nil {
		return nil, setErr
	}
	return json.Marshal(doc)
}

// SetCoordinates writes latitude and longitude onto a serialized document.
// A nil coords nulls both keys.
func SetCoordinates(raw []byte, coords *Coordinates) ([]byte, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		doc[FieldLatitude] = json.RawMessage("null")
		doc[FieldLongitude] = json.RawMessage("null")
		return json.Marshal(doc)
	}
	if err := doc.set(FieldLatitude, coords.Latitude); err != nil {
		return nil, err
	}
	if err := doc.set(FieldLongitude, coords.Longitude); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
