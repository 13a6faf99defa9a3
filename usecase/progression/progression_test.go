package progression

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/repository"
)

const (
	customerID    = "1c8d1a3e-8a52-4c6a-9b8f-9e3a5c7d2b10"
	recordID      = "6f1b7f8e-2b7a-4d84-9b1f-0b5f3c2f9e11"
	touchpointID  = "0000000001"
	baseURL       = "https://api.example.test/employmentprogressions"
	generatedID   = "9a0c3b7e-5d2f-4e61-8c47-2f1e0d9b6a33"
	testPostcode  = "CV12 1CS"
	unknownRecord = "00000000-0000-0000-0000-000000000000"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeCustomers struct {
	exists   bool
	readOnly bool
	err      error
}

func (f *fakeCustomers) Get(_ context.Context, id string) (*domain.Customer, error) {
	if !f.exists {
		return nil, domain.ErrCustomerNotFound
	}
	return &domain.Customer{ID: id}, nil
}

func (f *fakeCustomers) Exists(context.Context, string) (bool, error) {
	return f.exists, f.err
}

func (f *fakeCustomers) IsReadOnly(context.Context, string) (bool, error) {
	return f.readOnly, f.err
}

type fakeProgressions struct {
	docs        map[string][]byte
	owner       map[string]string
	rejectWrite bool
	creates     int
	replaces    int
	calls       int
}

func newFakeProgressions() *fakeProgressions {
	return &fakeProgressions{docs: map[string][]byte{}, owner: map[string]string{}}
}

func (f *fakeProgressions) seed(t *testing.T, customer, id string, doc string) {
	t.Helper()
	f.docs[id] = []byte(doc)
	f.owner[id] = customer
}

func (f *fakeProgressions) ExistsForCustomer(_ context.Context, customer string) (bool, error) {
	f.calls++
	for _, owner := range f.owner {
		if owner == customer {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProgressions) GetByID(ctx context.Context, customer, id string) (*domain.EmploymentProgression, error) {
	raw, err := f.GetRaw(ctx, customer, id)
	if err != nil {
		return nil, err
	}
	var p domain.EmploymentProgression
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *fakeProgressions) List(ctx context.Context, filter repository.ProgressionFilter) ([]domain.EmploymentProgression, error) {
	f.calls++
	var out []domain.EmploymentProgression
	for id, owner := range f.owner {
		if owner != filter.CustomerID {
			continue
		}
		p, err := f.GetByID(ctx, owner, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProgressions) GetRaw(_ context.Context, customer, id string) ([]byte, error) {
	f.calls++
	raw, ok := f.docs[id]
	if !ok || f.owner[id] != customer {
		return nil, domain.ErrProgressionNotFound
	}
	return raw, nil
}

func (f *fakeProgressions) Create(_ context.Context, p *domain.EmploymentProgression) (bool, error) {
	f.calls++
	f.creates++
	if f.rejectWrite {
		return false, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return false, err
	}
	f.docs[p.ID] = raw
	f.owner[p.ID] = p.CustomerID
	return true, nil
}

func (f *fakeProgressions) Replace(_ context.Context, id string, document []byte) (bool, error) {
	f.calls++
	f.replaces++
	if f.rejectWrite {
		return false, nil
	}
	if _, ok := f.docs[id]; !ok {
		return false, nil
	}
	f.docs[id] = document
	return true, nil
}

type fakeGeocoder struct {
	coords *domain.Coordinates
	err    error
	calls  []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, postcode string) (*domain.Coordinates, error) {
	f.calls = append(f.calls, postcode)
	return f.coords, f.err
}

type fakeNotifier struct {
	changes   []domain.ChangeKind
	published []domain.EmploymentProgression
	baseURLs  []string
	err       error
}

func (f *fakeNotifier) Publish(_ context.Context, change domain.ChangeKind, p *domain.EmploymentProgression, url string) error {
	f.changes = append(f.changes, change)
	f.published = append(f.published, *p)
	f.baseURLs = append(f.baseURLs, url)
	return f.err
}

type fixture struct {
	customers    *fakeCustomers
	progressions *fakeProgressions
	geocoder     *fakeGeocoder
	notifier     *fakeNotifier
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		customers:    &fakeCustomers{exists: true},
		progressions: newFakeProgressions(),
		geocoder:     &fakeGeocoder{coords: &domain.Coordinates{Latitude: 52.52, Longitude: -1.47}},
		notifier:     &fakeNotifier{},
	}
	f.uc = New(f.customers, f.progressions, f.geocoder, f.notifier, nil,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return generatedID }),
	)
	return f
}

func caller() Caller {
	return Caller{TouchpointID: touchpointID, BaseURL: baseURL, CustomerID: customerID}
}

const unemployedBody = `{"currentEmploymentStatus":4,"economicShockStatus":1}`

func TestCreate_StoresRecordWithServerFields(t *testing.T) {
	f := newFixture()

	body := `{"id":"client-id","customerId":"someone-else","currentEmploymentStatus":4,"createdBy":"x","latitude":10,"longitude":10}`
	record, err := f.uc.Create(context.Background(), caller(), []byte(body))
	require.NoError(t, err)

	assert.Equal(t, generatedID, record.ID)
	assert.Equal(t, customerID, record.CustomerID)
	assert.Equal(t, touchpointID, record.LastModifiedTouchpointID)
	assert.Equal(t, touchpointID, record.CreatedBy)
	assert.True(t, testNow.Equal(*record.DateProgressionRecorded))
	assert.Equal(t, domain.EconomicShockNotApplicable, *record.EconomicShockStatus)
	assert.Nil(t, record.Latitude)
	assert.Nil(t, record.Longitude)
	assert.Empty(t, f.geocoder.calls)

	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, generatedID, f.notifier.published[0].ID)
	assert.Equal(t, []string{baseURL}, f.notifier.baseURLs)
	assert.Equal(t, []domain.ChangeKind{domain.ChangeCreated}, f.notifier.changes)
}

func TestCreate_SecondCallConflicts(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), caller(), []byte(unemployedBody))
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), caller(), []byte(unemployedBody))
	assert.ErrorIs(t, err, domain.ErrProgressionExists)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	assert.Equal(t, 1, f.progressions.creates)
	assert.Len(t, f.notifier.published, 1)
}

func TestCreate_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		caller   Caller
		setup    func(f *fixture)
		body     string
		expected error
	}{
		{
			name:     "missing touchpoint",
			caller:   Caller{BaseURL: baseURL, CustomerID: customerID},
			expected: domain.ErrMissingTouchpoint,
		},
		{
			name:     "missing base url",
			caller:   Caller{TouchpointID: touchpointID, CustomerID: customerID},
			expected: domain.ErrMissingBaseURL,
		},
		{
			name:     "malformed customer id",
			caller:   Caller{TouchpointID: touchpointID, BaseURL: baseURL, CustomerID: "not-a-guid"},
			expected: domain.ErrInvalidCustomerID,
		},
		{
			name:     "unknown customer",
			caller:   caller(),
			setup:    func(f *fixture) { f.customers.exists = false },
			expected: domain.ErrCustomerNotFound,
		},
		{
			name:     "read only customer",
			caller:   caller(),
			setup:    func(f *fixture) { f.customers.readOnly = true },
			expected: domain.ErrCustomerReadOnly,
		},
		{
			name:     "empty body",
			caller:   caller(),
			body:     "null",
			expected: domain.ErrEmptyBody,
		},
		{
			name:     "store declines write",
			caller:   caller(),
			setup:    func(f *fixture) { f.progressions.rejectWrite = true },
			expected: domain.ErrNotPersisted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			body := tt.body
			if body == "" {
				body = unemployedBody
			}

			_, err := f.uc.Create(context.Background(), tt.caller, []byte(body))
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, f.notifier.published)
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), caller(), []byte(`{"currentEmploymentStatus":`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnprocessable))
	assert.Zero(t, f.progressions.creates)
}

func TestCreate_ValidationFailure(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), caller(), []byte(`{"currentEmploymentStatus":1}`))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
	assert.Zero(t, f.progressions.creates)
	assert.Empty(t, f.notifier.published)
}

func TestCreate_GeocodesPostcode(t *testing.T) {
	f := newFixture()

	record, err := f.uc.Create(context.Background(), caller(), []byte(`{"currentEmploymentStatus":4,"employerPostcode":"CV12 1CS"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{testPostcode}, f.geocoder.calls)
	require.NotNil(t, record.Latitude)
	assert.Equal(t, 52.52, *record.Latitude)
	assert.Equal(t, -1.47, *record.Longitude)
}

func TestCreate_GeocodeFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.geocoder.coords = nil
	f.geocoder.err = errors.New("upstream unavailable")

	record, err := f.uc.Create(context.Background(), caller(), []byte(`{"currentEmploymentStatus":4,"employerPostcode":"CV12 1CS"}`))
	require.NoError(t, err)

	assert.Nil(t, record.Latitude)
	assert.Nil(t, record.Longitude)
	assert.Equal(t, 1, f.progressions.creates)
}

func TestCreate_NotificationFailureKeepsRecord(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker down")

	record, err := f.uc.Create(context.Background(), caller(), []byte(unemployedBody))
	require.NoError(t, err)
	assert.Contains(t, f.progressions.docs, record.ID)
}

func TestCreate_CanonicalisesCustomerID(t *testing.T) {
	for _, raw := range []string{
		"{1C8D1A3E-8A52-4C6A-9B8F-9E3A5C7D2B10}",
		"1C8D1A3E-8A52-4C6A-9B8F-9E3A5C7D2B10",
		"urn:uuid:" + customerID,
	} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture()
			c := caller()
			c.CustomerID = raw

			record, err := f.uc.Create(context.Background(), c, []byte(unemployedBody))
			require.NoError(t, err)

			assert.Equal(t, customerID, record.CustomerID)
			assert.Equal(t, customerID, f.progressions.owner[generatedID])
			var doc map[string]any
			require.NoError(t, json.Unmarshal(f.progressions.docs[generatedID], &doc))
			assert.Equal(t, customerID, doc["customerId"])
			require.Len(t, f.notifier.published, 1)
			assert.Equal(t, customerID, f.notifier.published[0].CustomerID)
		})
	}
}

func TestList(t *testing.T) {
	f := newFixture()

	_, err := f.uc.List(context.Background(), caller())
	assert.ErrorIs(t, err, domain.ErrProgressionNotFound)

	f.progressions.seed(t, customerID, recordID, `{"id":"`+recordID+`","customerId":"`+customerID+`","currentEmploymentStatus":4}`)
	records, err := f.uc.List(context.Background(), caller())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, recordID, records[0].ID)

	f.customers.exists = false
	_, err = f.uc.List(context.Background(), caller())
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestGet(t *testing.T) {
	f := newFixture()
	f.progressions.seed(t, customerID, recordID, `{"id":"`+recordID+`","customerId":"`+customerID+`","employerName":"Acme"}`)

	record, err := f.uc.Get(context.Background(), caller(), recordID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", record.EmployerName)

	_, err = f.uc.Get(context.Background(), caller(), unknownRecord)
	assert.ErrorIs(t, err, domain.ErrProgressionNotFound)

	_, err = f.uc.Get(context.Background(), caller(), "42")
	assert.ErrorIs(t, err, domain.ErrInvalidRecordID)
}

func seededPatchFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture()
	f.progressions.seed(t, customerID, recordID, `{
		"id":"`+recordID+`",
		"customerId":"`+customerID+`",
		"currentEmploymentStatus":4,
		"economicShockStatus":1,
		"employerName":"Acme",
		"employerPostcode":"B1 1AA",
		"latitude":52.48,
		"longitude":-1.9,
		"lengthOfUnemployment":3,
		"lastModifiedTouchpointId":"0000000009",
		"createdBy":"0000000009",
		"legacyFlag":true
	}`)
	return f
}

func storedDoc(t *testing.T, f *fixture) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(f.progressions.docs[recordID], &doc))
	return doc
}

func TestPatch_MergesAndPersists(t *testing.T) {
	f := seededPatchFixture(t)

	record, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"employerName":"Beta","latitude":1,"longitude":1}`))
	require.NoError(t, err)

	assert.Equal(t, "Beta", record.EmployerName)
	assert.Equal(t, touchpointID, record.LastModifiedTouchpointID)
	assert.True(t, testNow.Equal(*record.LastModifiedDate))
	assert.Empty(t, f.geocoder.calls)

	doc := storedDoc(t, f)
	assert.Equal(t, "Beta", doc["employerName"])
	assert.Equal(t, "B1 1AA", doc["employerPostcode"])
	assert.Equal(t, 52.48, doc["latitude"])
	assert.Equal(t, float64(3), doc["lengthOfUnemployment"])
	assert.Equal(t, true, doc["legacyFlag"])
	assert.Equal(t, "0000000009", doc["createdBy"])

	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, "Beta", f.notifier.published[0].EmployerName)
	assert.Equal(t, []domain.ChangeKind{domain.ChangeUpdated}, f.notifier.changes)
}

func TestPatch_CanonicalisesIDs(t *testing.T) {
	f := seededPatchFixture(t)
	c := caller()
	c.CustomerID = "{1C8D1A3E-8A52-4C6A-9B8F-9E3A5C7D2B10}"

	record, err := f.uc.Patch(context.Background(), c, "urn:uuid:6F1B7F8E-2B7A-4D84-9B1F-0B5F3C2F9E11", []byte(`{"employerName":"Beta"}`))
	require.NoError(t, err)

	assert.Equal(t, recordID, record.ID)
	assert.Equal(t, customerID, record.CustomerID)
	assert.Equal(t, 1, f.progressions.replaces)
	doc := storedDoc(t, f)
	assert.Equal(t, recordID, doc["id"])
	assert.Equal(t, customerID, doc["customerId"])
}

func TestPatch_EmptyBodyIsNoOp(t *testing.T) {
	for _, body := range []string{"", "null"} {
		f := seededPatchFixture(t)

		_, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(body))
		assert.ErrorIs(t, err, domain.ErrEmptyPatch)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNoChange))
		assert.Zero(t, f.progressions.calls)
		assert.Empty(t, f.notifier.published)
	}
}

func TestPatch_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		id       string
		expected error
	}{
		{name: "malformed record id", id: "abc", expected: domain.ErrInvalidRecordID},
		{name: "read only customer", setup: func(f *fixture) { f.customers.readOnly = true }, expected: domain.ErrCustomerReadOnly},
		{name: "unknown customer", setup: func(f *fixture) { f.customers.exists = false }, expected: domain.ErrPatchCustomerAbsent},
		{name: "customer without progression", setup: func(f *fixture) { f.progressions.owner[recordID] = "other" }, expected: domain.ErrProgressionNotFound},
		{name: "unknown record", id: unknownRecord, expected: domain.ErrProgressionNotFound},
		{name: "store declines write", setup: func(f *fixture) { f.progressions.rejectWrite = true }, expected: domain.ErrNotPersisted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := seededPatchFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			id := tt.id
			if id == "" {
				id = recordID
			}

			_, err := f.uc.Patch(context.Background(), caller(), id, []byte(`{"employerName":"Beta"}`))
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, f.notifier.published)
		})
	}
}

func TestPatch_UnknownCustomerIsBadRequest(t *testing.T) {
	f := seededPatchFixture(t)
	f.customers.exists = false

	_, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"employerName":"Beta"}`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestPatch_ValidatesMergedRecord(t *testing.T) {
	f := seededPatchFixture(t)

	_, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"currentEmploymentStatus":1}`))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
	assert.Zero(t, f.progressions.replaces)
}

func TestPatch_GeocodesNewPostcode(t *testing.T) {
	f := seededPatchFixture(t)

	record, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"employerPostcode":"CV12 1CS"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{testPostcode}, f.geocoder.calls)
	assert.Equal(t, 52.52, *record.Latitude)

	doc := storedDoc(t, f)
	assert.Equal(t, testPostcode, doc["employerPostcode"])
	assert.Equal(t, 52.52, doc["latitude"])
	assert.Equal(t, -1.47, doc["longitude"])
}

func TestPatch_GeocodeFailureClearsCoordinates(t *testing.T) {
	f := seededPatchFixture(t)
	f.geocoder.coords = nil
	f.geocoder.err = domain.ErrPostcodeNotFound

	record, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"employerPostcode":"CV12 1CS"}`))
	require.NoError(t, err)
	assert.Nil(t, record.Latitude)

	doc := storedDoc(t, f)
	assert.Equal(t, testPostcode, doc["employerPostcode"])
	assert.Nil(t, doc["latitude"])
	assert.Contains(t, doc, "latitude")
	assert.Equal(t, 1, f.progressions.replaces)
}

func TestPatch_CorruptStoredDocument(t *testing.T) {
	f := newFixture()
	f.progressions.seed(t, customerID, recordID, `{"employerName":`)

	_, err := f.uc.Patch(context.Background(), caller(), recordID, []byte(`{"employerName":"Beta"}`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
	assert.Zero(t, f.progressions.replaces)
}
