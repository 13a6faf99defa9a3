package progression

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/pkg/logger"
	"github.com/fastygo/progression/repository"
	"github.com/fastygo/progression/usecase"
)

// Caller identifies who is calling and which customer is addressed.
type Caller struct {
	TouchpointID string
	BaseURL      string
	CustomerID   string
}

// validate checks the caller and rewrites CustomerID to its canonical
// lower-case hyphenated form.
func (c *Caller) validate() error {
	if strings.TrimSpace(c.TouchpointID) == "" {
		return domain.ErrMissingTouchpoint
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return domain.ErrMissingBaseURL
	}
	parsed, err := uuid.Parse(c.CustomerID)
	if err != nil {
		return domain.ErrInvalidCustomerID
	}
	c.CustomerID = parsed.String()
	return nil
}

func canonicalRecordID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.ErrInvalidRecordID
	}
	return parsed.String(), nil
}

type UseCase struct {
	customers    repository.CustomerRepository
	progressions repository.ProgressionRepository
	geocoder     usecase.Geocoder
	notifier     usecase.Notifier
	validator    *domain.Validator
	logger       *zap.Logger
	now          func() time.Time
	newID        func() string
}

type Option func(*UseCase)

// WithClock overrides the time source used for defaults and date rules.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(uc *UseCase) {
		if newID != nil {
			uc.newID = newID
		}
	}
}

func New(
	customers repository.CustomerRepository,
	progressions repository.ProgressionRepository,
	geocoder usecase.Geocoder,
	notifier usecase.Notifier,
	log *zap.Logger,
	opts ...Option,
) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	uc := &UseCase{
		customers:    customers,
		progressions: progressions,
		geocoder:     geocoder,
		notifier:     notifier,
		validator:    domain.NewValidator(),
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create stores a new employment progression for the caller's customer.
func (uc *UseCase) Create(ctx context.Context, caller Caller, body []byte) (*domain.EmploymentProgression, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCaller(ctx, caller.TouchpointID, caller.CustomerID)
	log := logger.FromContext(ctx, uc.logger)

	if err := uc.requireCustomer(ctx, caller.CustomerID); err != nil {
		return nil, err
	}
	readOnly, err := uc.customers.IsReadOnly(ctx, caller.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer read only: %w", err)
	}
	if readOnly {
		return nil, domain.ErrCustomerReadOnly
	}
	exists, err := uc.progressions.ExistsForCustomer(ctx, caller.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check existing employment progression: %w", err)
	}
	if exists {
		return nil, domain.ErrProgressionExists
	}

	record, err := domain.DecodeProgression(body)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	record.SetIDs(uc.newID(), caller.CustomerID, caller.TouchpointID)
	record.SetDefaults(now)
	record.ClearCoordinates()

	if err := uc.validate(record, now); err != nil {
		return nil, err
	}

	if record.EmployerPostcode != "" {
		coords, err := uc.resolve(ctx, record.EmployerPostcode)
		if err != nil {
			log.Warn("geocoding failed, storing without coordinates",
				zap.String("postcode", record.EmployerPostcode), zap.Error(err))
		} else {
			record.SetCoordinates(coords)
		}
	}

	created, err := uc.progressions.Create(ctx, record)
	if err != nil {
		log.Error("failed to store employment progression", zap.Error(err))
		return nil, err
	}
	if !created {
		return nil, domain.ErrNotPersisted
	}

	uc.publish(ctx, log, domain.ChangeCreated, record, caller.BaseURL)
	return record, nil
}

// List returns every employment progression of the caller's customer.
func (uc *UseCase) List(ctx context.Context, caller Caller) ([]domain.EmploymentProgression, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCaller(ctx, caller.TouchpointID, caller.CustomerID)

	if err := uc.requireCustomer(ctx, caller.CustomerID); err != nil {
		return nil, err
	}
	records, err := uc.progressions.List(ctx, repository.ProgressionFilter{CustomerID: caller.CustomerID})
	if err != nil {
		logger.FromContext(ctx, uc.logger).Error("failed to list employment progressions", zap.Error(err))
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrProgressionNotFound
	}
	return records, nil
}

// Get returns one employment progression of the caller's customer.
func (uc *UseCase) Get(ctx context.Context, caller Caller, id string) (*domain.EmploymentProgression, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}
	id, err := canonicalRecordID(id)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCaller(ctx, caller.TouchpointID, caller.CustomerID)

	if err := uc.requireCustomer(ctx, caller.CustomerID); err != nil {
		return nil, err
	}
	return uc.progressions.GetByID(ctx, caller.CustomerID, id)
}

// Patch applies a partial update to a stored employment progression.
func (uc *UseCase) Patch(ctx context.Context, caller Caller, id string, body []byte) (*domain.EmploymentProgression, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}
	id, err := canonicalRecordID(id)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCaller(ctx, caller.TouchpointID, caller.CustomerID)
	log := logger.FromContext(ctx, uc.logger).With(zap.String("employment_progression_id", id))

	patch, err := domain.DecodePatch(body)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, domain.ErrEmptyPatch
	}
	now := uc.now()
	patch.SetIDs(id, caller.CustomerID, caller.TouchpointID)
	patch.SetDefaults(now)
	patch.Latitude, patch.Longitude = nil, nil

	readOnly, err := uc.customers.IsReadOnly(ctx, caller.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer read only: %w", err)
	}
	if readOnly {
		return nil, domain.ErrCustomerReadOnly
	}
	customerExists, err := uc.customers.Exists(ctx, caller.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !customerExists {
		return nil, domain.ErrPatchCustomerAbsent
	}
	exists, err := uc.progressions.ExistsForCustomer(ctx, caller.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check existing employment progression: %w", err)
	}
	if !exists {
		return nil, domain.ErrProgressionNotFound
	}

	baseline, err := uc.progressions.GetRaw(ctx, caller.CustomerID, id)
	if err != nil {
		return nil, err
	}

	merged, err := domain.MergePatch(baseline, patch)
	if err != nil {
		log.Error("failed to merge patch into stored document", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeInternal, "stored employment progression is corrupt", err)
	}
	record, err := domain.DecodeProgression(merged)
	if err != nil {
		log.Error("failed to decode merged document", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeInternal, "merged employment progression is corrupt", err)
	}

	if err := uc.validate(record, now); err != nil {
		return nil, err
	}

	if patch.HasPostcode() {
		coords, err := uc.resolve(ctx, *patch.EmployerPostcode)
		if err != nil {
			log.Warn("geocoding failed, clearing coordinates",
				zap.String("postcode", *patch.EmployerPostcode), zap.Error(err))
		}
		merged, err = domain.SetCoordinates(merged, coords)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "failed to apply coordinates", err)
		}
		record.ClearCoordinates()
		record.SetCoordinates(coords)
	}

	replaced, err := uc.progressions.Replace(ctx, id, merged)
	if err != nil {
		log.Error("failed to replace employment progression", zap.Error(err))
		return nil, err
	}
	if !replaced {
		return nil, domain.ErrNotPersisted
	}

	uc.publish(ctx, log, domain.ChangeUpdated, record, caller.BaseURL)
	return record, nil
}

func (uc *UseCase) requireCustomer(ctx context.Context, customerID string) error {
	exists, err := uc.customers.Exists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (uc *UseCase) validate(record *domain.EmploymentProgression, now time.Time) error {
	violations, err := uc.validator.Validate(record, now)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &domain.ValidationError{Violations: violations}
	}
	return nil
}

func (uc *UseCase) resolve(ctx context.Context, postcode string) (*domain.Coordinates, error) {
	if uc.geocoder == nil {
		return nil, errors.New("geocoder not configured")
	}
	coords, err := uc.geocoder.Resolve(ctx, postcode)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, domain.ErrPostcodeNotFound
	}
	return coords, nil
}

func (uc *UseCase) publish(ctx context.Context, log *zap.Logger, change domain.ChangeKind, record *domain.EmploymentProgression, baseURL string) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Publish(ctx, change, record, baseURL); err != nil {
		log.Error("failed to publish employment progression notification", zap.Error(err))
	}
}
