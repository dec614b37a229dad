package service

import (
	"fmt"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
)

// ApplicationService business logic for applying to events and deciding
// applications
type ApplicationService interface {
	// Apply submits an application for an event slot. One application per
	// (event, applicant); a second attempt returns ErrAlreadyApplied.
	Apply(eventID int64, applicantID string, req *domain.ApplyRequest) (*domain.Application, error)
	// Decide accepts or rejects an application. Organizer only; accepting
	// past capacity returns ErrEventFull.
	Decide(applicationID int64, organizerID, status string) (*domain.Application, error)
	ListByEvent(eventID int64, userID string) ([]*domain.Application, error)
	ListMine(applicantID string) ([]*domain.Application, error)
}

type applicationService struct {
	appRepo   repository.ApplicationRepository
	eventRepo repository.EventRepository
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(appRepo repository.ApplicationRepository, eventRepo repository.EventRepository) ApplicationService {
	return &applicationService{
		appRepo:   appRepo,
		eventRepo: eventRepo,
	}
}

// Apply creates a pending application after validating the slot
func (s *applicationService) Apply(eventID int64, applicantID string, req *domain.ApplyRequest) (*domain.Application, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if event.OrganizerID == applicantID {
		return nil, fmt.Errorf("%w: organizer cannot apply to own event", common.ErrInvalidInput)
	}

	slotOK := false
	for _, slot := range event.Slots {
		if slot.ID == req.SlotID {
			slotOK = true
			break
		}
	}
	if !slotOK {
		return nil, common.ErrSlotNotFound
	}

	app := &domain.Application{
		EventID:     eventID,
		SlotID:      req.SlotID,
		ApplicantID: applicantID,
		Status:      domain.ApplicationPending,
		CreatedAt:   time.Now(),
	}
	if err := s.appRepo.Create(app); err != nil {
		// Unique (event, applicant) index catches the double apply
		if repository.IsDuplicateKey(err) {
			return nil, common.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return app, nil
}

// Decide accepts or rejects a pending application
func (s *applicationService) Decide(applicationID int64, organizerID, status string) (*domain.Application, error) {
	app, err := s.appRepo.FindByID(applicationID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	event, err := s.eventRepo.FindByID(app.EventID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if event.OrganizerID != organizerID {
		return nil, common.ErrForbidden
	}

	if status == domain.ApplicationAccepted {
		accepted, err := s.appRepo.CountAccepted(app.EventID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		if accepted >= int64(event.Capacity) {
			return nil, common.ErrEventFull
		}
	}

	now := time.Now()
	if err := s.appRepo.UpdateStatus(applicationID, status, now); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	app.Status = status
	app.DecidedAt = &now
	return app, nil
}

// ListByEvent returns an event's applications. Organizer only.
func (s *applicationService) ListByEvent(eventID int64, userID string) ([]*domain.Application, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if event.OrganizerID != userID {
		return nil, common.ErrForbidden
	}

	apps, err := s.appRepo.ListByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return apps, nil
}

// ListMine returns the user's own applications
func (s *applicationService) ListMine(applicantID string) ([]*domain.Application, error) {
	apps, err := s.appRepo.ListByApplicant(applicantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return apps, nil
}
