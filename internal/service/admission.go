package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/notifier"
	"github.com/dhanushramudri/events-backend/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrParticipantNotFound   = repository.ErrParticipantNotFound
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrRegistrationClosed    = errors.New("registration for this event has closed")
	ErrCapacityExceeded      = errors.New("event has reached maximum capacity")
)

// AdmissionEventRepository is the event-ledger side the controller needs:
// capacity state reads and occupancy adjustments.
type AdmissionEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	AdjustApprovedCount(ctx context.Context, id uint, delta int) error
}

type AdmissionParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Update(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Delete(ctx context.Context, id uint) error
	FindByEventAndID(ctx context.Context, eventID, id uint) (domain.Participant, error)
	FindByEmail(ctx context.Context, eventID uint, email string) (domain.Participant, error)
	CountByStatus(ctx context.Context, eventID uint, status domain.ParticipantStatus) (int, error)
	ListPendingOrdered(ctx context.Context, eventID uint) ([]domain.Participant, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Participant, error)
	RenumberPending(ctx context.Context, eventID uint) error
}

// AdmissionService decides, for every registration, approval, rejection,
// withdrawal and removal, whether a participant is admitted, waitlisted or
// promoted. It is the only writer of an event's approved count. Every
// operation runs under a per-event lock; operations on different events do
// not contend.
type AdmissionService struct {
	events       AdmissionEventRepository
	participants AdmissionParticipantRepository
	notifier     notifier.Notifier
	locks        eventLocks
	now          func() time.Time
}

func NewAdmissionService(events AdmissionEventRepository, participants AdmissionParticipantRepository, n notifier.Notifier) *AdmissionService {
	return &AdmissionService{
		events:       events,
		participants: participants,
		notifier:     n,
		now:          time.Now,
	}
}

type queuedNotification struct {
	contact    domain.Contact
	eventTitle string
	outcome    notifier.Outcome
}

// dispatch sends the collected notifications once the critical section is
// over. Failures are logged and swallowed; a committed transition is never
// rolled back over email.
func (s *AdmissionService) dispatch(queued *[]queuedNotification) {
	for _, n := range *queued {
		go func(n queuedNotification) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := s.notifier.Notify(ctx, n.contact, n.eventTitle, n.outcome); err != nil {
				zap.L().Warn("failed to send notification",
					zap.String("to", n.contact.Email),
					zap.String("outcome", string(n.outcome)),
					zap.Error(err),
				)
			}
		}(n)
	}
}

func contactOf(p domain.Participant) domain.Contact {
	return domain.Contact{
		Name:   p.Name,
		Email:  p.Email,
		UserID: p.UserID,
	}
}

// Register admits the contact into the event or places them at the end of the
// waitlist. A terminal (rejected/withdrawn) record for the same contact is
// reused in place, starting a fresh registration cycle.
func (s *AdmissionService) Register(ctx context.Context, eventID uint, contact domain.Contact) (domain.Participant, error) {
	var queued []queuedNotification
	defer s.dispatch(&queued)

	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Participant{}, ErrEventNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !event.RegistrationOpen(s.now()) {
		return domain.Participant{}, ErrRegistrationClosed
	}

	existing, findErr := s.participants.FindByEmail(ctx, eventID, contact.Email)
	if findErr != nil && !errors.Is(findErr, ErrParticipantNotFound) {
		return domain.Participant{}, fmt.Errorf("s.participants.FindByEmail -> %w", findErr)
	}
	if findErr == nil && !existing.Status.IsTerminal() {
		return domain.Participant{}, ErrDuplicateRegistration
	}

	participant := domain.Participant{
		EventID:       eventID,
		Name:          contact.Name,
		Email:         contact.Email,
		UserID:        contact.UserID,
		Status:        domain.ParticipantPending,
		QueuePosition: domain.PositionApproved,
		RegisteredAt:  s.now(),
	}

	if event.AutoApprove && event.HasCapacity() {
		participant.Status = domain.ParticipantApproved
	} else {
		pendingCount, err := s.participants.CountByStatus(ctx, eventID, domain.ParticipantPending)
		if err != nil {
			return domain.Participant{}, fmt.Errorf("s.participants.CountByStatus -> %w", err)
		}
		participant.QueuePosition = pendingCount + 1
	}

	if findErr == nil {
		// Re-registration after a terminal status: reuse the record.
		participant.ID = existing.ID
		participant, err = s.participants.Update(ctx, participant)
		if err != nil {
			return domain.Participant{}, fmt.Errorf("s.participants.Update -> %w", err)
		}
	} else {
		participant, err = s.participants.Create(ctx, participant)
		if err != nil {
			if errors.Is(err, ErrDuplicateRegistration) {
				return domain.Participant{}, ErrDuplicateRegistration
			}
			return domain.Participant{}, fmt.Errorf("s.participants.Create -> %w", err)
		}
	}

	if participant.Status == domain.ParticipantApproved {
		if err = s.events.AdjustApprovedCount(ctx, eventID, 1); err != nil {
			return domain.Participant{}, fmt.Errorf("s.events.AdjustApprovedCount -> %w", err)
		}
	}

	outcome := notifier.OutcomePending
	if participant.Status == domain.ParticipantApproved {
		outcome = notifier.OutcomeConfirmed
	}
	queued = append(queued, queuedNotification{contactOf(participant), event.Title, outcome})

	return participant, nil
}

// Approve admits a specific participant, subject to capacity, and closes the
// gap they leave in the pending queue. Approving an already approved
// participant is a no-op.
func (s *AdmissionService) Approve(ctx context.Context, eventID, participantID uint) (domain.Participant, error) {
	var queued []queuedNotification
	defer s.dispatch(&queued)

	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Participant{}, ErrEventNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	participant, err := s.participants.FindByEventAndID(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.participants.FindByEventAndID -> %w", err)
	}

	if participant.Status == domain.ParticipantApproved {
		return participant, nil
	}

	if !event.HasCapacity() {
		return domain.Participant{}, ErrCapacityExceeded
	}

	participant.Status = domain.ParticipantApproved
	participant.QueuePosition = domain.PositionApproved
	participant, err = s.participants.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.Update -> %w", err)
	}

	if err = s.events.AdjustApprovedCount(ctx, eventID, 1); err != nil {
		return domain.Participant{}, fmt.Errorf("s.events.AdjustApprovedCount -> %w", err)
	}

	if err = s.participants.RenumberPending(ctx, eventID); err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.RenumberPending -> %w", err)
	}

	queued = append(queued, queuedNotification{contactOf(participant), event.Title, notifier.OutcomeApproved})

	return participant, nil
}

// Reject turns down a participant. Rejecting an approved participant frees a
// spot and promotes the head of the waitlist. Rejecting an already rejected
// participant is a no-op.
func (s *AdmissionService) Reject(ctx context.Context, eventID, participantID uint) (domain.Participant, error) {
	var queued []queuedNotification
	defer s.dispatch(&queued)

	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Participant{}, ErrEventNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	participant, err := s.participants.FindByEventAndID(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.participants.FindByEventAndID -> %w", err)
	}

	if participant.Status == domain.ParticipantRejected {
		return participant, nil
	}

	wasApproved := participant.Status == domain.ParticipantApproved

	participant.Status = domain.ParticipantRejected
	participant.QueuePosition = domain.PositionTerminal
	participant, err = s.participants.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.Update -> %w", err)
	}

	if wasApproved {
		if err = s.freeSpot(ctx, event, &queued); err != nil {
			return domain.Participant{}, err
		}
	}

	if err = s.participants.RenumberPending(ctx, eventID); err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.RenumberPending -> %w", err)
	}

	queued = append(queued, queuedNotification{contactOf(participant), event.Title, notifier.OutcomeRejected})

	return participant, nil
}

// Withdraw is the self-service counterpart of Reject, keyed by the contact's
// email. Withdrawing twice is a no-op.
func (s *AdmissionService) Withdraw(ctx context.Context, eventID uint, email string) (domain.Participant, error) {
	var queued []queuedNotification
	defer s.dispatch(&queued)

	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Participant{}, ErrEventNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	participant, err := s.participants.FindByEmail(ctx, eventID, email)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}
		return domain.Participant{}, fmt.Errorf("s.participants.FindByEmail -> %w", err)
	}

	if participant.Status == domain.ParticipantWithdrawn {
		return participant, nil
	}

	wasApproved := participant.Status == domain.ParticipantApproved

	participant.Status = domain.ParticipantWithdrawn
	participant.QueuePosition = domain.PositionTerminal
	participant, err = s.participants.Update(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.Update -> %w", err)
	}

	if wasApproved {
		if err = s.freeSpot(ctx, event, &queued); err != nil {
			return domain.Participant{}, err
		}
	}

	if err = s.participants.RenumberPending(ctx, eventID); err != nil {
		return domain.Participant{}, fmt.Errorf("s.participants.RenumberPending -> %w", err)
	}

	queued = append(queued, queuedNotification{contactOf(participant), event.Title, notifier.OutcomeWithdrawn})

	return participant, nil
}

// Remove hard-deletes a participant record with the same occupancy accounting
// as Withdraw.
func (s *AdmissionService) Remove(ctx context.Context, eventID, participantID uint) (domain.PromotionResult, error) {
	var queued []queuedNotification
	defer s.dispatch(&queued)

	unlock := s.locks.lock(eventID)
	defer unlock()

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.PromotionResult{}, ErrEventNotFound
		}
		return domain.PromotionResult{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	participant, err := s.participants.FindByEventAndID(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return domain.PromotionResult{}, ErrParticipantNotFound
		}
		return domain.PromotionResult{}, fmt.Errorf("s.participants.FindByEventAndID -> %w", err)
	}

	wasApproved := participant.Status == domain.ParticipantApproved

	if err = s.participants.Delete(ctx, participant.ID); err != nil {
		return domain.PromotionResult{}, fmt.Errorf("s.participants.Delete -> %w", err)
	}

	result := domain.PromotionResult{}
	if wasApproved {
		if err = s.events.AdjustApprovedCount(ctx, eventID, -1); err != nil {
			return domain.PromotionResult{}, fmt.Errorf("s.events.AdjustApprovedCount -> %w", err)
		}
		result, err = s.promoteNext(ctx, event, &queued)
		if err != nil {
			return domain.PromotionResult{}, err
		}
	}

	if err = s.participants.RenumberPending(ctx, eventID); err != nil {
		return domain.PromotionResult{}, fmt.Errorf("s.participants.RenumberPending -> %w", err)
	}

	queued = append(queued, queuedNotification{contactOf(participant), event.Title, notifier.OutcomeRemoved})

	return result, nil
}

// freeSpot decrements occupancy after an approved participant left and
// promotes the head of the waitlist if there is one.
func (s *AdmissionService) freeSpot(ctx context.Context, event domain.Event, queued *[]queuedNotification) error {
	if err := s.events.AdjustApprovedCount(ctx, event.ID, -1); err != nil {
		return fmt.Errorf("s.events.AdjustApprovedCount -> %w", err)
	}

	if _, err := s.promoteNext(ctx, event, queued); err != nil {
		return err
	}

	return nil
}

// promoteNext approves the pending participant with the smallest queue
// position (earliest registration breaks ties). Callers renumber the
// remaining queue before their critical section ends, so contiguity holds by
// the time the operation is observable.
func (s *AdmissionService) promoteNext(ctx context.Context, event domain.Event, queued *[]queuedNotification) (domain.PromotionResult, error) {
	pending, err := s.participants.ListPendingOrdered(ctx, event.ID)
	if err != nil {
		return domain.PromotionResult{}, fmt.Errorf("s.participants.ListPendingOrdered -> %w", err)
	}
	if len(pending) == 0 {
		return domain.PromotionResult{}, nil
	}

	next := pending[0]
	next.Status = domain.ParticipantApproved
	next.QueuePosition = domain.PositionApproved
	next, err = s.participants.Update(ctx, next)
	if err != nil {
		return domain.PromotionResult{}, fmt.Errorf("s.participants.Update -> %w", err)
	}

	if err = s.events.AdjustApprovedCount(ctx, event.ID, 1); err != nil {
		return domain.PromotionResult{}, fmt.Errorf("s.events.AdjustApprovedCount -> %w", err)
	}

	*queued = append(*queued, queuedNotification{contactOf(next), event.Title, notifier.OutcomePromoted})

	return domain.PromotionResult{Promoted: &next}, nil
}

// ListParticipants returns every participant of the event, approved first,
// then by queue position. Pure read.
func (s *AdmissionService) ListParticipants(ctx context.Context, eventID uint) ([]domain.Participant, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	participants, err := s.participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.participants.ListByEvent -> %w", err)
	}

	return participants, nil
}
