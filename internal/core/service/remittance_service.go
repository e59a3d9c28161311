package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// RemittanceService implements remittance submission and admin approval.
type RemittanceService struct {
	repo      ports.RemittanceRepository
	hospitals ports.HospitalRepository
	refs      ports.ReferenceChecker
	notify    ports.NotificationDispatcher
	audit     ports.AuditRecorder
	log       zerolog.Logger
}

func NewRemittanceService(repo ports.RemittanceRepository, hospitals ports.HospitalRepository, refs ports.ReferenceChecker, notify ports.NotificationDispatcher, audit ports.AuditRecorder, log zerolog.Logger) *RemittanceService {
	return &RemittanceService{repo: repo, hospitals: hospitals, refs: refs, notify: notify, audit: audit, log: log}
}

// Submit books a pending remittance. The client payment reference is an
// idempotency handle: a reference seen before is rejected so browser retries
// never double-book funds.
func (s *RemittanceService) Submit(ctx context.Context, input ports.SubmitRemittanceInput) (*domain.Remittance, error) {
	hospital, err := s.hospitals.FindByID(ctx, input.HospitalID)
	if err != nil {
		return nil, err
	}
	if hospital.RemitterID != input.RemitterID {
		return nil, domain.ErrHospitalNotAssigned
	}

	used, err := s.refs.IsUsed(ctx, input.Reference)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.ErrDuplicateReference
	}

	now := time.Now().UTC()
	remittance := &domain.Remittance{
		HospitalID:      input.HospitalID,
		RemitterID:      input.RemitterID,
		Amount:          input.Amount,
		Description:     input.Description,
		PaymentMethod:   input.PaymentMethod,
		Reference:       input.Reference,
		TransactionDate: input.TransactionDate,
		Status:          domain.RemittancePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, remittance)
	if err != nil {
		return nil, err
	}

	if err := s.refs.Mark(ctx, input.Reference); err != nil {
		s.log.Warn().Err(err).Str("ref", input.Reference).Msg("reference mark failed")
	}

	metrics.RemittancesCreatedTotal.WithLabelValues(input.PaymentMethod).Inc()
	s.record(ctx, input.RemitterID, domain.AuditRemittanceCreated, created.ID, "")
	s.notify.Enqueue(domain.NotificationEvent{
		UserID: input.RemitterID,
		Title:  "Remittance submitted",
		Body:   fmt.Sprintf("Your remittance of %.2f to %s is pending approval.", input.Amount, hospital.Name),
	})

	s.log.Info().Str("remittance_id", created.ID).Str("hospital", hospital.HospitalID).Msg("remittance submitted")
	return created, nil
}

func (s *RemittanceService) ForRemitter(ctx context.Context, remitterID string) ([]*domain.Remittance, error) {
	return s.repo.ListByRemitter(ctx, remitterID)
}

// All lists remittances, optionally narrowed to one status.
func (s *RemittanceService) All(ctx context.Context, status domain.RemittanceStatus) ([]*domain.Remittance, error) {
	return s.repo.List(ctx, status)
}

// Decide applies an admin approval decision. Only pending remittances accept
// a decision; approved and rejected are terminal.
func (s *RemittanceService) Decide(ctx context.Context, id, action, decidedBy string) (*domain.Remittance, error) {
	var next domain.RemittanceStatus
	switch action {
	case "approve":
		next = domain.RemittanceApproved
	case "reject":
		next = domain.RemittanceRejected
	default:
		return nil, domain.ErrInvalidDecision
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidDecision
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next, decidedBy)
	if err != nil {
		return nil, err
	}

	metrics.RemittanceDecisionsTotal.WithLabelValues(action).Inc()
	s.record(ctx, decidedBy, domain.AuditRemittanceDecided, id, string(next))
	s.notify.Enqueue(domain.NotificationEvent{
		UserID: updated.RemitterID,
		Title:  "Remittance " + string(next),
		Body:   fmt.Sprintf("Your remittance %s of %.2f was %s.", updated.Reference, updated.Amount, next),
	})

	return updated, nil
}

// Summaries aggregates remitted totals per hospital for the given month.
// With an empty remitterID it covers every hospital (admin dashboard);
// otherwise only the remitter's assigned hospitals.
func (s *RemittanceService) Summaries(ctx context.Context, month time.Time, remitterID string) ([]*domain.HospitalSummary, error) {
	return s.repo.SummarizeByHospital(ctx, month, remitterID)
}

func (s *RemittanceService) record(ctx context.Context, actorID, action, entityID, detail string) {
	entry := &domain.AuditEntry{ActorID: actorID, Action: action, EntityID: entityID, Detail: detail, CreatedAt: time.Now().UTC()}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}
