package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

// HospitalService implements hospital management. Deletion is always soft so
// historical remittances keep resolving to a facility.
type HospitalService struct {
	repo  ports.HospitalRepository
	users ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewHospitalService(repo ports.HospitalRepository, users ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) *HospitalService {
	return &HospitalService{repo: repo, users: users, audit: audit, log: log}
}

func (s *HospitalService) Create(ctx context.Context, input ports.HospitalInput) (*domain.Hospital, error) {
	if !domain.ValidHospitalID(input.HospitalID) {
		return nil, domain.ErrInvalidHospitalID
	}
	if err := s.checkRemitter(ctx, input.RemitterID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hospital := &domain.Hospital{
		HospitalID:       input.HospitalID,
		Name:             input.Name,
		MilitaryDivision: input.MilitaryDivision,
		Address:          input.Address,
		PhoneNumber:      input.PhoneNumber,
		RemitterID:       input.RemitterID,
		MonthlyTarget:    input.MonthlyTarget,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, hospital)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.AuditHospitalCreated, created.ID)
	s.log.Info().Str("hospital_id", created.HospitalID).Msg("hospital created")
	return created, nil
}

func (s *HospitalService) Get(ctx context.Context, id string) (*domain.Hospital, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *HospitalService) List(ctx context.Context, includeDeleted bool) ([]*domain.Hospital, error) {
	return s.repo.List(ctx, includeDeleted)
}

func (s *HospitalService) ForRemitter(ctx context.Context, remitterID string) ([]*domain.Hospital, error) {
	return s.repo.ListByRemitter(ctx, remitterID)
}

func (s *HospitalService) Update(ctx context.Context, id string, input ports.HospitalInput) (*domain.Hospital, error) {
	hospital, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.HospitalID != "" {
		if !domain.ValidHospitalID(input.HospitalID) {
			return nil, domain.ErrInvalidHospitalID
		}
		hospital.HospitalID = input.HospitalID
	}
	if input.Name != "" {
		hospital.Name = input.Name
	}
	if input.MilitaryDivision != "" {
		hospital.MilitaryDivision = input.MilitaryDivision
	}
	if input.Address != "" {
		hospital.Address = input.Address
	}
	if input.PhoneNumber != "" {
		hospital.PhoneNumber = input.PhoneNumber
	}
	if input.RemitterID != "" {
		if err := s.checkRemitter(ctx, input.RemitterID); err != nil {
			return nil, err
		}
		hospital.RemitterID = input.RemitterID
	}
	if input.MonthlyTarget > 0 {
		hospital.MonthlyTarget = input.MonthlyTarget
	}
	hospital.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, hospital)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.AuditHospitalUpdated, id)
	return updated, nil
}

func (s *HospitalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.record(ctx, domain.AuditHospitalDeleted, id)
	return nil
}

func (s *HospitalService) Restore(ctx context.Context, id string) error {
	if err := s.repo.SetDeleted(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, domain.AuditHospitalRestored, id)
	return nil
}

// checkRemitter verifies that the assigned account exists and holds the
// remitter role.
func (s *HospitalService) checkRemitter(ctx context.Context, remitterID string) error {
	if remitterID == "" {
		return nil
	}
	user, err := s.users.FindByID(ctx, remitterID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleRemitter {
		return domain.ErrForbidden
	}
	return nil
}

func (s *HospitalService) record(ctx context.Context, action, entityID string) {
	entry := &domain.AuditEntry{Action: action, EntityID: entityID, CreatedAt: time.Now().UTC()}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}
