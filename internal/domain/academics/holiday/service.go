package holiday

import (
	"context"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/core/tx"
	"campuscore/internal/domain"
)

// Service provides business logic for the holiday calendar.
// Uses composition with domain.RecordService for common CRUD operations.
type Service struct {
	*domain.RecordService[*Holiday]
	repo Repository
}

// NewService creates a new holiday service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Holiday]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "holiday",
	})

	svc := &Service{
		RecordService: base,
		repo:          repo,
	}

	// One holiday per (session, day).
	base.Hooks().OnBeforeCreate(svc.checkDateFree)
	base.Hooks().OnBeforeUpdate(svc.checkDateFree)

	return svc
}

func (s *Service) checkDateFree(ctx context.Context, h *Holiday) error {
	existing, err := s.repo.FindByDate(ctx, h.SessionID, h.Date)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != h.ID {
		return apperror.NewDuplicate("holiday", "date", h.Date.Format("2006-01-02")).
			WithDetail("sessionId", h.SessionID.String())
	}
	return nil
}

// ListForSession returns the session's holidays ordered by date.
func (s *Service) ListForSession(ctx context.Context, sessionID id.ID) ([]*Holiday, error) {
	return s.repo.ListForSession(ctx, sessionID)
}

// IsHoliday reports whether the given day is a holiday in the session.
func (s *Service) IsHoliday(ctx context.Context, sessionID id.ID, date time.Time) (bool, error) {
	_, err := s.repo.FindByDate(ctx, sessionID, date)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
