package session

import (
	"context"
	"fmt"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/core/tx"
	"campuscore/internal/domain"
	"campuscore/pkg/logger"
)

// Service provides business logic for academic sessions.
// Uses composition with domain.RecordService for common CRUD operations.
type Service struct {
	*domain.RecordService[*Session]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new session service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Session]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "academic_session",
	})

	return &Service{
		RecordService: base,
		repo:          repo,
		txManager:     txManager,
	}
}

// Current returns the session marked current.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	return s.repo.GetCurrent(ctx)
}

// SetCurrent marks one session current and unmarks all others in the same
// transaction, so at most one current session is ever visible.
func (s *Service) SetCurrent(ctx context.Context, sessionID id.ID) (*Session, error) {
	var result *Session
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sess, err := s.repo.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := s.repo.ClearCurrent(ctx, sessionID); err != nil {
			return fmt.Errorf("clear current session: %w", err)
		}
		if !sess.IsCurrent {
			sess.IsCurrent = true
			sess.Touch()
			if err := s.repo.Update(ctx, sess); err != nil {
				return fmt.Errorf("mark session current: %w", err)
			}
		}
		result = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "current academic session changed", "session_id", sessionID, "name", result.Name)
	return result, nil
}

// ForDate returns the session containing the given date, preferring the
// current one when several overlap.
func (s *Service) ForDate(ctx context.Context, date time.Time) (*Session, error) {
	res, err := s.List(ctx, domain.DefaultListFilter())
	if err != nil {
		return nil, err
	}
	var match *Session
	for _, sess := range res.Items {
		if !sess.Contains(date) {
			continue
		}
		if sess.IsCurrent {
			return sess, nil
		}
		if match == nil {
			match = sess
		}
	}
	if match == nil {
		return nil, apperror.NewNotFound("academic_session", date.Format("2006-01-02"))
	}
	return match, nil
}
