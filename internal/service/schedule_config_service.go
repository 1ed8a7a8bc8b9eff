package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/internal/scheduler"
)

type scheduleConfigRepository interface {
	Create(ctx context.Context, name, cronExpression string, isActive bool) (*domain.ScheduleConfig, error)
	GetByID(ctx context.Context, id string) (*domain.ScheduleConfig, error)
	FindByName(ctx context.Context, name string) (*domain.ScheduleConfig, error)
	FindAll(ctx context.Context) ([]domain.ScheduleConfig, error)
	FindActive(ctx context.Context) ([]domain.ScheduleConfig, error)
	Update(ctx context.Context, id string, upd domain.ScheduleConfigUpdate) (*domain.ScheduleConfig, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// reconfigurer applies changes to the running dispatch timer. Implemented by *scheduler.Scheduler.
type reconfigurer interface {
	SetCadence(ctx context.Context, expr string) error
	SetActive(ctx context.Context, active bool) error
}

type ScheduleConfigService struct {
	repo      scheduleConfigRepository
	scheduler reconfigurer
}

func NewScheduleConfigService(repo scheduleConfigRepository, scheduler reconfigurer) *ScheduleConfigService {
	return &ScheduleConfigService{repo: repo, scheduler: scheduler}
}

func (s *ScheduleConfigService) Create(
	ctx context.Context,
	name, cronExpression string,
	isActive bool,
) (*domain.ScheduleConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidScheduleConfig)
	}
	if err := scheduler.ValidateCadence(cronExpression); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrScheduleConfigConflict, name)
	}

	cfg, err := s.repo.Create(ctx, name, cronExpression, isActive)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleConfigConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}

	return cfg, nil
}

func (s *ScheduleConfigService) List(ctx context.Context) ([]domain.ScheduleConfig, error) {
	return s.repo.FindAll(ctx)
}

func (s *ScheduleConfigService) ListActive(ctx context.Context) ([]domain.ScheduleConfig, error) {
	return s.repo.FindActive(ctx)
}

func (s *ScheduleConfigService) Get(ctx context.Context, id string) (*domain.ScheduleConfig, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if cfg == nil {
		return nil, domain.ErrScheduleConfigNotFound
	}
	return cfg, nil
}

// Update changes a config. For the message-sender config the change goes through the
// scheduler, which stores it and then replaces the running timer.
func (s *ScheduleConfigService) Update(
	ctx context.Context,
	id string,
	upd domain.ScheduleConfigUpdate,
) (*domain.ScheduleConfig, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidScheduleConfig)
	}
	if upd.CronExpression != nil {
		if err := scheduler.ValidateCadence(*upd.CronExpression); err != nil {
			return nil, err
		}
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Name != domain.MessageSenderConfigName || s.scheduler == nil {
		updated, err := s.repo.Update(ctx, id, upd)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
		}
		if updated == nil {
			return nil, domain.ErrScheduleConfigNotFound
		}
		return updated, nil
	}

	if upd.CronExpression != nil {
		if err := s.scheduler.SetCadence(ctx, *upd.CronExpression); err != nil {
			return nil, err
		}
	}
	if upd.IsActive != nil {
		if err := s.scheduler.SetActive(ctx, *upd.IsActive); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

// Delete removes a config. The message-sender config backs the scheduler and can only be
// deactivated.
func (s *ScheduleConfigService) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Name == domain.MessageSenderConfigName {
		return fmt.Errorf("%w: %s cannot be deleted, deactivate it instead", domain.ErrInvalidScheduleConfig, current.Name)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if !deleted {
		return domain.ErrScheduleConfigNotFound
	}

	return nil
}
