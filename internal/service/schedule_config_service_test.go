package service

import (
	"context"
	"errors"
	"testing"

	"github.com/onurcolak/message-dispatcher/internal/domain"
)

type fakeConfigRepo struct {
	configs     map[string]*domain.ScheduleConfig
	updateCalls int
}

func newFakeConfigRepo(cfgs ...domain.ScheduleConfig) *fakeConfigRepo {
	r := &fakeConfigRepo{configs: make(map[string]*domain.ScheduleConfig)}
	for i := range cfgs {
		c := cfgs[i]
		r.configs[c.ID] = &c
	}
	return r
}

func (r *fakeConfigRepo) Create(ctx context.Context, name, cronExpression string, isActive bool) (*domain.ScheduleConfig, error) {
	c := &domain.ScheduleConfig{ID: "cfg-" + name, Name: name, CronExpression: cronExpression, IsActive: isActive}
	r.configs[c.ID] = c
	out := *c
	return &out, nil
}

func (r *fakeConfigRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleConfig, error) {
	c, ok := r.configs[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeConfigRepo) FindByName(ctx context.Context, name string) (*domain.ScheduleConfig, error) {
	for _, c := range r.configs {
		if c.Name == name {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeConfigRepo) FindAll(ctx context.Context) ([]domain.ScheduleConfig, error) {
	var out []domain.ScheduleConfig
	for _, c := range r.configs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeConfigRepo) FindActive(ctx context.Context) ([]domain.ScheduleConfig, error) {
	var out []domain.ScheduleConfig
	for _, c := range r.configs {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) Update(ctx context.Context, id string, upd domain.ScheduleConfigUpdate) (*domain.ScheduleConfig, error) {
	r.updateCalls++
	c, ok := r.configs[id]
	if !ok {
		return nil, nil
	}
	if upd.CronExpression != nil {
		c.CronExpression = *upd.CronExpression
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	out := *c
	return &out, nil
}

func (r *fakeConfigRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.configs[id]; !ok {
		return false, nil
	}
	delete(r.configs, id)
	return true, nil
}

// fakeReconfigurer writes through to the repo the way the scheduler does.
type fakeReconfigurer struct {
	repo    *fakeConfigRepo
	cadence []string
	active  []bool
}

func (f *fakeReconfigurer) SetCadence(ctx context.Context, expr string) error {
	f.cadence = append(f.cadence, expr)
	cfg, _ := f.repo.FindByName(ctx, domain.MessageSenderConfigName)
	_, err := f.repo.Update(ctx, cfg.ID, domain.ScheduleConfigUpdate{CronExpression: &expr})
	return err
}

func (f *fakeReconfigurer) SetActive(ctx context.Context, active bool) error {
	f.active = append(f.active, active)
	cfg, _ := f.repo.FindByName(ctx, domain.MessageSenderConfigName)
	_, err := f.repo.Update(ctx, cfg.ID, domain.ScheduleConfigUpdate{IsActive: &active})
	return err
}

func TestScheduleConfigUpdate_MessageSenderGoesThroughScheduler(t *testing.T) {
	repo := newFakeConfigRepo(domain.ScheduleConfig{
		ID: "cfg-1", Name: domain.MessageSenderConfigName, CronExpression: "*/5 * * * *", IsActive: true,
	})
	reconfig := &fakeReconfigurer{repo: repo}
	svc := NewScheduleConfigService(repo, reconfig)

	cadence := "*/1 * * * *"
	active := false
	updated, err := svc.Update(context.Background(), "cfg-1", domain.ScheduleConfigUpdate{
		CronExpression: &cadence,
		IsActive:       &active,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if len(reconfig.cadence) != 1 || reconfig.cadence[0] != cadence {
		t.Fatalf("expected SetCadence(%q), got %v", cadence, reconfig.cadence)
	}
	if len(reconfig.active) != 1 || reconfig.active[0] {
		t.Fatalf("expected SetActive(false), got %v", reconfig.active)
	}
	if updated.CronExpression != cadence || updated.IsActive {
		t.Fatalf("expected stored config to reflect the change, got %+v", updated)
	}
}

func TestScheduleConfigUpdate_OtherNamesAreInert(t *testing.T) {
	repo := newFakeConfigRepo(domain.ScheduleConfig{
		ID: "cfg-2", Name: "report", CronExpression: "0 * * * *", IsActive: true,
	})
	reconfig := &fakeReconfigurer{repo: repo}
	svc := NewScheduleConfigService(repo, reconfig)

	active := false
	if _, err := svc.Update(context.Background(), "cfg-2", domain.ScheduleConfigUpdate{IsActive: &active}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if len(reconfig.active) != 0 || len(reconfig.cadence) != 0 {
		t.Fatalf("expected scheduler to be left alone")
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected a direct repository update, got %d", repo.updateCalls)
	}
}

func TestScheduleConfigUpdate_InvalidCadence(t *testing.T) {
	repo := newFakeConfigRepo(domain.ScheduleConfig{ID: "cfg-1", Name: domain.MessageSenderConfigName, CronExpression: "* * * * *"})
	svc := NewScheduleConfigService(repo, &fakeReconfigurer{repo: repo})

	bad := "61 * * * *"
	_, err := svc.Update(context.Background(), "cfg-1", domain.ScheduleConfigUpdate{CronExpression: &bad})
	if !errors.Is(err, domain.ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got %v", err)
	}
}

func TestScheduleConfigUpdate_NotFound(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := NewScheduleConfigService(repo, nil)

	active := true
	_, err := svc.Update(context.Background(), "nope", domain.ScheduleConfigUpdate{IsActive: &active})
	if !errors.Is(err, domain.ErrScheduleConfigNotFound) {
		t.Fatalf("expected ErrScheduleConfigNotFound, got %v", err)
	}
}

func TestScheduleConfigCreate_DuplicateNameConflicts(t *testing.T) {
	repo := newFakeConfigRepo(domain.ScheduleConfig{ID: "cfg-1", Name: "report", CronExpression: "* * * * *"})
	svc := NewScheduleConfigService(repo, nil)

	_, err := svc.Create(context.Background(), "report", "0 * * * *", true)
	if !errors.Is(err, domain.ErrScheduleConfigConflict) {
		t.Fatalf("expected ErrScheduleConfigConflict, got %v", err)
	}

	created, err := svc.Create(context.Background(), "digest", "0 9 * * *", false)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Name != "digest" || created.IsActive {
		t.Fatalf("unexpected created config: %+v", created)
	}
}

func TestScheduleConfigDelete(t *testing.T) {
	repo := newFakeConfigRepo(
		domain.ScheduleConfig{ID: "cfg-1", Name: domain.MessageSenderConfigName, CronExpression: "* * * * *"},
		domain.ScheduleConfig{ID: "cfg-2", Name: "report", CronExpression: "0 * * * *"},
	)
	svc := NewScheduleConfigService(repo, &fakeReconfigurer{repo: repo})

	if err := svc.Delete(context.Background(), "cfg-1"); !errors.Is(err, domain.ErrInvalidScheduleConfig) {
		t.Fatalf("expected message-sender deletion to be refused, got %v", err)
	}
	if _, ok := repo.configs["cfg-1"]; !ok {
		t.Fatalf("expected message-sender config to remain")
	}

	if err := svc.Delete(context.Background(), "cfg-2"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.configs["cfg-2"]; ok {
		t.Fatalf("expected report config to be deleted")
	}

	if err := svc.Delete(context.Background(), "cfg-2"); !errors.Is(err, domain.ErrScheduleConfigNotFound) {
		t.Fatalf("expected ErrScheduleConfigNotFound, got %v", err)
	}
}
