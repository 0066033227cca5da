// Package settings binds the plugin's settings form to persistence and to
// the connectivity check.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/docsync/internal/domain"
	"github.com/hamed0406/docsync/internal/metrics"
	"github.com/hamed0406/docsync/internal/notify"
	"github.com/hamed0406/docsync/internal/probe"
	"github.com/hamed0406/docsync/internal/repo"
)

var (
	ErrUnknownField    = errors.New("unknown settings field")
	ErrInvalidValue    = errors.New("invalid settings value")
	ErrCheckInProgress = errors.New("connectivity check already in progress")
)

const noticeTitle = "DocSync"

// Panel owns the in-memory settings and persists every change through the
// store before making it visible.
type Panel struct {
	store    repo.SettingsStore
	checker  probe.Checker
	notifier notify.Notifier
	log      *zap.Logger

	mu       sync.RWMutex
	settings domain.Settings
	checking atomic.Bool
}

func NewPanel(ctx context.Context, store repo.SettingsStore, checker probe.Checker, n notify.Notifier, log *zap.Logger) (*Panel, error) {
	if n == nil {
		n = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s := domain.DefaultSettings()
	if loaded != nil {
		s = loaded.Clone()
	}
	return &Panel{store: store, checker: checker, notifier: n, log: log, settings: s}, nil
}

// Settings returns a copy of the current settings.
func (p *Panel) Settings() domain.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.Clone()
}

func (p *Panel) Get(f Field) (string, error) {
	if _, err := ParseField(string(f)); err != nil {
		return "", err
	}
	return fieldValue(p.Settings(), f), nil
}

// Set changes one field and persists it. The service URL is stored exactly
// as typed, partial input included; it is normalized when a check runs.
func (p *Panel) Set(ctx context.Context, f Field, value string) error {
	return p.update(ctx, string(f), func(s *domain.Settings) error {
		return applyField(s, f, value)
	})
}

func (p *Panel) SetProjects(ctx context.Context, projects []domain.Project) error {
	return p.update(ctx, "projects", func(s *domain.Settings) error {
		s.Projects = append([]domain.Project{}, projects...)
		return validateEach(s.Projects)
	})
}

// SetFileMappings replaces the mapping list; order is preserved.
func (p *Panel) SetFileMappings(ctx context.Context, mappings []domain.FileMapping) error {
	return p.update(ctx, "file_mappings", func(s *domain.Settings) error {
		s.FileMappings = append([]domain.FileMapping{}, mappings...)
		return validateEach(s.FileMappings)
	})
}

// Replace validates and persists a whole settings document.
func (p *Panel) Replace(ctx context.Context, next domain.Settings) error {
	return p.update(ctx, "all", func(s *domain.Settings) error {
		if err := validateValue(&next); err != nil {
			return err
		}
		*s = next.Clone()
		return nil
	})
}

func (p *Panel) update(ctx context.Context, field string, fn func(*domain.Settings) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.settings.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()

	if err := p.store.Save(ctx, &next); err != nil {
		p.log.Error("settings_save_failed", zap.String("field", field), zap.Error(err))
		return fmt.Errorf("save settings: %w", err)
	}
	p.settings = next

	metrics.SettingsWritesTotal.WithLabelValues(field).Inc()
	p.log.Info("settings_saved", zap.String("field", field))
	return nil
}

// Checking reports whether a check is running.
func (p *Panel) Checking() bool { return p.checking.Load() }

// Check runs one connectivity check with the stored URL and token. Only one
// check runs per panel at a time; a second caller gets ErrCheckInProgress.
// Outcomes are reported as notices and never retried.
func (p *Panel) Check(ctx context.Context) (domain.ConnectivityResult, error) {
	if !p.checking.CompareAndSwap(false, true) {
		return domain.ConnectivityResult{}, ErrCheckInProgress
	}
	defer p.checking.Store(false)

	s := p.Settings()
	p.notice(ctx, "Testing connection…")

	res, err := p.checker.Check(ctx, s.ServiceURL, s.AccessToken)
	switch {
	case err != nil:
		kind := probe.Kind(err)
		if kind == "" {
			kind = "error"
		}
		metrics.ObserveCheck(kind, res.LatencyMS)
		p.log.Warn("panel_check_error", zap.String("kind", kind), zap.String("check_id", res.ID), zap.Error(err))
		p.notice(ctx, "Error during connection check: "+err.Error())
	case res.Succeeded:
		metrics.ObserveCheck("succeeded", res.LatencyMS)
		p.notice(ctx, "Connection succeeded.")
	default:
		metrics.ObserveCheck("failed", res.LatencyMS)
		p.notice(ctx, "Connection failed, please check your settings.")
	}
	return res, err
}

// Bind fills form with the current values and wires its callbacks: every
// field change is persisted, and the check trigger is disabled while a check
// runs.
func (p *Panel) Bind(ctx context.Context, form Form) {
	s := p.Settings()
	for _, f := range Fields {
		form.SetValue(f, fieldValue(s, f))
		form.OnChange(f, func(value string) {
			if err := p.Set(ctx, f, value); err != nil {
				p.log.Warn("settings_change_rejected", zap.String("field", string(f)), zap.Error(err))
				p.notice(ctx, fmt.Sprintf("Could not save %s: %v", f, err))
			}
		})
	}

	form.SetCheckEnabled(true)
	form.OnCheck(func() {
		form.SetCheckEnabled(false)
		defer form.SetCheckEnabled(true)
		// Check reports every outcome as a notice.
		_, _ = p.Check(ctx)
	})
}

func (p *Panel) notice(ctx context.Context, text string) {
	if err := p.notifier.Send(ctx, noticeTitle, text); err != nil {
		p.log.Warn("notice_failed", zap.Error(err))
	}
}
