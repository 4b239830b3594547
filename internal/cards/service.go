package cards

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/connection-card/internal/notify"
	"github.com/wolfman30/connection-card/internal/observability/metrics"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/internal/welcome"
	"github.com/wolfman30/connection-card/pkg/logging"
)

// Submission sources recorded on archived cards and in metrics.
const (
	SourceDraft   = "draft"
	SourceOneShot = "oneshot"
	SourceKiosk   = "kiosk"
)

// ContentGenerator produces the welcome for a submitted card. Implementations
// never fail; they fall back to fixed text instead.
type ContentGenerator interface {
	Generate(ctx context.Context, rec visitor.Record) welcome.Content
}

// WelcomeNotifier emails a visitor the welcome they were shown.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, n notify.WelcomeNotice) error
}

// Service drives draft cards from first keystroke to the shown welcome.
type Service struct {
	sessions  SessionStore
	generator ContentGenerator
	archive   Repository
	notifier  WelcomeNotifier
	metrics   *metrics.CardMetrics
	logger    *logging.Logger
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithArchive keeps a copy of every submitted card.
func WithArchive(repo Repository) ServiceOption {
	return func(s *Service) { s.archive = repo }
}

// WithNotifier emails the welcome to visitors who left an address.
func WithNotifier(n WelcomeNotifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

func WithCardMetrics(m *metrics.CardMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithServiceLogger(logger *logging.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a card service. sessions and generator are required.
func NewService(sessions SessionStore, generator ContentGenerator, opts ...ServiceOption) *Service {
	if sessions == nil {
		panic("cards: session store required")
	}
	if generator == nil {
		panic("cards: content generator required")
	}
	s := &Service{
		sessions:  sessions,
		generator: generator,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartDraft opens a blank card in the Editing view.
func (s *Service) StartDraft(ctx context.Context) (*Session, error) {
	sess := NewSession()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("cards: start draft: %w", err)
	}
	s.logger.Debug("draft started", "draft_id", sess.ID)
	return sess, nil
}

func (s *Service) GetDraft(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

// UpdateDraft applies field edits. Either every field is applied or, when
// one is unknown or invalid, none are. Edits are refused while the draft is
// being submitted.
func (s *Service) UpdateDraft(ctx context.Context, id string, fields map[string]string) (*Session, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	var sess *Session
	err := s.withDraftLock(ctx, id, func() error {
		var err error
		sess, err = s.sessions.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess.View != ViewEditing {
			return ErrNotEditing
		}

		form := sess.Form()
		for name, value := range fields {
			field, err := visitor.ParseField(name)
			if err != nil {
				return err
			}
			if err := form.SetField(field, value); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
		sess.Commit(form)

		if err := s.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("cards: save draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ResetDraft clears the card and returns it to Editing.
func (s *Service) ResetDraft(ctx context.Context, id string) (*Session, error) {
	var sess *Session
	err := s.withDraftLock(ctx, id, func() error {
		var err error
		sess, err = s.sessions.Get(ctx, id)
		if err != nil {
			return err
		}
		sess.Reset()
		if err := s.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("cards: save draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("draft reset", "draft_id", id)
	return sess, nil
}

// SubmitDraft generates the welcome for a draft and moves it to Showing.
// The draft stays locked until the result is saved.
func (s *Service) SubmitDraft(ctx context.Context, id string) (Result, error) {
	var result Result
	err := s.withDraftLock(ctx, id, func() error {
		sess, err := s.sessions.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess.View != ViewEditing {
			return ErrNotEditing
		}

		result, err = s.submit(ctx, sess.Form().Snapshot(), SourceDraft)
		if err != nil {
			return err
		}

		sess.Show(result)
		if err := s.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("cards: save draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// withDraftLock runs fn while holding the draft lock. A held lock means a
// submit is running, so the caller gets ErrSubmitInFlight.
func (s *Service) withDraftLock(ctx context.Context, id string, fn func() error) error {
	token, acquired, err := s.sessions.Acquire(ctx, id)
	if err != nil {
		return fmt.Errorf("cards: lock draft: %w", err)
	}
	if !acquired {
		return ErrSubmitInFlight
	}
	defer func() {
		if err := s.sessions.Release(context.WithoutCancel(ctx), id, token); err != nil {
			s.logger.Warn("failed to release draft lock", "draft_id", id, "error", err)
		}
	}()
	return fn()
}

// SubmitCard generates the welcome for a complete record without a draft.
func (s *Service) SubmitCard(ctx context.Context, rec visitor.Record, source string) (Result, error) {
	if source == "" {
		source = SourceOneShot
	}
	return s.submit(ctx, rec, source)
}

// ListCards returns archived cards for staff follow-up.
func (s *Service) ListCards(ctx context.Context, filter ListFilter) ([]*Card, error) {
	if s.archive == nil {
		return []*Card{}, nil
	}
	cards, err := s.archive.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cards: list: %w", err)
	}
	return cards, nil
}

func (s *Service) submit(ctx context.Context, rec visitor.Record, source string) (Result, error) {
	if err := rec.Validate(); err != nil {
		s.metrics.ObserveSubmission(source, "invalid")
		return Result{}, err
	}

	content := s.generator.Generate(ctx, rec)
	result := newResult(rec, content)

	status := welcome.OutcomeGenerated
	if !result.Generated {
		status = welcome.OutcomeFallback
	}
	s.metrics.ObserveSubmission(source, status)

	s.archiveCard(ctx, rec, result, source)
	s.sendWelcome(ctx, rec, result)
	return result, nil
}

func (s *Service) archiveCard(ctx context.Context, rec visitor.Record, result Result, source string) {
	if s.archive == nil {
		return
	}
	card := &Card{
		Visitor:        rec,
		WelcomeMessage: result.WelcomeMessage,
		Prayer:         result.Prayer,
		Generated:      result.Generated,
		Source:         source,
	}
	if err := s.archive.Create(ctx, card); err != nil {
		s.logger.Error("failed to archive card", "error", err, "source", source)
		return
	}
	s.logger.Info("card archived", "card_id", card.ID, "source", source, "generated", result.Generated)
}

func (s *Service) sendWelcome(ctx context.Context, rec visitor.Record, result Result) {
	if s.notifier == nil || rec.Email == "" {
		return
	}
	err := s.notifier.SendWelcome(ctx, notify.WelcomeNotice{
		To:             rec.Email,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		WelcomeMessage: result.WelcomeMessage,
		Prayer:         result.Prayer,
	})
	if err != nil && !errors.Is(err, notify.ErrNoRecipient) {
		s.logger.Error("failed to send welcome email", "error", err)
	}
}
