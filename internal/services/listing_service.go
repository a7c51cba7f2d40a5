package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"antiquites/internal/domain"
	"antiquites/internal/events"
	"antiquites/internal/imageset"
	"antiquites/internal/metrics"
	"antiquites/internal/validate"
)

type Submission struct {
	Title       string
	Description string
	Phone       string
	Images      []string // stored file names
}

// ListingService covers what owners and the public do with announcements.
type ListingService struct {
	Announcements AnnouncementStore
	Events        events.Publisher
	Metrics       *metrics.Metrics
	Log           *zap.Logger
	Now           func() time.Time
}

func NewListingService(ann AnnouncementStore, pub events.Publisher, m *metrics.Metrics, log *zap.Logger) *ListingService {
	return &ListingService{Announcements: ann, Events: pub, Metrics: m, Log: log, Now: time.Now}
}

// Submit validates the form fields and stores a pending announcement.
func (s *ListingService) Submit(ctx context.Context, ownerID int64, in Submission) (int64, error) {
	title, ok := validate.Title(in.Title)
	if !ok {
		return 0, &domain.ValidationError{Field: "title", Reason: "at least 3 characters"}
	}
	desc, ok := validate.Description(in.Description)
	if !ok {
		return 0, &domain.ValidationError{Field: "description", Reason: "at least 10 characters"}
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return 0, &domain.ValidationError{Field: "phone", Reason: "invalid phone number"}
	}
	if len(in.Images) > imageset.MaxImages {
		return 0, &domain.ValidationError{Field: "images", Reason: "too many photos"}
	}

	enc := imageset.Encode(in.Images)
	now := s.Now()
	id, err := s.Announcements.Create(ctx, ownerID, title, desc, phone, &enc, now)
	if err != nil {
		return 0, err
	}
	if s.Metrics != nil {
		s.Metrics.Submitted.Inc()
	}
	publish(ctx, s.Events, s.Log, events.Event{Subject: events.SubjectSubmitted, ID: id, Status: string(domain.StatusPending), At: now})
	s.Log.Info("announcement submitted", zap.Int64("announcement_id", id), zap.Int64("user_id", ownerID), zap.Int("images", len(in.Images)))
	return id, nil
}

// Public returns an announcement only if it is publicly visible. Pending and rejected
// listings produce the same error as a missing one.
func (s *ListingService) Public(ctx context.Context, id int64) (*domain.Announcement, error) {
	a, err := s.Announcements.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !a.Status.Visible() {
		return nil, domain.ErrNotVisible
	}
	return a, nil
}

func (s *ListingService) Published(ctx context.Context) ([]domain.Announcement, error) {
	return s.Announcements.ListPublished(ctx)
}

// SearchLimit caps the number of search results.
const SearchLimit = 50

func (s *ListingService) Search(ctx context.Context, q string) ([]domain.Announcement, error) {
	return s.Announcements.SearchPublished(ctx, q, SearchLimit)
}

func (s *ListingService) ForOwner(ctx context.Context, userID int64) ([]domain.Announcement, error) {
	return s.Announcements.ListByOwner(ctx, userID)
}

// publish is best-effort: a broker outage never fails the action that produced the event.
func publish(ctx context.Context, p events.Publisher, log *zap.Logger, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn("event publish failed", zap.String("subject", e.Subject), zap.Int64("announcement_id", e.ID), zap.Error(err))
	}
}
