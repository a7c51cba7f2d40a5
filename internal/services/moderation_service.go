package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"antiquites/internal/domain"
	"antiquites/internal/events"
	"antiquites/internal/lifecycle"
	"antiquites/internal/metrics"
)

// ModerationService is what administrators act through.
type ModerationService struct {
	Announcements AnnouncementStore
	Users         UserCounter
	Files         FileRemover
	Machine       lifecycle.Machine
	Events        events.Publisher
	Metrics       *metrics.Metrics
	Log           *zap.Logger
	Now           func() time.Time
}

func NewModerationService(ann AnnouncementStore, users UserCounter, files FileRemover, machine lifecycle.Machine,
	pub events.Publisher, m *metrics.Metrics, log *zap.Logger) *ModerationService {
	return &ModerationService{
		Announcements: ann,
		Users:         users,
		Files:         files,
		Machine:       machine,
		Events:        pub,
		Metrics:       m,
		Log:           log,
		Now:           time.Now,
	}
}

// ListPending returns the review queue, oldest submission first.
func (s *ModerationService) ListPending(ctx context.Context) ([]domain.Announcement, error) {
	return s.Announcements.ListPending(ctx)
}

// ListPublished returns public announcements, most recently validated first.
func (s *ModerationService) ListPublished(ctx context.Context) ([]domain.Announcement, error) {
	return s.Announcements.ListPublished(ctx)
}

func (s *ModerationService) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	var err error
	if st.Pending, err = s.Announcements.CountByStatus(ctx, domain.StatusPending); err != nil {
		return st, err
	}
	if st.Published, err = s.Announcements.CountByStatus(ctx, domain.StatusValidated); err != nil {
		return st, err
	}
	if st.Rejected, err = s.Announcements.CountByStatus(ctx, domain.StatusRejected); err != nil {
		return st, err
	}
	if st.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// Validate publishes an announcement at the given price. rawPrice must be a
// non-negative number. An announcement that no longer exists is left alone.
func (s *ModerationService) Validate(ctx context.Context, id int64, rawPrice string) error {
	price, err := lifecycle.ParsePrice(rawPrice)
	if err != nil {
		return err
	}
	return s.apply(ctx, id, lifecycle.ActionValidate, &price)
}

// Reject hides an announcement from the public. An announcement that no longer
// exists is left alone.
func (s *ModerationService) Reject(ctx context.Context, id int64) error {
	return s.apply(ctx, id, lifecycle.ActionReject, nil)
}

// apply looks up the rule for action and persists exactly what it prescribes:
// its target status, and the price with a validation time only when it sets one.
func (s *ModerationService) apply(ctx context.Context, id int64, action lifecycle.Action, price *float64) error {
	a, err := s.Announcements.ByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		s.Log.Info("moderation skipped, announcement gone", zap.String("action", string(action)), zap.Int64("announcement_id", id))
		return nil
	}
	rule, err := s.Machine.Next(a.Status, action)
	if err != nil {
		return err
	}
	var set *float64
	if rule.SetPrice {
		if price == nil {
			return &domain.ValidationError{Field: "price", Reason: "required"}
		}
		set = price
	}
	now := s.Now()
	if err := s.Announcements.SetStatus(ctx, id, rule.To, set, now); err != nil {
		return err
	}
	s.count(action)
	publish(ctx, s.Events, s.Log, events.Event{Subject: subjectFor(rule.To), ID: id, Status: string(rule.To), Price: set, At: now})
	return nil
}

func subjectFor(to domain.Status) string {
	switch {
	case to.Visible():
		return events.SubjectValidated
	case to == domain.StatusRejected:
		return events.SubjectRejected
	}
	return "announcement." + string(to)
}

// Remove deletes an announcement in any state, then its image files. File removal
// is best-effort: failures are logged and never returned.
func (s *ModerationService) Remove(ctx context.Context, id int64) error {
	a, err := s.Announcements.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Announcements.Delete(ctx, id); err != nil {
		return err
	}
	s.count("delete")
	if a == nil {
		return nil
	}
	for _, name := range a.Images {
		if err := s.Files.Remove(ctx, name); err != nil {
			s.Log.Warn("image cleanup failed",
				zap.Int64("announcement_id", id), zap.String("file", name), zap.Error(err))
			if s.Metrics != nil {
				s.Metrics.ImageCleanupFailures.Inc()
			}
		}
	}
	publish(ctx, s.Events, s.Log, events.Event{Subject: events.SubjectDeleted, ID: id, At: s.Now()})
	return nil
}

func (s *ModerationService) count(action lifecycle.Action) {
	if s.Metrics != nil {
		s.Metrics.ModerationActions.WithLabelValues(string(action)).Inc()
	}
}
