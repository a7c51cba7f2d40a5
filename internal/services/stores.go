package services

import (
	"context"
	"time"

	"antiquites/internal/domain"
)

// AnnouncementStore is the persistence the listing and moderation services need.
// *repos.AnnouncementRepo implements it.
type AnnouncementStore interface {
	Create(ctx context.Context, userID int64, title, description, phone string, images *string, at time.Time) (int64, error)
	ByID(ctx context.Context, id int64) (*domain.Announcement, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Announcement, error)
	ListPending(ctx context.Context) ([]domain.Announcement, error)
	ListPublished(ctx context.Context) ([]domain.Announcement, error)
	SearchPublished(ctx context.Context, q string, limit int) ([]domain.Announcement, error)
	CountByStatus(ctx context.Context, status domain.Status) (int, error)
	SetStatus(ctx context.Context, id int64, to domain.Status, price *float64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// FileRemover deletes one stored image by name.
type FileRemover interface {
	Remove(ctx context.Context, name string) error
}
