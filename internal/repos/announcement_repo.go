package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"antiquites/internal/domain"
	"antiquites/internal/imageset"
)

type AnnouncementRepo struct{ db *sqlx.DB }

func NewAnnouncementRepo(db *sqlx.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

const announcementCols = `
    a.id, a.user_id, a.title, a.description, COALESCE(a.phone,'') AS phone, a.image_path,
    a.price, a.status, a.created_at, a.validated_at`

const withAuthor = announcementCols + `,
    u.name AS author_name, u.email AS author_email
  FROM announcements a
  JOIN users u ON u.id = a.user_id`

// hydrate collapses the stored fields into their in-memory forms.
func hydrate(a *domain.Announcement) {
	a.Status = domain.ParseStatus(string(a.Status))
	a.Images = imageset.Decode(a.ImagePath)
}

func hydrateAll(list []domain.Announcement) []domain.Announcement {
	for i := range list {
		hydrate(&list[i])
	}
	return list
}

// Create stores a new pending announcement. images is the already-encoded ImageSet;
// nil leaves the column NULL.
func (r *AnnouncementRepo) Create(ctx context.Context, userID int64, title, description, phone string, images *string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO announcements(user_id,title,description,phone,image_path,status,created_at)
		VALUES(?,?,?,?,?,'pending',?)`, userID, title, description, phone, images, formatTime(at))
	if err != nil {
		return 0, classify("create announcement", "user_id", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "create announcement", Err: err}
	}
	return id, nil
}

// ByID returns the announcement joined with its owner, or nil when it does not exist.
func (r *AnnouncementRepo) ByID(ctx context.Context, id int64) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.db.GetContext(ctx, &a, `SELECT `+withAuthor+` WHERE a.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "announcement by id", Err: err}
	}
	hydrate(&a)
	return &a, nil
}

// ListByOwner returns a user's announcements, newest first.
func (r *AnnouncementRepo) ListByOwner(ctx context.Context, userID int64) ([]domain.Announcement, error) {
	out := []domain.Announcement{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+withAuthor+`
		WHERE a.user_id = ?
		ORDER BY a.created_at DESC, a.id DESC`, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list by owner", Err: err}
	}
	return hydrateAll(out), nil
}

// ListPending returns the moderation queue, oldest first.
func (r *AnnouncementRepo) ListPending(ctx context.Context) ([]domain.Announcement, error) {
	out := []domain.Announcement{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+withAuthor+`
		WHERE a.status = 'pending'
		ORDER BY a.created_at ASC, a.id ASC`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list pending", Err: err}
	}
	return hydrateAll(out), nil
}

// ListPublished returns publicly visible announcements, most recently validated first.
func (r *AnnouncementRepo) ListPublished(ctx context.Context) ([]domain.Announcement, error) {
	out := []domain.Announcement{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+withAuthor+`
		WHERE a.status IN ('validated','approved')
		ORDER BY a.validated_at DESC, a.id DESC`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list published", Err: err}
	}
	return hydrateAll(out), nil
}

// SearchPublished matches q against the title and description of visible announcements.
func (r *AnnouncementRepo) SearchPublished(ctx context.Context, q string, limit int) ([]domain.Announcement, error) {
	like := "%" + strings.ToLower(q) + "%"
	out := []domain.Announcement{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+withAuthor+`
		WHERE a.status IN ('validated','approved')
		  AND (LOWER(a.title) LIKE ? OR LOWER(a.description) LIKE ?)
		ORDER BY a.validated_at DESC, a.id DESC
		LIMIT ?`, like, like, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "search published", Err: err}
	}
	return hydrateAll(out), nil
}

// CountByStatus counts rows in a status; StatusValidated also counts the approved alias.
func (r *AnnouncementRepo) CountByStatus(ctx context.Context, status domain.Status) (int, error) {
	labels := []string{string(status)}
	if status.Visible() {
		labels = []string{string(domain.StatusValidated), string(domain.StatusApproved)}
	}
	q, args, err := sqlx.In(`SELECT COUNT(*) FROM announcements WHERE status IN (?)`, labels)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "count by status", Err: err}
	}
	var n int
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, &domain.PersistenceError{Op: "count by status", Err: err}
	}
	return n, nil
}

// SetStatus writes a new status. With a price, the price and at are stored as the
// validation; without one both columns are cleared. A missing row is a no-op.
func (r *AnnouncementRepo) SetStatus(ctx context.Context, id int64, to domain.Status, price *float64, at time.Time) error {
	var validatedAt *string
	if price != nil {
		ts := formatTime(at)
		validatedAt = &ts
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE announcements SET status = ?, price = ?, validated_at = ?
		WHERE id = ?`, string(to), price, validatedAt, id)
	if err != nil {
		return &domain.PersistenceError{Op: "set announcement status", Err: err}
	}
	return nil
}

// Delete removes the row. Deleting a missing row is a no-op.
func (r *AnnouncementRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id); err != nil {
		return &domain.PersistenceError{Op: "delete announcement", Err: err}
	}
	return nil
}

// RawImage is one stored image_path value, used by the maintenance command.
type RawImage struct {
	ID        int64  `db:"id"`
	Status    string `db:"status"`
	ImagePath string `db:"image_path"`
}

func (r *AnnouncementRepo) ListRawImages(ctx context.Context) ([]RawImage, error) {
	out := []RawImage{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, status, image_path FROM announcements
		WHERE image_path IS NOT NULL
		ORDER BY id`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list image paths", Err: err}
	}
	return out, nil
}

func (r *AnnouncementRepo) SetImagePath(ctx context.Context, id int64, encoded string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE announcements SET image_path = ? WHERE id = ?`, encoded, id); err != nil {
		return &domain.PersistenceError{Op: "set image path", Err: err}
	}
	return nil
}
