package domain

import "strings"

// Status is the moderation state of an announcement.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"

	// StatusApproved is an older label for StatusValidated still found in stored rows.
	StatusApproved Status = "approved"
)

// ParseStatus maps a stored label onto its canonical status. Unknown labels are kept as-is
// so that they are never mistaken for a publicly visible state.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusValidated, StatusApproved:
		return StatusValidated
	case StatusRejected:
		return StatusRejected
	}
	return Status(s)
}

// Visible reports whether a listing in this state may be shown to the public.
func (s Status) Visible() bool {
	return s == StatusValidated || s == StatusApproved
}

type Announcement struct {
	ID          int64    `db:"id"`
	UserID      int64    `db:"user_id"`
	Title       string   `db:"title"`
	Description string   `db:"description"`
	Phone       string   `db:"phone"`
	ImagePath   *string  `db:"image_path"` // raw ImageSet encoding, NULL when no images were ever recorded
	Price       *float64 `db:"price"`
	Status      Status   `db:"status"`
	CreatedAt   string   `db:"created_at"`
	ValidatedAt *string  `db:"validated_at"`

	// Owner identity, filled by joined reads only.
	AuthorName  string `db:"author_name"`
	AuthorEmail string `db:"author_email"`

	Images []string `db:"-"`
}

// Stats backs the admin dashboard counters.
type Stats struct {
	Pending    int
	Published  int
	Rejected   int
	TotalUsers int
}
