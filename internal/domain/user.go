package domain

type User struct {
	ID        int64  `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Hash      string `db:"password"`
	IsAdmin   bool   `db:"is_admin"`
	CreatedAt string `db:"created_at"`
}
