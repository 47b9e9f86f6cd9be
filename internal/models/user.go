package models

// User is a host platform account. Only non-deleted users are resolvable.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Deleted  int    `db:"deleted" json:"-"`
}
