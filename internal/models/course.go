package models

// Course is a host course row.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	Fullname  string `db:"fullname" json:"fullname"`
	Shortname string `db:"shortname" json:"shortname"`
	Category  int64  `db:"category" json:"category"`
	StartDate int64  `db:"startdate" json:"startdate"`
	EndDate   int64  `db:"enddate" json:"enddate"`
}
