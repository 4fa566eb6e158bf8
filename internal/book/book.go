package book

import (
	"time"
)

// Book is the canonical book record. ExternalID is the stable identifier
// assigned by the external provider and is the primary key for local storage.
// LikeCount and ReviewCount are derived: the like count always equals the
// number of active like relations for the book, the review count comes from
// the review subsystem and is read-only here.
type Book struct {
	ExternalID  string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Publisher   string    `json:"publisher"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Cover       string    `json:"cover"`
	LikeCount   int       `json:"bookLikeCount"`
	ReviewCount int       `json:"reviewCount"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Counts are the locally derived engagement numbers joined onto live views.
type Counts struct {
	LikeCount   int
	ReviewCount int
}

// Filters restricts a stored listing by substring match on any subset of the
// descriptive fields.
type Filters struct {
	Title       string
	Author      string
	Publisher   string
	Description string
	Category    string
}
