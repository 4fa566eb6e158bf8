package book

import (
	"context"

	"bookclub/internal/platform/googlebooks"
)

// Provider is the external book-metadata source. Calls are pure remote reads;
// failures surface as provider-unavailable, a missing record as not-found.
type Provider interface {
	ListVolumes(ctx context.Context, startIndex int) ([]googlebooks.Volume, error)
	SearchVolumes(ctx context.Context, query string, terms googlebooks.SearchTerms, startIndex int) ([]googlebooks.Volume, error)
	GetVolume(ctx context.Context, id string) (googlebooks.Volume, error)
}

// Store is the local book store plus the like ledger. AddLike and RemoveLike
// mutate the like relation and the owning book's like count as one atomic
// unit; no observer sees one applied without the other.
type Store interface {
	Upsert(ctx context.Context, b Book) (Book, error)
	Get(ctx context.Context, externalID string) (Book, error)
	List(ctx context.Context, limit int, f Filters) ([]Book, error)
	CountsByExternalIDs(ctx context.Context, externalIDs []string) (map[string]Counts, error)
	AddLike(ctx context.Context, externalID, username string) error
	RemoveLike(ctx context.Context, externalID, username string) error
}
