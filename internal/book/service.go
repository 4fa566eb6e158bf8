package book

import (
	"context"

	"bookclub/internal/platform/googlebooks"
)

// Service answers the public book views by reconciling the external provider
// with locally stored engagement data.
type Service struct {
	provider Provider
	store    Store
}

func NewService(provider Provider, store Store) *Service {
	return &Service{provider: provider, store: store}
}

// ListLive fetches one provider page and annotates it with local counts.
// Storage is never mutated by a live view.
func (s *Service) ListLive(ctx context.Context, startIndex int) ([]Book, error) {
	volumes, err := s.provider.ListVolumes(ctx, startIndex)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, volumes)
}

// SearchLive is ListLive sourced from a filtered search.
func (s *Service) SearchLive(ctx context.Context, query string, terms googlebooks.SearchTerms, startIndex int) ([]Book, error) {
	volumes, err := s.provider.SearchVolumes(ctx, query, terms, startIndex)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, volumes)
}

// GetLive fetches a single provider record and annotates it.
func (s *Service) GetLive(ctx context.Context, id string) (Book, error) {
	volume, err := s.provider.GetVolume(ctx, id)
	if err != nil {
		return Book{}, err
	}

	b := Normalize(volume)
	counts, err := s.store.CountsByExternalIDs(ctx, []string{b.ExternalID})
	if err != nil {
		return Book{}, err
	}
	if c, ok := counts[b.ExternalID]; ok {
		b.LikeCount = c.LikeCount
		b.ReviewCount = c.ReviewCount
	}
	return b, nil
}

// ListStored serves the database-only view; rows are already canonical.
func (s *Service) ListStored(ctx context.Context, limit int, f Filters) ([]Book, error) {
	return s.store.List(ctx, limit, f)
}

// Like establishes the book row from the caller-supplied payload, then adds
// the like relation. Repeating a like is idempotent.
func (s *Service) Like(ctx context.Context, payload Book, username string) (string, error) {
	if _, err := s.store.Upsert(ctx, payload); err != nil {
		return "", err
	}
	if err := s.store.AddLike(ctx, payload.ExternalID, username); err != nil {
		return "", err
	}
	return payload.ExternalID, nil
}

// Unlike removes the like relation. The book must already exist to have been
// liked, so no upsert happens here.
func (s *Service) Unlike(ctx context.Context, externalID, username string) (string, error) {
	if err := s.store.RemoveLike(ctx, externalID, username); err != nil {
		return "", err
	}
	return externalID, nil
}

// annotate normalizes each volume and overlays the locally known counts.
// Books the store has never seen keep their zero counts.
func (s *Service) annotate(ctx context.Context, volumes []googlebooks.Volume) ([]Book, error) {
	books := make([]Book, 0, len(volumes))
	ids := make([]string, 0, len(volumes))
	for _, v := range volumes {
		b := Normalize(v)
		books = append(books, b)
		ids = append(ids, b.ExternalID)
	}

	counts, err := s.store.CountsByExternalIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if c, ok := counts[books[i].ExternalID]; ok {
			books[i].LikeCount = c.LikeCount
			books[i].ReviewCount = c.ReviewCount
		}
	}
	return books, nil
}
