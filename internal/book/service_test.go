package book_test

import (
	"context"
	"errors"
	"testing"

	"bookclub/internal/apperr"
	"bookclub/internal/book"
	"bookclub/internal/book/mocks"
	"bookclub/internal/platform/googlebooks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*book.Service, *mocks.MockProvider, *mocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	provider := mocks.NewMockProvider(ctrl)
	store := mocks.NewMockStore(ctrl)
	return book.NewService(provider, store), provider, store
}

func volume(id, title string) googlebooks.Volume {
	return googlebooks.Volume{
		ID:         id,
		VolumeInfo: googlebooks.VolumeInfo{Title: title},
	}
}

func TestListLive_OverlaysLocalCounts(t *testing.T) {
	service, provider, store := newService(t)

	provider.EXPECT().
		ListVolumes(gomock.Any(), 0).
		Return([]googlebooks.Volume{volume("abc123", "First"), volume("def456", "Second")}, nil)
	store.EXPECT().
		CountsByExternalIDs(gomock.Any(), []string{"abc123", "def456"}).
		Return(map[string]book.Counts{
			"abc123": {LikeCount: 3, ReviewCount: 2},
		}, nil)

	books, err := service.ListLive(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, 3, books[0].LikeCount)
	assert.Equal(t, 2, books[0].ReviewCount)
	assert.Equal(t, 0, books[1].LikeCount)
	assert.Equal(t, 0, books[1].ReviewCount)
}

func TestListLive_ProviderFailurePropagates(t *testing.T) {
	service, provider, _ := newService(t)

	provider.EXPECT().
		ListVolumes(gomock.Any(), 0).
		Return(nil, apperr.ProviderUnavailable(errors.New("timeout")))

	_, err := service.ListLive(context.Background(), 0)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderUnavailable))
}

func TestSearchLive_PassesQueryAndTerms(t *testing.T) {
	service, provider, store := newService(t)

	terms := googlebooks.SearchTerms{Author: "herbert"}
	provider.EXPECT().
		SearchVolumes(gomock.Any(), "dune", terms, 10).
		Return([]googlebooks.Volume{volume("abc123", "Dune")}, nil)
	store.EXPECT().
		CountsByExternalIDs(gomock.Any(), []string{"abc123"}).
		Return(map[string]book.Counts{}, nil)

	books, err := service.SearchLive(context.Background(), "dune", terms, 10)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, 0, books[0].LikeCount)
}

func TestGetLive(t *testing.T) {
	t.Run("known locally", func(t *testing.T) {
		service, provider, store := newService(t)

		provider.EXPECT().
			GetVolume(gomock.Any(), "abc123").
			Return(volume("abc123", "Dune"), nil)
		store.EXPECT().
			CountsByExternalIDs(gomock.Any(), []string{"abc123"}).
			Return(map[string]book.Counts{"abc123": {LikeCount: 1, ReviewCount: 4}}, nil)

		b, err := service.GetLive(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, 1, b.LikeCount)
		assert.Equal(t, 4, b.ReviewCount)
	})

	t.Run("unknown locally keeps zero counts", func(t *testing.T) {
		service, provider, store := newService(t)

		provider.EXPECT().
			GetVolume(gomock.Any(), "abc123").
			Return(volume("abc123", "Dune"), nil)
		store.EXPECT().
			CountsByExternalIDs(gomock.Any(), []string{"abc123"}).
			Return(map[string]book.Counts{}, nil)

		b, err := service.GetLive(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, 0, b.LikeCount)
		assert.Equal(t, 0, b.ReviewCount)
	})

	t.Run("remote record missing", func(t *testing.T) {
		service, provider, _ := newService(t)

		provider.EXPECT().
			GetVolume(gomock.Any(), "missing").
			Return(googlebooks.Volume{}, apperr.NotFound("External API Not Found"))

		_, err := service.GetLive(context.Background(), "missing")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestListStored_DelegatesToStore(t *testing.T) {
	service, _, store := newService(t)

	filters := book.Filters{Category: "Fiction"}
	stored := []book.Book{{ExternalID: "abc123", Title: "Dune", LikeCount: 5}}
	store.EXPECT().
		List(gomock.Any(), 25, filters).
		Return(stored, nil)

	books, err := service.ListStored(context.Background(), 25, filters)
	require.NoError(t, err)
	assert.Equal(t, stored, books)
}

func TestLike_UpsertsThenAddsLike(t *testing.T) {
	service, _, store := newService(t)

	payload := book.Book{ExternalID: "abc123", Title: "Dune"}
	gomock.InOrder(
		store.EXPECT().Upsert(gomock.Any(), payload).Return(payload, nil),
		store.EXPECT().AddLike(gomock.Any(), "abc123", "alice").Return(nil),
	)

	likedID, err := service.Like(context.Background(), payload, "alice")
	require.NoError(t, err)
	assert.Equal(t, "abc123", likedID)
}

func TestLike_UpsertFailureStopsLike(t *testing.T) {
	service, _, store := newService(t)

	payload := book.Book{ExternalID: "abc123", Title: "Dune"}
	store.EXPECT().
		Upsert(gomock.Any(), payload).
		Return(book.Book{}, errors.New("db down"))

	_, err := service.Like(context.Background(), payload, "alice")
	assert.Error(t, err)
}

func TestUnlike_Service(t *testing.T) {
	t.Run("removes active like", func(t *testing.T) {
		service, _, store := newService(t)

		store.EXPECT().RemoveLike(gomock.Any(), "abc123", "alice").Return(nil)

		unlikedID, err := service.Unlike(context.Background(), "abc123", "alice")
		require.NoError(t, err)
		assert.Equal(t, "abc123", unlikedID)
	})

	t.Run("no active like propagates", func(t *testing.T) {
		service, _, store := newService(t)

		store.EXPECT().
			RemoveLike(gomock.Any(), "abc123", "alice").
			Return(apperr.NoActiveLike(""))

		_, err := service.Unlike(context.Background(), "abc123", "alice")
		assert.True(t, apperr.IsKind(err, apperr.KindNoActiveLike))
	})
}
