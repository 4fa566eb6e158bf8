package book

import (
	"testing"

	"bookclub/internal/platform/googlebooks"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	volume := googlebooks.Volume{
		ID: "abc123",
		VolumeInfo: googlebooks.VolumeInfo{
			Title:       "The Go Programming Language",
			Authors:     []string{"Alan Donovan", "Brian Kernighan"},
			Publisher:   "Addison-Wesley",
			Description: "The authoritative resource.",
			Categories:  []string{"Computers", "Programming"},
			ImageLinks: googlebooks.ImageLinks{
				SmallThumbnail: "http://example.com/small.jpg",
				Thumbnail:      "http://example.com/thumb.jpg",
			},
		},
	}

	b := Normalize(volume)

	assert.Equal(t, "abc123", b.ExternalID)
	assert.Equal(t, "The Go Programming Language", b.Title)
	assert.Equal(t, "Alan Donovan, Brian Kernighan", b.Author)
	assert.Equal(t, "Addison-Wesley", b.Publisher)
	assert.Equal(t, "The authoritative resource.", b.Description)
	assert.Equal(t, "Computers", b.Category)
	assert.Equal(t, "http://example.com/thumb.jpg", b.Cover)
	assert.Equal(t, 0, b.LikeCount)
	assert.Equal(t, 0, b.ReviewCount)
}

func TestNormalize_MissingFields(t *testing.T) {
	b := Normalize(googlebooks.Volume{ID: "bare"})

	assert.Equal(t, "bare", b.ExternalID)
	assert.Equal(t, "", b.Title)
	assert.Equal(t, "", b.Author)
	assert.Equal(t, "", b.Publisher)
	assert.Equal(t, "", b.Description)
	assert.Equal(t, "", b.Category)
	assert.Equal(t, "", b.Cover)
}

func TestNormalize_CoverFallsBackToSmallThumbnail(t *testing.T) {
	volume := googlebooks.Volume{
		ID: "abc123",
		VolumeInfo: googlebooks.VolumeInfo{
			ImageLinks: googlebooks.ImageLinks{
				SmallThumbnail: "http://example.com/small.jpg",
			},
		},
	}

	assert.Equal(t, "http://example.com/small.jpg", Normalize(volume).Cover)
}

func TestNormalize_Deterministic(t *testing.T) {
	volume := googlebooks.Volume{
		ID: "abc123",
		VolumeInfo: googlebooks.VolumeInfo{
			Title:      "Dune",
			Authors:    []string{"Frank Herbert"},
			Categories: []string{"Fiction"},
		},
	}

	assert.Equal(t, Normalize(volume), Normalize(volume))
}
