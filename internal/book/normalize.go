package book

import (
	"strings"

	"bookclub/internal/platform/googlebooks"
)

// Normalize maps a raw provider volume into the canonical Book shape. It is
// pure and deterministic: the same volume always yields the same Book.
// Missing optional fields become empty strings, and the derived counts are
// always zero; the join step fills them in from local data.
func Normalize(v googlebooks.Volume) Book {
	info := v.VolumeInfo

	category := ""
	if len(info.Categories) > 0 {
		category = info.Categories[0]
	}

	// First available cover image wins.
	cover := info.ImageLinks.Thumbnail
	if cover == "" {
		cover = info.ImageLinks.SmallThumbnail
	}

	return Book{
		ExternalID:  v.ID,
		Title:       info.Title,
		Author:      strings.Join(info.Authors, ", "),
		Publisher:   info.Publisher,
		Description: info.Description,
		Category:    category,
		Cover:       cover,
	}
}
