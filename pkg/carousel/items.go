// Package carousel rotates images from the selected folders through two
// crossfading slots.
package carousel

import (
	"math/rand"
	"net/url"

	"tableflip.dev/kiosk/pkg/model"
)

// Item is an image joined with its folder and resolved media URL. Items are
// derived per snapshot and never reused across snapshots.
type Item struct {
	Image      model.Image
	FolderID   string
	FolderSlug string
	FolderName string
	URL        string
}

// MediaPath builds the store path serving a folder's file.
func MediaPath(slug, filename string) string {
	return "/media/" + url.PathEscape(slug) + "/" + url.PathEscape(filename)
}

// Items flattens the configured folder selection in folder-then-image order.
// Selected ids that are not in the folder index are skipped.
func Items(cfg model.Config, folders []model.Folder, images model.ImageIndex) []Item {
	sel := cfg.Carousel.Folders
	var ids []string
	if sel.All {
		ids = make([]string, 0, len(folders))
		for _, f := range folders {
			ids = append(ids, f.ID)
		}
	} else {
		ids = sel.IDs
	}

	byID := make(map[string]model.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	var items []Item
	for _, id := range ids {
		folder, ok := byID[id]
		if !ok {
			continue
		}
		for _, im := range images[id] {
			items = append(items, Item{
				Image:      im,
				FolderID:   id,
				FolderSlug: folder.Slug,
				FolderName: folder.Name,
				URL:        MediaPath(folder.Slug, im.Filename),
			})
		}
	}
	return items
}

// Shuffle permutes items in place with a uniform Fisher-Yates shuffle.
func Shuffle(items []Item, rng *rand.Rand) []Item {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
