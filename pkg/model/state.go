package model

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Folder groups uploaded images. The slug is the only key used in media URLs.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Image is one uploaded picture inside a folder.
type Image struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Thumb        string `json:"thumb,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	UploadedAt   string `json:"uploaded_at,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// ImageIndex maps folder ids to their ordered images.
type ImageIndex map[string][]Image

// State is one complete snapshot of the remote store. A State is never
// patched in place; a newer snapshot replaces it wholesale.
type State struct {
	Config     Config     `json:"config"`
	Folders    []Folder   `json:"folders"`
	Images     ImageIndex `json:"images"`
	Weather    *Weather   `json:"weather"`
	ServerTime string     `json:"server_time,omitempty"`
}

// DecodeState parses a /api/state payload.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("model: decode state: %w", err)
	}
	return s, nil
}

// Folder looks up a folder by id.
func (s State) Folder(id string) (Folder, bool) {
	for _, f := range s.Folders {
		if f.ID == id {
			return f, true
		}
	}
	return Folder{}, false
}

// ImageCount returns the number of images across all folders.
func (s State) ImageCount() int {
	n := 0
	for _, list := range s.Images {
		n += len(list)
	}
	return n
}

// Changed reports whether other differs from s in configuration or image
// index. Folder list and weather are not compared: a folder
// rename or a fresh weather reading alone does not re-render the display.
func (s State) Changed(other State) bool {
	if !reflect.DeepEqual(s.Config, other.Config) {
		return true
	}
	return !reflect.DeepEqual(normalizeIndex(s.Images), normalizeIndex(other.Images))
}

// normalizeIndex treats a nil index, a missing folder and an empty folder as
// the same thing.
func normalizeIndex(idx ImageIndex) ImageIndex {
	out := make(ImageIndex, len(idx))
	for k, v := range idx {
		if len(v) == 0 {
			continue
		}
		out[k] = v
	}
	return out
}
