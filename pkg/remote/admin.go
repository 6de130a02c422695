package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"tableflip.dev/kiosk/pkg/model"
)

// Config returns the raw admin configuration.
func (c *Client) Config(ctx context.Context) (json.RawMessage, error) {
	data, err := c.get(ctx, "/api/config", true)
	if err != nil {
		return nil, fmt.Errorf("remote: get config: %w", err)
	}
	return json.RawMessage(data), nil
}

// PutConfig replaces the known top-level sections with those in raw. The
// store answers with the merged configuration.
func (c *Client) PutConfig(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("remote: put config: invalid json")
	}
	data, err := c.do(ctx, http.MethodPut, "/api/config", "application/json", bytes.NewReader(raw), true)
	if err != nil {
		return nil, fmt.Errorf("remote: put config: %w", err)
	}
	var resp struct {
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("remote: put config: decode: %w", err)
	}
	return resp.Config, nil
}

// Folders lists all folders.
func (c *Client) Folders(ctx context.Context) ([]model.Folder, error) {
	data, err := c.get(ctx, "/api/folders", true)
	if err != nil {
		return nil, fmt.Errorf("remote: list folders: %w", err)
	}
	var resp struct {
		Folders []model.Folder `json:"folders"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("remote: list folders: decode: %w", err)
	}
	return resp.Folders, nil
}

// CreateFolder adds a folder; the store picks a unique slug.
func (c *Client) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	body, _ := json.Marshal(map[string]string{"name": name})
	data, err := c.do(ctx, http.MethodPost, "/api/folders", "application/json", bytes.NewReader(body), true)
	if err != nil {
		return model.Folder{}, fmt.Errorf("remote: create folder: %w", err)
	}
	var resp struct {
		Folder model.Folder `json:"folder"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return model.Folder{}, fmt.Errorf("remote: create folder: decode: %w", err)
	}
	return resp.Folder, nil
}

// DeleteFolder removes a folder with its images.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/folders/"+url.PathEscape(id), "", nil, true); err != nil {
		return fmt.Errorf("remote: delete folder %s: %w", id, err)
	}
	return nil
}

// Images lists the images of one folder.
func (c *Client) Images(ctx context.Context, folderID string) ([]model.Image, error) {
	data, err := c.get(ctx, "/api/folders/"+url.PathEscape(folderID)+"/images", true)
	if err != nil {
		return nil, fmt.Errorf("remote: list images: %w", err)
	}
	var resp struct {
		Images []model.Image `json:"images"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("remote: list images: decode: %w", err)
	}
	return resp.Images, nil
}

// Upload sends local files to a folder and returns the images the store
// accepted.
func (c *Client) Upload(ctx context.Context, folderID string, paths []string) ([]model.Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		if err := addFile(mw, p); err != nil {
			return nil, fmt.Errorf("remote: upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("remote: upload: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/api/folders/"+url.PathEscape(folderID)+"/images", mw.FormDataContentType(), &buf, true)
	if err != nil {
		return nil, fmt.Errorf("remote: upload: %w", err)
	}
	var resp struct {
		Added []model.Image `json:"added"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("remote: upload: decode: %w", err)
	}
	return resp.Added, nil
}

func addFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// DeleteImage removes one image from a folder.
func (c *Client) DeleteImage(ctx context.Context, folderID, imageID string) error {
	path := "/api/folders/" + url.PathEscape(folderID) + "/images/" + url.PathEscape(imageID)
	if _, err := c.do(ctx, http.MethodDelete, path, "", nil, true); err != nil {
		return fmt.Errorf("remote: delete image %s: %w", imageID, err)
	}
	return nil
}
