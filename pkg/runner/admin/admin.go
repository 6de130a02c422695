// Package admin implements the store administration commands.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/printers"
)

// Store is the admin surface of the store's API.
type Store interface {
	Config(ctx context.Context) (json.RawMessage, error)
	PutConfig(ctx context.Context, raw json.RawMessage) (json.RawMessage, error)
	Folders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, name string) (model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	Images(ctx context.Context, folderID string) ([]model.Image, error)
	Upload(ctx context.Context, folderID string, paths []string) ([]model.Image, error)
	DeleteImage(ctx context.Context, folderID, imageID string) error
}

// Admin carries what every admin command needs.
type Admin struct {
	Store  Store
	JSON   bool
	ShowID bool
	Out    io.Writer
	Log    *slog.Logger
}

func (a *Admin) out() io.Writer {
	if a.Out == nil {
		return color.Output
	}
	return a.Out
}

func (a *Admin) log() *slog.Logger {
	return logging.Channel(a.Log, logging.Admin)
}

func (a *Admin) printer() *printers.PrettyPrint {
	return &printers.PrettyPrint{ShowID: a.ShowID, Out: a.out()}
}

func (a *Admin) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *Admin) printRaw(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := a.out().Write(buf.Bytes())
	return err
}

func (a *Admin) done(format string, args ...interface{}) {
	if a.JSON {
		return
	}
	_, _ = color.New(color.FgGreen).Fprintf(a.out(), format+"\n", args...)
}

// ConfigGet prints the raw configuration.
type ConfigGet struct{ *Admin }

func (c ConfigGet) Do(ctx context.Context) error {
	raw, err := c.Store.Config(ctx)
	if err != nil {
		return err
	}
	return c.printRaw(raw)
}

// ConfigSet uploads a JSON file, or stdin for "-", and prints the merged
// configuration the store answers with.
type ConfigSet struct {
	*Admin
	File  string
	Stdin io.Reader
}

func (c ConfigSet) Do(ctx context.Context) error {
	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s: not valid JSON", c.File)
	}
	merged, err := c.Store.PutConfig(ctx, data)
	if err != nil {
		return err
	}
	c.log().Info("config replaced", "file", c.File, "bytes", len(data))
	if !c.JSON {
		c.done("config saved")
		return nil
	}
	return c.printRaw(merged)
}

// FoldersList prints every folder with its image count.
type FoldersList struct{ *Admin }

func (f FoldersList) Do(ctx context.Context) error {
	folders, err := f.Store.Folders(ctx)
	if err != nil {
		return err
	}
	if f.JSON {
		return f.printJSON(folders)
	}
	images := make(model.ImageIndex, len(folders))
	for _, folder := range folders {
		imgs, err := f.Store.Images(ctx, folder.ID)
		if err != nil {
			return err
		}
		images[folder.ID] = imgs
	}
	pp := f.printer()
	pp.TitleWithCount("Folders", len(folders), "folder")
	pp.Folders(folders, images)
	return nil
}

// FolderCreate adds a folder.
type FolderCreate struct {
	*Admin
	Name string
}

func (f FolderCreate) Do(ctx context.Context) error {
	folder, err := f.Store.CreateFolder(ctx, f.Name)
	if err != nil {
		return err
	}
	f.log().Info("folder created", "id", folder.ID, "slug", folder.Slug)
	if f.JSON {
		return f.printJSON(folder)
	}
	f.done("created %s (%s)", folder.Name, folder.ID)
	return nil
}

// FolderDelete removes a folder with all its images.
type FolderDelete struct {
	*Admin
	ID string
}

func (f FolderDelete) Do(ctx context.Context) error {
	if err := f.Store.DeleteFolder(ctx, f.ID); err != nil {
		return err
	}
	f.log().Info("folder deleted", "id", f.ID)
	if f.JSON {
		return f.printJSON(map[string]bool{"ok": true})
	}
	f.done("deleted %s", f.ID)
	return nil
}

// ImagesList prints the images of one folder.
type ImagesList struct {
	*Admin
	Folder string
}

func (i ImagesList) Do(ctx context.Context) error {
	images, err := i.Store.Images(ctx, i.Folder)
	if err != nil {
		return err
	}
	if i.JSON {
		return i.printJSON(images)
	}
	pp := i.printer()
	pp.TitleWithCount("Images", len(images), "image")
	pp.Images(images)
	return nil
}

// ImagesUpload sends files to a folder.
type ImagesUpload struct {
	*Admin
	Folder string
	Files  []string
}

func (i ImagesUpload) Do(ctx context.Context) error {
	if len(i.Files) == 0 {
		return fmt.Errorf("no files to upload")
	}
	added, err := i.Store.Upload(ctx, i.Folder, i.Files)
	if err != nil {
		return err
	}
	i.log().Info("images uploaded", "folder", i.Folder, "files", len(i.Files), "added", len(added))
	if i.JSON {
		return i.printJSON(added)
	}
	i.done("uploaded %d of %d", len(added), len(i.Files))
	i.printer().Images(added)
	return nil
}

// ImageDelete removes one image.
type ImageDelete struct {
	*Admin
	Folder string
	ID     string
}

func (i ImageDelete) Do(ctx context.Context) error {
	if err := i.Store.DeleteImage(ctx, i.Folder, i.ID); err != nil {
		return err
	}
	i.log().Info("image deleted", "folder", i.Folder, "id", i.ID)
	if i.JSON {
		return i.printJSON(map[string]bool{"ok": true})
	}
	i.done("deleted %s", i.ID)
	return nil
}
