package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ballot-backend/internal/metadata"
	"ballot-backend/internal/storage"
	"ballot-backend/internal/store"
)

// Library resolves raw media references from import records into _files rows.
type Library struct {
	dialect store.Dialect
	files   storage.FileStorage
}

func NewLibrary(dialect store.Dialect, files storage.FileStorage) *Library {
	return &Library{dialect: dialect, files: files}
}

var categoryByExt = map[string]string{
	".jpg": "images", ".jpeg": "images", ".png": "images", ".gif": "images",
	".webp": "images", ".svg": "images",
	".mp4": "videos", ".mov": "videos", ".avi": "videos", ".webm": "videos",
	".mp3": "audios", ".wav": "audios", ".ogg": "audios",
}

// Category returns the media category for a file name: images, videos,
// audios, or files for anything else.
func Category(name string) string {
	if cat, ok := categoryByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return cat
	}
	return "files"
}

// FindOrImportFile turns a raw media reference into a _files row.
// A numeric reference must match an existing file. A string reference is
// matched by url, then by name; if neither matches it is imported from the
// local path. References with a category outside allowedTypes are rejected.
func (l *Library) FindOrImportFile(ctx context.Context, q store.Querier, ref any, user *metadata.UserContext, allowedTypes []string) (map[string]any, error) {
	if m, ok := ref.(map[string]any); ok {
		if id, ok := m["id"]; ok {
			ref = id
		} else if u, ok := m["url"].(string); ok {
			ref = u
		} else if n, ok := m["name"].(string); ok {
			ref = n
		} else {
			return nil, fmt.Errorf("media reference has no id, url or name: %v", m)
		}
	}

	if id, err := store.ToID(ref); err == nil {
		row, err := l.findByID(ctx, q, id)
		if err != nil {
			return nil, err
		}
		// An existing file must still satisfy the attribute's allowed types.
		name, _ := row["name"].(string)
		if err := checkAllowed(name, allowedTypes); err != nil {
			return nil, err
		}
		return row, nil
	}

	name, ok := ref.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("cannot resolve media reference: %v (%T)", ref, ref)
	}

	if err := checkAllowed(name, allowedTypes); err != nil {
		return nil, err
	}

	if row, err := l.findByName(ctx, q, name); err == nil {
		return row, nil
	} else if err != store.ErrNotFound {
		return nil, err
	}

	return l.importLocal(ctx, q, name, user)
}

func (l *Library) findByID(ctx context.Context, q store.Querier, id int64) (map[string]any, error) {
	pb := l.dialect.NewParamBuilder()
	row, err := store.QueryRow(ctx, q,
		fmt.Sprintf("SELECT id, uuid, name, url, mime_type, size FROM _files WHERE id = %s", pb.Add(id)),
		pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("file %d: %w", id, err)
	}
	return row, nil
}

func (l *Library) findByName(ctx context.Context, q store.Querier, ref string) (map[string]any, error) {
	pb := l.dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT id, uuid, name, url, mime_type, size FROM _files WHERE url = %s OR name = %s",
		pb.Add(ref), pb.Add(filepath.Base(ref)))
	rows, err := store.QueryRows(ctx, q, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0], nil
}

// importLocal copies a file from a local path into storage and records it.
func (l *Library) importLocal(ctx context.Context, q store.Querier, path string, user *metadata.UserContext) (map[string]any, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media source %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat media source %s: %w", path, err)
	}

	fileUUID := uuid.New().String()
	name := filepath.Base(path)
	storagePath, err := l.files.Save(ctx, fileUUID, name, src)
	if err != nil {
		return nil, fmt.Errorf("save media %s: %w", name, err)
	}

	var uploadedBy any
	if user != nil {
		uploadedBy = user.ID
	}

	pb := l.dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO _files (uuid, name, url, size, storage_path, uploaded_by) VALUES (%s, %s, %s, %s, %s, %s) RETURNING id, uuid, name, url, mime_type, size",
		pb.Add(fileUUID), pb.Add(name), pb.Add(path), pb.Add(info.Size()), pb.Add(storagePath), pb.Add(uploadedBy))
	row, err := store.QueryRow(ctx, q, sqlStr, pb.Params()...)
	if err != nil {
		_ = l.files.Delete(ctx, storagePath)
		return nil, fmt.Errorf("insert _files: %w", err)
	}
	return row, nil
}

func checkAllowed(name string, allowedTypes []string) error {
	if len(allowedTypes) == 0 {
		return nil
	}
	cat := Category(name)
	for _, t := range allowedTypes {
		if t == cat {
			return nil
		}
	}
	return fmt.Errorf("file type %s not allowed for %s (allowed: %s)",
		cat, filepath.Base(name), strings.Join(allowedTypes, ", "))
}
