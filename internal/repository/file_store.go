package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SafeSectorName folds a sector name into a filesystem-safe cache token.
func SafeSectorName(sector string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(sector), "_")
}

// FileSectorStore keeps one JSON document per sector in a directory. Writes
// go through a temp file and rename, so an entry is replaced atomically or
// not at all.
type FileSectorStore struct {
	dir string
}

func NewFileSectorStore(dir string) (*FileSectorStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileSectorStore{dir: dir}, nil
}

func (s *FileSectorStore) path(sector string) string {
	return filepath.Join(s.dir, SafeSectorName(sector)+".json")
}

func (s *FileSectorStore) Get(_ context.Context, sector string) (models.ReturnMatrix, error) {
	b, err := os.ReadFile(s.path(sector))
	if err != nil {
		if os.IsNotExist(err) {
			return models.ReturnMatrix{}, domrepo.ErrEntryNotFound
		}
		return models.ReturnMatrix{}, fmt.Errorf("read sector entry: %w", err)
	}
	var m models.ReturnMatrix
	if err := json.Unmarshal(b, &m); err != nil {
		return models.ReturnMatrix{}, fmt.Errorf("decode sector entry: %w", err)
	}
	return m, nil
}

func (s *FileSectorStore) Put(_ context.Context, sector string, m models.ReturnMatrix) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode sector entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".sector-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(sector)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace sector entry: %w", err)
	}
	return nil
}

func (s *FileSectorStore) Delete(_ context.Context, sector string) error {
	err := os.Remove(s.path(sector))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete sector entry: %w", err)
	}
	return nil
}

func (s *FileSectorStore) ModTime(_ context.Context, sector string) (time.Time, bool) {
	fi, err := os.Stat(s.path(sector))
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}
