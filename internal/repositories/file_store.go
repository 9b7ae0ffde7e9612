package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"bean/internal/model"
)

// FileStore keeps one save line per row of a UTF-8 text file.
//
// Writes go to a temp file in the same directory which is synced and renamed
// over the target, then the directory is synced. An advisory lock on
// <path>.lock keeps a second process from writing at the same time.
type FileStore struct {
	path string
	lock *flock.Flock
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("data file path is required")
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

func (s *FileStore) Backend() string { return "file" }

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) rejectedPath() string { return s.path + ".rejected" }

// ReadLines returns the file's lines; a missing file reads as no lines.
func (s *FileStore) ReadLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.IOError{Op: "read", Err: err}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &model.IOError{Op: "read", Err: err}
	}
	return splitLines(string(data)), nil
}

// splitLines splits on '\n' with no limit on line length, dropping a
// trailing '\r' from each line and the empty tail after a final newline.
func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// WriteLines atomically replaces the file with lines.
func (s *FileStore) WriteLines(ctx context.Context, lines []string) error {
	if err := ctx.Err(); err != nil {
		return &model.IOError{Op: "write", Err: err}
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	err := s.withLock(func() error {
		return writeFileAtomic(s.path, []byte(b.String()), 0o644)
	})
	if err != nil {
		return &model.IOError{Op: "write", Err: err}
	}
	return nil
}

// RecordRejected appends to <path>.rejected the lines it does not hold yet,
// so loading the same bad data twice leaves a single record.
func (s *FileStore) RecordRejected(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &model.IOError{Op: "record rejected", Err: err}
	}
	err := s.withLock(func() error {
		existing, err := os.ReadFile(s.rejectedPath())
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		seen := make(map[string]bool)
		for _, l := range splitLines(string(existing)) {
			seen[l] = true
		}

		f, err := os.OpenFile(s.rejectedPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		for _, l := range lines {
			if seen[l] {
				continue
			}
			seen[l] = true
			if _, err := fmt.Fprintln(f, l); err != nil {
				return err
			}
		}
		return f.Sync()
	})
	if err != nil {
		return &model.IOError{Op: "record rejected", Err: err}
	}
	return nil
}

func (s *FileStore) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	defer s.lock.Unlock()
	return fn()
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	// The new contents are in place; a failed dir sync only weakens durability.
	if err := syncDir(dir); err != nil {
		log.Printf("warning: sync %s after replacing %s: %v", dir, filepath.Base(path), err)
	}
	return nil
}

var syncDir = fsyncDir

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
