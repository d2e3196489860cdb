// Package filestore provides a file-based implementation of RecordRepository.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/star/internal/domain"
)

const documentPerm = 0o644

// Ensure Store implements domain.RecordRepository.
var _ domain.RecordRepository = (*Store)(nil)

// Store implements domain.RecordRepository with one document per record.
// Each document has a sibling lock file guarding read-modify-write cycles.
type Store struct {
	codec domain.RecordCodec
}

// New creates a new Store that encodes documents with codec.
func New(codec domain.RecordCodec) *Store {
	return &Store{codec: codec}
}

// Load reads the record at path.
func (s *Store) Load(path string) (*domain.TaskRecord, error) {
	var rec *domain.TaskRecord
	err := withLock(path, syscall.LOCK_SH, func() error {
		var err error
		rec, err = s.read(path)
		return err
	})
	return rec, err
}

// Save writes the record to path, replacing any existing document.
func (s *Store) Save(path string, rec *domain.TaskRecord) error {
	return withLock(path, syscall.LOCK_EX, func() error {
		return s.write(path, rec)
	})
}

// Create writes rec to path unless a document already exists there.
// The check and the write happen under one exclusive lock.
func (s *Store) Create(path string, rec *domain.TaskRecord) error {
	return withLock(path, syscall.LOCK_EX, func() error {
		exists, err := s.Exists(path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: %w", path, domain.ErrRecordExists)
		}
		return s.write(path, rec)
	})
}

// Update loads the record, applies fn and saves it while holding an
// exclusive lock. Nothing is written when fn returns an error.
func (s *Store) Update(path string, fn func(rec *domain.TaskRecord) error) (*domain.TaskRecord, error) {
	var rec *domain.TaskRecord
	err := withLock(path, syscall.LOCK_EX, func() error {
		var err error
		if rec, err = s.read(path); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		return s.write(path, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Exists reports whether a document exists at path.
func (s *Store) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat record: %w", err)
}

func (s *Store) read(path string) (*domain.TaskRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	rec, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

func (s *Store) write(path string, rec *domain.TaskRecord) error {
	data, err := s.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return writeAtomic(path, data, documentPerm)
}

func withLock(path string, lockType int, fn func() error) error {
	lock, err := acquireLock(domain.LockPath(path), lockType)
	if err != nil {
		return err
	}
	defer releaseLock(lock)
	return fn()
}

func acquireLock(lockPath string, lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
