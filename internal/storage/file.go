// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/aurora-chat/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps one JSON file per key in a directory.
//
// Files are written 0600 because the session record carries the API key
// in plaintext.
type FileStore struct {
	// BaseDir is the directory holding the record files.
	BaseDir string

	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
// An empty dir resolves to ~/.aurora/data.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".aurora", "data")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &FileStore{BaseDir: dir}, nil
}

// Get reads the record file for key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Put atomically replaces the record file for key.
func (s *FileStore) Put(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	return util.AtomicWriteFile(s.filePath(key), data, 0600)
}

// Close marks the store closed. Further calls fail with ErrClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// filePath returns the file path for a key.
func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.BaseDir, key+".json")
}
