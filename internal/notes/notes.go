// Package notes persists an append-only log of timestamped notes as a JSON
// array on disk.
package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Note struct {
	Time    string `json:"time"`
	Content string `json:"content"`
}

// Store reads and rewrites the whole file on every append. The file is
// small and only ever touched from the dispatch thread, so there is no
// locking and no incremental index.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns every note ever written, oldest first. A missing or corrupt
// file degrades to an empty list rather than an error.
func (s *Store) Load() []Note {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil
	}

	return notes
}

// Append adds a note with the current timestamp and rewrites the file.
// Empty content is rejected before anything touches disk.
func (s *Store) Append(content string) error {
	if content == "" {
		return fmt.Errorf("empty note content")
	}

	notes := append(s.Load(), Note{
		Time:    time.Now().Format(time.RFC3339),
		Content: content,
	})

	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}

	return nil
}
