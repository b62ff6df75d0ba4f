// Package store provides durable key-value storage for sound preferences.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key and makes it durable.
	Set(key, value string) error
}

// ErrClosed is returned when writing to a closed store.
var ErrClosed = errors.New("store is closed")

// ChangeEvent signals that the stored values were replaced from disk.
type ChangeEvent struct {
	Path string
}

// FileKV is a KV persisted as a JSON object in a single file.
// Every Set rewrites the file atomically via a temp file and rename.
type FileKV struct {
	mu     sync.RWMutex
	path   string
	values map[string]string

	subscribers []chan ChangeEvent
	closed      bool
}

// OpenFileKV opens the store at path, loading existing values.
// A missing file yields an empty store. A corrupted file is treated as empty.
func OpenFileKV(path string) (*FileKV, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	kv := &FileKV{
		path:   path,
		values: make(map[string]string),
	}
	if err := kv.Reload(); err != nil {
		return nil, err
	}
	return kv, nil
}

// Path returns the backing file path.
func (kv *FileKV) Path() string {
	return kv.path
}

// Get returns the value for key.
func (kv *FileKV) Get(key string) (string, bool) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.values[key]
	return v, ok
}

// Set stores value under key and writes the file.
func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrClosed
	}

	next := maps.Clone(kv.values)
	next[key] = value
	if err := writeAtomic(kv.path, next); err != nil {
		return err
	}
	kv.values = next
	return nil
}

// Snapshot returns a copy of all stored values.
func (kv *FileKV) Snapshot() map[string]string {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return maps.Clone(kv.values)
}

// Reload re-reads the file, replacing in-memory values, and notifies
// subscribers when the contents changed. The read happens under the write
// lock so a concurrent Set is never overwritten by older file contents.
func (kv *FileKV) Reload() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrClosed
	}

	values, err := readValues(kv.path)
	if err != nil {
		return err
	}
	if maps.Equal(kv.values, values) {
		return nil
	}
	kv.values = values

	for _, ch := range kv.subscribers {
		select {
		case ch <- ChangeEvent{Path: kv.path}:
		default:
			// Subscriber has a pending event already
		}
	}
	return nil
}

// Subscribe returns a channel that receives an event after an external
// change has been reloaded.
func (kv *FileKV) Subscribe() <-chan ChangeEvent {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	ch := make(chan ChangeEvent, 1)
	kv.subscribers = append(kv.subscribers, ch)
	return ch
}

// Close closes subscriber channels. Later writes fail with ErrClosed.
func (kv *FileKV) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return nil
	}
	kv.closed = true
	for _, ch := range kv.subscribers {
		close(ch)
	}
	kv.subscribers = nil
	return nil
}

func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		// If the file is corrupted, start empty
		return make(map[string]string), nil
	}
	return values, nil
}

func writeAtomic(path string, values map[string]string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// MemoryKV is an in-memory KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns a store seeded with initial (which may be nil).
func NewMemoryKV(initial map[string]string) *MemoryKV {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryKV{values: values}
}

// Get returns the value for key.
func (kv *MemoryKV) Get(key string) (string, bool) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.values[key]
	return v, ok
}

// Set stores value under key.
func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values[key] = value
	return nil
}
