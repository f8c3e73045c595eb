// Package filestore is the flat-file record store. Each kind of record lives
// in its own Collection, persisted as a JSON array under the data directory.
// All operations on a collection are serialized by its lock, so a single
// process is the only writer; running two processes against the same
// directory is unsupported.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrConflict is returned by PutUnique when an existing record conflicts.
var ErrConflict = errors.New("filestore: conflicting record exists")

// Record is anything that can be stored in a Collection.
type Record interface {
	RecordID() string
}

// Validator is implemented by records that check their own fields. Put
// refuses records whose Validate returns an error.
type Validator interface {
	Validate() error
}

// Collection is an insertion-ordered set of typed records of one kind.
type Collection[T Record] struct {
	mu      sync.RWMutex
	path    string
	records []T
}

// Open loads (or creates) the collection stored at dir/kind.json.
func Open[T Record](dir, kind string) (*Collection[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	c := &Collection[T]{path: filepath.Join(dir, kind+".json")}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.path, err)
	}
	for i, rec := range c.records {
		if err := validate(rec); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", c.path, i, err)
		}
	}

	return c, nil
}

// Put inserts rec, or replaces the record with the same ID in place.
func (c *Collection[T]) Put(rec T) error {
	if err := validate(rec); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.putLocked(rec)
}

// PutUnique inserts rec unless conflicts reports true for an existing record.
// The check and the write happen under one lock.
func (c *Collection[T]) PutUnique(rec T, conflicts func(existing T) bool) error {
	if err := validate(rec); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.records {
		if existing.RecordID() != rec.RecordID() && conflicts(existing) {
			return ErrConflict
		}
	}
	return c.putLocked(rec)
}

// Get returns the record with the given ID.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, rec := range c.records {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// FindOne returns the first record, in insertion order, matching pred.
func (c *Collection[T]) FindOne(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, rec := range c.records {
		if pred(rec) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every record matching pred, in insertion order.
func (c *Collection[T]) FindAll(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, rec := range c.records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// List returns a copy of all records in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Delete removes the record with the given ID. It reports whether a record
// existed; the file is only rewritten when one did.
func (c *Collection[T]) Delete(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range c.records {
		if rec.RecordID() != id {
			continue
		}
		next := make([]T, 0, len(c.records)-1)
		next = append(next, c.records[:i]...)
		next = append(next, c.records[i+1:]...)
		if err := c.flush(next); err != nil {
			return false, err
		}
		c.records = next
		return true, nil
	}
	return false, nil
}

// putLocked writes rec and commits the new slice only after the file write
// succeeded, so a failed write leaves memory and disk in agreement.
func (c *Collection[T]) putLocked(rec T) error {
	next := make([]T, len(c.records), len(c.records)+1)
	copy(next, c.records)

	replaced := false
	for i, existing := range next {
		if existing.RecordID() == rec.RecordID() {
			next[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, rec)
	}

	if err := c.flush(next); err != nil {
		return err
	}
	c.records = next
	return nil
}

// flush writes records to a temp file and renames it over the collection
// file so readers never observe a partial write.
func (c *Collection[T]) flush(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", c.path, err)
	}
	return nil
}

func validate(rec any) error {
	if v, ok := rec.(Validator); ok {
		return v.Validate()
	}
	return nil
}
