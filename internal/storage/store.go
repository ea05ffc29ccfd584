package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/pders01/jaenan/internal/debuglog"
	"github.com/pders01/jaenan/internal/validation"
)

var (
	interactionsBucket = []byte("interactions")
	idIndexBucket      = []byte("interaction_ids")
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when an ID prefix matches more than one record.
var ErrAmbiguous = errors.New("ambiguous id")

// Store keeps the copy/share history. Messages themselves are never cached.
type Store struct {
	db *bolt.DB
	// tmp is removed on Close for in-memory stores.
	tmp string
	now func() time.Time
}

// NewStore opens or creates the history database at dbPath. The path
// validation.MemoryPath gives a throwaway store backed by a temp file.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	path, err := validation.DataFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	var tmp string
	if path == validation.MemoryPath {
		tmp, err = os.MkdirTemp("", "jaenan-history-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp database: %w", err)
		}
		path = filepath.Join(tmp, "history.db")
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		if tmp != "" {
			_ = os.RemoveAll(tmp)
		}
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{interactionsBucket, idIndexBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, tmp: tmp, now: time.Now}, nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if s.tmp != "" {
		_ = os.RemoveAll(s.tmp)
	}
	return err
}

// Path is the database file in use.
func (s *Store) Path() string {
	return s.db.Path()
}

// RecordInteraction appends it to the history, filling in ID and At when
// they are empty.
func (s *Store) RecordInteraction(it *Interaction) error {
	if it.Action != ActionCopy && it.Action != ActionShare {
		return fmt.Errorf("unknown action %q", it.Action)
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.At.IsZero() {
		it.At = s.now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(interactionsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := seqKey(seq)

		data, err := json.Marshal(it)
		if err != nil {
			return err
		}
		if err := b.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(idIndexBucket).Put([]byte(it.ID), key)
	})
	if err != nil {
		return fmt.Errorf("saving interaction: %w", err)
	}

	debuglog.With(debuglog.Fields{"action": it.Action, "message": it.MessageKey}).Debugf("interaction recorded")
	return nil
}

// RecentInteractions returns up to limit records, newest first. A limit of
// zero or less returns everything.
func (s *Store) RecentInteractions(limit int) ([]*Interaction, error) {
	var out []*Interaction
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(interactionsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var it Interaction
			if err := json.Unmarshal(v, &it); err != nil {
				continue
			}
			out = append(out, &it)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// ResolveID expands a full ID or a unique ID prefix to the stored ID.
func (s *Store) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}
	var found []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(idIndexBucket).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			found = append(found, string(k))
			if len(found) > 1 {
				break
			}
		}
		return nil
	})
	switch {
	case err != nil:
		return "", err
	case len(found) == 0:
		return "", fmt.Errorf("interaction %s: %w", prefix, ErrNotFound)
	case len(found) > 1:
		return "", fmt.Errorf("interaction %s: %w", prefix, ErrAmbiguous)
	}
	return found[0], nil
}

func (s *Store) GetInteraction(id string) (*Interaction, error) {
	var it Interaction
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(idIndexBucket).Get([]byte(id))
		if key == nil {
			return ErrNotFound
		}
		data := tx.Bucket(interactionsBucket).Get(key)
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &it)
	})
	if err != nil {
		return nil, fmt.Errorf("interaction %s: %w", id, err)
	}
	return &it, nil
}

func (s *Store) DeleteInteraction(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(idIndexBucket)
		key := idx.Get([]byte(id))
		if key == nil {
			return fmt.Errorf("interaction %s: %w", id, ErrNotFound)
		}
		if err := tx.Bucket(interactionsBucket).Delete(key); err != nil {
			return err
		}
		return idx.Delete([]byte(id))
	})
}

// Clear removes the whole history.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{interactionsBucket, idIndexBucket} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Stats() (Stats, error) {
	st := Stats{ByAction: make(map[Action]int)}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(interactionsBucket).ForEach(func(_, v []byte) error {
			var it Interaction
			if err := json.Unmarshal(v, &it); err != nil {
				return nil
			}
			st.Total++
			st.ByAction[it.Action]++
			if it.At.After(st.Last) {
				st.Last = it.At
			}
			return nil
		})
	})
	return st, err
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
