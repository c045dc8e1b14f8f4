package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDocuments = []byte("documents")

// Field weights applied to term frequencies.
const (
	WeightTitle    = 5
	WeightCategory = 3
	WeightYear     = 1
	WeightDirector = 2
	WeightProducer = 2
	WeightActors   = 4
	WeightSynopsis = 1
)

// Document is the indexed view of a movie.
type Document struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Category string `json:"category"`
	Director string `json:"director"`
	Producer string `json:"producer"`
	Actors   string `json:"actors"`
	Synopsis string `json:"synopsis"`
}

// terms returns the weighted frequency of every term in d.
func (d Document) terms() map[string]float64 {
	tf := make(map[string]float64)
	add := func(text string, weight float64) {
		for _, t := range Tokenize(text) {
			tf[t] += weight
		}
	}
	add(d.Title, WeightTitle)
	add(d.Category, WeightCategory)
	if d.Year != 0 {
		add(strconv.Itoa(d.Year), WeightYear)
	}
	add(d.Director, WeightDirector)
	add(d.Producer, WeightProducer)
	add(d.Actors, WeightActors)
	add(d.Synopsis, WeightSynopsis)
	return tf
}

type entry struct {
	doc   Document
	terms map[string]float64
}

// Index is an in-memory inverted index, optionally persisted to a bbolt file
// on Flush. It is not safe for concurrent use.
type Index struct {
	db       *bolt.DB
	docs     map[string]*entry             // title -> entry
	postings map[string]map[string]float64 // term -> title -> weighted tf
	dirty    bool
	closed   bool
	logger   *slog.Logger
}

// Open loads the index stored at path, creating it if needed. An empty path
// gives a memory-only index.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	idx := &Index{
		docs:     make(map[string]*entry),
		postings: make(map[string]map[string]float64),
		logger:   logger.With("component", "search"),
	}
	if path == "" {
		return idx, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketDocuments)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var doc Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("decode document %q: %w", k, err)
			}
			idx.put(doc)
			return nil
		})
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load index: %w", err)
	}
	idx.db = db
	idx.logger.Debug("index loaded", "path", path, "documents", len(idx.docs))
	return idx, nil
}

// Add indexes doc, replacing any document with exactly the same title.
func (i *Index) Add(doc Document) error {
	if i.closed {
		return ErrClosed
	}
	i.drop(doc.Title)
	i.put(doc)
	i.dirty = true
	return nil
}

// Edit replaces the document of oldTitle with doc.
func (i *Index) Edit(oldTitle string, doc Document) error {
	if err := i.Remove(oldTitle); err != nil {
		return err
	}
	return i.Add(doc)
}

// Remove drops the document of title, if any.
func (i *Index) Remove(title string) error {
	if i.closed {
		return ErrClosed
	}
	if i.drop(title) {
		i.dirty = true
	}
	return nil
}

// Clear drops every document.
func (i *Index) Clear() error {
	if i.closed {
		return ErrClosed
	}
	clear(i.docs)
	clear(i.postings)
	i.dirty = true
	return nil
}

// Flush writes the documents to disk when they changed since the last flush.
func (i *Index) Flush() error {
	if i.closed {
		return ErrClosed
	}
	if i.db == nil || !i.dirty {
		return nil
	}
	err := i.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketDocuments); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketDocuments)
		if err != nil {
			return err
		}
		for title, e := range i.docs {
			data, err := json.Marshal(e.doc)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(title), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	i.dirty = false
	i.logger.Debug("index flushed", "documents", len(i.docs))
	return nil
}

// Close releases the index file. Unflushed changes are lost.
func (i *Index) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	if i.db != nil {
		return i.db.Close()
	}
	return nil
}

// TermCount returns the number of distinct indexed terms.
func (i *Index) TermCount() int { return len(i.postings) }

// DocumentCount returns the number of indexed documents.
func (i *Index) DocumentCount() int { return len(i.docs) }

func (i *Index) put(doc Document) {
	e := &entry{doc: doc, terms: doc.terms()}
	i.docs[doc.Title] = e
	for t, w := range e.terms {
		p := i.postings[t]
		if p == nil {
			p = make(map[string]float64)
			i.postings[t] = p
		}
		p[doc.Title] = w
	}
}

func (i *Index) drop(title string) bool {
	e, ok := i.docs[title]
	if !ok {
		return false
	}
	delete(i.docs, title)
	for t := range e.terms {
		p := i.postings[t]
		delete(p, title)
		if len(p) == 0 {
			delete(i.postings, t)
		}
	}
	return true
}
