// Pathfinder - Adaptive Career Recommendation & Policy Engine
// Copyright 2026 Pathfinder Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pathfinder-ai/pathfinder

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
	"github.com/pathfinder-ai/pathfinder/internal/recommend"
)

// Record is one stored context document with its embedding.
type Record struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IndexedAt time.Time         `json:"indexed_at"`
}

// Store is the badger-backed retrieval context store. It implements
// recommend.ContextStore. Index and Clear are serialized per store;
// Retrieve runs concurrently against badger's MVCC snapshots.
type Store struct {
	db         *badger.DB
	embedder   Embedder
	collection string
	logger     zerolog.Logger

	mu sync.Mutex // serializes Index and Clear
}

// Open opens (or creates) the store in dir. Records live under the
// collection's key prefix, so multiple collections can share one
// database directory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(dir, collection string, embedder Embedder, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open retrieval store %s: %w", dir, err)
	}

	s := &Store{
		db:         db,
		embedder:   embedder,
		collection: collection,
		logger:     logger.With().Str("component", "retrieval").Str("collection", collection).Logger(),
	}
	if n, err := s.count(); err == nil {
		metrics.RetrievalRecords.Set(float64(n))
	}
	return s, nil
}

// key builds the badger key for a document id.
func (s *Store) key(docID string) []byte {
	return []byte(s.collection + "/" + docID)
}

func (s *Store) prefix() []byte {
	return []byte(s.collection + "/")
}

// Index upserts one document. An embedding failure degrades to the zero
// vector for this document rather than failing the call, so a partially
// degraded embedding provider cannot poison a whole indexing batch.
func (s *Store) Index(ctx context.Context, docID, text string, metadata map[string]string) error {
	if docID == "" {
		return fmt.Errorf("doc id is required")
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Str("doc_id", docID).Msg("embedding failed, storing zero vector")
		vec = make([]float32, s.embedder.Dimensions())
	}

	rec := Record{
		ID:        docID,
		Text:      text,
		Embedding: vec,
		Metadata:  metadata,
		IndexedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", docID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(docID), data)
	})
	if err != nil {
		return fmt.Errorf("store record %s: %w", docID, err)
	}

	if n, err := s.count(); err == nil {
		metrics.RetrievalRecords.Set(float64(n))
	}
	return nil
}

// Retrieve embeds the query and returns the k highest-scoring records by
// cosine similarity. An empty store returns an empty slice. A query
// embedding failure degrades to the zero vector, which scores every
// record at zero but still returns results.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]recommend.RetrievedDocument, error) {
	if k <= 0 {
		return []recommend.RetrievedDocument{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Msg("query embedding failed, ranking with zero vector")
		qvec = make([]float32, s.embedder.Dimensions())
	}

	var docs []recommend.RetrievedDocument
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				s.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping undecodable record")
				continue
			}
			docs = append(docs, recommend.RetrievedDocument{
				ID:       rec.ID,
				Text:     rec.Text,
				Metadata: rec.Metadata,
				Score:    cosine32(qvec, rec.Embedding),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan retrieval store: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})
	if k < len(docs) {
		docs = docs[:k]
	}
	if docs == nil {
		docs = []recommend.RetrievedDocument{}
	}
	return docs, nil
}

// Clear deletes every record in the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DropPrefix(s.prefix()); err != nil {
		return fmt.Errorf("clear collection %s: %w", s.collection, err)
	}
	metrics.RetrievalRecords.Set(0)
	s.logger.Info().Msg("collection cleared")
	return nil
}

// Count returns the number of records in the collection.
func (s *Store) Count() (int, error) {
	return s.count()
}

func (s *Store) count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix()
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC runs one badger value log GC cycle. badger.ErrNoRewrite means
// there was nothing to collect and is not an error.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// cosine32 is cosine similarity over float32 vectors, 0 for zero norms
// or mismatched dimensions.
func cosine32(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
