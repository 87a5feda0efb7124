// Package cache provides the indexed record store of ucache.
package cache

import (
	"iter"

	"github.com/semihalev/ucache/record"
)

// Matcher decides whether a record is kept by Filter.
type Matcher interface {
	Match(r record.Record) bool
}

// Store is a collection of records bucketed by (name, type).
// Operations other than Add return a new Store and never modify the receiver.
type Store struct {
	buckets map[record.Key][]record.Record

	// keys remembers the order buckets were first created in so output is
	// stable between runs.
	keys []record.Key
}

// New returns an empty store.
func New() *Store {
	return &Store{buckets: make(map[record.Key][]record.Record)}
}

// (*Store).Add add appends r to the bucket for its (name, type), creating the bucket if needed.
func (s *Store) Add(r record.Record) {
	k := r.Key()

	bucket, ok := s.buckets[k]
	if !ok {
		s.keys = append(s.keys, k)
	}

	s.buckets[k] = append(bucket, r)
}

// (*Store).Find find returns a copy of the bucket for (name, rtype), empty if there is none.
func (s *Store) Find(name, rtype string) []record.Record {
	bucket := s.buckets[record.Key{Name: name, Type: rtype}]

	out := make([]record.Record, len(bucket))
	copy(out, bucket)

	return out
}

// (*Store).Records records returns every stored record, bucket by bucket.
// The sequence can be ranged over any number of times.
func (s *Store) Records() iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for _, k := range s.keys {
			for _, r := range s.buckets[k] {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// (*Store).Keys keys returns the bucket keys in creation order.
func (s *Store) Keys() []record.Key {
	out := make([]record.Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// (*Store).Len len returns the number of records in the store.
func (s *Store) Len() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}

// Merge returns a store holding every bucket of s, with each bucket that also
// exists in other replaced wholesale by the bucket from other. Records are
// never unioned within a bucket.
func (s *Store) Merge(other *Store) *Store {
	merged := New()

	for _, k := range s.keys {
		bucket := s.buckets[k]
		if ob, ok := other.buckets[k]; ok {
			bucket = ob
		}
		merged.putBucket(k, bucket)
	}

	for _, k := range other.keys {
		if _, ok := s.buckets[k]; ok {
			continue
		}
		merged.putBucket(k, other.buckets[k])
	}

	return merged
}

// Filter returns a store with only the records m matches. Buckets left
// without records are dropped.
func (s *Store) Filter(m Matcher) *Store {
	filtered := New()

	for r := range s.Records() {
		if m.Match(r) {
			filtered.Add(r)
		}
	}

	return filtered
}

func (s *Store) putBucket(k record.Key, bucket []record.Record) {
	cp := make([]record.Record, len(bucket))
	copy(cp, bucket)

	s.keys = append(s.keys, k)
	s.buckets[k] = cp
}
