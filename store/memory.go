package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// Memory is an in-process Store used by tests. Values are normalized the way
// Firestore returns them (pointers flattened, nil pointers stored as nil) so
// equality filters behave the same against either backend.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}

	// CommitHook, when set, runs before each batch commit applies; returning
	// an error fails the whole commit without applying any of its writes.
	CommitHook func() error
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]map[string]interface{})}
}

func flatten(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}

func copyDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = flatten(v)
	}
	return out
}

func (m *Memory) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(collection, id, data, merge)
	return nil
}

// apply assumes m.mu is held.
func (m *Memory) apply(collection, id string, data map[string]interface{}, merge bool) {
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]map[string]interface{})
		m.collections[collection] = coll
	}
	if merge {
		doc, ok := coll[id]
		if !ok {
			doc = make(map[string]interface{})
			coll[id] = doc
		}
		for k, v := range data {
			doc[k] = flatten(v)
		}
		return
	}
	coll[id] = copyDoc(data)
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var docs []Doc
	for _, id := range ids {
		doc := m.collections[collection][id]
		if !matches(doc, filters) {
			continue
		}
		docs = append(docs, Doc{ID: id, Data: copyDoc(doc)})
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

func matches(doc map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(flatten(doc[f.Field]), flatten(f.Value)) {
			return false
		}
	}
	return true
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

type memoryOp struct {
	collection string
	id         string
	data       map[string]interface{}
	merge      bool
	delete     bool
}

type memoryBatch struct {
	store *Memory
	ops   []memoryOp
}

func (b *memoryBatch) Set(collection, id string, data map[string]interface{}, merge bool) {
	b.ops = append(b.ops, memoryOp{collection: collection, id: id, data: copyDoc(data), merge: merge})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memoryOp{collection: collection, id: id, delete: true})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.CommitHook != nil {
		if err := b.store.CommitHook(); err != nil {
			return err
		}
	}
	for _, op := range b.ops {
		if op.delete {
			delete(b.store.collections[op.collection], op.id)
			continue
		}
		b.store.apply(op.collection, op.id, op.data, op.merge)
	}
	return nil
}
