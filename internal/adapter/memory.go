package adapter

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sprintboard/sprintboard/models"
)

type memorySub struct {
	id         int
	collection string
	query      models.Query
	docPath    string
	onBatch    func([]models.Record)
	onValue    func(*models.Record)
	onError    func(error)
	cancelled  bool
}

type memoryDelivery struct {
	sub     *memorySub
	records []models.Record
}

// MemorySource is an in-memory [CollectionSource] and [DocumentWriter].
//
// Collections come into existence when seeded or written to; subscribing to
// a collection that does not exist yet delivers nothing until it does.
// Tests can also push scripted batches with Deliver and errors with Fail.
// Callbacks run on the caller's goroutine.
type MemorySource struct {
	mu          sync.Mutex
	collections map[string]map[string]models.Record
	subs        map[int]*memorySub
	seq         int
	idSeq       int

	batches     [][]models.Patch
	cancelCalls int
	writeErr    error
	subErr      map[string]error

	now func() time.Time
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		collections: make(map[string]map[string]models.Record),
		subs:        make(map[int]*memorySub),
		subErr:      make(map[string]error),
		now:         time.Now,
	}
}

// Seed stores records in collection and delivers the new contents to its
// subscribers. Record paths are filled in from the collection and id.
func (m *MemorySource) Seed(collection string, records ...models.Record) {
	m.mu.Lock()
	docs := m.ensure(collection)
	for _, r := range records {
		r.Path = collection + "/" + r.ID
		docs[r.ID] = r
	}
	deliveries := m.collectLocked(collection)
	m.mu.Unlock()

	m.dispatch(deliveries)
}

// Deliver pushes records verbatim to every live subscriber of collection
// without touching stored documents.
func (m *MemorySource) Deliver(collection string, records ...models.Record) {
	m.mu.Lock()
	var targets []*memorySub
	for _, sub := range m.sortedSubs() {
		if sub.collection == collection && sub.onBatch != nil {
			targets = append(targets, sub)
		}
	}
	m.mu.Unlock()

	for _, sub := range targets {
		sub.onBatch(append([]models.Record(nil), records...))
	}
}

// Fail reports err to every live subscriber of collection.
func (m *MemorySource) Fail(collection string, err error) {
	m.mu.Lock()
	var targets []*memorySub
	for _, sub := range m.sortedSubs() {
		if sub.collection == collection {
			targets = append(targets, sub)
		}
	}
	m.mu.Unlock()

	for _, sub := range targets {
		sub.onError(err)
	}
}

// FailSubscribe makes the next subscriptions to collection fail with err.
func (m *MemorySource) FailSubscribe(collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subErr[collection] = err
}

// FailWrites makes writes fail with err until called with nil.
func (m *MemorySource) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Batches returns every successfully applied batch, in order.
func (m *MemorySource) Batches() [][]models.Patch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]models.Patch(nil), m.batches...)
}

// CancelCalls returns how many times a subscription's cancel was invoked,
// counting repeated invocations of the same handle.
func (m *MemorySource) CancelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelCalls
}

// Live returns how many subscriptions are not cancelled.
func (m *MemorySource) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// SubscribeCollection implements [CollectionSource]. Only "==" and "!="
// filters are supported.
func (m *MemorySource) SubscribeCollection(_ context.Context, q models.Query, onBatch func([]models.Record), onError func(error)) (CancelFunc, error) {
	for _, f := range q.Filters {
		if f.Op != "==" && f.Op != "!=" {
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedQuery, f.Op)
		}
	}

	return m.subscribe(&memorySub{
		collection: q.Collection,
		query:      q,
		onBatch:    onBatch,
		onError:    onError,
	})
}

// SubscribeDocument implements [CollectionSource].
func (m *MemorySource) SubscribeDocument(_ context.Context, path string, onValue func(*models.Record), onError func(error)) (CancelFunc, error) {
	collection, _, err := splitDocPath(path)
	if err != nil {
		return nil, err
	}

	return m.subscribe(&memorySub{
		collection: collection,
		docPath:    strings.Trim(path, "/"),
		onValue:    onValue,
		onError:    onError,
	})
}

func (m *MemorySource) subscribe(sub *memorySub) (CancelFunc, error) {
	m.mu.Lock()
	if err := m.subErr[sub.collection]; err != nil {
		delete(m.subErr, sub.collection)
		m.mu.Unlock()
		return nil, err
	}

	m.seq++
	sub.id = m.seq
	m.subs[sub.id] = sub

	var deliveries []memoryDelivery
	if docs, ok := m.collections[sub.collection]; ok {
		deliveries = append(deliveries, memoryDelivery{sub: sub, records: m.resultLocked(sub, docs)})
	}
	m.mu.Unlock()

	m.dispatch(deliveries)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cancelCalls++
		sub.cancelled = true
		delete(m.subs, sub.id)
	}, nil
}

// WriteBatch implements [DocumentWriter].
func (m *MemorySource) WriteBatch(_ context.Context, patches []models.Patch) error {
	m.mu.Lock()
	if m.writeErr != nil {
		err := m.writeErr
		m.mu.Unlock()
		return err
	}

	type target struct {
		collection, id string
	}
	targets := make([]target, len(patches))
	for i, p := range patches {
		collection, id, err := splitDocPath(p.Path)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		targets[i] = target{collection, id}
	}

	now := m.now()
	touched := map[string]struct{}{}
	for i, p := range patches {
		docs := m.ensure(targets[i].collection)
		rec, ok := docs[targets[i].id]
		if !ok {
			rec = models.Record{ID: targets[i].id, Path: targets[i].collection + "/" + targets[i].id}
		}
		fields := make(map[string]any, len(rec.Fields)+len(p.Fields))
		maps.Copy(fields, rec.Fields)
		for k, v := range p.Fields {
			if v == models.ServerTimestamp {
				v = now
			}
			fields[k] = v
		}
		rec.Fields = fields
		rec.UpdateTime = now
		docs[rec.ID] = rec
		touched[targets[i].collection] = struct{}{}
	}
	m.batches = append(m.batches, append([]models.Patch(nil), patches...))

	var deliveries []memoryDelivery
	for collection := range touched {
		deliveries = append(deliveries, m.collectLocked(collection)...)
	}
	m.mu.Unlock()

	m.dispatch(deliveries)
	return nil
}

// Create implements [DocumentWriter]. Ids are sequential ("doc-1", ...).
func (m *MemorySource) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	m.idSeq++
	id := fmt.Sprintf("doc-%d", m.idSeq)
	m.mu.Unlock()

	if err := m.WriteBatch(ctx, []models.Patch{{Path: collection + "/" + id, Fields: fields}}); err != nil {
		return "", err
	}
	return id, nil
}

// Delete implements [DocumentWriter].
func (m *MemorySource) Delete(_ context.Context, path string) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.writeErr != nil {
		err := m.writeErr
		m.mu.Unlock()
		return err
	}
	docs, ok := m.collections[collection]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if _, ok := docs[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(docs, id)
	deliveries := m.collectLocked(collection)
	m.mu.Unlock()

	m.dispatch(deliveries)
	return nil
}

func (m *MemorySource) ensure(collection string) map[string]models.Record {
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]models.Record)
		m.collections[collection] = docs
	}
	return docs
}

func (m *MemorySource) sortedSubs() []*memorySub {
	out := make([]*memorySub, 0, len(m.subs))
	for _, sub := range m.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (m *MemorySource) collectLocked(collection string) []memoryDelivery {
	docs := m.collections[collection]
	var out []memoryDelivery
	for _, sub := range m.sortedSubs() {
		if sub.collection == collection {
			out = append(out, memoryDelivery{sub: sub, records: m.resultLocked(sub, docs)})
		}
	}
	return out
}

func (m *MemorySource) resultLocked(sub *memorySub, docs map[string]models.Record) []models.Record {
	out := make([]models.Record, 0, len(docs))
	for _, r := range docs {
		if sub.docPath != "" {
			if r.Path == sub.docPath {
				out = append(out, cloneRecord(r))
			}
			continue
		}
		if matches(sub.query, r) {
			out = append(out, cloneRecord(r))
		}
	}

	orderBy := sub.query.OrderBy
	sort.SliceStable(out, func(i, j int) bool {
		if orderBy != "" {
			a, b := fmt.Sprint(out[i].Fields[orderBy]), fmt.Sprint(out[j].Fields[orderBy])
			if a != b {
				return a < b
			}
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MemorySource) dispatch(deliveries []memoryDelivery) {
	for _, d := range deliveries {
		m.mu.Lock()
		cancelled := d.sub.cancelled
		m.mu.Unlock()
		if cancelled {
			continue
		}

		if d.sub.docPath != "" {
			if len(d.records) == 0 {
				d.sub.onValue(nil)
			} else {
				d.sub.onValue(&d.records[0])
			}
			continue
		}
		d.sub.onBatch(d.records)
	}
}

func matches(q models.Query, r models.Record) bool {
	for _, f := range q.Filters {
		equal := fmt.Sprint(r.Fields[f.Field]) == fmt.Sprint(f.Value)
		if (f.Op == "==") != equal {
			return false
		}
	}
	return true
}

func cloneRecord(r models.Record) models.Record {
	r.Fields = maps.Clone(r.Fields)
	return r
}

func splitDocPath(path string) (collection, id string, err error) {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return path[:i], path[i+1:], nil
}
