// Package memory is an in-process attribute store with the same semantics
// as the Postgres one. Transactions are serialised by a single mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"restoflow/internal/domain"
	"restoflow/internal/eav"
)

type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ eav.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(q eav.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.st); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) NextInstanceID(ctx context.Context, entityType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.NextInstanceID(ctx, entityType)
}

func (s *Store) InsertAttributes(ctx context.Context, rows []eav.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.InsertAttributes(ctx, rows)
}

func (s *Store) UpdateRowValue(ctx context.Context, rowID int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateRowValue(ctx, rowID, value)
}

func (s *Store) DeleteEntity(ctx context.Context, entityType string, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteEntity(ctx, entityType, id)
}

func (s *Store) DeleteEntities(ctx context.Context, entityType string, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteEntities(ctx, entityType, ids)
}

func (s *Store) DeleteAttributeRows(ctx context.Context, entityType, attr, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteAttributeRows(ctx, entityType, attr, value)
}

func (s *Store) FindInstanceIDs(ctx context.Context, entityType, attr, value string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindInstanceIDs(ctx, entityType, attr, value)
}

func (s *Store) ReadRows(ctx context.Context, entityType string, id int64) ([]eav.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ReadRows(ctx, entityType, id)
}

func (s *Store) ReadEntity(ctx context.Context, entityType string, id int64) (eav.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ReadEntity(ctx, entityType, id)
}

func (s *Store) ReadEntities(ctx context.Context, entityType string, ids []int64) ([]eav.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ReadEntities(ctx, entityType, ids)
}

func (s *Store) ReadAllEntities(ctx context.Context, entityType string) ([]eav.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ReadAllEntities(ctx, entityType)
}

func (s *Store) ReadAll(ctx context.Context, entityType string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ReadAll(ctx, entityType)
}

// Lock is a no-op: InTx already holds the store mutex.
func (s *Store) Lock(ctx context.Context, key string) error {
	return nil
}

func (s *Store) RegisterEntityType(ctx context.Context, t domain.EntityType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.RegisterEntityType(ctx, t)
}

func (s *Store) DeleteEntityType(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteEntityType(ctx, name)
}

func (s *Store) ListEntityTypes(ctx context.Context) ([]domain.EntityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListEntityTypes(ctx)
}

func (s *Store) EntityTypeExists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.EntityTypeExists(ctx, name)
}

// state is the unguarded store contents. It doubles as the querier handed
// to InTx callbacks.
type state struct {
	rows      []eav.Row
	lastRowID int64
	sequences map[string]int64
	types     map[string]string
}

var _ eav.Querier = (*state)(nil)

func newState() *state {
	return &state{
		sequences: make(map[string]int64),
		types:     make(map[string]string),
	}
}

func (st *state) clone() *state {
	c := &state{
		rows:      append([]eav.Row(nil), st.rows...),
		lastRowID: st.lastRowID,
		sequences: make(map[string]int64, len(st.sequences)),
		types:     make(map[string]string, len(st.types)),
	}
	for k, v := range st.sequences {
		c.sequences[k] = v
	}
	for k, v := range st.types {
		c.types[k] = v
	}
	return c
}

func (st *state) NextInstanceID(_ context.Context, entityType string) (int64, error) {
	var maxID int64
	for _, row := range st.rows {
		if row.EntityType == entityType && row.InstanceID > maxID {
			maxID = row.InstanceID
		}
	}
	next := st.sequences[entityType] + 1
	if maxID+1 > next {
		next = maxID + 1
	}
	st.sequences[entityType] = next
	return next, nil
}

func (st *state) InsertAttributes(_ context.Context, rows []eav.Row) error {
	for _, row := range rows {
		st.lastRowID++
		row.ID = st.lastRowID
		st.rows = append(st.rows, row)
	}
	return nil
}

func (st *state) UpdateRowValue(_ context.Context, rowID int64, value string) error {
	for i := range st.rows {
		if st.rows[i].ID == rowID {
			st.rows[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("%w: attribute row %d", domain.ErrNotFound, rowID)
}

func (st *state) DeleteEntity(ctx context.Context, entityType string, id int64) (int64, error) {
	return st.DeleteEntities(ctx, entityType, []int64{id})
}

func (st *state) DeleteEntities(_ context.Context, entityType string, ids []int64) (int64, error) {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return st.remove(func(row eav.Row) bool {
		return row.EntityType == entityType && drop[row.InstanceID]
	}), nil
}

func (st *state) DeleteAttributeRows(_ context.Context, entityType, attr, value string) (int64, error) {
	return st.remove(func(row eav.Row) bool {
		return row.EntityType == entityType && row.Attribute == attr && row.Value == value
	}), nil
}

func (st *state) FindInstanceIDs(_ context.Context, entityType, attr, value string) ([]int64, error) {
	return st.instanceIDs(func(row eav.Row) bool {
		return row.EntityType == entityType && row.Attribute == attr && row.Value == value
	}), nil
}

func (st *state) ReadRows(_ context.Context, entityType string, id int64) ([]eav.Row, error) {
	return st.selectRows(func(row eav.Row) bool {
		return row.EntityType == entityType && row.InstanceID == id
	}), nil
}

func (st *state) ReadEntity(ctx context.Context, entityType string, id int64) (eav.Record, error) {
	rows, _ := st.ReadRows(ctx, entityType, id)
	if rec, ok := eav.Pivot(rows)[id]; ok {
		return rec, nil
	}
	return eav.Record{}, nil
}

func (st *state) ReadEntities(_ context.Context, entityType string, ids []int64) ([]eav.Entity, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	rows := st.selectRows(func(row eav.Row) bool {
		return row.EntityType == entityType && want[row.InstanceID]
	})
	return eav.Entities(entityType, rows), nil
}

func (st *state) ReadAllEntities(_ context.Context, entityType string) ([]eav.Entity, error) {
	rows := st.selectRows(func(row eav.Row) bool { return row.EntityType == entityType })
	return eav.Entities(entityType, rows), nil
}

func (st *state) ReadAll(_ context.Context, entityType string) ([]int64, error) {
	return st.instanceIDs(func(row eav.Row) bool { return row.EntityType == entityType }), nil
}

func (st *state) Lock(context.Context, string) error {
	return nil
}

func (st *state) RegisterEntityType(_ context.Context, t domain.EntityType) error {
	st.types[t.Name] = t.App
	return nil
}

func (st *state) DeleteEntityType(_ context.Context, name string) (int64, error) {
	if _, ok := st.types[name]; !ok {
		return 0, nil
	}
	delete(st.types, name)
	return 1, nil
}

func (st *state) ListEntityTypes(context.Context) ([]domain.EntityType, error) {
	out := make([]domain.EntityType, 0, len(st.types))
	for name, app := range st.types {
		out = append(out, domain.EntityType{Name: name, App: app})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (st *state) EntityTypeExists(_ context.Context, name string) (bool, error) {
	_, ok := st.types[name]
	return ok, nil
}

func (st *state) remove(match func(eav.Row) bool) int64 {
	kept := st.rows[:0:0]
	var removed int64
	for _, row := range st.rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	st.rows = kept
	return removed
}

func (st *state) selectRows(match func(eav.Row) bool) []eav.Row {
	out := []eav.Row{}
	for _, row := range st.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	return out
}

func (st *state) instanceIDs(match func(eav.Row) bool) []int64 {
	seen := make(map[int64]bool)
	ids := []int64{}
	for _, row := range st.rows {
		if match(row) && !seen[row.InstanceID] {
			seen[row.InstanceID] = true
			ids = append(ids, row.InstanceID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
