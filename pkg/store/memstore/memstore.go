// Package memstore menyimpan record di memori proses.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

type Store struct {
	mu   sync.RWMutex
	rows []models.Pasien
}

var _ store.RecordStore = (*Store)(nil)

func New(seed ...models.Pasien) *Store {
	rows := make([]models.Pasien, len(seed))
	copy(rows, seed)
	return &Store{rows: rows}
}

func (s *Store) List(ctx context.Context) ([]models.Pasien, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pasien, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *Store) Create(ctx context.Context, p models.Pasien) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, p)
	return p.ID, nil
}

func (s *Store) Update(ctx context.Context, p models.Pasien) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == p.ID {
			p.CreatedAt = s.rows[i].CreatedAt
			s.rows[i] = p
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
