package http_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// memStore implementa TxRunner y los repositorios en memoria. Run restaura el estado si fn falla.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]entity.Product
	movements map[int64]entity.Movement
	nextID    int64
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[int64]entity.Product{},
		movements: map[int64]entity.Movement{},
		clock:     time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) addProduct(id, stock int64) {
	s.products[id] = entity.Product{ID: id, Description: "Arroz 500g", Stock: stock}
}

func (s *memStore) stock(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) Run(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prods := make(map[int64]entity.Product, len(s.products))
	for k, v := range s.products {
		prods[k] = v
	}
	movs := make(map[int64]entity.Movement, len(s.movements))
	for k, v := range s.movements {
		movs[k] = v
	}
	next := s.nextID
	if err := fn(movRepo{s}, productRepo{s}); err != nil {
		s.products, s.movements, s.nextID = prods, movs, next
		return err
	}
	return nil
}

// readRepo toma el lock para las lecturas fuera de Run.
type readRepo struct{ movRepo }

func (r readRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.movRepo.GetByID(ctx, id)
}

func (r readRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.movRepo.List(ctx, f)
}

func (r readRepo) Count(ctx context.Context, f entity.MovementFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.movRepo.Count(ctx, f)
}

type productRepo struct{ s *memStore }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) Update(_ context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, errors.New("producto inexistente")
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	r.s.products[id] = p
	return &p, nil
}

func (r productRepo) List(context.Context, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.products, id)
	return nil
}

type movRepo struct{ s *memStore }

func (r movRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.nextID++
	r.s.clock = r.s.clock.Add(time.Minute)
	m.ID = r.s.nextID
	m.CreatedAt = r.s.clock
	r.s.movements[m.ID] = *m
	return nil
}

func (r movRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r movRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r movRepo) Update(_ context.Context, m *entity.Movement) error {
	r.s.movements[m.ID] = *m
	return nil
}

func (r movRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.movements, id)
	return nil
}

func (r movRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
	var out []*entity.MovementWithProduct
	for _, m := range r.s.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		p := r.s.products[m.ProductID]
		out = append(out, &entity.MovementWithProduct{
			Movement: m,
			Product:  entity.ProductSummary{ID: p.ID, Description: p.Description, Stock: p.Stock, Price: p.Price},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r movRepo) Count(ctx context.Context, f entity.MovementFilter) (int64, error) {
	f.Limit, f.Offset = 0, 0
	list, err := r.List(ctx, f)
	return int64(len(list)), err
}
