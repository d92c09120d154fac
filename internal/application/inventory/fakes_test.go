package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// memStore guarda productos y movimientos en memoria. Run hace snapshot y lo restaura si fn falla.
// failMovCreate y failMovUpdate hacen fallar la escritura del movimiento; ops registra cada
// escritura en orden ("movement.insert", "movement.update", "movement.delete", "product.stock").
type memStore struct {
	mu            sync.Mutex
	products      map[int64]entity.Product
	movements     map[int64]entity.Movement
	nextMovID     int64
	clock         time.Time
	failMovCreate error
	failMovUpdate error
	ops           []string
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[int64]entity.Product{},
		movements: map[int64]entity.Movement{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) addProduct(id, stock int64) {
	s.products[id] = entity.Product{ID: id, Description: "Producto", Stock: stock}
}

func (s *memStore) stock(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *memStore) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
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
	next := s.nextMovID
	if err := fn(memMovRepo{s}, memProductRepo{s}); err != nil {
		s.products, s.movements, s.nextMovID = prods, movs, next
		return err
	}
	return nil
}

var _ inventory.TxRunner = (*memStore)(nil)

type memProductRepo struct{ s *memStore }

func (r memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r memProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProductRepo) Update(_ context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, errors.New("producto inexistente")
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
		r.s.ops = append(r.s.ops, "product.stock")
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	r.s.products[id] = p
	return &p, nil
}

func (r memProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r memProductRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.products, id)
	return nil
}

type memMovRepo struct{ s *memStore }

func (r memMovRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.s.failMovCreate != nil {
		return r.s.failMovCreate
	}
	r.s.ops = append(r.s.ops, "movement.insert")
	r.s.nextMovID++
	r.s.clock = r.s.clock.Add(time.Minute)
	m.ID = r.s.nextMovID
	m.CreatedAt = r.s.clock
	r.s.movements[m.ID] = *m
	return nil
}

func (r memMovRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r memMovRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r memMovRepo) Update(_ context.Context, m *entity.Movement) error {
	if r.s.failMovUpdate != nil {
		return r.s.failMovUpdate
	}
	if _, ok := r.s.movements[m.ID]; !ok {
		return errors.New("movimiento inexistente")
	}
	r.s.ops = append(r.s.ops, "movement.update")
	r.s.movements[m.ID] = *m
	return nil
}

func (r memMovRepo) Delete(_ context.Context, id int64) error {
	r.s.ops = append(r.s.ops, "movement.delete")
	delete(r.s.movements, id)
	return nil
}

func (r memMovRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
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
	sort.Slice(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
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

func (r memMovRepo) Count(ctx context.Context, f entity.MovementFilter) (int64, error) {
	f.Limit, f.Offset = 0, 0
	list, err := r.List(ctx, f)
	return int64(len(list)), err
}

// lockedMovRepo envuelve memMovRepo para lecturas fuera de Run.
type lockedMovRepo struct{ s *memStore }

func (r lockedMovRepo) Create(ctx context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.Create(ctx, m)
}

func (r lockedMovRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.GetByID(ctx, id)
}

func (r lockedMovRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r lockedMovRepo) Update(ctx context.Context, m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.Update(ctx, m)
}

func (r lockedMovRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.Delete(ctx, id)
}

func (r lockedMovRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.List(ctx, f)
}

func (r lockedMovRepo) Count(ctx context.Context, f entity.MovementFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMovRepo{r.s}.Count(ctx, f)
}

// hookedListRepo ejecuta afterList cuando List ya leyó las filas y antes de devolverlas.
type hookedListRepo struct {
	lockedMovRepo
	afterList func()
}

func (r *hookedListRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
	list, err := r.lockedMovRepo.List(ctx, f)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return list, err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*inventory.MovementEvent
	err    error
}

func (p *recordingPublisher) PublishMovementEvent(_ context.Context, e *inventory.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	gets        int
	invalidated int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// listings cuenta los listados guardados (sin la clave de generación).
func (c *memCache) listings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, "movements:list:") {
			n++
		}
	}
	return n
}

func (c *memCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeKardexGenerator struct {
	product   *entity.Product
	movements []*entity.MovementWithProduct
}

func (g *fakeKardexGenerator) GenerateKardexPDF(_ context.Context, p *entity.Product, movs []*entity.MovementWithProduct) ([]byte, error) {
	g.product = p
	g.movements = movs
	return []byte("%PDF-fake"), nil
}
