package usecase

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

type fakeProductRepo struct {
	items  []*entity.Product
	nextID int64
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.nextID++
	p.ID = r.nextID
	r.items = append(r.items, p)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeProductRepo) Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	p, _ := r.GetByID(ctx, id)
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.items {
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	for i, p := range r.items {
		if p.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

type fakeCategoryRepo struct {
	items map[int64]*entity.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	c.ID = int64(len(r.items) + 1)
	r.items[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	return r.items[id], nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.items[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, onlyActive bool) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.items {
		if onlyActive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type fakeUserRepo struct {
	items map[int64]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = int64(len(r.items) + 1)
	r.items[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return r.items[id], nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.items {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.items[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.items {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.items, id)
	return nil
}
