package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("catalog: not found")

// DefaultPerPage matches the storefront's listing page size.
const DefaultPerPage = 8

type Repo struct {
	DB  *pgxpool.Pool
	sfg singleflight.Group // collapses concurrent lookups of the same product
}

const productCols = `id, name, description, price_cents, stock, category_id, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
		&p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) FindByID(ctx context.Context, id string) (Product, error) {
	v, err, _ := r.sfg.Do(id, func() (any, error) {
		row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
		return scanProduct(row)
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

func (r *Repo) FindByName(ctx context.Context, name string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE name=$1`, name)
	return scanProduct(row)
}

func (r *Repo) List(ctx context.Context, page, perPage int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return Page{}, err
	}

	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY name
	                              LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Products: products, Page: page, PerPage: perPage, Total: total}, nil
}

func (r *Repo) ListByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products
	                              WHERE category_id=$1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Search does a case-insensitive substring match on product name.
func (r *Repo) Search(ctx context.Context, query string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products
	                              WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
			&p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, image_url FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) FindCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `SELECT id, name, description, image_url FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return c, err
}
