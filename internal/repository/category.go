package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evently-labs/event-booking-api/internal/model"
)

// CategoryRepository handles persistence for event categories.
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and returns it with a generated UUID.
func (r *CategoryRepository) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at)
		 VALUES ($1, $2, $3, $4)`,
		category.ID, category.Name, category.Description, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID returns a single category or ErrNotFound.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update replaces a category's fields.
func (r *CategoryRepository) Update(ctx context.Context, id string, req model.UpdateCategoryRequest) (*model.Category, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		id, req.Name, req.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		if isInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a category. Events referencing it block the delete via the
// foreign key, surfaced as a conflict to the caller.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category has events: %w", err)
		}
		if isInvalidUUID(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
