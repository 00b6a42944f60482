package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aitoolshub/apiserver/types"
)

// ToolFilter narrows a catalog listing. Zero-valued fields are absent;
// present fields are ANDed together. Enum fields are validated by the
// service layer before they reach the store.
type ToolFilter struct {
	Search     string
	Category   types.Category
	PriceModel types.PriceModel
	Platform   types.Platform
}

const toolColumns = `id, name, description, category, price_model, platform,
		price_details, website_url, image_key, rating, review_count, created_at, updated_at`

// ToolRepository handles persistence for tools.
type ToolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// List returns the page of tools matching the filter, ordered newest first
// with the id as tiebreaker, plus the total match count before pagination.
func (r *ToolRepository) List(ctx context.Context, filter ToolFilter, offset, limit int) ([]types.Tool, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	where, args := buildToolFilter(filter)

	countQuery := `SELECT COUNT(1) FROM tools` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM tools%s
		ORDER BY created_at DESC, id ASC
		OFFSET $%d LIMIT $%d`, toolColumns, where, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tools := make([]types.Tool, 0, limit)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, 0, err
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tools, total, nil
}

func (r *ToolRepository) Get(ctx context.Context, id string) (types.Tool, error) {
	query := fmt.Sprintf(`SELECT %s FROM tools WHERE id = $1`, toolColumns)
	tool, err := scanTool(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Tool{}, ErrNotFound
		}
		return types.Tool{}, err
	}
	return tool, nil
}

func (r *ToolRepository) Create(ctx context.Context, tool types.Tool) (types.Tool, error) {
	now := time.Now()
	tool.CreatedAt = now
	tool.UpdatedAt = now

	const query = `
		INSERT INTO tools (id, name, description, category, price_model, platform,
			price_details, website_url, image_key, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		tool.ID,
		tool.Name,
		tool.Description,
		tool.Category,
		tool.PriceModel,
		tool.Platform,
		tool.PriceDetails,
		tool.WebsiteURL,
		tool.ImageKey,
		tool.Rating,
		tool.ReviewCount,
		tool.CreatedAt,
		tool.UpdatedAt,
	); err != nil {
		return types.Tool{}, err
	}
	return tool, nil
}

// Count returns the total number of tools, regardless of filters.
func (r *ToolRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM tools`
	var total int
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// SetImageKey records the object storage key of the tool's logo image.
func (r *ToolRepository) SetImageKey(ctx context.Context, id, imageKey string) error {
	const query = `
		UPDATE tools
		SET image_key = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, imageKey, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// buildToolFilter renders the filter as a WHERE clause and its arguments.
// Search matches case-insensitively as a substring of name or description.
func buildToolFilter(filter ToolFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.PriceModel != "" {
		args = append(args, filter.PriceModel)
		clauses = append(clauses, fmt.Sprintf("price_model = $%d", len(args)))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		clauses = append(clauses, fmt.Sprintf("platform = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE metacharacters so search text matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (types.Tool, error) {
	var tool types.Tool
	err := row.Scan(
		&tool.ID,
		&tool.Name,
		&tool.Description,
		&tool.Category,
		&tool.PriceModel,
		&tool.Platform,
		&tool.PriceDetails,
		&tool.WebsiteURL,
		&tool.ImageKey,
		&tool.Rating,
		&tool.ReviewCount,
		&tool.CreatedAt,
		&tool.UpdatedAt,
	)
	if err != nil {
		return types.Tool{}, err
	}
	return tool, nil
}
