package store

import (
	"context"
	"database/sql"

	"github.com/aitoolshub/apiserver/types"
)

// ReviewRepository handles persistence for reviews and the guarded update
// of the owning tool's rating aggregate.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateWithAggregate persists the review and applies the recomputed
// aggregate to the owning tool in one transaction. The tool update is
// guarded on the review count the caller observed: if another submission
// got there first, nothing is written and ErrConflict is returned so the
// caller can re-read and retry.
func (r *ReviewRepository) CreateWithAggregate(ctx context.Context, review types.Review, observedCount int, newRating float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const updateQuery = `
		UPDATE tools
		SET rating = $1,
			review_count = review_count + 1,
			updated_at = $2
		WHERE id = $3 AND review_count = $4`
	result, err := tx.ExecContext(ctx, updateQuery, newRating, review.CreatedAt, review.ToolID, observedCount)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}

	const insertQuery = `
		INSERT INTO reviews (id, tool_id, user_id, rating, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(
		ctx,
		insertQuery,
		review.ID,
		review.ToolID,
		review.UserID,
		review.Rating,
		review.Title,
		review.Content,
		review.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// ListByToolID returns all reviews for a tool, newest first, with the
// author's username joined in at read time.
func (r *ReviewRepository) ListByToolID(ctx context.Context, toolID string) ([]types.Review, error) {
	const query = `
		SELECT r.id, r.tool_id, r.user_id, u.username, r.rating, r.title, r.content, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.tool_id = $1
		ORDER BY r.created_at DESC, r.id ASC`
	rows, err := r.db.QueryContext(ctx, query, toolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]types.Review, 0)
	for rows.Next() {
		var review types.Review
		if err := rows.Scan(
			&review.ID,
			&review.ToolID,
			&review.UserID,
			&review.Username,
			&review.Rating,
			&review.Title,
			&review.Content,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// CountByToolID returns the number of reviews stored for a tool.
func (r *ReviewRepository) CountByToolID(ctx context.Context, toolID string) (int, error) {
	const query = `SELECT COUNT(1) FROM reviews WHERE tool_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, toolID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
