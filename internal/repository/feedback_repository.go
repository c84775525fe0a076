package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"supportdesk/internal/domain"
	"supportdesk/pkg/database"
)

const feedbackColumns = "id, ticket_id, platform, product, description, acknowledged, shipped, shipped_date, created_at"

type FeedbackRepository struct {
	db     *sql.DB
	driver string
}

func NewFeedbackRepository(db *sql.DB, driver string) *FeedbackRepository {
	return &FeedbackRepository{db: db, driver: driver}
}

func (r *FeedbackRepository) rebind(query string) string {
	return database.Rebind(r.driver, query)
}

// List fetches feedback narrowed by the filter. Platform, tri-state flag and
// date-range predicates go into the WHERE clause; product match and substring
// search run post-scan, mirroring TicketRepository.List.
func (r *FeedbackRepository) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	var (
		conds []string
		args  []any
	)

	if len(filter.Platforms) > 0 {
		ph := make([]string, len(filter.Platforms))
		for i, p := range filter.Platforms {
			ph[i] = "?"
			args = append(args, string(p))
		}
		conds = append(conds, fmt.Sprintf("platform IN (%s)", strings.Join(ph, ", ")))
	}
	if filter.Acknowledged != nil {
		conds = append(conds, "acknowledged = ?")
		args = append(args, *filter.Acknowledged)
	}
	if filter.Shipped != nil {
		conds = append(conds, "shipped = ?")
		args = append(args, *filter.Shipped)
	}
	if filter.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *filter.To)
	}

	query := "SELECT " + feedbackColumns + " FROM feedback"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		if filter.Matches(fb) {
			items = append(items, fb)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return items, nil
}

func (r *FeedbackRepository) Get(ctx context.Context, id int64) (domain.Feedback, error) {
	query := r.rebind("SELECT " + feedbackColumns + " FROM feedback WHERE id = ?")

	fb, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Feedback{}, domain.ErrNotFound
		}
		return domain.Feedback{}, fmt.Errorf("query feedback %d: %w", id, err)
	}
	return fb, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	args := []any{fb.TicketID, string(fb.Platform), fb.Product, fb.Description,
		fb.Acknowledged, fb.Shipped, fb.ShippedDate, fb.CreatedAt}

	if r.driver == "postgres" {
		query := r.rebind(`INSERT INTO feedback (ticket_id, platform, product, description, acknowledged, shipped, shipped_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&fb.ID); err != nil {
			return domain.Feedback{}, fmt.Errorf("insert feedback: %w", err)
		}
		return fb, nil
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO feedback (ticket_id, platform, product, description, acknowledged, shipped, shipped_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("insert feedback: %w", err)
	}
	fb.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("feedback insert id: %w", err)
	}
	return fb, nil
}

// Update overwrites every mutable column of the feedback row.
func (r *FeedbackRepository) Update(ctx context.Context, fb domain.Feedback) (domain.Feedback, error) {
	query := r.rebind(`UPDATE feedback
		SET ticket_id = ?, platform = ?, product = ?, description = ?, acknowledged = ?, shipped = ?, shipped_date = ?
		WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		fb.TicketID, string(fb.Platform), fb.Product, fb.Description,
		fb.Acknowledged, fb.Shipped, fb.ShippedDate, fb.ID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("update feedback %d: %w", fb.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("update feedback %d: %w", fb.ID, err)
	}
	if affected == 0 {
		return domain.Feedback{}, domain.ErrNotFound
	}
	return fb, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM feedback WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats rolls up feedback counts by platform plus shipped/acknowledged tallies.
func (r *FeedbackRepository) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	stats := domain.FeedbackStats{
		ByPlatform: make(map[string]int64),
	}

	rows, err := r.db.QueryContext(ctx, "SELECT platform, COUNT(*) FROM feedback GROUP BY platform")
	if err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("query feedback platform counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var platform string
		var count int64
		if err := rows.Scan(&platform, &count); err != nil {
			return domain.FeedbackStats{}, fmt.Errorf("scan platform count: %w", err)
		}
		stats.ByPlatform[platform] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("iterate platform counts: %w", err)
	}

	const tallies = `
		SELECT
			COALESCE(SUM(CASE WHEN acknowledged THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN shipped THEN 1 ELSE 0 END), 0)
		FROM feedback`
	if err := r.db.QueryRowContext(ctx, tallies).Scan(&stats.Acknowledged, &stats.Shipped); err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("query feedback tallies: %w", err)
	}

	return stats, nil
}

func scanFeedback(row rowScanner) (domain.Feedback, error) {
	var (
		fb           domain.Feedback
		ticketID     sql.NullInt64
		platform     string
		acknowledged sql.NullBool
		shipped      sql.NullBool
		shippedDate  sql.NullTime
	)

	err := row.Scan(&fb.ID, &ticketID, &platform, &fb.Product, &fb.Description,
		&acknowledged, &shipped, &shippedDate, &fb.CreatedAt)
	if err != nil {
		return domain.Feedback{}, err
	}

	fb.Platform = domain.Platform(platform)
	if ticketID.Valid {
		id := ticketID.Int64
		fb.TicketID = &id
	}
	if acknowledged.Valid {
		v := acknowledged.Bool
		fb.Acknowledged = &v
	}
	if shipped.Valid {
		v := shipped.Bool
		fb.Shipped = &v
	}
	if shippedDate.Valid {
		ts := shippedDate.Time
		fb.ShippedDate = &ts
	}
	return fb, nil
}
