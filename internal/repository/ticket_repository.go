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

const ticketColumns = "id, status, severity, description, contact, product_tags, category_tags, created_at, resolved_at"

type TicketRepository struct {
	db     *sql.DB
	driver string
}

func NewTicketRepository(db *sql.DB, driver string) *TicketRepository {
	return &TicketRepository{db: db, driver: driver}
}

func (r *TicketRepository) rebind(query string) string {
	return database.Rebind(r.driver, query)
}

// List fetches tickets narrowed by the filter. Status, severity and date-range
// predicates are pushed into the WHERE clause; tag intersection and substring
// search run post-scan because tags live JSON-encoded in a text column.
func (r *TicketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	var (
		conds []string
		args  []any
	)

	if len(filter.Statuses) > 0 {
		ph := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			ph[i] = "?"
			args = append(args, string(s))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(ph, ", ")))
	}
	if len(filter.Severities) > 0 {
		ph := make([]string, len(filter.Severities))
		for i, s := range filter.Severities {
			ph[i] = "?"
			args = append(args, string(s))
		}
		conds = append(conds, fmt.Sprintf("severity IN (%s)", strings.Join(ph, ", ")))
	}
	if filter.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *filter.To)
	}

	query := "SELECT " + ticketColumns + " FROM tickets"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		if filter.Matches(t) {
			tickets = append(tickets, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (domain.Ticket, error) {
	query := r.rebind("SELECT " + ticketColumns + " FROM tickets WHERE id = ?")

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, domain.ErrNotFound
		}
		return domain.Ticket{}, fmt.Errorf("query ticket %d: %w", id, err)
	}
	return t, nil
}

func (r *TicketRepository) Create(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	productTags, err := domain.EncodeTags(t.ProductTags)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("encode product tags: %w", err)
	}
	categoryTags, err := domain.EncodeTags(t.CategoryTags)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("encode category tags: %w", err)
	}

	args := []any{string(t.Status), string(t.Severity), t.Description, t.Contact,
		productTags, categoryTags, t.CreatedAt, t.ResolvedAt}

	if r.driver == "postgres" {
		query := r.rebind(`INSERT INTO tickets (status, severity, description, contact, product_tags, category_tags, created_at, resolved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.ID); err != nil {
			return domain.Ticket{}, fmt.Errorf("insert ticket: %w", err)
		}
		return t, nil
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO tickets (status, severity, description, contact, product_tags, category_tags, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("insert ticket: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("ticket insert id: %w", err)
	}
	return t, nil
}

// Update overwrites every mutable column of the ticket row.
func (r *TicketRepository) Update(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	productTags, err := domain.EncodeTags(t.ProductTags)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("encode product tags: %w", err)
	}
	categoryTags, err := domain.EncodeTags(t.CategoryTags)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("encode category tags: %w", err)
	}

	query := r.rebind(`UPDATE tickets
		SET status = ?, severity = ?, description = ?, contact = ?, product_tags = ?, category_tags = ?, resolved_at = ?
		WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		string(t.Status), string(t.Severity), t.Description, t.Contact,
		productTags, categoryTags, t.ResolvedAt, t.ID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("update ticket %d: %w", t.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("update ticket %d: %w", t.ID, err)
	}
	if affected == 0 {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM tickets WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats rolls up ticket counts by status and severity in SQL.
func (r *TicketRepository) Stats(ctx context.Context) (domain.TicketStats, error) {
	stats := domain.TicketStats{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM tickets GROUP BY status")
	if err != nil {
		return domain.TicketStats{}, fmt.Errorf("query ticket status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return domain.TicketStats{}, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		if domain.Status(status).Terminal() {
			if domain.Status(status) == domain.StatusResolved {
				stats.Resolved += count
			}
		} else {
			stats.Open += count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.TicketStats{}, fmt.Errorf("iterate status counts: %w", err)
	}

	sevRows, err := r.db.QueryContext(ctx, "SELECT severity, COUNT(*) FROM tickets GROUP BY severity")
	if err != nil {
		return domain.TicketStats{}, fmt.Errorf("query ticket severity counts: %w", err)
	}
	defer sevRows.Close()

	for sevRows.Next() {
		var severity string
		var count int64
		if err := sevRows.Scan(&severity, &count); err != nil {
			return domain.TicketStats{}, fmt.Errorf("scan severity count: %w", err)
		}
		stats.BySeverity[severity] = count
	}
	if err := sevRows.Err(); err != nil {
		return domain.TicketStats{}, fmt.Errorf("iterate severity counts: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (domain.Ticket, error) {
	var (
		t            domain.Ticket
		status       string
		severity     string
		productTags  sql.NullString
		categoryTags sql.NullString
		resolvedAt   sql.NullTime
	)

	err := row.Scan(&t.ID, &status, &severity, &t.Description, &t.Contact,
		&productTags, &categoryTags, &t.CreatedAt, &resolvedAt)
	if err != nil {
		return domain.Ticket{}, err
	}

	t.Status = domain.Status(status)
	t.Severity = domain.Severity(severity)
	if productTags.Valid {
		t.ProductTags = domain.DecodeTags(productTags.String)
	}
	if categoryTags.Valid {
		t.CategoryTags = domain.DecodeTags(categoryTags.String)
	}
	if resolvedAt.Valid {
		ts := resolvedAt.Time
		t.ResolvedAt = &ts
	}
	return t, nil
}
