package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	ClientID     *string
	ClientUserID *string
	TechnicianID *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListForTechnician returns tickets assigned to the technician plus
	// unassigned open tickets. The two sets are disjoint by construction.
	ListForTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error)
	CountByTechnicianAndStatus(ctx context.Context, technicianID string, status domain.TicketStatus) (int, error)
	// ApplyTransition persists a status change conditionally on the row
	// still holding expectedStatus, assigning the given technician only
	// when the assignee column is NULL. Returns pgx.ErrNoRows when the
	// conditional write matched nothing.
	ApplyTransition(ctx context.Context, ticket *domain.Ticket, expectedStatus domain.TicketStatus, assignTechnicianID *string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, client_id, category_id, technician_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, client_id, category_id, technician_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.ClientID,
		ticket.CategoryID,
		technicianColumn(ticket.Technician),
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets t`, prefixedTicketColumns())
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("t.client_id=$%d", len(args)))
	}
	if filter.ClientUserID != nil {
		args = append(args, *filter.ClientUserID)
		clauses = append(clauses, fmt.Sprintf("t.client_id IN (SELECT id FROM clients WHERE user_id=$%d)", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("t.technician_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListForTechnician(ctx context.Context, technicianID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE technician_id=$1 OR (status=$2 AND technician_id IS NULL)
        ORDER BY updated_at DESC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, technicianID, domain.TicketStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByTechnicianAndStatus(ctx context.Context, technicianID string, status domain.TicketStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE technician_id=$1 AND status=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, technicianID, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) ApplyTransition(ctx context.Context, ticket *domain.Ticket, expectedStatus domain.TicketStatus, assignTechnicianID *string) error {
	const query = `
        UPDATE tickets SET status=$1, technician_id=COALESCE(technician_id, $2), updated_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING status, technician_id, updated_at`
	var (
		status       domain.TicketStatus
		technicianID *string
	)
	if err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		assignTechnicianID,
		ticket.ID,
		expectedStatus,
	).Scan(&status, &technicianID, &ticket.UpdatedAt); err != nil {
		return err
	}
	ticket.Status = status
	ticket.Technician = technicianRef(technicianID)
	return nil
}

func prefixedTicketColumns() string {
	cols := strings.Split(ticketColumns, ", ")
	for i, col := range cols {
		cols[i] = "t." + col
	}
	return strings.Join(cols, ", ")
}

func technicianColumn(ref domain.TechnicianRef) *string {
	if !ref.Assigned() {
		return nil
	}
	id := ref.ID()
	return &id
}

func technicianRef(id *string) domain.TechnicianRef {
	if id == nil {
		return domain.Unassigned()
	}
	return domain.AssignedTo(*id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		technicianID *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.ClientID,
		&ticket.CategoryID,
		&technicianID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Technician = technicianRef(technicianID)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
