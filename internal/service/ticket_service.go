package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// maxInProgressPerTechnician caps concurrently claimed tickets per technician.
const maxInProgressPerTechnician = 5

// TicketService is the ticket lifecycle engine: creation validation, status
// transitions, the technician capacity rule and role-based visibility.
type TicketService struct {
	tickets     repository.TicketRepository
	categories  repository.CategoryRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CategoryRepo   repository.CategoryRepository
	ClientRepo     repository.ClientRepository
	TechnicianRepo repository.TechnicianRepository
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
}

// TicketListFilter describes admin listing filters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		categories:  deps.CategoryRepo,
		clients:     deps.ClientRepo,
		technicians: deps.TechnicianRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateTicket validates and creates a ticket for a client caller. The new
// ticket is always open and unassigned.
func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Caller, input TicketCreateInput) (*domain.Ticket, error) {
	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	if caller.Role != domain.UserRoleClient {
		return nil, apperrors.NewValidationError("only clients can create tickets", nil)
	}
	clientID, ok := caller.ClientProfile()
	if !ok {
		return nil, apperrors.NewValidationError("client profile not found for user", nil)
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		ClientID:    clientID,
		CategoryID:  category.ID,
		Technician:  domain.Unassigned(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, caller, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			ClientID:   ticket.ClientID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListAllTickets returns every ticket matching the filter. The admin-only
// restriction is enforced at the route level.
func (s *TicketService) ListAllTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListTicketsForClient returns tickets owned by the given user's client profile.
func (s *TicketService) ListTicketsForClient(ctx context.Context, clientUserID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		ClientUserID: &clientUserID,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListTicketsForTechnician returns the union of tickets assigned to the
// given user's technician profile and the unclaimed open queue.
func (s *TicketService) ListTicketsForTechnician(ctx context.Context, technicianUserID string) ([]domain.Ticket, error) {
	profile, err := s.technicians.GetByUserID(ctx, technicianUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"user_id": technicianUserID})
		}
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.ListForTechnician(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateTicketStatus validates and applies a status transition. When a
// technician moves an unassigned ticket into in_progress, the caller's
// technician profile is assigned atomically with the status change.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, caller domain.Caller, ticketID string, requested domain.TicketStatus) (*domain.Ticket, error) {
	if !requested.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": requested})
	}

	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(ticket.Status, requested) {
		return nil, invalidTransitionError(ticket.Status, requested)
	}

	var assignTechnicianID *string
	if requested == domain.TicketStatusInProgress && caller.Role == domain.UserRoleTechnician {
		technicianID, ok := caller.TechnicianProfile()
		if !ok {
			return nil, apperrors.NewValidationError("technician profile not found for user", nil)
		}
		if err := s.checkTechnicianCapacity(ctx, technicianID); err != nil {
			return nil, err
		}
		if !ticket.Technician.Assigned() {
			assignTechnicianID = &technicianID
		}
	}

	oldStatus := ticket.Status
	ticket.Status = requested
	if err := s.tickets.ApplyTransition(ctx, ticket, oldStatus, assignTechnicianID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.staleTransitionError(ctx, ticketID, requested)
		}
		return nil, apperrors.MapError(err)
	}

	s.recordStatusChange(ctx, caller, ticket.ID, oldStatus, requested)
	s.publishEvent(ctx, caller, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: requested,
		},
	})
	if assignTechnicianID != nil {
		s.recordAssigneeChange(ctx, caller, ticket.ID, *assignTechnicianID)
		s.publishEvent(ctx, caller, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Payload:  events.TicketAssignedPayload{TechnicianID: *assignTechnicianID},
		})
	}
	return ticket, nil
}

// ListTicketHistory returns recorded changes for a ticket.
func (s *TicketService) ListTicketHistory(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// checkTechnicianCapacity rejects the claim when the technician already has
// the maximum number of tickets in progress. The count and the following
// write are separate statements; the conditional transition write keeps the
// status change itself atomic but the cap stays best-effort under
// concurrent claims.
func (s *TicketService) checkTechnicianCapacity(ctx context.Context, technicianID string) error {
	count, err := s.tickets.CountByTechnicianAndStatus(ctx, technicianID, domain.TicketStatusInProgress)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count >= maxInProgressPerTechnician {
		return apperrors.NewValidationError(
			fmt.Sprintf("Technician cannot have more than %d tickets in progress", maxInProgressPerTechnician),
			map[string]any{"technician_id": technicianID, "in_progress": count},
		)
	}
	return nil
}

// staleTransitionError distinguishes a vanished ticket from one whose status
// moved between the read and the conditional write.
func (s *TicketService) staleTransitionError(ctx context.Context, ticketID string, requested domain.TicketStatus) error {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return invalidTransitionError(current.Status, requested)
}

func invalidTransitionError(current, requested domain.TicketStatus) error {
	return apperrors.NewValidationError(
		fmt.Sprintf("Invalid status transition from %s to %s", current, requested),
		map[string]any{"from": current, "to": requested},
	)
}

func (s *TicketService) recordStatusChange(ctx context.Context, caller domain.Caller, ticketID string, oldStatus, newStatus domain.TicketStatus) {
	if s.history == nil {
		return
	}
	actorID := caller.UserID
	_ = s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldStatus},
		NewValue:    map[string]any{"status": newStatus},
	})
}

func (s *TicketService) recordAssigneeChange(ctx context.Context, caller domain.Caller, ticketID, technicianID string) {
	if s.history == nil {
		return
	}
	actorID := caller.UserID
	_ = s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue:    map[string]any{"technician_id": nil},
		NewValue:    map[string]any{"technician_id": technicianID},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, caller domain.Caller, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{UserID: caller.UserID, Role: caller.Role}
	_ = s.dispatcher.Publish(ctx, event)
}
