package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository for engine tests.
type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	// clientUsers maps client profile id to owning user id, for
	// ClientUserID filtering.
	clientUsers map[string]string
	nextID      int
	// beforeApply, when set, runs right before the conditional write to
	// let tests interleave a concurrent change.
	beforeApply func()
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:     map[string]*domain.Ticket{},
		clientUsers: map[string]string{},
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, stored := range r.tickets {
		if filter.ClientID != nil && stored.ClientID != *filter.ClientID {
			continue
		}
		if filter.ClientUserID != nil && r.clientUsers[stored.ClientID] != *filter.ClientUserID {
			continue
		}
		if filter.TechnicianID != nil && stored.Technician.ID() != *filter.TechnicianID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListForTechnician(_ context.Context, technicianID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, stored := range r.tickets {
		assignedToCaller := stored.Technician.Assigned() && stored.Technician.ID() == technicianID
		unclaimed := stored.Status == domain.TicketStatusOpen && !stored.Technician.Assigned()
		if assignedToCaller || unclaimed {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) CountByTechnicianAndStatus(_ context.Context, technicianID string, status domain.TicketStatus) (int, error) {
	count := 0
	for _, stored := range r.tickets {
		if stored.Technician.Assigned() && stored.Technician.ID() == technicianID && stored.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) ApplyTransition(_ context.Context, ticket *domain.Ticket, expectedStatus domain.TicketStatus, assignTechnicianID *string) error {
	if r.beforeApply != nil {
		r.beforeApply()
	}
	stored, ok := r.tickets[ticket.ID]
	if !ok || stored.Status != expectedStatus {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	if assignTechnicianID != nil && !stored.Technician.Assigned() {
		stored.Technician = domain.AssignedTo(*assignTechnicianID)
	}
	stored.UpdatedAt = time.Now()
	ticket.Status = stored.Status
	ticket.Technician = stored.Technician
	ticket.UpdatedAt = stored.UpdatedAt
	return nil
}

// seed inserts a ticket directly, bypassing engine validation.
func (r *fakeTicketRepo) seed(ticket domain.Ticket) *domain.Ticket {
	if ticket.ID == "" {
		r.nextID++
		ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	}
	stored := ticket
	r.tickets[ticket.ID] = &stored
	return &stored
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	nextID     int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.nextID++
	category.ID = fmt.Sprintf("category-%d", r.nextID)
	category.CreatedAt = time.Now()
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	stored, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, stored := range r.categories {
		if stored.Name == name {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var result []domain.Category
	for _, stored := range r.categories {
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

type fakeClientRepo struct {
	profiles map[string]*domain.ClientProfile
	nextID   int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{profiles: map[string]*domain.ClientProfile{}}
}

func (r *fakeClientRepo) Create(_ context.Context, profile *domain.ClientProfile) error {
	r.nextID++
	profile.ID = fmt.Sprintf("client-%d", r.nextID)
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.ClientProfile, error) {
	stored, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeClientRepo) GetByUserID(_ context.Context, userID string) (*domain.ClientProfile, error) {
	for _, stored := range r.profiles {
		if stored.UserID == userID {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTechnicianRepo struct {
	profiles map[string]*domain.TechnicianProfile
	nextID   int
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{profiles: map[string]*domain.TechnicianProfile{}}
}

func (r *fakeTechnicianRepo) Create(_ context.Context, profile *domain.TechnicianProfile) error {
	r.nextID++
	profile.ID = fmt.Sprintf("tech-%d", r.nextID)
	stored := *profile
	r.profiles[profile.ID] = &stored
	return nil
}

func (r *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*domain.TechnicianProfile, error) {
	stored, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeTechnicianRepo) GetByUserID(_ context.Context, userID string) (*domain.TechnicianProfile, error) {
	for _, stored := range r.profiles {
		if stored.UserID == userID {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	entry.ID = fmt.Sprintf("history-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string, _, _ int) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copy := *stored
	return &copy, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, stored := range r.users {
		if stored.Email == email {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, stored := range r.users {
		result = append(result, *stored)
	}
	return result, nil
}

// engineFixture bundles the fakes behind a wired TicketService.
type engineFixture struct {
	svc         *TicketService
	tickets     *fakeTicketRepo
	categories  *fakeCategoryRepo
	clients     *fakeClientRepo
	technicians *fakeTechnicianRepo
	history     *fakeHistoryRepo
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		tickets:     newFakeTicketRepo(),
		categories:  newFakeCategoryRepo(),
		clients:     newFakeClientRepo(),
		technicians: newFakeTechnicianRepo(),
		history:     &fakeHistoryRepo{},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		CategoryRepo:   f.categories,
		ClientRepo:     f.clients,
		TechnicianRepo: f.technicians,
		HistoryRepo:    f.history,
	})
	return f
}

func (f *engineFixture) addCategory(name string) *domain.Category {
	category := &domain.Category{Name: name, Description: name}
	_ = f.categories.Create(context.Background(), category)
	return category
}

func (f *engineFixture) addClient(userID string) *domain.ClientProfile {
	profile := &domain.ClientProfile{UserID: userID, Company: "Acme Corp"}
	_ = f.clients.Create(context.Background(), profile)
	f.tickets.clientUsers[profile.ID] = userID
	return profile
}

func (f *engineFixture) addTechnician(userID string) *domain.TechnicianProfile {
	profile := &domain.TechnicianProfile{UserID: userID, Specialty: "General IT", Available: true}
	_ = f.technicians.Create(context.Background(), profile)
	return profile
}

func clientCaller(userID, profileID string) domain.Caller {
	return domain.Caller{UserID: userID, Role: domain.UserRoleClient, ClientProfileID: &profileID}
}

func technicianCaller(userID, profileID string) domain.Caller {
	return domain.Caller{UserID: userID, Role: domain.UserRoleTechnician, TechnicianProfileID: &profileID}
}

func adminCaller(userID string) domain.Caller {
	return domain.Caller{UserID: userID, Role: domain.UserRoleAdmin}
}
