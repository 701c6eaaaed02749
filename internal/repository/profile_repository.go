package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ClientRepository defines persistence access for client profiles.
type ClientRepository interface {
	Create(ctx context.Context, profile *domain.ClientProfile) error
	GetByID(ctx context.Context, id string) (*domain.ClientProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, profile *domain.ClientProfile) error {
	const query = `
        INSERT INTO clients (user_id, company, contact_email)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Company,
		profile.ContactEmail,
	).Scan(&profile.ID)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	const query = `SELECT id, user_id, company, contact_email FROM clients WHERE id=$1`
	return r.fetchClient(ctx, query, id)
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	const query = `SELECT id, user_id, company, contact_email FROM clients WHERE user_id=$1`
	return r.fetchClient(ctx, query, userID)
}

func (r *clientRepository) fetchClient(ctx context.Context, query string, arg any) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Company,
		&profile.ContactEmail,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// TechnicianRepository defines persistence access for technician profiles.
type TechnicianRepository interface {
	Create(ctx context.Context, profile *domain.TechnicianProfile) error
	GetByID(ctx context.Context, id string) (*domain.TechnicianProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.TechnicianProfile, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository returns a Postgres-backed implementation.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, profile *domain.TechnicianProfile) error {
	const query = `
        INSERT INTO technicians (user_id, specialty, available)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Specialty,
		profile.Available,
	).Scan(&profile.ID)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.TechnicianProfile, error) {
	const query = `SELECT id, user_id, specialty, available FROM technicians WHERE id=$1`
	return r.fetchTechnician(ctx, query, id)
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.TechnicianProfile, error) {
	const query = `SELECT id, user_id, specialty, available FROM technicians WHERE user_id=$1`
	return r.fetchTechnician(ctx, query, userID)
}

func (r *technicianRepository) fetchTechnician(ctx context.Context, query string, arg any) (*domain.TechnicianProfile, error) {
	var profile domain.TechnicianProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Specialty,
		&profile.Available,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
