package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"workshophub/internal/model"
)

var (
	ErrWorkshopNotFound      = errors.New("workshop not found")
	ErrWorkshopNotActive     = errors.New("workshop is not active")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSoldOut               = errors.New("no available seats")
	ErrSeatsExhausted        = errors.New("seats exhausted")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrPaymentNotVerified    = errors.New("payment not verified")
	ErrPaymentNotRequired    = errors.New("payment verification not applicable")
	ErrInvalidStatus         = errors.New("registration is not awaiting review")
	ErrHasRegistrations      = errors.New("workshop has registrations")
)

type Repository interface {
	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ActivateUser(ctx context.Context, id int64) error

	CreateWorkshop(ctx context.Context, w *model.Workshop) (int64, error)
	GetWorkshopByID(ctx context.Context, id int64) (*model.Workshop, error)
	UpdateWorkshop(ctx context.Context, w *model.Workshop) error
	DeleteWorkshopTx(ctx context.Context, id int64) error
	ListWorkshops(ctx context.Context, f model.WorkshopFilter) ([]model.Workshop, int, error)

	SubmitRegistrationTx(ctx context.Context, reg *model.Registration) (*model.Registration, error)
	ApproveRegistrationTx(ctx context.Context, registrationID int64, adminNotes string) (*model.Registration, error)
	RejectRegistrationTx(ctx context.Context, registrationID int64, adminNotes string) (*model.Registration, error)
	VerifyPaymentTx(ctx context.Context, registrationID int64) (*model.Registration, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	ListUserRegistrations(ctx context.Context, userID int64) ([]model.Registration, error)
	ListWorkshopRegistrations(ctx context.Context, workshopID int64) ([]model.Registration, error)
	ListPendingRegistrations(ctx context.Context) ([]model.Registration, error)

	DashboardStats(ctx context.Context) (*model.DashboardStats, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}
