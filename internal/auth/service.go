package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the credential store needs.
type Store interface {
	CreateUserWithBudgets(ctx context.Context, username, passwordHash string, budgetCategories []string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Options configures a Service.
type Options struct {
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost   int
	Logger *log.Logger
}

// Service is the credential store.
type Service struct {
	store      Store
	categories models.Categories
	cost       int
	log        *log.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a credential store. New users get a zero budget for
// every expense category in categories.
func NewService(store Store, categories models.Categories, opts Options) *Service {
	if opts.Cost == 0 {
		opts.Cost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Service{
		store:      store,
		categories: categories,
		cost:       opts.Cost,
		log:        opts.Logger.WithComponent(log.ComponentAuth),
	}
}

// NormalizeUsername is the form of username that is stored and looked up:
// surrounding whitespace is dropped, case is kept.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// Register creates a user with a bcrypt-hashed password and seeds a zero
// budget per expense category in the same database transaction.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return 0, models.ErrEmptyUsername
	}
	if len(password) < models.MinPasswordLength {
		return 0, models.ErrWeakPassword
	}
	if len(password) > models.MaxPasswordLength {
		return 0, models.ErrPasswordTooLong
	}

	hash, err := hashWithCost(password, s.cost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUserWithBudgets(ctx, username, hash, s.categories.Expense())
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			s.log.Warn("Signup rejected", log.FieldOperation, log.OpRegister, log.FieldUsername, username, log.FieldError, err)
		}
		return 0, err
	}

	s.log.Info("User registered", log.FieldOperation, log.OpRegister, log.FieldUserID, user.ID, log.FieldUsername, username)
	return user.ID, nil
}

// Authenticate verifies a username and password. Unknown users and wrong
// passwords both return models.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int64, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return 0, models.ErrInvalidCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		// Spend the same bcrypt work as a real comparison.
		CheckPassword(password, s.dummy())
		s.log.Warn("Login failed", log.FieldOperation, log.OpLogin, log.FieldUsername, username)
		return 0, models.ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		s.log.Warn("Login failed", log.FieldOperation, log.OpLogin, log.FieldUsername, username)
		return 0, models.ErrInvalidCredentials
	}

	s.log.Debug("Login succeeded", log.FieldOperation, log.OpLogin, log.FieldUserID, user.ID)
	return user.ID, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = hashWithCost("not-a-real-password", s.cost)
	})
	return s.dummyHash
}
