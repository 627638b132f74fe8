package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/apperrors"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
	portsrepo "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/repositories"
	portssvc "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/services"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/dto"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/events"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	publisher   events.Publisher
	validate    *validator.Validate
	now         func() time.Time
	newID       func() string
}

// ExpenseServiceOption configures optional dependencies of the expense service.
type ExpenseServiceOption func(*expenseService)

// WithEventPublisher sets the publisher notified after successful writes.
func WithEventPublisher(p events.Publisher) ExpenseServiceOption {
	return func(s *expenseService) {
		s.publisher = p
	}
}

// WithClock overrides the source of created_at timestamps.
func WithClock(now func() time.Time) ExpenseServiceOption {
	return func(s *expenseService) {
		s.now = now
	}
}

// WithIDGenerator overrides how ids are generated when no idempotency key is given.
func WithIDGenerator(newID func() string) ExpenseServiceOption {
	return func(s *expenseService) {
		s.newID = newID
	}
}

// NewExpenseService creates a new expense service with the provided dependencies
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, opts ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	s := &expenseService{
		expenseRepo: expenseRepo,
		publisher:   events.NoopPublisher{},
		validate:    newRequestValidator(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// newRequestValidator reports fields by their JSON names so messages match the wire format.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *expenseService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			fields[i] = fe.Field()
		}
		return fmt.Errorf("%w: missing required fields: %s", apperrors.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

// toMinorUnits normalises a validated amount. Amounts that overflow int64 minor units
// are a client error.
func toMinorUnits(amount decimal.Decimal) (int64, error) {
	minor, err := domain.ToMinorUnits(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: amount: %v", apperrors.ErrValidation, err)
	}
	return minor, nil
}

// CreateExpense stores a new expense keyed by the idempotency key (or a fresh UUID).
// A key that was already used returns the stored row untouched and replayed=true.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, bool, error) {
	if err := s.validateRequest(req); err != nil {
		s.LogWarn(ctx, "Rejected expense creation", slog.String("error", err.Error()))
		return nil, false, err
	}

	amount, err := toMinorUnits(*req.Amount)
	if err != nil {
		s.LogWarn(ctx, "Rejected expense amount", slog.String("error", err.Error()))
		return nil, false, err
	}

	expenseID := req.IdempotencyKey
	if expenseID == "" {
		expenseID = s.newID()
	}

	candidate := domain.Expense{
		ID:          expenseID,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		CreatedAt:   domain.NewTimestamp(s.now()),
	}

	stored, created, err := s.expenseRepo.SaveExpenseIfAbsent(ctx, candidate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expenseID))
		return nil, false, fmt.Errorf("failed to create expense in service: %w", err)
	}

	if !created {
		s.LogInfo(ctx, "Idempotency key already used, returning stored expense",
			slog.String("expense_id", stored.ID))
		return stored, true, nil
	}

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", stored.ID),
		slog.Int64("amount", stored.Amount),
		slog.String("category", stored.Category))
	s.publish(ctx, events.NewEvent(events.ExpenseCreated, stored.ID, stored))
	return stored, false, nil
}

// GetExpense retrieves a single expense by id.
func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to get expense in service: %w", err)
	}
	return expense, nil
}

// ListExpenses retrieves expenses for the filter. An empty result is not an error.
func (s *expenseService) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	expenses, err := s.expenseRepo.ListExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses",
			slog.String("category", filter.Category),
			slog.String("sort", string(filter.Sort)))
		return nil, fmt.Errorf("failed to list expenses in service: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}

	s.LogDebug(ctx, "Expenses listed successfully", slog.Int("count", len(expenses)))
	return expenses, nil
}

// SummarizeExpenses returns the count and total for the filter's category.
func (s *expenseService) SummarizeExpenses(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error) {
	summary, err := s.expenseRepo.SummarizeExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize expenses", slog.String("category", filter.Category))
		return nil, fmt.Errorf("failed to summarize expenses in service: %w", err)
	}
	return &summary, nil
}

// UpdateExpense replaces amount, category, description and date. Zero rows affected means
// the id does not exist and is reported as such, not as an error.
func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest) (int64, error) {
	if err := s.validateRequest(req); err != nil {
		s.LogWarn(ctx, "Rejected expense update", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
		return 0, err
	}

	amount, err := toMinorUnits(*req.Amount)
	if err != nil {
		return 0, err
	}

	affected, err := s.expenseRepo.UpdateExpense(ctx, domain.Expense{
		ID:          expenseID,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return 0, fmt.Errorf("failed to update expense in service: %w", err)
	}

	s.LogInfo(ctx, "Expense update applied", slog.String("expense_id", expenseID), slog.Int64("rows_affected", affected))
	if affected > 0 {
		s.publish(ctx, events.NewEvent(events.ExpenseUpdated, expenseID, nil))
	}
	return affected, nil
}

// DeleteExpense removes an expense. Zero rows affected means it did not exist.
func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string) (int64, error) {
	affected, err := s.expenseRepo.DeleteExpense(ctx, expenseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return 0, fmt.Errorf("failed to delete expense in service: %w", err)
	}

	s.LogInfo(ctx, "Expense delete applied", slog.String("expense_id", expenseID), slog.Int64("rows_affected", affected))
	if affected > 0 {
		s.publish(ctx, events.NewEvent(events.ExpenseDeleted, expenseID, nil))
	}
	return affected, nil
}

// publish notifies downstream consumers. The write has already committed, so a failed
// publish is logged and never fails the request.
func (s *expenseService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish expense event",
			slog.String("event_type", string(event.Type)),
			slog.String("expense_id", event.ExpenseID))
	}
}
