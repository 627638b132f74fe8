package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/apperrors"
	portssvc "github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/ports/services"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/dto"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotentReplayedHeader is set on create responses that returned an already stored expense.
const IdempotentReplayedHeader = "Idempotent-Replayed"

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// newExpenseHandler creates a new expenseHandler.
func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// RegisterExpenseRoutes registers routes related to expenses.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/summary", h.summarizeExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Create an expense
// @Description Stores a new expense. Amount is given in major units and stored as minor units.
// @Description Repeating a request with the same idempotencyKey returns the first stored expense.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 200 {object} dto.ExpenseResponse
// @Header  200 {string} Idempotent-Replayed "true when the expense already existed"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Failure 409 {object} map[string]string "Concurrent create could not be resolved"
// @Failure 500 {object} map[string]string "DB insert failed"
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, replayed, err := h.expenseService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Concurrent create for the same idempotency key", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": "Expense was modified concurrently, retry the request"})
		default:
			logger.Error("Failed to create expense in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB insert failed"})
		}
		return
	}

	if replayed {
		c.Header(IdempotentReplayedHeader, "true")
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists expenses, optionally filtered by exact category and sorted by date descending.
// @Tags expenses
// @Produce  json
// @Param   category query string false "Exact category match"
// @Param   sort query string false "Sort order" Enums(date_desc)
// @Success 200 {array} dto.ExpenseResponse
// @Failure 500 {object} map[string]string "DB fetch failed"
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), params.Filter())
	if err != nil {
		logger.Error("Failed to list expenses from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB fetch failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpenseResponse(expenses))
}

// summarizeExpenses godoc
// @Summary Summarize expenses
// @Description Returns the number of expenses and their total in minor units.
// @Tags expenses
// @Produce  json
// @Param   category query string false "Exact category match"
// @Success 200 {object} dto.ExpenseSummaryResponse
// @Failure 500 {object} map[string]string "DB fetch failed"
// @Router /expenses/summary [get]
func (h *expenseHandler) summarizeExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.expenseService.SummarizeExpenses(c.Request.Context(), params.Filter())
	if err != nil {
		logger.Error("Failed to summarize expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB fetch failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseSummaryResponse(summary))
}

// getExpense godoc
// @Summary Get an expense by id
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "DB fetch failed"
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		} else {
			logger.Error("Failed to get expense from service", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB fetch failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Description Replaces amount, category, description and date. updated is 0 when the id does not exist.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Expense details"
// @Success 200 {object} dto.UpdateExpenseResponse
// @Failure 400 {object} map[string]string "Missing required fields"
// @Failure 500 {object} map[string]string "DB update failed"
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.expenseService.UpdateExpense(c.Request.Context(), expenseID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update expense in service", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.UpdateExpenseResponse{Updated: updated})
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description deleted is 0 when the id does not exist.
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.DeleteExpenseResponse
// @Failure 500 {object} map[string]string "DB delete failed"
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	deleted, err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID)
	if err != nil {
		logger.Error("Failed to delete expense in service", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB delete failed"})
		return
	}

	c.JSON(http.StatusOK, dto.DeleteExpenseResponse{Deleted: deleted})
}
