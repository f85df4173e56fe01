package http

import (
	"errors"
	"net/http"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
)

type indexPage struct {
	Flash      *Flash
	Today      string
	Expenses   []core.ExpenseView
	Categories []core.Category
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := indexPage{
		Flash: popFlash(w, r),
		Today: time.Now().Format(core.DateLayout),
	}

	var err error
	if data.Expenses, err = s.expenses.List(ctx); err != nil {
		s.storageFailure(r, "list expenses", err)
		data.Flash = &Flash{Kind: FlashError, Message: msgStorageError}
	}
	if data.Categories, err = s.categories.List(ctx); err != nil {
		s.storageFailure(r, "list categories", err)
		data.Flash = &Flash{Kind: FlashError, Message: msgStorageError}
	}

	s.render(w, r, "index", data)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/", FlashError, msgMissingFields)
		return
	}

	if _, err := s.expenses.Create(r.Context(), draftFromForm(r)); err != nil {
		redirect(w, r, "/", FlashError, s.expenseErrorMessage(r, err, msgStorageError))
		return
	}
	redirect(w, r, "/", FlashSuccess, msgExpenseCreated)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, "/", FlashError, msgMissingFields)
		return
	}

	id := r.PathValue("id")
	if _, err := s.expenses.Update(r.Context(), id, draftFromForm(r)); err != nil {
		redirect(w, r, "/", FlashError, s.expenseErrorMessage(r, err, msgExpenseNoUpdate))
		return
	}
	redirect(w, r, "/", FlashSuccess, msgExpenseUpdated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		redirect(w, r, "/", FlashError, s.expenseErrorMessage(r, err, msgExpenseNoDelete))
		return
	}
	redirect(w, r, "/", FlashSuccess, msgExpenseDeleted)
}

// expenseErrorMessage maps a service error to the flash shown to the user.
// notFound is used when the expense itself does not exist.
func (s *Server) expenseErrorMessage(r *http.Request, err error, notFound string) string {
	switch {
	case errors.Is(err, core.ErrMissingFields):
		return msgMissingFields
	case errors.Is(err, core.ErrInvalidDate):
		return msgInvalidDate
	case errors.Is(err, core.ErrInvalidAmount):
		return msgInvalidAmount
	case errors.Is(err, core.ErrCategoryNotFound):
		return msgCategoryNotFound
	case errors.Is(err, core.ErrNotFound):
		s.logger.WarnContext(r.Context(), "Expense not found",
			log.FieldExpenseID, r.PathValue("id"), log.FieldPath, r.URL.Path)
		return notFound
	}
	s.storageFailure(r, "expense operation", err)
	return msgStorageError
}

// storageFailure logs an unexpected error at error level.
func (s *Server) storageFailure(r *http.Request, msg string, err error) {
	log.NewStructuredLogger(s.logger).LogError(r.Context(), "Storage failure: "+msg, err,
		log.ComponentStorage, r.Method+" "+r.URL.Path, nil)
}
