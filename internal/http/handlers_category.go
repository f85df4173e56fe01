package http

import (
	"errors"
	"net/http"

	"gastos/internal/core"
)

type categoriesPage struct {
	Flash      *Flash
	Categories []core.Category
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	data := categoriesPage{Flash: popFlash(w, r)}

	var err error
	if data.Categories, err = s.categories.List(r.Context()); err != nil {
		s.storageFailure(r, "list categories", err)
		data.Flash = &Flash{Kind: FlashError, Message: msgStorageError}
	}

	s.render(w, r, "categorias", data)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	const back = "/categorias"
	if err := r.ParseForm(); err != nil {
		redirect(w, r, back, FlashError, msgCategoryEmpty)
		return
	}

	_, err := s.categories.Create(r.Context(), sanitizeInput(r.PostForm.Get("nome")))
	switch {
	case err == nil:
		redirect(w, r, back, FlashSuccess, msgCategoryCreated)
	case errors.Is(err, core.ErrEmptyCategoryName):
		redirect(w, r, back, FlashError, msgCategoryEmpty)
	case errors.Is(err, core.ErrDuplicateCategory):
		redirect(w, r, back, FlashError, msgCategoryExists)
	default:
		s.storageFailure(r, "create category", err)
		redirect(w, r, back, FlashError, msgStorageError)
	}
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	const back = "/categorias"
	if err := r.ParseForm(); err != nil {
		redirect(w, r, back, FlashError, msgCategoryNoRename)
		return
	}

	err := s.categories.Rename(r.Context(), r.PathValue("id"), sanitizeInput(r.PostForm.Get("nome")))
	switch {
	case err == nil:
		redirect(w, r, back, FlashSuccess, msgCategoryRenamed)
	case errors.Is(err, core.ErrEmptyCategoryName),
		errors.Is(err, core.ErrDuplicateCategory),
		errors.Is(err, core.ErrNotFound):
		redirect(w, r, back, FlashError, msgCategoryNoRename)
	default:
		s.storageFailure(r, "rename category", err)
		redirect(w, r, back, FlashError, msgStorageError)
	}
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	const back = "/categorias"

	err := s.categories.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		redirect(w, r, back, FlashSuccess, msgCategoryDeleted)
	case errors.Is(err, core.ErrDefaultCategory), errors.Is(err, core.ErrNotFound):
		redirect(w, r, back, FlashError, msgCategoryNoDelete)
	default:
		s.storageFailure(r, "delete category", err)
		redirect(w, r, back, FlashError, msgStorageError)
	}
}
