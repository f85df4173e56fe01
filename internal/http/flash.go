package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "gastos_flash"

// Flash kinds, also used as CSS classes.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the page a POST redirects to.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Messages shown to the user.
const (
	msgMissingFields    = "Preencha data, descrição, valor e categoria."
	msgInvalidDate      = "Data inválida. Use o formato AAAA-MM-DD."
	msgInvalidAmount    = "Valor inválido."
	msgCategoryNotFound = "Categoria informada não foi encontrada."
	msgExpenseCreated   = "Lançamento registrado com sucesso!"
	msgExpenseUpdated   = "Lançamento atualizado com sucesso!"
	msgExpenseNoUpdate  = "Não foi possível atualizar o lançamento."
	msgExpenseDeleted   = "Lançamento removido."
	msgExpenseNoDelete  = "Não foi possível remover o lançamento."
	msgCategoryEmpty    = "Informe um nome de categoria."
	msgCategoryCreated  = "Categoria criada!"
	msgCategoryExists   = "Já existe uma categoria com esse nome."
	msgCategoryRenamed  = "Categoria atualizada com sucesso!"
	msgCategoryNoRename = "Não foi possível atualizar a categoria."
	msgCategoryDeleted  = "Categoria removida. Lançamentos associados foram movidos para 'Outros'."
	msgCategoryNoDelete = "Não foi possível remover a categoria."
	msgStorageError     = "Erro ao acessar os dados."
)

func setFlash(w http.ResponseWriter, kind, message string) {
	raw, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

// redirect answers a form post with a flash and a 303 to target.
func redirect(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
