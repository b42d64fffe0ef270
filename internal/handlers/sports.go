package handlers

import (
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/sportconfig"
)

/* SportCatalog lists the loaded sport profiles */
type SportCatalog interface {
	Sports() []sportconfig.SportSummary
}

/* SportHandlers handles sport catalog endpoints */
type SportHandlers struct {
	catalog SportCatalog
}

/* NewSportHandlers creates new sport handlers */
func NewSportHandlers(catalog SportCatalog) *SportHandlers {
	return &SportHandlers{
		catalog: catalog,
	}
}

/* ListSports returns the supported sports and their sub-categories */
func (h *SportHandlers) ListSports(w http.ResponseWriter, r *http.Request) {
	sports := h.catalog.Sports()
	WriteSuccess(w, map[string]interface{}{
		"sports": sports,
		"count":  len(sports),
	}, http.StatusOK)
}
