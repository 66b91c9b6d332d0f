package patientids

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"maternal-booklet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/booklets/{bookletID}/patient-id", func(pr chi.Router) {
		pr.Put("/", setMappingHandler(svc))
		pr.Get("/", getMappingHandler(svc))
	})
}

type setMappingRequest struct {
	ExternalRef string `json:"external_ref"`
	Label       string `json:"label"`
}

type mappingResponse struct {
	BookletID   string    `json:"booklet_id"`
	ExternalRef string    `json:"external_ref"`
	Label       string    `json:"label,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// setMappingHandler godoc
// @Summary Asignar identificador de paciente (doctor)
// @Description Crea o actualiza el identificador externo del doctor autenticado para la libreta. Requiere grant vigente; el mapping es privado del doctor.
// @Tags patient-ids
// @Accept json
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param payload body setMappingRequest true "Identificador externo"
// @Success 200 {object} mappingResponse
// @Failure 400 {string} string "invalid json / external_ref required"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/patient-id [put]
func setMappingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		var req setMappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Set(r.Context(), bookletID, claims.UserID, SetInput{
			ExternalRef: req.ExternalRef,
			Label:       req.Label,
		})
		if err != nil {
			writeMappingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMappingResponse(m))
	}
}

// getMappingHandler godoc
// @Summary Ver identificador de paciente (doctor)
// @Description Devuelve el identificador externo del doctor autenticado para la libreta. Requiere grant vigente.
// @Tags patient-ids
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Success 200 {object} mappingResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "mapping not found"
// @Router /booklets/{bookletID}/patient-id [get]
func getMappingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		m, err := svc.Get(r.Context(), bookletID, claims.UserID)
		if err != nil {
			writeMappingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMappingResponse(m))
	}
}

func toMappingResponse(m Mapping) mappingResponse {
	return mappingResponse{
		BookletID:   m.BookletID,
		ExternalRef: m.ExternalRef,
		Label:       m.Label,
		UpdatedAt:   m.UpdatedAt,
	}
}

func writeMappingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNoAccess):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		// Acá el 404 no filtra nada: ya se exigió grant vigente.
		http.Error(w, "mapping not found", http.StatusNotFound)
	default:
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
