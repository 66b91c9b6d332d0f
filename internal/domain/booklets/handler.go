package booklets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"maternal-booklet/internal/domain/access"
	"maternal-booklet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard *access.Service) {
	r.Route("/booklets", func(br chi.Router) {
		br.Post("/", createBookletHandler(svc))
		br.Get("/", listMyBookletsHandler(svc))

		br.Get("/{bookletID}", getBookletHandler(svc, guard))
		br.Patch("/{bookletID}/status", changeStatusHandler(svc))
	})
}

type createBookletRequest struct {
	Label string `json:"label"`
	Notes string `json:"notes"`
}

type changeStatusRequest struct {
	Status Status `json:"status" enums:"active,archived,completed"`
}

type bookletResponse struct {
	ID           string    `json:"id"`
	MotherUserID string    `json:"mother_user_id"`
	Label        string    `json:"label"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// createBookletHandler godoc
// @Summary Crear libreta
// @Description Crea una libreta de embarazo para la usuaria autenticada. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags booklets
// @Accept json
// @Produce json
// @Param payload body createBookletRequest true "Datos de la libreta"
// @Success 201 {object} bookletResponse
// @Failure 400 {string} string "invalid json / label required"
// @Failure 401 {string} string "unauthorized"
// @Router /booklets [post]
func createBookletHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createBookletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Label: req.Label,
			Notes: req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toBookletResponse(b))
	}
}

// listMyBookletsHandler godoc
// @Summary Listar mis libretas
// @Tags booklets
// @Produce json
// @Success 200 {array} bookletResponse
// @Failure 401 {string} string "unauthorized"
// @Router /booklets [get]
func listMyBookletsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByMother(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]bookletResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBookletResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getBookletHandler godoc
// @Summary Ver una libreta
// @Description La madre dueña siempre puede; un doctor necesita grant activo. Responde 403 idéntico si la libreta no existe o si no hay acceso.
// @Tags booklets
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Success 200 {object} bookletResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID} [get]
func getBookletHandler(svc *Service, guard *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		d, err := guard.Authorize(r.Context(), bookletID, claims.UserID, access.CapabilityRead)
		if err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		if !d.Allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		b, err := svc.GetByID(r.Context(), bookletID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toBookletResponse(b))
	}
}

// changeStatusHandler godoc
// @Summary Cambiar estado de la libreta
// @Description Archiva, completa o reactiva la libreta. Solo la madre dueña; las libretas nunca se borran.
// @Tags booklets
// @Accept json
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param payload body changeStatusRequest true "Nuevo estado"
// @Success 200 {object} bookletResponse
// @Failure 400 {string} string "invalid json / estado inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "booklet not found"
// @Router /booklets/{bookletID}/status [patch]
func changeStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.ChangeStatus(r.Context(), bookletID, claims.UserID, req.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				// La dueña pregunta por su propia libreta: acá sí 404.
				http.Error(w, "booklet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toBookletResponse(b))
	}
}

func toBookletResponse(b Booklet) bookletResponse {
	return bookletResponse{
		ID:           b.ID,
		MotherUserID: b.MotherUserID,
		Label:        b.Label,
		Status:       b.Status,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
