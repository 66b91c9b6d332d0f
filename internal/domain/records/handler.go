package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maternal-booklet/internal/domain/access"
	"maternal-booklet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, guard *access.Service) {
	r.Route("/booklets/{bookletID}/records", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc, guard))
		rr.Get("/", listRecordsHandler(svc, guard))

		// Anular (void) un registro; el historial nunca se borra
		rr.Post("/{recordID}/void", voidRecordHandler(svc, guard))
	})
}

// createRecordRequest es el cuerpo para registrar una entrada del historial.
type createRecordRequest struct {
	Type       RecordType      `json:"type" enums:"CHECKUP,NOTE,VITALS_RECORDED,MEDICATION_PRESCRIBED,LAB_REQUESTED,LAB_RESULT,ULTRASOUND,PROFILE_UPDATED"`
	OccurredAt string          `json:"occurred_at"` // RFC3339
	Title      string          `json:"title"`
	Notes      string          `json:"notes"`
	Details    json.RawMessage `json:"details,omitempty"` // payload tipado según type
	Source     Source          `json:"source"`            // opcional
}

// recordResponse representa una entrada del historial devuelta por la API.
type recordResponse struct {
	ID         string          `json:"id"`
	BookletID  string          `json:"booklet_id"`
	Type       RecordType      `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	RecordedAt time.Time       `json:"recorded_at"`
	Title      string          `json:"title"`
	Notes      string          `json:"notes"`
	Details    json.RawMessage `json:"details,omitempty"`
	ActorType  ActorType       `json:"actor_type"`
	ActorID    string          `json:"actor_id"`
	Source     Source          `json:"source"`
	Status     RecordStatus    `json:"status"`
}

// authorize corre el guard y resuelve el actor. Todo acceso a registros
// pasa por acá: no hay atajo interno. Deny responde 403 tanto si la libreta
// no existe como si no hay grant (no filtrar existencia); un fallo del
// store responde 503 para que el cliente reintente, nunca un deny.
func authorize(w http.ResponseWriter, r *http.Request, guard *access.Service, bookletID, userID string, c access.Capability) (ActorType, bool) {
	d, err := guard.Authorize(r.Context(), bookletID, userID, c)
	if err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return "", false
	}
	if !d.Allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}
	if d.Reason == access.ReasonOwner {
		return ActorTypeMotherUser, true
	}
	return ActorTypeDoctorUser, true
}

// createRecordHandler godoc
// @Summary Crear registro médico en la libreta
// @Description Crea una entrada del historial (control, nota, medicación, laboratorio). La madre dueña siempre puede; un doctor necesita grant activo. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags records
// @Accept json
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param payload body createRecordRequest true "Datos del registro; occurred_at en RFC3339"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/records [post]
func createRecordHandler(svc *Service, guard *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		actorType, ok := authorize(w, r, guard, bookletID, claims.UserID, access.CapabilityWrite)
		if !ok {
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		rec, err := svc.Create(r.Context(), bookletID, Actor{
			Type: actorType,
			ID:   claims.UserID,
		}, CreateInput{
			Type:       req.Type,
			OccurredAt: t,
			Title:      req.Title,
			Notes:      req.Notes,
			Details:    req.Details,
			Source:     req.Source,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar registros de una libreta
// @Description Lista el historial de la libreta con filtros por tipo, rango de fechas y texto. Madre dueña o doctor con grant activo.
// @Tags records
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param limit query int false "Máximo de registros (1-200). Por defecto 50"
// @Param types query string false "CSV de tipos (ej: CHECKUP,LAB_RESULT)"
// @Param from query string false "occurred_at mínimo (RFC3339)"
// @Param to query string false "occurred_at máximo (RFC3339)"
// @Param q query string false "Búsqueda libre en título/notas"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "filtros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/records [get]
func listRecordsHandler(svc *Service, guard *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		if _, ok := authorize(w, r, guard, bookletID, claims.UserID, access.CapabilityRead); !ok {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByBooklet(r.Context(), bookletID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// voidRecordHandler godoc
// @Summary Anular (void) un registro
// @Description Anula una entrada del historial. Madre dueña o doctor con grant activo.
// @Tags records
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param recordID path string true "ID del registro"
// @Success 200 {object} recordResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "record not found"
// @Router /booklets/{bookletID}/records/{recordID}/void [post]
func voidRecordHandler(svc *Service, guard *access.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")
		recordID := chi.URLParam(r, "recordID")

		// Guard primero, para no filtrar si el registro existe
		if _, ok := authorize(w, r, guard, bookletID, claims.UserID, access.CapabilityWrite); !ok {
			return
		}

		rec, err := svc.GetByID(r.Context(), recordID)
		if err != nil || rec.BookletID != bookletID {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}

		voided, err := svc.Void(r.Context(), recordID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(voided))
	}
}

func toRecordResponse(rec BookletRecord) recordResponse {
	return recordResponse{
		ID:         rec.ID,
		BookletID:  rec.BookletID,
		Type:       rec.Type,
		OccurredAt: rec.OccurredAt,
		RecordedAt: rec.RecordedAt,
		Title:      rec.Title,
		Notes:      rec.Notes,
		Details:    rec.Details,
		ActorType:  rec.Actor.Type,
		ActorID:    rec.Actor.ID,
		Source:     rec.Source,
		Status:     rec.Status,
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var f ListFilter

	if raw := strings.TrimSpace(r.URL.Query().Get("types")); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if t := RecordType(strings.TrimSpace(p)); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		f.From = &t
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		f.To = &t
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ListFilter{}, errors.New("limit must be a positive integer")
		}
		f.Limit = n
	}

	f.Query = strings.TrimSpace(r.URL.Query().Get("q"))

	return f, nil
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
