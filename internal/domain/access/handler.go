package access

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
	// Madre: emitir tokens y administrar grants de su libreta
	r.Route("/booklets/{bookletID}/access-tokens", func(tr chi.Router) {
		tr.Post("/", issueTokenHandler(svc))
		tr.Post("/{tokenID}/redeem", redeemTokenHandler(svc))
	})

	r.Route("/booklets/{bookletID}/grants", func(gr chi.Router) {
		gr.Get("/", listGrantsByBookletHandler(svc))
		gr.Post("/{doctorID}/revoke", revokeGrantHandler(svc))
	})

	// Doctor: sus libretas con acceso vigente
	r.Route("/me/grants", func(mr chi.Router) {
		mr.Get("/", listMyGrantsHandler(svc))
	})
}

// tokenResponse es el payload que la UI codifica en el QR.
type tokenResponse struct {
	TokenID   string    `json:"token_id"`
	BookletID string    `json:"booklet_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type grantResponse struct {
	GrantID      string     `json:"grant_id"`
	BookletID    string     `json:"booklet_id"`
	DoctorUserID string     `json:"doctor_user_id"`
	GrantedAt    time.Time  `json:"granted_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// issueTokenHandler godoc
// @Summary Emitir token QR para una libreta
// @Description Crea un token de un solo uso (vigencia fija, 10 min por defecto) para que un doctor lo canjee. Solo la madre dueña de la libreta puede emitirlo. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags access
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Success 201 {object} tokenResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/access-tokens [post]
func issueTokenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		t, err := svc.IssueToken(r.Context(), bookletID, claims.UserID)
		if err != nil {
			writeAccessError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tokenResponse{
			TokenID:   t.ID,
			BookletID: t.BookletID,
			ExpiresAt: t.ExpiresAt,
		})
	}
}

// redeemTokenHandler godoc
// @Summary Canjear token QR
// @Description El doctor canjea el token escaneado y obtiene (o recupera) un grant activo sobre la libreta. El canje es atómico: ante dos escaneos simultáneos del mismo token exactamente uno gana.
// @Tags access
// @Produce json
// @Param bookletID path string true "ID de la libreta (del payload del QR)"
// @Param tokenID path string true "ID del token (del payload del QR)"
// @Success 200 {object} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "token not found"
// @Failure 409 {string} string "token already used / mismatch"
// @Failure 410 {string} string "token expired"
// @Router /booklets/{bookletID}/access-tokens/{tokenID}/redeem [post]
func redeemTokenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")
		tokenID := chi.URLParam(r, "tokenID")

		g, err := svc.RedeemToken(r.Context(), tokenID, bookletID, claims.UserID)
		if err != nil {
			writeAccessError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// revokeGrantHandler godoc
// @Summary Revocar acceso de un doctor
// @Description Termina el grant activo del doctor sobre la libreta. Puede hacerlo la madre dueña o el propio doctor. Si no hay grant activo responde ok igual (idempotente).
// @Tags access
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Param doctorID path string true "ID del doctor"
// @Success 200 {object} map[string]bool
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/grants/{doctorID}/revoke [post]
func revokeGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")
		doctorID := chi.URLParam(r, "doctorID")

		if err := svc.Revoke(r.Context(), bookletID, doctorID, claims.UserID); err != nil {
			writeAccessError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// listGrantsByBookletHandler godoc
// @Summary Listar doctores con acceso vigente
// @Description Lista los grants activos de la libreta (la vista "mis doctores" de la madre). Solo la dueña.
// @Tags access
// @Produce json
// @Param bookletID path string true "ID de la libreta"
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /booklets/{bookletID}/grants [get]
func listGrantsByBookletHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		bookletID := chi.URLParam(r, "bookletID")

		owner, err := svc.owners.OwnerOf(r.Context(), bookletID)
		if err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		if owner == "" || owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListActiveByBooklet(r.Context(), bookletID)
		if err != nil {
			writeAccessError(w, err)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listMyGrantsHandler godoc
// @Summary Listar mis accesos vigentes (doctor)
// @Description Lista las libretas sobre las que el usuario autenticado tiene grant activo (su vista "mis pacientes").
// @Tags access
// @Produce json
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/grants [get]
func listMyGrantsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListActiveByDoctor(r.Context(), claims.UserID)
		if err != nil {
			writeAccessError(w, err)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toGrantResponse(g Grant) grantResponse {
	return grantResponse{
		GrantID:      g.ID,
		BookletID:    g.BookletID,
		DoctorUserID: g.DoctorUserID,
		GrantedAt:    g.GrantedAt,
		RevokedAt:    g.RevokedAt,
	}
}

// writeAccessError mapea la taxonomía del protocolo a HTTP.
// Unauthorized responde 403 tanto si la libreta no existe como si el caller
// no tiene standing (no filtrar existencia). Cualquier otro error se trata
// como fallo transitorio del store: 503, el cliente reintenta con backoff.
func writeAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTokenNotFound):
		http.Error(w, "token not found", http.StatusNotFound)
	case errors.Is(err, ErrTokenMismatch), errors.Is(err, ErrTokenAlreadyUsed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrTokenExpired):
		http.Error(w, "token expired", http.StatusGone)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoActiveGrant):
		http.Error(w, "forbidden", http.StatusForbidden)
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
