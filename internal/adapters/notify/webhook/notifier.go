package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"maternal-booklet/internal/platform/httpclient"
	"maternal-booklet/internal/ports/notify"
)

var ErrNotConfigured = errors.New("notify webhook not configured")

// Notifier implementa notify.AccessNotifier posteando a un webhook el
// aviso de canje (el servicio de notificaciones decide push/email).
// Siempre se invoca best-effort: un fallo acá nunca revierte el grant.
type Notifier struct {
	http *httpclient.Client
}

func NewNotifier(url string, timeout time.Duration) (*Notifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrNotConfigured
	}

	hc, err := httpclient.NewWithBaseURL(url, timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{http: hc}, nil
}

type grantCreatedPayload struct {
	Event        string    `json:"event"`
	GrantID      string    `json:"grant_id"`
	BookletID    string    `json:"booklet_id"`
	MotherUserID string    `json:"mother_user_id,omitempty"`
	DoctorUserID string    `json:"doctor_user_id"`
	GrantedAt    time.Time `json:"granted_at"`
}

func (n *Notifier) NotifyGrantCreated(ctx context.Context, ev notify.GrantCreated) error {
	return n.http.DoJSON(ctx, http.MethodPost, "/", nil, grantCreatedPayload{
		Event:        "access_grant.created",
		GrantID:      ev.GrantID,
		BookletID:    ev.BookletID,
		MotherUserID: ev.MotherUserID,
		DoctorUserID: ev.DoctorUserID,
		GrantedAt:    ev.GrantedAt,
	}, nil)
}
