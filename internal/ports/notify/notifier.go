package notify

import (
	"context"
	"time"
)

// GrantCreated describe un canje exitoso, para avisarle a la madre
// que un doctor acaba de obtener acceso a su libreta.
type GrantCreated struct {
	GrantID      string
	BookletID    string
	MotherUserID string
	DoctorUserID string
	GrantedAt    time.Time
}

// AccessNotifier es un colaborador externo (push/email/webhook).
// Se invoca DESPUÉS de confirmar el grant; su fallo no revierte nada.
type AccessNotifier interface {
	NotifyGrantCreated(ctx context.Context, n GrantCreated) error
}
