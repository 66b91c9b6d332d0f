package access

import "time"

// Token es la credencial de un solo uso que la madre codifica en un QR.
// La expiración es un estado calculado (ExpiresAt vs ahora), nunca se
// persiste; el consumo sí se persiste y ocurre a lo sumo una vez.
type Token struct {
	ID        string
	BookletID string

	IssuedAt  time.Time
	ExpiresAt time.Time

	ConsumedAt *time.Time
	ConsumedBy string // doctor que consumió; vacío si sigue sin consumir
}

// Consumed indica si el token ya fue canjeado.
func (t Token) Consumed() bool {
	return t.ConsumedAt != nil
}

// ExpiredAt indica si el token está vencido en el instante dado.
// El instante exacto de ExpiresAt ya cuenta como vencido: la ventana
// válida es [IssuedAt, ExpiresAt).
func (t Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Grant es la arista durable doctor<->libreta que produce un canje exitoso.
// Es un log append-preferred: revocar nunca borra la fila y re-otorgar crea
// una fila nueva, así queda la atribución histórica completa.
type Grant struct {
	ID           string
	BookletID    string
	DoctorUserID string

	GrantedAt time.Time
	RevokedAt *time.Time
}

// Active indica si el grant sigue vigente.
func (g Grant) Active() bool {
	return g.RevokedAt == nil
}

// Capability distingue lectura de escritura en el guard.
// Hoy ambas exigen la misma condición (grant activo); el parámetro existe
// para que los callers ya declaren intención si algún día se separa.
type Capability string

const (
	CapabilityRead  Capability = "read"
	CapabilityWrite Capability = "write"
)

// Decision es la respuesta del guard de autorización.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonOwner         = "owner"
	ReasonActiveGrant   = "active_grant"
	ReasonNoActiveGrant = "no_active_grant"
)
