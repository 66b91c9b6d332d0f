package patientids

import "time"

// Mapping es el identificador externo que un doctor le asigna a una libreta
// (su número de historia clínica, su ficha interna). Es privado del doctor:
// la madre no lo ve y otros doctores tampoco.
//
// Al revocarse el grant el mapping queda inaccesible pero NO se borra:
// si el doctor recupera acceso, recupera también su contexto previo.
// Es una decisión de diseño explícita, no retención accidental.
type Mapping struct {
	ID           string
	BookletID    string
	DoctorUserID string

	ExternalRef string // identificador elegido por el doctor
	Label       string // etiqueta opcional ("HC ambulatorio")

	CreatedAt time.Time
	UpdatedAt time.Time
}
