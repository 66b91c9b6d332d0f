package details

import "time"

// LabStatus representa el estado de un pedido de laboratorio.
type LabStatus string

const (
	LabStatusRequested LabStatus = "requested"
	LabStatusResulted  LabStatus = "resulted"
)

// Lab es el payload de detalle de registros LAB_REQUESTED / LAB_RESULT.
type Lab struct {
	TestName string    `json:"test_name"` // "hemograma", "glucemia", "orina completa"
	Status   LabStatus `json:"status,omitempty"`

	RequestedAt time.Time  `json:"requested_at,omitempty"`
	ResultedAt  *time.Time `json:"resulted_at,omitempty"`

	// Resultado en texto libre; los adjuntos (imágenes, PDFs) son un
	// colaborador externo de almacenamiento, acá solo queda la referencia.
	Result        string `json:"result,omitempty"`
	AttachmentRef string `json:"attachment_ref,omitempty"`

	Notes string `json:"notes,omitempty"`
}
