package details

type VitalKind string

const (
	VitalKindWeight         VitalKind = "weight"
	VitalKindBloodPressure  VitalKind = "blood_pressure"
	VitalKindFundalHeight   VitalKind = "fundal_height"
	VitalKindFetalHeartbeat VitalKind = "fetal_heartbeat"
)

// Vital es una medición tomada en un control prenatal. Un registro
// VITALS_RECORDED lleva como detalle un array de estas.
type Vital struct {
	Kind  VitalKind `json:"kind"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit"` // "kg", "mmHg", "cm", "lpm"
}
