package records

type RecordType string

const (
	RecordTypeCheckup        RecordType = "CHECKUP"
	RecordTypeNote           RecordType = "NOTE"
	RecordTypeVitals         RecordType = "VITALS_RECORDED"
	RecordTypeMedication     RecordType = "MEDICATION_PRESCRIBED"
	RecordTypeLabRequested   RecordType = "LAB_REQUESTED"
	RecordTypeLabResult      RecordType = "LAB_RESULT"
	RecordTypeUltrasound     RecordType = "ULTRASOUND"
	RecordTypeProfileUpdated RecordType = "PROFILE_UPDATED"
)

type ActorType string

const (
	ActorTypeMotherUser     ActorType = "MOTHER_USER"
	ActorTypeDoctorUser     ActorType = "DOCTOR_USER"
	ActorTypeExternalSystem ActorType = "EXTERNAL_SYSTEM"
)

type Source string

const (
	SourceManual      Source = "manual"
	SourceClinic      Source = "clinic"
	SourceIntegration Source = "integration"
)

type RecordStatus string

const (
	RecordStatusActive RecordStatus = "active"
	RecordStatusVoided RecordStatus = "voided"
)
