package constants

const (
	AppName      = "scheduleease"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "SCHEDULEEASE"

	// EntityAppointment is the entity type recorded on audit log entries.
	EntityAppointment = "appointment"

	// SubjectAppointmentPrefix prefixes every appointment event published on NATS.
	// Full subject: scheduleease.appointment.<event>.<appointment_id>
	SubjectAppointmentPrefix = "scheduleease.appointment"
)
