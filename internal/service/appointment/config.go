package appointment

import (
	"time"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/Alijeyrad/scheduleease/pkg/phone"
)

type Config struct {
	MinDurationMinutes int
	MaxDurationMinutes int
	Location           *time.Location
	PhoneRegion        string
	MaxAttachmentBytes int64
	DefaultListLimit   int
	MaxListLimit       int
	// Organizer is the mailbox placed on exported calendar entries.
	Organizer string
}

func DefaultConfig() Config {
	return Config{
		MinDurationMinutes: 15,
		MaxDurationMinutes: 240,
		Location:           time.UTC,
		PhoneRegion:        phone.DefaultRegion,
		MaxAttachmentBytes: 5 << 20,
		DefaultListLimit:   50,
		MaxListLimit:       200,
	}
}

func FromCentralConfig(c config.AppointmentConfig, organizer string) Config {
	cfg := DefaultConfig()
	cfg.MinDurationMinutes = c.MinDurationMinutes
	cfg.MaxDurationMinutes = c.MaxDurationMinutes
	cfg.Location = c.Location()
	cfg.Organizer = organizer
	if c.DefaultPhoneRegion != "" {
		cfg.PhoneRegion = c.DefaultPhoneRegion
	}
	if c.MaxAttachmentBytes > 0 {
		cfg.MaxAttachmentBytes = c.MaxAttachmentBytes
	}
	if c.DefaultListLimit > 0 {
		cfg.DefaultListLimit = c.DefaultListLimit
	}
	if c.MaxListLimit > 0 {
		cfg.MaxListLimit = c.MaxListLimit
	}
	return cfg
}
