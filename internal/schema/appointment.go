// Package schema declares the appointment graph twice: as ent.Schema
// entities (entities.go) and as the migrate tables applied by ent's migrate
// engine. Both must change together.
package schema

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	AppointmentsTableName            = "appointments"
	LocationsTableName               = "locations"
	ParticipantsTableName            = "participants"
	ContactMediumsTableName          = "contact_mediums"
	ContactMediumAttributesTableName = "contact_medium_attributes"
	AttachmentsTableName             = "attachments"
	NotesTableName                   = "notes"
	CalendarEventsTableName          = "calendar_events"
	LogEntriesTableName              = "log_entries"
)

var (
	AppointmentsColumns = []*schema.Column{
		idColumn(),
		textColumn("description"),
		stringColumn("category", 255),
		timeColumn("start_time"),
		timeColumn("end_time"),
		{Name: "status", Type: field.TypeEnum, Enums: []string{"CREATED", "ASSIGNED", "CANCELLED", "COMPLETED", "RESCHEDULED"}, Default: "CREATED"},
		stringColumn("creator_id", 255),
		stringColumn("created_by", 255),
		stringColumn("updated_by", 255),
		{Name: "location_type", Type: field.TypeEnum, Enums: []string{"PHYSICAL", "ONLINE"}, Default: "PHYSICAL"},
		textColumn("location_link"),
		timeColumn("created_at"),
		timeColumn("updated_at"),
	}
	AppointmentsTable = &schema.Table{
		Name:       AppointmentsTableName,
		Columns:    AppointmentsColumns,
		PrimaryKey: []*schema.Column{AppointmentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "appointment_start_time", Columns: []*schema.Column{AppointmentsColumns[3]}},
			{Name: "appointment_status_start_time", Columns: []*schema.Column{AppointmentsColumns[5], AppointmentsColumns[3]}},
			{Name: "appointment_creator_id", Columns: []*schema.Column{AppointmentsColumns[6]}},
		},
	}

	LocationsColumns = []*schema.Column{
		idColumn(),
		fkColumn("appointment_id", true),
		stringColumn("name", 255),
		stringColumn("street_nr", 64),
		stringColumn("street_name", 255),
		stringColumn("post_code", 32),
		stringColumn("city", 255),
		stringColumn("state_or_province", 255),
		stringColumn("country", 255),
	}
	LocationsTable = &schema.Table{
		Name:        LocationsTableName,
		Columns:     LocationsColumns,
		PrimaryKey:  []*schema.Column{LocationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("locations_appointments_location", LocationsColumns[1])},
	}

	ParticipantsColumns = []*schema.Column{
		idColumn(),
		fkColumn("appointment_id", false),
		stringColumn("name", 255),
		stringColumn("role", 64),
		timeColumn("created_at"),
	}
	ParticipantsTable = &schema.Table{
		Name:        ParticipantsTableName,
		Columns:     ParticipantsColumns,
		PrimaryKey:  []*schema.Column{ParticipantsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("participants_appointments_participants", ParticipantsColumns[1])},
		Indexes: []*schema.Index{
			{Name: "participant_appointment_id", Columns: []*schema.Column{ParticipantsColumns[1]}},
		},
	}

	ContactMediumsColumns = []*schema.Column{
		idColumn(),
		fkColumn("participant_id", true),
		stringColumn("medium_type", 64),
	}
	ContactMediumsTable = &schema.Table{
		Name:        ContactMediumsTableName,
		Columns:     ContactMediumsColumns,
		PrimaryKey:  []*schema.Column{ContactMediumsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("contact_mediums_participants_contact_medium", ContactMediumsColumns[1])},
	}

	ContactMediumAttributesColumns = []*schema.Column{
		idColumn(),
		fkColumn("contact_medium_id", true),
		stringColumn("phone_number", 64),
		stringColumn("email", 320),
		stringColumn("fax_number", 64),
		stringColumn("social_network_id", 255),
		stringColumn("street", 255),
		stringColumn("city", 255),
		stringColumn("state_or_province", 255),
		stringColumn("country", 255),
	}
	ContactMediumAttributesTable = &schema.Table{
		Name:        ContactMediumAttributesTableName,
		Columns:     ContactMediumAttributesColumns,
		PrimaryKey:  []*schema.Column{ContactMediumAttributesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("contact_medium_attributes_contact_mediums_attribute", ContactMediumAttributesColumns[1])},
		Indexes: []*schema.Index{
			{Name: "contactmediumattribute_phone_number", Columns: []*schema.Column{ContactMediumAttributesColumns[2]}},
			{Name: "contactmediumattribute_email", Columns: []*schema.Column{ContactMediumAttributesColumns[3]}},
		},
	}

	AttachmentsColumns = []*schema.Column{
		idColumn(),
		fkColumn("appointment_id", false),
		stringColumn("attachment_type", 32),
		stringColumn("mime_type", 255),
		stringColumn("original_name", 255),
		stringColumn("path", 1024),
		{Name: "size", Type: field.TypeInt64, Default: 0},
		{Name: "description", Type: field.TypeString, Size: 1024, Default: "Appointment Attachment"},
		stringColumn("uploaded_by_id", 255),
		stringColumn("uploaded_by_name", 255),
		timeColumn("uploaded_at"),
	}
	AttachmentsTable = &schema.Table{
		Name:        AttachmentsTableName,
		Columns:     AttachmentsColumns,
		PrimaryKey:  []*schema.Column{AttachmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("attachments_appointments_attachments", AttachmentsColumns[1])},
	}

	NotesColumns = []*schema.Column{
		idColumn(),
		fkColumn("appointment_id", false),
		stringColumn("author", 255),
		{Name: "text", Type: field.TypeString, Size: 1000},
		timeColumn("created_at"),
	}
	NotesTable = &schema.Table{
		Name:        NotesTableName,
		Columns:     NotesColumns,
		PrimaryKey:  []*schema.Column{NotesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("notes_appointments_notes", NotesColumns[1])},
	}

	CalendarEventsColumns = []*schema.Column{
		idColumn(),
		fkColumn("appointment_id", false),
		{Name: "uid", Type: field.TypeString, Size: 255, Unique: true},
		{Name: "sequence", Type: field.TypeInt, Default: 0},
		timeColumn("created_at"),
		timeColumn("updated_at"),
	}
	CalendarEventsTable = &schema.Table{
		Name:        CalendarEventsTableName,
		Columns:     CalendarEventsColumns,
		PrimaryKey:  []*schema.Column{CalendarEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{cascade("calendar_events_appointments_calendar_events", CalendarEventsColumns[1])},
	}
)

// Tables is every table in creation order.
var Tables = []*schema.Table{
	AppointmentsTable,
	LocationsTable,
	ParticipantsTable,
	ContactMediumsTable,
	ContactMediumAttributesTable,
	AttachmentsTable,
	NotesTable,
	CalendarEventsTable,
	LogEntriesTable,
}

func init() {
	LocationsTable.ForeignKeys[0].RefTable = AppointmentsTable
	LocationsTable.ForeignKeys[0].RefColumns = []*schema.Column{AppointmentsColumns[0]}
	ParticipantsTable.ForeignKeys[0].RefTable = AppointmentsTable
	ParticipantsTable.ForeignKeys[0].RefColumns = []*schema.Column{AppointmentsColumns[0]}
	ContactMediumsTable.ForeignKeys[0].RefTable = ParticipantsTable
	ContactMediumsTable.ForeignKeys[0].RefColumns = []*schema.Column{ParticipantsColumns[0]}
	ContactMediumAttributesTable.ForeignKeys[0].RefTable = ContactMediumsTable
	ContactMediumAttributesTable.ForeignKeys[0].RefColumns = []*schema.Column{ContactMediumsColumns[0]}
	AttachmentsTable.ForeignKeys[0].RefTable = AppointmentsTable
	AttachmentsTable.ForeignKeys[0].RefColumns = []*schema.Column{AppointmentsColumns[0]}
	NotesTable.ForeignKeys[0].RefTable = AppointmentsTable
	NotesTable.ForeignKeys[0].RefColumns = []*schema.Column{AppointmentsColumns[0]}
	CalendarEventsTable.ForeignKeys[0].RefTable = AppointmentsTable
	CalendarEventsTable.ForeignKeys[0].RefColumns = []*schema.Column{AppointmentsColumns[0]}
}
