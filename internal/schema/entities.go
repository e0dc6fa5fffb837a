package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

func table(name string) []entschema.Annotation {
	return []entschema.Annotation{entsql.Annotation{Table: name}}
}

// belongsTo is the owning side of a cascade-deleted child row.
func belongsTo(ref string, parent any) ent.Edge {
	return edge.From("appointment", parent).
		Ref(ref).
		Field("appointment_id").
		Unique().
		Required().
		Immutable()
}

// Appointment is a scheduled meeting between its participants.
type Appointment struct {
	ent.Schema
}

func (Appointment) Annotations() []entschema.Annotation { return table(AppointmentsTableName) }

func (Appointment) Mixin() []ent.Mixin {
	return []ent.Mixin{
		UUIDV7Mixin{},
		TimeStampedMixin{},
	}
}

func (Appointment) Fields() []ent.Field {
	return []ent.Field{
		field.Text("description").
			Optional(),
		field.String("category").
			MaxLen(255).
			Default(""),
		field.Time("start_time"),
		field.Time("end_time"),
		field.Enum("status").
			Values("CREATED", "ASSIGNED", "CANCELLED", "COMPLETED", "RESCHEDULED").
			Default("CREATED"),
		field.String("creator_id").
			MaxLen(255).
			Default("").
			Comment("Keycloak subject of the creator"),
		field.String("created_by").
			MaxLen(255).
			Default(""),
		field.String("updated_by").
			MaxLen(255).
			Default(""),
		field.Enum("location_type").
			Values("PHYSICAL", "ONLINE").
			Default("PHYSICAL"),
		field.Text("location_link").
			Optional(),
	}
}

func (Appointment) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("location", Location.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("participants", Participant.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("attachments", Attachment.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("notes", Note.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("calendar_events", CalendarEvent.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Appointment) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("start_time"),
		index.Fields("status", "start_time"),
		index.Fields("creator_id"),
	}
}

// Location is the postal address of a PHYSICAL appointment.
type Location struct {
	ent.Schema
}

func (Location) Annotations() []entschema.Annotation { return table(LocationsTableName) }

func (Location) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDV7Mixin{}}
}

func (Location) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("appointment_id", uuid.UUID{}).
			Unique().
			Immutable(),
		field.String("name").MaxLen(255).Default(""),
		field.String("street_nr").MaxLen(64).Default(""),
		field.String("street_name").MaxLen(255).Default(""),
		field.String("post_code").MaxLen(32).Default(""),
		field.String("city").MaxLen(255).Default(""),
		field.String("state_or_province").MaxLen(255).Default(""),
		field.String("country").MaxLen(255).Default(""),
	}
}

func (Location) Edges() []ent.Edge {
	return []ent.Edge{belongsTo("location", Appointment.Type)}
}

type Participant struct {
	ent.Schema
}

func (Participant) Annotations() []entschema.Annotation { return table(ParticipantsTableName) }

func (Participant) Mixin() []ent.Mixin {
	return []ent.Mixin{
		UUIDV7Mixin{},
		CreatedAtMixin{},
	}
}

func (Participant) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("appointment_id", uuid.UUID{}).
			Immutable(),
		field.String("name").MaxLen(255).Default(""),
		field.String("role").MaxLen(64).Default(""),
	}
}

func (Participant) Edges() []ent.Edge {
	return []ent.Edge{
		belongsTo("participants", Appointment.Type),
		edge.To("contact_medium", ContactMedium.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (Participant) Indexes() []ent.Index {
	return []ent.Index{index.Fields("appointment_id")}
}

// ContactMedium says how a participant is reached: EMAIL, PHONE or both.
type ContactMedium struct {
	ent.Schema
}

func (ContactMedium) Annotations() []entschema.Annotation { return table(ContactMediumsTableName) }

func (ContactMedium) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDV7Mixin{}}
}

func (ContactMedium) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("participant_id", uuid.UUID{}).
			Unique().
			Immutable(),
		field.String("medium_type").MaxLen(64).Default(""),
	}
}

func (ContactMedium) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("participant", Participant.Type).
			Ref("contact_medium").
			Field("participant_id").
			Unique().
			Required().
			Immutable(),
		edge.To("attribute", ContactMediumAttribute.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// ContactMediumAttribute holds the addresses conflicts are matched on.
type ContactMediumAttribute struct {
	ent.Schema
}

func (ContactMediumAttribute) Annotations() []entschema.Annotation {
	return table(ContactMediumAttributesTableName)
}

func (ContactMediumAttribute) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDV7Mixin{}}
}

func (ContactMediumAttribute) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("contact_medium_id", uuid.UUID{}).
			Unique().
			Immutable(),
		field.String("phone_number").
			MaxLen(64).
			Default("").
			Comment("E.164"),
		field.String("email").
			MaxLen(320).
			Default("").
			Comment("lower-cased"),
		field.String("fax_number").MaxLen(64).Default(""),
		field.String("social_network_id").MaxLen(255).Default(""),
		field.String("street").MaxLen(255).Default(""),
		field.String("city").MaxLen(255).Default(""),
		field.String("state_or_province").MaxLen(255).Default(""),
		field.String("country").MaxLen(255).Default(""),
	}
}

func (ContactMediumAttribute) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("contact_medium", ContactMedium.Type).
			Ref("attribute").
			Field("contact_medium_id").
			Unique().
			Required().
			Immutable(),
	}
}

func (ContactMediumAttribute) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("phone_number"),
		index.Fields("email"),
	}
}

type Attachment struct {
	ent.Schema
}

func (Attachment) Annotations() []entschema.Annotation { return table(AttachmentsTableName) }

func (Attachment) Mixin() []ent.Mixin {
	return []ent.Mixin{UUIDV7Mixin{}}
}

func (Attachment) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("appointment_id", uuid.UUID{}).
			Immutable(),
		field.String("attachment_type").MaxLen(32).Default(""),
		field.String("mime_type").MaxLen(255).Default(""),
		field.String("original_name").MaxLen(255).Default(""),
		field.String("path").
			MaxLen(1024).
			Default("").
			Comment("local file path or S3 key"),
		field.Int64("size").Default(0),
		field.String("description").
			MaxLen(1024).
			Default("Appointment Attachment"),
		field.String("uploaded_by_id").MaxLen(255).Default(""),
		field.String("uploaded_by_name").MaxLen(255).Default(""),
		field.Time("uploaded_at"),
	}
}

func (Attachment) Edges() []ent.Edge {
	return []ent.Edge{belongsTo("attachments", Appointment.Type)}
}

type Note struct {
	ent.Schema
}

func (Note) Annotations() []entschema.Annotation { return table(NotesTableName) }

func (Note) Mixin() []ent.Mixin {
	return []ent.Mixin{
		UUIDV7Mixin{},
		CreatedAtMixin{},
	}
}

func (Note) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("appointment_id", uuid.UUID{}).
			Immutable(),
		field.String("author").MaxLen(255).Default(""),
		field.String("text").MaxLen(1000),
	}
}

func (Note) Edges() []ent.Edge {
	return []ent.Edge{belongsTo("notes", Appointment.Type)}
}

// CalendarEvent tracks the iCalendar UID and SEQUENCE sent to participants.
type CalendarEvent struct {
	ent.Schema
}

func (CalendarEvent) Annotations() []entschema.Annotation { return table(CalendarEventsTableName) }

func (CalendarEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{
		UUIDV7Mixin{},
		TimeStampedMixin{},
	}
}

func (CalendarEvent) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("appointment_id", uuid.UUID{}).
			Immutable(),
		field.String("uid").
			MaxLen(255).
			Unique(),
		field.Int("sequence").Default(0),
	}
}

func (CalendarEvent) Edges() []ent.Edge {
	return []ent.Edge{belongsTo("calendar_events", Appointment.Type)}
}

// LogEntry is the audit trail. It has no edge so that entries outlive the
// rows they describe.
type LogEntry struct {
	ent.Schema
}

func (LogEntry) Annotations() []entschema.Annotation { return table(LogEntriesTableName) }

func (LogEntry) Mixin() []ent.Mixin {
	return []ent.Mixin{
		UUIDV7Mixin{},
		CreatedAtMixin{},
	}
}

func (LogEntry) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("entity_id", uuid.UUID{}).
			Immutable(),
		field.String("entity_type").MaxLen(64).Default(""),
		field.Enum("action").
			Values("CREATE", "UPDATE", "DELETE").
			Immutable(),
		field.JSON("old_value", json.RawMessage{}).
			Optional(),
		field.JSON("new_value", json.RawMessage{}).
			Optional(),
		field.String("created_by_id").MaxLen(255).Default(""),
		field.String("created_by_name").MaxLen(255).Default(""),
	}
}

func (LogEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("entity_type", "entity_id"),
		index.Fields("created_at"),
	}
}
