package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
	"github.com/google/uuid"
)

// Column helpers shared by every table. Ids are UUIDv7 generated by the
// application, never by the database.

func idColumn() *schema.Column {
	return &schema.Column{Name: "id", Type: field.TypeUUID, Unique: true}
}

func fkColumn(name string, unique bool) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeUUID, Unique: unique}
}

func textColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Nullable: true, Size: 2147483647}
}

func stringColumn(name string, size int64) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: size, Default: ""}
}

func timeColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeTime}
}

func cascade(symbol string, col *schema.Column) *schema.ForeignKey {
	return &schema.ForeignKey{
		Symbol:   symbol,
		Columns:  []*schema.Column{col},
		OnDelete: schema.Cascade,
	}
}

// UUIDV7Mixin declares the application generated primary key.
type UUIDV7Mixin struct {
	mixin.Schema
}

func (UUIDV7Mixin) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(func() uuid.UUID {
				id, err := uuid.NewV7()
				if err != nil {
					panic(err)
				}
				return id
			}).
			Immutable(),
	}
}

type TimeStampedMixin struct {
	mixin.Schema
}

func (TimeStampedMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// CreatedAtMixin is for append-only rows.
type CreatedAtMixin struct {
	mixin.Schema
}

func (CreatedAtMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
