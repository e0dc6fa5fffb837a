package schema

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Log entries reference their entity by id only so the trail survives deletes.
var (
	LogEntriesColumns = []*schema.Column{
		idColumn(),
		{Name: "entity_id", Type: field.TypeUUID},
		stringColumn("entity_type", 64),
		{Name: "action", Type: field.TypeEnum, Enums: []string{"CREATE", "UPDATE", "DELETE"}},
		{Name: "old_value", Type: field.TypeJSON, Nullable: true},
		{Name: "new_value", Type: field.TypeJSON, Nullable: true},
		stringColumn("created_by_id", 255),
		stringColumn("created_by_name", 255),
		timeColumn("created_at"),
	}
	LogEntriesTable = &schema.Table{
		Name:       LogEntriesTableName,
		Columns:    LogEntriesColumns,
		PrimaryKey: []*schema.Column{LogEntriesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "logentry_entity_type_entity_id", Columns: []*schema.Column{LogEntriesColumns[2], LogEntriesColumns[1]}},
			{Name: "logentry_created_at", Columns: []*schema.Column{LogEntriesColumns[8]}},
		},
	}
)
