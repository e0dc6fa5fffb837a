package schema

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesAreWired(t *testing.T) {
	seen := map[string]bool{}
	for _, tbl := range Tables {
		require.NotEmpty(t, tbl.PrimaryKey, tbl.Name)
		assert.Equal(t, "id", tbl.PrimaryKey[0].Name, tbl.Name)
		assert.False(t, seen[tbl.Name], "duplicate table %s", tbl.Name)
		seen[tbl.Name] = true

		for _, fk := range tbl.ForeignKeys {
			require.NotNil(t, fk.RefTable, "%s.%s", tbl.Name, fk.Symbol)
			require.Len(t, fk.RefColumns, 1)
			assert.True(t, seen[fk.RefTable.Name], "%s must be created after %s", tbl.Name, fk.RefTable.Name)
		}
	}
	assert.Len(t, seen, 9)
}

func TestColumnPositions(t *testing.T) {
	// Index declarations address columns by position.
	assert.Equal(t, "start_time", AppointmentsColumns[3].Name)
	assert.Equal(t, "status", AppointmentsColumns[5].Name)
	assert.Equal(t, "creator_id", AppointmentsColumns[6].Name)
	assert.Equal(t, "phone_number", ContactMediumAttributesColumns[2].Name)
	assert.Equal(t, "email", ContactMediumAttributesColumns[3].Name)
	assert.Equal(t, "created_at", LogEntriesColumns[8].Name)
}

func fieldNames(e ent.Interface) []string {
	var names []string
	for _, m := range e.Mixin() {
		for _, f := range m.Fields() {
			names = append(names, f.Descriptor().Name)
		}
	}
	for _, f := range e.Fields() {
		names = append(names, f.Descriptor().Name)
	}
	return names
}

func tableName(t *testing.T, e ent.Interface) string {
	t.Helper()
	for _, a := range e.Annotations() {
		if ann, ok := a.(entsql.Annotation); ok {
			return ann.Table
		}
	}
	t.Fatalf("%T has no table annotation", e)
	return ""
}

func columnNames(tbl *schema.Table) []string {
	names := make([]string, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	return names
}

func TestEntitiesMatchTables(t *testing.T) {
	entities := []ent.Interface{
		Appointment{},
		Location{},
		Participant{},
		ContactMedium{},
		ContactMediumAttribute{},
		Attachment{},
		Note{},
		CalendarEvent{},
		LogEntry{},
	}
	require.Len(t, entities, len(Tables))

	for i, e := range entities {
		tbl := Tables[i]
		t.Run(tbl.Name, func(t *testing.T) {
			assert.Equal(t, tbl.Name, tableName(t, e))
			assert.ElementsMatch(t, columnNames(tbl), fieldNames(e))
			assert.Len(t, e.Indexes(), len(tbl.Indexes))
		})
	}
}
