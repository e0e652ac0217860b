package graph

// Schema bootstrap statements. All of them use IF NOT EXISTS so that
// InitializeSchema can run at every process start without erroring on
// the second pass.
var schemaStatements = []string{
	"CREATE CONSTRAINT task_id_unique IF NOT EXISTS FOR (t:Task) REQUIRE t.task_id IS UNIQUE",
	"CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE",
	"CREATE CONSTRAINT tool_name_unique IF NOT EXISTS FOR (t:Tool) REQUIRE t.name IS UNIQUE",

	"CREATE INDEX task_type_index IF NOT EXISTS FOR (t:Task) ON (t.task_type)",
	"CREATE INDEX task_status_index IF NOT EXISTS FOR (t:Task) ON (t.status)",
}
