package logging

// Field names for structured log lines.
const (
	FieldError  = "error"
	FieldInput  = "input"
	FieldOutput = "output"

	// Document fields.
	FieldKey    = "key"
	FieldTokens = "tokens"
	FieldTables = "tables"
	FieldStart  = "start"
	FieldEnd    = "end"
	FieldKind   = "kind"
	FieldBytes  = "bytes"
)
