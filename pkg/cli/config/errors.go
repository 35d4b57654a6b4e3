package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrSchemaNotFound    = goerr.New("schema file not found")
	ErrUnsupportedSchema = goerr.New("unsupported schema file format")
	ErrInvalidSchema     = goerr.New("invalid form schema")
)

// Context keys for error values
const (
	SchemaPathKey = "schema_path"
	FieldIDKey    = "field_id"
	FieldIndexKey = "field_index"
)
