package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates the keyspace holds a shape the generator cannot represent.
	ErrInvalidSchema = errors.New("cqlgen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("cqlgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("cqlgen: code generation failed")
	// ErrOutputFailed indicates an artifact could not be written.
	ErrOutputFailed = errors.New("cqlgen: output failed")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	Type    string // UDT or table name
	Field   string // Field or column name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("cqlgen: schema error")
	if e.Type != "" {
		b.WriteString(" on ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("cqlgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("cqlgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DuplicateTypeError is returned when a user-defined type is registered twice.
type DuplicateTypeError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("cqlgen: user type %q is already registered", e.Name)
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *DuplicateTypeError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// UnknownUserTypeError is returned when a type expression references a
// user-defined type that is not part of the keyspace.
type UnknownUserTypeError struct {
	Name  string
	Owner string // referencing UDT or table, if known
	Field string
}

// Error implements the error interface.
func (e *UnknownUserTypeError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("cqlgen: unknown user type %q", e.Name)
	}
	return fmt.Sprintf("cqlgen: unknown user type %q referenced by %s.%s", e.Name, e.Owner, e.Field)
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *UnknownUserTypeError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// UnsupportedTypeError is returned for native types without a Go mapping.
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cqlgen: unsupported type %s", e.Type)
	}
	return fmt.Sprintf("cqlgen: unsupported type %s: %s", e.Type, e.Reason)
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// CyclicTypeDependencyError is returned when user-defined types contain
// each other by value.
type CyclicTypeDependencyError struct {
	// Cycle lists the type names along the cycle, the first name repeated at the end.
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicTypeDependencyError) Error() string {
	return "cqlgen: cyclic user type dependency: " + strings.Join(e.Cycle, " -> ")
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *CyclicTypeDependencyError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// UnresolvedColumnTypeError is returned when the type of a table column
// cannot be resolved.
type UnresolvedColumnTypeError struct {
	Table  string
	Column string
	Type   string
	Cause  error
}

// Error implements the error interface.
func (e *UnresolvedColumnTypeError) Error() string {
	return fmt.Sprintf("cqlgen: cannot resolve type %q of column %s.%s: %v", e.Type, e.Table, e.Column, e.Cause)
}

// Unwrap returns the underlying error.
func (e *UnresolvedColumnTypeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *UnresolvedColumnTypeError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// InvalidKeyLayoutError is returned when the key positions of a table do
// not form a contiguous 0-based sequence.
type InvalidKeyLayoutError struct {
	Table     string
	Key       string // "partition" or "clustering"
	Positions []int
}

// Error implements the error interface.
func (e *InvalidKeyLayoutError) Error() string {
	return fmt.Sprintf("cqlgen: table %s has invalid %s key positions %v", e.Table, e.Key, e.Positions)
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *InvalidKeyLayoutError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// UnsupportedFieldTypeError is returned by a generator asked to render a
// type descriptor it has no Go rendering for, such as a map keyed by a
// type that is not comparable in Go.
type UnsupportedFieldTypeError struct {
	Type  TypeDescriptor
	Owner string
	Field string
	// Reason is set when the descriptor is known but cannot be rendered.
	Reason string
}

// Error implements the error interface.
func (e *UnsupportedFieldTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cqlgen: no rendering rule for type %T", e.Type)
	if e.Type != nil {
		fmt.Fprintf(&b, " (%s)", e.Type)
	}
	if e.Owner != "" {
		fmt.Fprintf(&b, " in %s.%s", e.Owner, e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	return b.String()
}

// Is reports whether the target matches ErrGenerationFailed.
func (e *UnsupportedFieldTypeError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "value", "entity" or "dal"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("cqlgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// OutputWriteError is returned by a Sink that failed to persist an artifact.
// Written lists the artifacts already in place when the failure happened.
type OutputWriteError struct {
	Artifact  string
	Path      string
	Written   []string
	Unwritten []string
	Cause     error
}

// Error implements the error interface.
func (e *OutputWriteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cqlgen: write %s", e.Artifact)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if len(e.Written) > 0 {
		fmt.Fprintf(&b, "; already written: %s", strings.Join(e.Written, ", "))
	}
	if len(e.Unwritten) > 0 {
		fmt.Fprintf(&b, "; not written: %s", strings.Join(e.Unwritten, ", "))
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *OutputWriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrOutputFailed.
func (e *OutputWriteError) Is(target error) bool {
	return target == ErrOutputFailed
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsCycleError reports whether the error is a CyclicTypeDependencyError.
func IsCycleError(err error) bool {
	var cycleErr *CyclicTypeDependencyError
	return errors.As(err, &cycleErr)
}

// IsOutputError reports whether the error is an OutputWriteError.
func IsOutputError(err error) bool {
	var outErr *OutputWriteError
	return errors.As(err, &outErr)
}
