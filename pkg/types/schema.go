package types

import "strings"

// FieldSpec describes one static field of an entity type.
type FieldSpec struct {
	Name     string
	DataType DataType

	// RefType overrides the child element name of reference and list
	// fields. Empty means the referenced entity's own type is used.
	RefType string

	// ReadOnly fields are assigned by the service and never serialized.
	ReadOnly bool

	// CDATA fields are written as a CDATA section.
	CDATA bool

	// Folders marks a download-style folder list, subject to the entity's
	// MultipleFolders setting. SingleName is the wrapper used when only one
	// folder is allowed.
	Folders    bool
	SingleName string
}

// ChildName returns the element name for a referenced entity of refType.
func (fs FieldSpec) ChildName(refType string) string {
	if fs.RefType != "" {
		return fs.RefType
	}
	return refType
}

// Schema is the static field table of one entity type.
type Schema struct {
	Type string

	// DisplayField names the field used as the entity's readable name.
	DisplayField string

	fields []FieldSpec
	index  map[string]int
}

// NewSchema builds a schema from field specs. Later specs with a duplicate
// name replace earlier ones.
func NewSchema(entityType, displayField string, specs ...FieldSpec) *Schema {
	s := &Schema{
		Type:         entityType,
		DisplayField: displayField,
		index:        make(map[string]int, len(specs)),
	}
	for _, fs := range specs {
		if i, ok := s.index[fs.Name]; ok {
			s.fields[i] = fs
			continue
		}
		s.index[fs.Name] = len(s.fields)
		s.fields = append(s.fields, fs)
	}
	return s
}

// Field returns the spec for name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// Fields returns the specs in declaration order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// schemas is the registry of catalogued entity types, keyed by lowercased
// type name. It is filled once at init and read-only afterwards.
var schemas = map[string]*Schema{}

func register(s *Schema) {
	schemas[strings.ToLower(s.Type)] = s
}

// LookupSchema returns the schema for an entity type. Matching is
// case-insensitive.
func LookupSchema(entityType string) (*Schema, bool) {
	s, ok := schemas[strings.ToLower(entityType)]
	return s, ok
}

// EntityTypes lists the catalogued type names.
func EntityTypes() []string {
	out := make([]string, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s.Type)
	}
	return out
}
