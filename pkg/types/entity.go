package types

import (
	"strings"
	"time"
)

// StaticField is a schema-known field of an entity. Value holds one of:
// nil, string, int, int64, bool, time.Time, EntityRef, []EntityRef,
// []Attachment or []string.
type StaticField struct {
	Name     string   `json:"name" yaml:"name"`
	DataType DataType `json:"data_type" yaml:"data_type"`
	Value    any      `json:"value" yaml:"value"`

	// Ignore excludes the field from serialization without removing it.
	Ignore bool `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// Entity is one business object: a typed root with ordered static and
// custom fields. ID 0 means the entity does not exist remotely yet.
type Entity struct {
	Type         string         `json:"type"`
	ID           int64          `json:"id"`
	Fields       []*StaticField `json:"fields,omitempty"`
	CustomFields []*CustomField `json:"custom_fields,omitempty"`

	// FullyLoaded is false for entities hydrated from a reference node or a
	// minimal listing.
	FullyLoaded bool `json:"fully_loaded"`

	// MultipleFolders allows more than one entry in a folder list.
	MultipleFolders bool `json:"multiple_folders,omitempty"`

	// AllowDeleteAllAttachments makes an empty attachment list travel as an
	// explicit empty element, clearing every attachment remotely.
	AllowDeleteAllAttachments bool `json:"allow_delete_all_attachments,omitempty"`

	dirty bool
}

// NewEntity returns an empty entity of the given type.
func NewEntity(entityType string) *Entity {
	return &Entity{Type: entityType}
}

// Schema returns the schema table of the entity's type, or nil when the type
// is not catalogued.
func (e *Entity) Schema() *Schema {
	s, _ := LookupSchema(e.Type)
	return s
}

// Ref returns an id-only reference to e.
func (e *Entity) Ref() EntityRef {
	return EntityRef{Type: e.Type, ID: e.ID, Name: e.DisplayName()}
}

// DisplayName returns the value of the schema's display field, if any.
func (e *Entity) DisplayName() string {
	s := e.Schema()
	if s == nil || s.DisplayField == "" {
		return ""
	}
	return e.String(s.DisplayField)
}

// IsDirty reports whether the entity has unsaved local changes.
func (e *Entity) IsDirty() bool {
	return e.dirty
}

// MarkClean clears the dirty flag, typically after a successful save.
func (e *Entity) MarkClean() {
	e.dirty = false
}

// track sets the dirty flag when modified is true and passes modified
// through, so mutators can return the result directly.
func (e *Entity) track(modified bool) bool {
	if modified {
		e.dirty = true
	}
	return modified
}

// Field returns the static field with the given name, or nil.
func (e *Entity) Field(name string) *StaticField {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// field returns the named field, creating it when absent. The data type of
// a new field comes from the schema table, or from fallback when the field
// is not catalogued.
func (e *Entity) field(name string, fallback DataType) *StaticField {
	if f := e.Field(name); f != nil {
		return f
	}
	dt := fallback
	if fs, ok := e.Schema().Field(name); ok {
		dt = fs.DataType
	}
	f := &StaticField{Name: name, DataType: dt}
	e.Fields = append(e.Fields, f)
	return f
}

// Set stores value in the named field, creating the field when needed. It
// reports whether the stored value changed.
func (e *Entity) Set(name string, value any) bool {
	f := e.field(name, dataTypeOf(value))
	if valuesEqual(f.Value, value) {
		return false
	}
	f.Value = value
	return e.track(true)
}

// SetString stores a string field.
func (e *Entity) SetString(name, v string) bool { return e.Set(name, v) }

// SetInt stores an integer field.
func (e *Entity) SetInt(name string, v int64) bool { return e.Set(name, v) }

// SetBool stores a boolean field.
func (e *Entity) SetBool(name string, v bool) bool { return e.Set(name, v) }

// SetTime stores a timestamp field.
func (e *Entity) SetTime(name string, v time.Time) bool { return e.Set(name, v) }

// SetRef stores a reference field.
func (e *Entity) SetRef(name string, v EntityRef) bool { return e.Set(name, v) }

// SetRefs stores a list of references.
func (e *Entity) SetRefs(name string, v []EntityRef) bool { return e.Set(name, v) }

// SetAttachments stores an attachment list.
func (e *Entity) SetAttachments(name string, v []Attachment) bool { return e.Set(name, v) }

// SetStrings stores a string list.
func (e *Entity) SetStrings(name string, v []string) bool { return e.Set(name, v) }

// Get returns the raw value of the named field, or nil.
func (e *Entity) Get(name string) any {
	if f := e.Field(name); f != nil {
		return f.Value
	}
	return nil
}

// String returns a string field, or "" when missing or of another shape.
func (e *Entity) String(name string) string {
	v, _ := e.Get(name).(string)
	return v
}

// Int returns an integer field, or 0.
func (e *Entity) Int(name string) int64 {
	switch v := e.Get(name).(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Bool returns a boolean field, or false.
func (e *Entity) Bool(name string) bool {
	v, _ := e.Get(name).(bool)
	return v
}

// Time returns a timestamp field, or the zero time.
func (e *Entity) Time(name string) time.Time {
	v, _ := e.Get(name).(time.Time)
	return v
}

// RefField returns a reference field, or the zero reference.
func (e *Entity) RefField(name string) EntityRef {
	v, _ := e.Get(name).(EntityRef)
	return v
}

// Refs returns a reference list, or nil.
func (e *Entity) Refs(name string) []EntityRef {
	v, _ := e.Get(name).([]EntityRef)
	return v
}

// Attachments returns an attachment list, or nil.
func (e *Entity) Attachments(name string) []Attachment {
	v, _ := e.Get(name).([]Attachment)
	return v
}

// Strings returns a string list, or nil.
func (e *Entity) Strings(name string) []string {
	v, _ := e.Get(name).([]string)
	return v
}

// AddAttachment appends an attachment to the named list.
func (e *Entity) AddAttachment(name string, a Attachment) bool {
	list := append(append([]Attachment(nil), e.Attachments(name)...), a)
	return e.Set(name, list)
}

// RemoveAttachment drops the attachment with the given GUID from the named
// list. GUIDs compare case-insensitively.
func (e *Entity) RemoveAttachment(name, guid string) bool {
	current := e.Attachments(name)
	kept := make([]Attachment, 0, len(current))
	for _, a := range current {
		if !strings.EqualFold(a.GUID, guid) {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(current) {
		return false
	}
	return e.Set(name, kept)
}

// dataTypeOf infers a data type from a Go value, for fields that have no
// schema entry.
func dataTypeOf(v any) DataType {
	switch v.(type) {
	case string:
		return DataTypeString
	case int, int64:
		return DataTypeInt
	case bool:
		return DataTypeBoolean
	case time.Time:
		return DataTypeDate
	case EntityRef:
		return DataTypeEntity
	case []EntityRef:
		return DataTypeEntityList
	case []Attachment:
		return DataTypeAttachment
	case []string:
		return DataTypeStringList
	}
	return DataTypeUnknown
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string, int, int64, bool:
		return a == b
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case EntityRef:
		bv, ok := b.(EntityRef)
		return ok && av.Equal(bv)
	case []EntityRef:
		bv, ok := b.([]EntityRef)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
		return true
	case []Attachment:
		bv, ok := b.([]Attachment)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	}
	return false
}
