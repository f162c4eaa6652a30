package types

import "strings"

// DataType is the declared data-type tag of a static or custom field.
type DataType string

// Field data types. The wire tags of custom fields map onto these through
// ParseDataType; the remaining values describe static field shapes.
const (
	DataTypeUnknown    DataType = "unknown"
	DataTypeString     DataType = "string"
	DataTypeInt        DataType = "int"
	DataTypeFloat      DataType = "float"
	DataTypeBoolean    DataType = "boolean"
	DataTypeDate       DataType = "date"
	DataTypeOption     DataType = "option"
	DataTypeReadOnly   DataType = "readonly"
	DataTypeAttachment DataType = "attachment"
	DataTypeEntity     DataType = "entity"
	DataTypeEntityList DataType = "entitylist"
	DataTypeStringList DataType = "stringlist"
)

// dataTypeAliases maps lowercased wire tags to data types. The service uses
// a few spellings for the same tag.
var dataTypeAliases = map[string]DataType{
	"string":     DataTypeString,
	"text":       DataTypeString,
	"email":      DataTypeString,
	"url":        DataTypeString,
	"int":        DataTypeInt,
	"integer":    DataTypeInt,
	"float":      DataTypeFloat,
	"decimal":    DataTypeFloat,
	"money":      DataTypeFloat,
	"boolean":    DataTypeBoolean,
	"bool":       DataTypeBoolean,
	"date":       DataTypeDate,
	"datetime":   DataTypeDate,
	"usdate":     DataTypeDate,
	"option":     DataTypeOption,
	"readonly":   DataTypeReadOnly,
	"attachment": DataTypeAttachment,
	"entity":     DataTypeEntity,
	"entitylist": DataTypeEntityList,
	"stringlist": DataTypeStringList,
}

// ParseDataType maps a wire data-type tag to a DataType. Matching is
// case-insensitive and ignores surrounding space. Unrecognized tags yield
// DataTypeUnknown; this never fails.
func ParseDataType(tag string) DataType {
	if dt, ok := dataTypeAliases[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return dt
	}
	return DataTypeUnknown
}

// IsScalar reports whether values of this type travel as element text.
func (dt DataType) IsScalar() bool {
	switch dt {
	case DataTypeString, DataTypeInt, DataTypeFloat, DataTypeBoolean, DataTypeDate:
		return true
	}
	return false
}
