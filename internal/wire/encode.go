package wire

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

const (
	customFieldTag = "Custom_Field"
	optionTag      = "Option"
	attachmentTag  = "Attachment"
)

var writeSettings = etree.WriteSettings{
	CanonicalText:    true,
	CanonicalAttrVal: true,
}

// Encode renders e as an outbound document. Folder lists are validated
// before anything is built; a value shape without a wire rule fails with
// types.ErrUnsupportedValue.
func Encode(e *types.Entity) ([]byte, error) {
	if e == nil || e.Type == "" {
		return nil, fmt.Errorf("encode: entity has no type: %w", types.ErrUnknownEntityType)
	}
	if err := validateFolders(e); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.WriteSettings = writeSettings
	root := doc.CreateElement(e.Type)
	if e.ID > 0 {
		root.CreateAttr("id", strconv.FormatInt(e.ID, 10))
	}

	schema := e.Schema()
	for _, f := range e.Fields {
		if err := encodeStatic(root, e, schema, f); err != nil {
			return nil, fmt.Errorf("encode %s field %s: %w", e.Type, f.Name, err)
		}
	}
	for _, cf := range e.CustomFields {
		encodeCustomField(root, cf)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return out, nil
}

func validateFolders(e *types.Entity) error {
	if e.MultipleFolders {
		return nil
	}
	schema := e.Schema()
	for _, f := range e.Fields {
		spec, ok := schema.Field(f.Name)
		if !ok || !spec.Folders {
			continue
		}
		if refs, _ := f.Value.([]types.EntityRef); len(refs) > 1 {
			return fmt.Errorf("encode %s field %s: %d folders: %w", e.Type, f.Name, len(refs), types.ErrTooManyFolders)
		}
	}
	return nil
}

func encodeStatic(root *etree.Element, e *types.Entity, schema *types.Schema, f *types.StaticField) error {
	if f == nil || f.Value == nil || f.Ignore {
		return nil
	}
	spec, _ := schema.Field(f.Name)
	if spec.ReadOnly {
		return nil
	}

	switch v := f.Value.(type) {
	case string:
		if v == "" {
			return nil
		}
		el := root.CreateElement(f.Name)
		if spec.CDATA && !strings.Contains(v, "]]>") {
			el.SetCData(v)
		} else {
			el.SetText(v)
		}
	case int:
		root.CreateElement(f.Name).SetText(strconv.Itoa(v))
	case int64:
		root.CreateElement(f.Name).SetText(strconv.FormatInt(v, 10))
	case bool:
		root.CreateElement(f.Name).SetText(strconv.FormatBool(v))
	case time.Time:
		if v.IsZero() {
			return nil
		}
		root.CreateElement(f.Name).SetText(types.FormatTime(v))
	case []string:
		if len(v) == 0 {
			return nil
		}
		root.CreateElement(f.Name).SetText(strings.Join(v, ","))
	case types.EntityRef:
		if v.IsZero() {
			return nil
		}
		child := spec.ChildName(v.Type)
		if child == "" {
			return fmt.Errorf("reference without a type: %w", types.ErrUnsupportedValue)
		}
		el := root.CreateElement(f.Name)
		el.CreateElement(child).CreateAttr("id", strconv.FormatInt(v.ID, 10))
	case []types.EntityRef:
		return encodeRefList(root, e, spec, f.Name, v)
	case []types.Attachment:
		if len(v) == 0 {
			if e.AllowDeleteAllAttachments {
				root.CreateElement(f.Name)
			}
			return nil
		}
		el := root.CreateElement(f.Name)
		for _, a := range v {
			att := el.CreateElement(attachmentTag)
			att.CreateElement("Guid").SetText(a.GUID)
			att.CreateElement("Name").SetText(a.Name)
		}
	default:
		return fmt.Errorf("value of type %T: %w", f.Value, types.ErrUnsupportedValue)
	}
	return nil
}

func encodeRefList(root *etree.Element, e *types.Entity, spec types.FieldSpec, name string, refs []types.EntityRef) error {
	if len(refs) == 0 {
		return nil
	}
	if spec.Folders && !e.MultipleFolders && spec.SingleName != "" {
		name = spec.SingleName
	}
	el := root.CreateElement(name)
	for _, r := range refs {
		child := spec.ChildName(r.Type)
		if child == "" {
			return fmt.Errorf("reference without a type: %w", types.ErrUnsupportedValue)
		}
		el.CreateElement(child).CreateAttr("id", strconv.FormatInt(r.ID, 10))
	}
	return nil
}

// encodeCustomField appends the element for cf when it has something to
// say. Flagged fields always travel, as an empty element.
func encodeCustomField(root *etree.Element, cf *types.CustomField) {
	if cf == nil {
		return
	}
	id := strconv.FormatInt(cf.ID, 10)
	if cf.FlagToDelete {
		root.CreateElement(customFieldTag).CreateAttr("id", id)
		return
	}

	if cf.HasOptions() {
		if len(cf.Selected()) == 0 {
			return
		}
		el := root.CreateElement(customFieldTag)
		el.CreateAttr("id", id)
		for _, o := range cf.Options {
			opt := el.CreateElement(optionTag)
			opt.CreateAttr("id", strconv.FormatInt(o.ID, 10))
			if o.Selected {
				opt.CreateAttr("selected", "true")
			}
		}
		return
	}

	value, ok := scalarText(cf)
	if !ok {
		return
	}
	el := root.CreateElement(customFieldTag)
	el.CreateAttr("id", id)
	el.SetText(value)
}

// scalarText returns the outbound text of a scalar custom field and whether
// it should be emitted at all.
func scalarText(cf *types.CustomField) (string, bool) {
	if cf.Value == "" {
		return "", false
	}
	switch cf.DataType {
	case types.DataTypeReadOnly, types.DataTypeUnknown:
		return "", false
	case types.DataTypeDate:
		v, _ := types.CanonicalTime(cf.Value)
		return v, true
	case types.DataTypeBoolean:
		switch strings.ToLower(cf.Value) {
		case "true":
			return "true", true
		case "false":
			return "false", true
		}
	}
	return cf.Value, true
}
