// Package fixture reads and writes entities as YAML documents and builds
// fake entities for tests and samples.
//
// A fixture names a catalogued entity type and lists its static fields in
// wire order. Field values are interpreted through the type's schema:
//
//	type: Ticket
//	id: 12
//	fields:
//	  Department: 4
//	  Hide_From_Customer: true
//	  Cc_Csr: [a@example.com, b@example.com]
//	  Ticket_Attachments:
//	    - {guid: 7d1c, name: log.txt}
//	custom_fields:
//	  - {id: 42, data_type: string, value: north}
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// document is the YAML shape of one fixture.
type document struct {
	Type                      string               `yaml:"type"`
	ID                        int64                `yaml:"id,omitempty"`
	MultipleFolders           bool                 `yaml:"multiple_folders,omitempty"`
	AllowDeleteAllAttachments bool                 `yaml:"allow_delete_all_attachments,omitempty"`
	Fields                    yaml.Node            `yaml:"fields,omitempty"`
	CustomFields              []*types.CustomField `yaml:"custom_fields,omitempty"`
}

type refDoc struct {
	Type string `yaml:"type,omitempty"`
	ID   int64  `yaml:"id"`
}

// LoadFile reads one fixture from path.
func LoadFile(path string) (*types.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads one fixture from r.
func Load(r io.Reader) (*types.Entity, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty fixture: %w", types.ErrInvalidFixture)
		}
		return nil, fmt.Errorf("decode fixture: %w: %v", types.ErrInvalidFixture, err)
	}
	return doc.entity()
}

// Parse reads one fixture from data.
func Parse(data []byte) (*types.Entity, error) {
	return Load(bytes.NewReader(data))
}

func (d *document) entity() (*types.Entity, error) {
	schema, ok := types.LookupSchema(d.Type)
	if !ok {
		return nil, fmt.Errorf("fixture type %q: %w", d.Type, types.ErrUnknownEntityType)
	}
	e := types.NewEntity(schema.Type)
	e.ID = d.ID
	e.MultipleFolders = d.MultipleFolders
	e.AllowDeleteAllAttachments = d.AllowDeleteAllAttachments
	e.FullyLoaded = true

	if d.Fields.Kind != 0 {
		if d.Fields.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("fixture fields must be a mapping: %w", types.ErrInvalidFixture)
		}
		content := d.Fields.Content
		for i := 0; i+1 < len(content); i += 2 {
			name := content[i].Value
			spec, ok := schema.Field(name)
			if !ok {
				return nil, fmt.Errorf("fixture %s field %q: not in schema: %w", schema.Type, name, types.ErrInvalidFixture)
			}
			value, err := fieldValue(spec, content[i+1])
			if err != nil {
				return nil, fmt.Errorf("fixture %s field %q: %w", schema.Type, name, err)
			}
			e.Set(name, value)
		}
	}

	for _, cf := range d.CustomFields {
		if cf == nil {
			continue
		}
		if e.CustomField(types.ByID(cf.ID)) != nil {
			return nil, fmt.Errorf("fixture custom field %d: duplicate id: %w", cf.ID, types.ErrInvalidFixture)
		}
		if cf.DataType == "" {
			cf.DataType = types.DataTypeString
			if len(cf.Options) > 0 {
				cf.DataType = types.DataTypeOption
			}
		}
		e.CustomFields = append(e.CustomFields, cf)
	}
	e.MarkClean()
	return e, nil
}

func fieldValue(spec types.FieldSpec, n *yaml.Node) (any, error) {
	var err error
	switch spec.DataType {
	case types.DataTypeBoolean:
		var b bool
		err = n.Decode(&b)
		return b, wrap(err)
	case types.DataTypeInt:
		var i int64
		err = n.Decode(&i)
		return i, wrap(err)
	case types.DataTypeDate:
		var s string
		if err = n.Decode(&s); err != nil {
			return nil, wrap(err)
		}
		t, err := types.ParseTime(s)
		return t, wrap(err)
	case types.DataTypeEntity:
		return refValue(spec, n)
	case types.DataTypeEntityList:
		if n.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("expected a list: %w", types.ErrInvalidFixture)
		}
		refs := make([]types.EntityRef, 0, len(n.Content))
		for _, item := range n.Content {
			r, err := refValue(spec, item)
			if err != nil {
				return nil, err
			}
			refs = append(refs, r)
		}
		return refs, nil
	case types.DataTypeAttachment:
		var list []types.Attachment
		err = n.Decode(&list)
		if list == nil {
			list = []types.Attachment{}
		}
		return list, wrap(err)
	case types.DataTypeStringList:
		var list []string
		err = n.Decode(&list)
		return list, wrap(err)
	default:
		var s string
		err = n.Decode(&s)
		return s, wrap(err)
	}
}

// refValue accepts either a bare id or a {type, id} mapping. The type
// defaults to the field's declared reference type.
func refValue(spec types.FieldSpec, n *yaml.Node) (types.EntityRef, error) {
	var doc refDoc
	if n.Kind == yaml.ScalarNode {
		if err := n.Decode(&doc.ID); err != nil {
			return types.EntityRef{}, wrap(err)
		}
	} else if err := n.Decode(&doc); err != nil {
		return types.EntityRef{}, wrap(err)
	}
	if doc.Type == "" {
		doc.Type = spec.RefType
	}
	return types.Ref(doc.Type, doc.ID), nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", types.ErrInvalidFixture, err)
}

// Marshal renders e in fixture form. Values of fields the schema does not
// describe are written as they are.
func Marshal(e *types.Entity) ([]byte, error) {
	doc := document{
		Type:                      e.Type,
		ID:                        e.ID,
		MultipleFolders:           e.MultipleFolders,
		AllowDeleteAllAttachments: e.AllowDeleteAllAttachments,
		CustomFields:              e.CustomFields,
	}
	if len(e.Fields) > 0 {
		doc.Fields = yaml.Node{Kind: yaml.MappingNode}
		for _, f := range e.Fields {
			if f.Value == nil {
				continue
			}
			var value yaml.Node
			if err := value.Encode(yamlValue(f.Value)); err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", f.Name, err)
			}
			key := yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}
			doc.Fields.Content = append(doc.Fields.Content, &key, &value)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("marshal fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal fixture: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlValue(v any) any {
	switch v := v.(type) {
	case time.Time:
		return types.FormatTime(v)
	case types.EntityRef:
		return refDoc{Type: v.Type, ID: v.ID}
	case []types.EntityRef:
		out := make([]refDoc, len(v))
		for i, r := range v {
			out[i] = refDoc{Type: r.Type, ID: r.ID}
		}
		return out
	}
	return v
}
