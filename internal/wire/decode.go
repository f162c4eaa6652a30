package wire

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// DecodeOptions controls parsing.
type DecodeOptions struct {
	// Minimal drops unselected options and dependency records, for bulk
	// listings.
	Minimal bool

	// Request reads an outbound document, which carries no field metadata.
	// Custom fields without a data-type keep their text as strings, and an
	// empty Custom_Field element reads as flagged for deletion.
	Request bool

	// Logger receives debug records for skipped input. Nil discards them.
	Logger *slog.Logger
}

func (o DecodeOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Decode parses one entity document. The root tag becomes the entity type.
// Malformed attributes and unknown custom fields never abort the parse.
func Decode(data []byte, opts DecodeOptions) (*types.Entity, error) {
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}
	e := decodeEntity(root, opts)
	e.FullyLoaded = !opts.Minimal
	return e, nil
}

func readRoot(data []byte) (*etree.Element, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, types.ErrEmptyDocument
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, types.ErrEmptyDocument
	}
	return root, nil
}

// decodeEntity builds an entity from el. Duplicate field names and custom
// field ids keep their first occurrence.
func decodeEntity(el *etree.Element, opts DecodeOptions) *types.Entity {
	log := opts.logger()
	e := types.NewEntity(el.Tag)
	e.ID = int64Attr(el, "id")
	schema := e.Schema()

	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, customFieldTag) {
			cf, err := DecodeCustomField(c, opts)
			if err != nil {
				log.Debug("skipping custom field", "entity", e.Type, "error", err)
				continue
			}
			if e.CustomField(types.ByID(cf.ID)) != nil {
				log.Debug("skipping duplicate custom field", "entity", e.Type, "id", cf.ID)
				continue
			}
			e.CustomFields = append(e.CustomFields, cf)
			continue
		}

		f := decodeStatic(c, schema, opts)
		if e.Field(f.Name) != nil {
			log.Debug("skipping duplicate field", "entity", e.Type, "field", f.Name)
			continue
		}
		if multipleFolders(schema, c.Tag, f) {
			e.MultipleFolders = true
		}
		e.Fields = append(e.Fields, f)
	}
	return e
}

// multipleFolders reports whether a decoded folder list arrived in the
// plural wrapper or holds more than one folder.
func multipleFolders(schema *types.Schema, tag string, f *types.StaticField) bool {
	spec, ok := schema.Field(f.Name)
	if !ok || !spec.Folders {
		return false
	}
	refs, _ := f.Value.([]types.EntityRef)
	return len(refs) > 1 || (len(refs) == 1 && tag != spec.SingleName)
}

// fieldSpec finds the spec for an element tag, also matching the single
// wrapper name of folder lists.
func fieldSpec(schema *types.Schema, tag string) (types.FieldSpec, bool) {
	if spec, ok := schema.Field(tag); ok {
		return spec, true
	}
	if schema == nil {
		return types.FieldSpec{}, false
	}
	for _, spec := range schema.Fields() {
		if spec.SingleName != "" && spec.SingleName == tag {
			return spec, true
		}
	}
	return types.FieldSpec{}, false
}

func decodeStatic(el *etree.Element, schema *types.Schema, opts DecodeOptions) *types.StaticField {
	spec, ok := fieldSpec(schema, el.Tag)
	if !ok {
		return decodeByShape(el, opts)
	}

	f := &types.StaticField{Name: spec.Name, DataType: spec.DataType}
	text := strings.TrimSpace(el.Text())
	switch spec.DataType {
	case types.DataTypeEntity:
		if kids := el.ChildElements(); len(kids) > 0 {
			f.Value = decodeRef(kids[0], opts)
		}
	case types.DataTypeEntityList:
		refs := []types.EntityRef{}
		for _, c := range el.ChildElements() {
			refs = append(refs, decodeRef(c, opts))
		}
		f.Value = refs
	case types.DataTypeAttachment:
		f.Value = decodeAttachments(el)
	case types.DataTypeStringList:
		f.Value = splitList(text)
	case types.DataTypeBoolean:
		b, _ := strconv.ParseBool(text)
		f.Value = b
	case types.DataTypeInt:
		n, _ := strconv.ParseInt(text, 10, 64)
		f.Value = n
	case types.DataTypeDate:
		if text == "" {
			break
		}
		if t, err := types.ParseTime(text); err == nil {
			f.Value = t
		} else {
			f.Value = text
		}
	default:
		f.Value = el.Text()
	}
	return f
}

// decodeByShape handles elements the schema table does not describe.
func decodeByShape(el *etree.Element, opts DecodeOptions) *types.StaticField {
	f := &types.StaticField{Name: el.Tag}
	kids := el.ChildElements()
	switch {
	case len(kids) == 0:
		f.DataType = types.DataTypeString
		f.Value = el.Text()
	case len(children(el, attachmentTag)) == len(kids):
		f.DataType = types.DataTypeAttachment
		f.Value = decodeAttachments(el)
	case len(kids) == 1:
		f.DataType = types.DataTypeEntity
		f.Value = decodeRef(kids[0], opts)
	default:
		refs := make([]types.EntityRef, 0, len(kids))
		for _, c := range kids {
			refs = append(refs, decodeRef(c, opts))
		}
		f.DataType = types.DataTypeEntityList
		f.Value = refs
	}
	return f
}

// decodeRef reads a reference node. Nested fields become a partial
// snapshot; the reference name comes from the snapshot's display field or
// a Name child.
func decodeRef(el *etree.Element, opts DecodeOptions) types.EntityRef {
	r := types.Ref(el.Tag, int64Attr(el, "id"))
	if len(el.ChildElements()) == 0 {
		return r
	}
	snap := decodeEntity(el, opts)
	snap.FullyLoaded = false
	r.Snapshot = snap
	r.Name = snap.DisplayName()
	if r.Name == "" {
		if n := child(el, "Name"); n != nil {
			r.Name = n.Text()
		}
	}
	return r
}

func decodeAttachments(el *etree.Element) []types.Attachment {
	out := []types.Attachment{}
	for _, c := range children(el, attachmentTag) {
		a := types.Attachment{}
		if n := child(c, "Guid"); n != nil {
			a.GUID = n.Text()
		}
		if n := child(c, "Name"); n != nil {
			a.Name = n.Text()
		}
		if n := child(c, "Url"); n != nil {
			a.URL = n.Text()
		}
		if n := child(c, "Error"); n != nil {
			a.Error = n.Text()
		}
		if n := child(c, "Success"); n != nil {
			a.Success, _ = strconv.ParseBool(strings.TrimSpace(n.Text()))
		}
		out = append(out, a)
	}
	return out
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
