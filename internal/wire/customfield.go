package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

var entityDecoder = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// DecodeCustomField reads one Custom_Field element. Only a missing or
// non-numeric id is an error; every other malformed attribute falls back to
// its zero value.
func DecodeCustomField(el *etree.Element, opts DecodeOptions) (*types.CustomField, error) {
	raw, _ := attr(el, "id")
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("custom field id %q: %w", raw, types.ErrInvalidDocument)
	}

	cf := &types.CustomField{
		ID:         id,
		Required:   boolAttr(el, "required"),
		Editable:   boolAttr(el, "editable"),
		MaxLength:  intAttr(el, "max-length"),
		MultiValue: boolAttr(el, "multi-value"),
		Dependent:  boolAttr(el, "dependent"),
	}
	cf.Name, _ = attr(el, "display-name")
	tag, _ := attr(el, "data-type")
	cf.DataType = types.ParseDataType(tag)
	if opts.Request && tag == "" {
		cf.DataType = types.DataTypeString
	}

	options := children(el, optionTag)
	if len(options) == 0 {
		text := el.Text()
		if opts.Request && text == "" && len(el.ChildElements()) == 0 {
			cf.FlagToDelete = true
			return cf, nil
		}
		cf.Value = scalarValue(cf.DataType, entityDecoder.Replace(text))
		return cf, nil
	}

	for _, o := range options {
		opt := decodeOption(o, opts)
		if opts.Minimal && !opt.Selected {
			continue
		}
		cf.Options = append(cf.Options, opt)
	}
	return cf, nil
}

func decodeOption(el *etree.Element, opts DecodeOptions) *types.CustomFieldOption {
	opt := &types.CustomFieldOption{
		ID:        int64Attr(el, "id"),
		Selected:  boolAttr(el, "selected"),
		Dependent: boolAttr(el, "dependent"),
	}
	for _, c := range el.ChildElements() {
		switch strings.ToLower(c.Tag) {
		case "value":
			opt.Name = c.Text()
		case "enables":
			if opts.Minimal {
				continue
			}
			if dep, ok := parseDependency(c.Text()); ok {
				opt.Dependencies = append(opt.Dependencies, dep)
			}
		}
	}
	return opt
}

// scalarValue normalizes inbound text to the canonical form for dt.
// Unparseable values are kept as sent.
func scalarValue(dt types.DataType, text string) string {
	switch dt {
	case types.DataTypeDate:
		v, _ := types.CanonicalTime(text)
		return v
	case types.DataTypeBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return strconv.FormatBool(b)
		}
	case types.DataTypeInt:
		if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
	}
	return text
}

// attr returns the value of the attribute named key, matching the name
// without regard to case.
func attr(el *etree.Element, key string) (string, bool) {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Value, true
		}
	}
	return "", false
}

func boolAttr(el *etree.Element, key string) bool {
	v, _ := attr(el, key)
	b, _ := strconv.ParseBool(strings.TrimSpace(v))
	return b
}

func intAttr(el *etree.Element, key string) int {
	v, _ := attr(el, key)
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func int64Attr(el *etree.Element, key string) int64 {
	v, _ := attr(el, key)
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// children returns the child elements whose tag matches tag, ignoring case.
func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, tag) {
			out = append(out, c)
		}
	}
	return out
}

func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if strings.EqualFold(c.Tag, tag) {
			return c
		}
	}
	return nil
}
