package types

import (
	"strconv"
	"strings"
	"time"
)

// CustomField is a per-deployment field identified by a numeric id. It holds
// either a scalar value in canonical text form or a list of options.
type CustomField struct {
	ID           int64                `json:"id" yaml:"id"`
	Name         string               `json:"name,omitempty" yaml:"name,omitempty"`
	Required     bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Editable     bool                 `json:"editable,omitempty" yaml:"editable,omitempty"`
	MaxLength    int                  `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	DataType     DataType             `json:"data_type" yaml:"data_type"`
	MultiValue   bool                 `json:"multi_value,omitempty" yaml:"multi_value,omitempty"`
	Dependent    bool                 `json:"dependent,omitempty" yaml:"dependent,omitempty"`
	FlagToDelete bool                 `json:"flag_to_delete,omitempty" yaml:"flag_to_delete,omitempty"`
	Value        string               `json:"value,omitempty" yaml:"value,omitempty"`
	Options      []*CustomFieldOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// CustomFieldOption is one selectable choice of an option field.
type CustomFieldOption struct {
	ID           int64            `json:"id" yaml:"id"`
	Name         string           `json:"name,omitempty" yaml:"name,omitempty"`
	Selected     bool             `json:"selected,omitempty" yaml:"selected,omitempty"`
	Dependent    bool             `json:"dependent,omitempty" yaml:"dependent,omitempty"`
	Dependencies []DependentField `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// DependentField records that selecting an option enables options of another
// custom field. Path is the raw expression the service sent.
type DependentField struct {
	FieldID   int64   `json:"field_id" yaml:"field_id"`
	OptionIDs []int64 `json:"option_ids,omitempty" yaml:"option_ids,omitempty"`
	Path      string  `json:"path,omitempty" yaml:"path,omitempty"`
}

// HasOptions reports whether the field is option-typed.
func (cf *CustomField) HasOptions() bool {
	return len(cf.Options) > 0 || cf.DataType == DataTypeOption
}

// Selected returns the selected options in declaration order. The result is
// never nil.
func (cf *CustomField) Selected() []*CustomFieldOption {
	out := []*CustomFieldOption{}
	for _, o := range cf.Options {
		if o.Selected {
			out = append(out, o)
		}
	}
	return out
}

// Text returns the selected option names joined with "||" for option fields,
// or the stored value otherwise.
func (cf *CustomField) Text() string {
	if !cf.HasOptions() {
		return cf.Value
	}
	selected := cf.Selected()
	names := make([]string, len(selected))
	for i, o := range selected {
		names[i] = o.Name
	}
	return strings.Join(names, "||")
}

// Time parses the stored value as a timestamp.
func (cf *CustomField) Time() (time.Time, bool) {
	t, err := ParseTime(cf.Value)
	return t, err == nil
}

// Bool parses the stored value as a boolean. Anything unparseable is false.
func (cf *CustomField) Bool() bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(cf.Value))
	return b
}

// Int parses the stored value as an integer. Anything unparseable is 0.
func (cf *CustomField) Int() int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(cf.Value), 10, 64)
	return n
}

// option finds the option matching key. When create is set and key names an
// id, a missing option is appended.
func (cf *CustomField) option(key OptionKey, create bool) *CustomFieldOption {
	if key.byName {
		var found *CustomFieldOption
		for _, o := range cf.Options {
			if key.matches(o.Name) {
				if found != nil {
					return nil
				}
				found = o
			}
		}
		return found
	}
	for _, o := range cf.Options {
		if o.ID == key.id {
			return o
		}
	}
	if !create {
		return nil
	}
	o := &CustomFieldOption{ID: key.id}
	cf.Options = append(cf.Options, o)
	return o
}

// selectOnly selects target and deselects every other option.
func (cf *CustomField) selectOnly(target *CustomFieldOption) bool {
	changed := false
	for _, o := range cf.Options {
		want := o == target
		if o.Selected != want {
			o.Selected = want
			changed = true
		}
	}
	return changed
}

// reset deselects every option.
func (cf *CustomField) reset() bool {
	changed := false
	for _, o := range cf.Options {
		if o.Selected {
			o.Selected = false
			changed = true
		}
	}
	return changed
}
