package types

import (
	"strconv"
	"strings"
	"time"
)

// FieldKey selects a custom field by id or by display name.
type FieldKey struct {
	id         int64
	name       string
	byName     bool
	ignoreCase bool
}

// ByID keys a custom field by its numeric id.
func ByID(id int64) FieldKey { return FieldKey{id: id} }

// ByName keys a custom field by display name, ignoring case.
func ByName(name string) FieldKey { return FieldKey{name: name, byName: true, ignoreCase: true} }

// ByNameExact keys a custom field by display name, matching case.
func ByNameExact(name string) FieldKey { return FieldKey{name: name, byName: true} }

func (k FieldKey) String() string {
	if k.byName {
		return "name:" + k.name
	}
	return "id:" + strconv.FormatInt(k.id, 10)
}

// OptionKey selects an option of a custom field by id or by name.
type OptionKey struct {
	id         int64
	name       string
	byName     bool
	ignoreCase bool
}

// OptionID keys an option by id.
func OptionID(id int64) OptionKey { return OptionKey{id: id} }

// OptionName keys an option by name.
func OptionName(name string, ignoreCase bool) OptionKey {
	return OptionKey{name: name, byName: true, ignoreCase: ignoreCase}
}

func (k OptionKey) matches(name string) bool {
	if k.ignoreCase {
		return strings.EqualFold(k.name, name)
	}
	return k.name == name
}

// CustomField returns the field matching key. Name keys that match no field
// or more than one field return nil.
func (e *Entity) CustomField(key FieldKey) *CustomField {
	if !key.byName {
		for _, cf := range e.CustomFields {
			if cf.ID == key.id {
				return cf
			}
		}
		return nil
	}
	var found *CustomField
	for _, cf := range e.CustomFields {
		match := cf.Name == key.name
		if key.ignoreCase {
			match = strings.EqualFold(cf.Name, key.name)
		}
		if !match {
			continue
		}
		if found != nil {
			return nil
		}
		found = cf
	}
	return found
}

// customField looks key up and, for id keys only, creates the field with
// data type dt when it is missing.
func (e *Entity) customField(key FieldKey, dt DataType) *CustomField {
	if cf := e.CustomField(key); cf != nil {
		return cf
	}
	if key.byName {
		return nil
	}
	cf := &CustomField{ID: key.id, DataType: dt, Editable: true}
	e.CustomFields = append(e.CustomFields, cf)
	return cf
}

// SetCustomFieldValue replaces the scalar text of a custom field. Values of
// date fields are stored in the wire layout when they can be read. It
// reports whether the stored value changed.
func (e *Entity) SetCustomFieldValue(key FieldKey, value string, ignoreCase bool) bool {
	cf := e.customField(key, DataTypeString)
	if cf == nil {
		return false
	}
	if cf.DataType == DataTypeDate {
		value, _ = CanonicalTime(value)
	}
	return e.track(cf.setValue(value, ignoreCase))
}

// SetCustomFieldTime stores t in the wire layout, in UTC.
func (e *Entity) SetCustomFieldTime(key FieldKey, t time.Time) bool {
	cf := e.customField(key, DataTypeDate)
	if cf == nil {
		return false
	}
	return e.track(cf.setValue(FormatTime(t), false))
}

// SetCustomFieldBool stores b as "true" or "false".
func (e *Entity) SetCustomFieldBool(key FieldKey, b bool) bool {
	cf := e.customField(key, DataTypeBoolean)
	if cf == nil {
		return false
	}
	return e.track(cf.setValue(strconv.FormatBool(b), true))
}

// SetCustomFieldInt stores n in decimal.
func (e *Entity) SetCustomFieldInt(key FieldKey, n int64) bool {
	cf := e.customField(key, DataTypeInt)
	if cf == nil {
		return false
	}
	return e.track(cf.setValue(strconv.FormatInt(n, 10), false))
}

func (cf *CustomField) setValue(value string, ignoreCase bool) bool {
	if cf.Value == value || (ignoreCase && strings.EqualFold(cf.Value, value)) {
		return false
	}
	cf.Value = value
	cf.FlagToDelete = false
	return true
}

// SetSelectedOption selects the target option and deselects every other one.
// An option keyed by id is created when missing.
func (e *Entity) SetSelectedOption(key FieldKey, opt OptionKey) bool {
	cf := e.customField(key, DataTypeOption)
	if cf == nil {
		return false
	}
	target := cf.option(opt, true)
	if target == nil {
		return false
	}
	changed := cf.selectOnly(target)
	if changed {
		cf.FlagToDelete = false
	}
	return e.track(changed)
}

// AddSelectedOption selects the target option and leaves the others alone.
// On a single-value field it behaves like SetSelectedOption. A field created
// by this call is multi-value.
func (e *Entity) AddSelectedOption(key FieldKey, opt OptionKey) bool {
	cf := e.CustomField(key)
	if cf == nil {
		if cf = e.customField(key, DataTypeOption); cf == nil {
			return false
		}
		cf.MultiValue = true
	}
	if !cf.MultiValue {
		return e.SetSelectedOption(key, opt)
	}
	target := cf.option(opt, true)
	if target == nil || target.Selected {
		return false
	}
	target.Selected = true
	cf.FlagToDelete = false
	return e.track(true)
}

// ResetCustomField deselects every option of the field. It reports true only
// when at least one option was selected.
func (e *Entity) ResetCustomField(key FieldKey) bool {
	cf := e.CustomField(key)
	if cf == nil {
		return false
	}
	return e.track(cf.reset())
}

// FlagCustomFieldToDelete clears the field and marks it so the serializer
// emits an empty element for it. Id keys create the field when missing.
func (e *Entity) FlagCustomFieldToDelete(key FieldKey) bool {
	cf := e.customField(key, DataTypeString)
	if cf == nil {
		return false
	}
	changed := cf.reset()
	if cf.Value != "" {
		cf.Value = ""
		changed = true
	}
	if !cf.FlagToDelete {
		cf.FlagToDelete = true
		changed = true
	}
	return e.track(changed)
}

// CustomFieldValue returns the field's text: selected option names joined
// with "||" for option fields, the stored value otherwise, "" when absent.
func (e *Entity) CustomFieldValue(key FieldKey) string {
	cf := e.CustomField(key)
	if cf == nil {
		return ""
	}
	return cf.Text()
}

// SelectedOption returns the first selected option, or nil.
func (e *Entity) SelectedOption(key FieldKey) *CustomFieldOption {
	if selected := e.SelectedOptions(key); len(selected) > 0 {
		return selected[0]
	}
	return nil
}

// SelectedOptions returns every selected option. The result is never nil.
func (e *Entity) SelectedOptions(key FieldKey) []*CustomFieldOption {
	cf := e.CustomField(key)
	if cf == nil {
		return []*CustomFieldOption{}
	}
	return cf.Selected()
}

// CustomFieldOptions returns all options of the field, or nil when absent.
func (e *Entity) CustomFieldOptions(key FieldKey) []*CustomFieldOption {
	if cf := e.CustomField(key); cf != nil {
		return cf.Options
	}
	return nil
}

// CustomFieldName returns the display name of the field with the given id.
func (e *Entity) CustomFieldName(id int64) string {
	if cf := e.CustomField(ByID(id)); cf != nil {
		return cf.Name
	}
	return ""
}

// CustomFieldID returns the id of the field with the given display name,
// ignoring case. It returns -1 when no field or more than one field matches.
func (e *Entity) CustomFieldID(name string) int64 {
	if cf := e.CustomField(ByName(name)); cf != nil {
		return cf.ID
	}
	return -1
}
