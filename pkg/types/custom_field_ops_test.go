package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionField(id int64, multi bool, opts ...int64) *CustomField {
	cf := &CustomField{ID: id, Name: "Field", DataType: DataTypeOption, MultiValue: multi}
	for _, o := range opts {
		cf.Options = append(cf.Options, &CustomFieldOption{ID: o, Name: "opt"})
	}
	return cf
}

func selectedIDs(opts []*CustomFieldOption) []int64 {
	ids := []int64{}
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestSetCustomFieldValue(t *testing.T) {
	tests := []struct {
		name       string
		initial    string
		value      string
		ignoreCase bool
		wantChange bool
		wantValue  string
	}{
		{name: "new value", initial: "a", value: "b", wantChange: true, wantValue: "b"},
		{name: "identical value", initial: "a", value: "a", wantValue: "a"},
		{name: "case differs, case-sensitive", initial: "abc", value: "ABC", wantChange: true, wantValue: "ABC"},
		{name: "case differs, ignoring case", initial: "abc", value: "ABC", ignoreCase: true, wantValue: "abc"},
		{name: "clear value", initial: "a", value: "", wantChange: true, wantValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntity(EntityTicket)
			e.CustomFields = []*CustomField{{ID: 7, DataType: DataTypeString, Value: tt.initial}}

			changed := e.SetCustomFieldValue(ByID(7), tt.value, tt.ignoreCase)

			assert.Equal(t, tt.wantChange, changed)
			assert.Equal(t, tt.wantChange, e.IsDirty())
			assert.Equal(t, tt.wantValue, e.CustomFieldValue(ByID(7)))
		})
	}
}

func TestSetCustomFieldValueCreatesByIDOnly(t *testing.T) {
	e := NewEntity(EntityTicket)

	assert.False(t, e.SetCustomFieldValue(ByName("Region"), "north", true))
	assert.Empty(t, e.CustomFields)
	assert.False(t, e.IsDirty())

	assert.True(t, e.SetCustomFieldValue(ByID(12), "north", false))
	require.Len(t, e.CustomFields, 1)
	assert.Equal(t, int64(12), e.CustomFields[0].ID)
	assert.Equal(t, DataTypeString, e.CustomFields[0].DataType)
	assert.True(t, e.IsDirty())

	assert.False(t, e.SetCustomFieldValue(ByID(12), "north", false))
	assert.Len(t, e.CustomFields, 1)
}

func TestSetCustomFieldValueNormalizesDates(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{{ID: 3, DataType: DataTypeDate}}

	require.True(t, e.SetCustomFieldValue(ByID(3), "2024-05-01T10:11:12+02:00", false))
	assert.Equal(t, "2024-05-01T08:11:12Z", e.CustomFieldValue(ByID(3)))

	assert.False(t, e.SetCustomFieldValue(ByID(3), "2024-05-01T08:11:12Z", false))
}

func TestSetCustomFieldTyped(t *testing.T) {
	e := NewEntity(EntityAsset)
	at := time.Date(2024, 1, 2, 3, 4, 5, 999_000_000, time.FixedZone("x", -5*3600))

	assert.True(t, e.SetCustomFieldTime(ByID(1), at))
	assert.True(t, e.SetCustomFieldBool(ByID(2), true))
	assert.True(t, e.SetCustomFieldInt(ByID(3), -42))

	assert.Equal(t, "2024-01-02T08:04:05Z", e.CustomFieldValue(ByID(1)))
	assert.Equal(t, "true", e.CustomFieldValue(ByID(2)))
	assert.Equal(t, "-42", e.CustomFieldValue(ByID(3)))
	assert.Equal(t, DataTypeDate, e.CustomField(ByID(1)).DataType)
	assert.Equal(t, DataTypeBoolean, e.CustomField(ByID(2)).DataType)
	assert.Equal(t, DataTypeInt, e.CustomField(ByID(3)).DataType)

	got, ok := e.CustomField(ByID(1)).Time()
	require.True(t, ok)
	assert.True(t, got.Equal(at.Truncate(time.Second)))
	assert.True(t, e.CustomField(ByID(2)).Bool())
	assert.Equal(t, int64(-42), e.CustomField(ByID(3)).Int())

	e.MarkClean()
	assert.False(t, e.SetCustomFieldBool(ByID(2), true))
	assert.False(t, e.IsDirty())
}

func TestSetSelectedOptionKeepsSingleSelection(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{optionField(5, false, 1, 2, 3)}

	steps := []struct {
		opt        OptionKey
		wantChange bool
		want       []int64
	}{
		{OptionID(1), true, []int64{1}},
		{OptionID(2), true, []int64{2}},
		{OptionID(2), false, []int64{2}},
		{OptionID(9), true, []int64{9}},
		{OptionID(3), true, []int64{3}},
	}
	for _, s := range steps {
		assert.Equal(t, s.wantChange, e.SetSelectedOption(ByID(5), s.opt))
		assert.Equal(t, s.want, selectedIDs(e.SelectedOptions(ByID(5))))
	}
	assert.Len(t, e.CustomFieldOptions(ByID(5)), 4)
}

func TestSetSelectedOptionByName(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{{
		ID: 5, Name: "Color", DataType: DataTypeOption,
		Options: []*CustomFieldOption{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}},
	}}

	assert.False(t, e.SetSelectedOption(ByID(5), OptionName("blue", false)))
	assert.True(t, e.SetSelectedOption(ByID(5), OptionName("blue", true)))
	require.NotNil(t, e.SelectedOption(ByName("color")))
	assert.Equal(t, int64(2), e.SelectedOption(ByName("color")).ID)
	assert.False(t, e.SetSelectedOption(ByID(5), OptionName("Green", true)))
}

func TestAddSelectedOption(t *testing.T) {
	t.Run("multi-value keeps earlier selections", func(t *testing.T) {
		e := NewEntity(EntityTicket)
		e.CustomFields = []*CustomField{optionField(5, true, 1, 2, 3)}

		assert.True(t, e.AddSelectedOption(ByID(5), OptionID(1)))
		assert.True(t, e.AddSelectedOption(ByID(5), OptionID(3)))
		assert.False(t, e.AddSelectedOption(ByID(5), OptionID(3)))
		assert.Equal(t, []int64{1, 3}, selectedIDs(e.SelectedOptions(ByID(5))))
	})

	t.Run("single-value behaves like set", func(t *testing.T) {
		e := NewEntity(EntityTicket)
		e.CustomFields = []*CustomField{optionField(5, false, 1, 2)}

		assert.True(t, e.AddSelectedOption(ByID(5), OptionID(1)))
		assert.True(t, e.AddSelectedOption(ByID(5), OptionID(2)))
		assert.Equal(t, []int64{2}, selectedIDs(e.SelectedOptions(ByID(5))))
	})

	t.Run("creating the field makes it multi-value", func(t *testing.T) {
		e := NewEntity(EntityTicket)

		assert.True(t, e.AddSelectedOption(ByID(8), OptionID(1)))
		assert.True(t, e.AddSelectedOption(ByID(8), OptionID(2)))
		cf := e.CustomField(ByID(8))
		require.NotNil(t, cf)
		assert.True(t, cf.MultiValue)
		assert.Equal(t, DataTypeOption, cf.DataType)
		assert.Equal(t, []int64{1, 2}, selectedIDs(cf.Selected()))
	})
}

func TestResetCustomField(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{optionField(5, true, 1, 2)}
	e.AddSelectedOption(ByID(5), OptionID(1))
	e.AddSelectedOption(ByID(5), OptionID(2))
	e.MarkClean()

	assert.True(t, e.ResetCustomField(ByID(5)))
	assert.True(t, e.IsDirty())
	assert.False(t, e.ResetCustomField(ByID(5)))
	assert.Empty(t, e.SelectedOptions(ByID(5)))
	assert.NotNil(t, e.SelectedOptions(ByID(5)))
	assert.False(t, e.ResetCustomField(ByID(99)))
}

func TestFlagCustomFieldToDelete(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{
		optionField(5, true, 1, 2),
		{ID: 6, DataType: DataTypeString, Value: "keep me"},
	}
	e.AddSelectedOption(ByID(5), OptionID(2))
	e.MarkClean()

	assert.True(t, e.FlagCustomFieldToDelete(ByID(5)))
	assert.True(t, e.FlagCustomFieldToDelete(ByID(6)))
	assert.True(t, e.IsDirty())

	opts := e.CustomField(ByID(5))
	assert.True(t, opts.FlagToDelete)
	assert.Empty(t, opts.Selected())
	scalar := e.CustomField(ByID(6))
	assert.True(t, scalar.FlagToDelete)
	assert.Empty(t, scalar.Value)

	e.MarkClean()
	assert.False(t, e.FlagCustomFieldToDelete(ByID(6)))
	assert.False(t, e.IsDirty())

	assert.True(t, e.SetCustomFieldValue(ByID(6), "back", false))
	assert.False(t, scalar.FlagToDelete)
}

func TestCustomFieldValueJoinsSelectedNames(t *testing.T) {
	e := NewEntity(EntityTicket)
	e.CustomFields = []*CustomField{{
		ID: 5, DataType: DataTypeOption, MultiValue: true,
		Options: []*CustomFieldOption{
			{ID: 1, Name: "Red", Selected: true},
			{ID: 2, Name: "Green"},
			{ID: 3, Name: "Blue", Selected: true},
		},
	}}

	assert.Equal(t, "Red||Blue", e.CustomFieldValue(ByID(5)))
	assert.Equal(t, "", e.CustomFieldValue(ByID(6)))
	assert.Nil(t, e.SelectedOption(ByID(6)))
}

func TestCustomFieldNameLookup(t *testing.T) {
	e := NewEntity(EntityCustomer)
	e.CustomFields = []*CustomField{
		{ID: 1, Name: "Region"},
		{ID: 2, Name: "region"},
		{ID: 3, Name: "Tier"},
	}

	tests := []struct {
		name string
		want int64
	}{
		{"Region", -1},
		{"REGION", -1},
		{"tier", 3},
		{"Tier", 3},
		{"Missing", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CustomFieldID(tt.name))
		})
	}

	assert.Equal(t, "Tier", e.CustomFieldName(3))
	assert.Equal(t, "", e.CustomFieldName(4))

	require.NotNil(t, e.CustomField(ByNameExact("region")))
	assert.Equal(t, int64(2), e.CustomField(ByNameExact("region")).ID)
	assert.Nil(t, e.CustomField(ByName("region")))
	assert.False(t, e.SetCustomFieldValue(ByName("Region"), "x", false))
}
