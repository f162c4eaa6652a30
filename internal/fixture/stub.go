package fixture

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

// EntityStub builds a fake entity whose writable static fields are all
// populated from the type's schema.
type EntityStub struct {
	faker  *gofakeit.Faker
	entity *types.Entity
}

// NewEntityStub fills every writable field of entityType with fake data
// drawn from a faker seeded with seed. Server-assigned fields stay empty.
func NewEntityStub(entityType string, seed int64) (EntityStub, error) {
	schema, ok := types.LookupSchema(entityType)
	if !ok {
		return EntityStub{}, fmt.Errorf("stub type %q: %w", entityType, types.ErrUnknownEntityType)
	}
	faker := gofakeit.New(seed)
	e := types.NewEntity(schema.Type)
	e.ID = int64(faker.Number(1, 1_000_000))
	e.MultipleFolders = true
	e.FullyLoaded = true

	for _, spec := range schema.Fields() {
		if spec.ReadOnly {
			continue
		}
		e.Set(spec.Name, fakeValue(faker, schema.Type, spec))
	}
	e.MarkClean()
	return EntityStub{faker: faker, entity: e}, nil
}

func fakeValue(f *gofakeit.Faker, entityType string, spec types.FieldSpec) any {
	switch spec.DataType {
	case types.DataTypeBoolean:
		return f.Bool()
	case types.DataTypeInt:
		return int64(f.Number(1, 10_000))
	case types.DataTypeDate:
		return f.Date().UTC().Truncate(time.Second)
	case types.DataTypeEntity:
		return fakeRef(f, entityType, spec)
	case types.DataTypeEntityList:
		refs := make([]types.EntityRef, f.Number(1, 3))
		for i := range refs {
			refs[i] = fakeRef(f, entityType, spec)
		}
		return refs
	case types.DataTypeAttachment:
		list := make([]types.Attachment, f.Number(1, 2))
		for i := range list {
			list[i] = types.Attachment{GUID: f.UUID(), Name: f.Word() + ".txt"}
		}
		return list
	case types.DataTypeStringList:
		return []string{f.Email(), f.Email()}
	}
	if spec.CDATA {
		return f.Paragraph(1, 2, 8, " ")
	}
	return f.Sentence(4)
}

func fakeRef(f *gofakeit.Faker, entityType string, spec types.FieldSpec) types.EntityRef {
	id := int64(f.Number(1, 1_000_000))
	if spec.RefType == types.EntityStatus {
		kind, _ := types.StatusKindFor(entityType)
		return types.Status{Kind: kind, ID: id}.Ref()
	}
	return types.Ref(spec.RefType, id)
}

// WithID sets the entity id.
func (s EntityStub) WithID(id int64) EntityStub {
	s.entity.ID = id
	return s
}

// WithSingleFolder disallows multiple folders and trims every folder list
// to its first entry.
func (s EntityStub) WithSingleFolder() EntityStub {
	s.entity.MultipleFolders = false
	schema := s.entity.Schema()
	for _, f := range s.entity.Fields {
		spec, _ := schema.Field(f.Name)
		if refs, ok := f.Value.([]types.EntityRef); ok && spec.Folders && len(refs) > 1 {
			f.Value = refs[:1]
		}
	}
	return s
}

// WithCustomFields adds a scalar text field, a date field, a boolean field
// and a single-select option field, starting at id base.
func (s EntityStub) WithCustomFields(base int64) EntityStub {
	e := s.entity
	e.SetCustomFieldValue(types.ByID(base), s.faker.Word(), false)
	e.SetCustomFieldTime(types.ByID(base+1), s.faker.Date())
	e.SetCustomFieldBool(types.ByID(base+2), s.faker.Bool())
	for i := int64(1); i <= 3; i++ {
		e.SetSelectedOption(types.ByID(base+3), types.OptionID(base*10+i))
	}
	e.CustomField(types.ByID(base)).Name = s.faker.Word()
	e.MarkClean()
	return s
}

// Get returns the built entity.
func (s EntityStub) Get() *types.Entity {
	return s.entity
}
