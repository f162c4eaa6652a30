package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFolder(t *testing.T) {
	tests := []struct {
		kind     FolderKind
		wantType string
	}{
		{FolderArticle, EntityArticleFolder},
		{FolderDownload, EntityDownloadFolder},
		{FolderProduct, EntityProductFolder},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f, err := NewFolder(tt.kind, "Manuals")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, f.Type)
			assert.Equal(t, "Manuals", f.DisplayName())
			assert.Equal(t, Ref(tt.wantType, 4), tt.kind.Ref(4))
		})
	}

	_, err := NewFolder("shelf", "x")
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestParseFolderKind(t *testing.T) {
	k, err := ParseFolderKind(" Download ")
	require.NoError(t, err)
	assert.Equal(t, FolderDownload, k)

	_, err = ParseFolderKind("shelf")
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestStatusRef(t *testing.T) {
	s := Status{Kind: StatusTicket, ID: 3, Name: "Open", CustomerText: "We are on it"}
	assert.Equal(t, EntityRef{Type: EntityStatus, ID: 3, Name: "Open"}, s.Ref())
	assert.Equal(t, EntityStatus, StatusCsr.EntityType())
}

func TestStatusKindFor(t *testing.T) {
	tests := []struct {
		entityType string
		want       StatusKind
		wantOK     bool
	}{
		{EntityTicket, StatusTicket, true},
		{"customer", StatusCustomer, true},
		{EntityAsset, StatusAsset, true},
		{EntityCsr, StatusCsr, true},
		{EntityProduct, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			k, ok := StatusKindFor(tt.entityType)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestEntityStatus(t *testing.T) {
	snap := NewEntity(EntityStatus)
	snap.SetString("Name", "Active")
	snap.SetString("Text", "Customer is active")
	snap.SetString("Description", "Default status")

	c := NewEntity(EntityCustomer)
	_, ok := c.Status("Status")
	assert.False(t, ok)

	r := Ref(EntityStatus, 2)
	r.Snapshot = snap
	c.SetRef("Status", r)

	s, ok := c.Status("Status")
	require.True(t, ok)
	assert.Equal(t, Status{
		Kind:        StatusCustomer,
		ID:          2,
		Name:        "Active",
		Text:        "Customer is active",
		Description: "Default status",
	}, s)
}
