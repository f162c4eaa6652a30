package types

import (
	"fmt"
	"strings"
)

// FolderKind tags the three folder families. They share one shape and
// differ only in wire type.
type FolderKind string

const (
	FolderArticle  FolderKind = "article"
	FolderDownload FolderKind = "download"
	FolderProduct  FolderKind = "product"
)

var folderTypes = map[FolderKind]string{
	FolderArticle:  EntityArticleFolder,
	FolderDownload: EntityDownloadFolder,
	FolderProduct:  EntityProductFolder,
}

// ParseFolderKind maps a kind name, case-insensitively.
func ParseFolderKind(s string) (FolderKind, error) {
	k := FolderKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := folderTypes[k]; !ok {
		return "", fmt.Errorf("folder kind %q: %w", s, ErrUnknownEntityType)
	}
	return k, nil
}

// EntityType returns the wire type of folders of this kind, or "" for an
// unknown kind.
func (k FolderKind) EntityType() string {
	return folderTypes[k]
}

// Ref returns a reference to the folder with the given id.
func (k FolderKind) Ref(id int64) EntityRef {
	return Ref(k.EntityType(), id)
}

// NewFolder returns an empty folder entity of the given kind named name.
func NewFolder(kind FolderKind, name string) (*Entity, error) {
	t := kind.EntityType()
	if t == "" {
		return nil, fmt.Errorf("folder kind %q: %w", kind, ErrUnknownEntityType)
	}
	e := NewEntity(t)
	e.SetString("Name", name)
	return e, nil
}

// StatusKind tags the status families. All of them travel as Status
// elements; the kind decides which extra text fields apply.
type StatusKind string

const (
	StatusTicket   StatusKind = "ticket"
	StatusCustomer StatusKind = "customer"
	StatusAsset    StatusKind = "asset"
	StatusCsr      StatusKind = "csr"
)

// Status is a lookup value referenced by tickets, customers, assets and
// CSRs. Text and Description apply to customer and asset statuses,
// CustomerText to ticket statuses.
type Status struct {
	Kind         StatusKind `json:"kind" yaml:"kind"`
	ID           int64      `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Text         string     `json:"text,omitempty" yaml:"text,omitempty"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	CustomerText string     `json:"customer_text,omitempty" yaml:"customer_text,omitempty"`
}

var statusKinds = map[string]StatusKind{
	"ticket":   StatusTicket,
	"customer": StatusCustomer,
	"asset":    StatusAsset,
	"csr":      StatusCsr,
}

// StatusKindFor returns the status family of entityType, matching the name
// without regard to case.
func StatusKindFor(entityType string) (StatusKind, bool) {
	k, ok := statusKinds[strings.ToLower(entityType)]
	return k, ok
}

// StatusFromRef reads a status out of a decoded reference. The text fields
// are filled from the reference snapshot when the service sent one.
func StatusFromRef(kind StatusKind, r EntityRef) Status {
	s := Status{Kind: kind, ID: r.ID, Name: r.Name}
	if snap := r.Snapshot; snap != nil {
		s.Text = snap.String("Text")
		s.Description = snap.String("Description")
		s.CustomerText = snap.String("Customer_Text")
		if s.Name == "" {
			s.Name = snap.String("Name")
		}
	}
	return s
}

// Status reads the status reference stored in field. It reports false when
// the field is empty.
func (e *Entity) Status(field string) (Status, bool) {
	r := e.RefField(field)
	if r.IsZero() {
		return Status{}, false
	}
	kind, _ := StatusKindFor(e.Type)
	return StatusFromRef(kind, r), true
}

// EntityType returns the wire type shared by every status kind.
func (k StatusKind) EntityType() string {
	return EntityStatus
}

// Ref returns a reference to the status with the given id.
func (k StatusKind) Ref(id int64) EntityRef {
	return Ref(EntityStatus, id)
}

// Ref returns a reference carrying the status name.
func (s Status) Ref() EntityRef {
	r := s.Kind.Ref(s.ID)
	r.Name = s.Name
	return r
}
