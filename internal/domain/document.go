package domain

import "time"

// EntityKind tags the owner of a polymorphic link. Documents attach to any
// of these through one uniform {kind, id} pair instead of per-type foreign
// keys.
type EntityKind string

const (
	EntityKindRisk    EntityKind = "risk"
	EntityKindReview  EntityKind = "review"
	EntityKindAsset   EntityKind = "asset"
	EntityKindProject EntityKind = "project"
	EntityKindAction  EntityKind = "action"
)

var entityKinds = map[EntityKind]struct{}{
	EntityKindRisk:    {},
	EntityKindReview:  {},
	EntityKindAsset:   {},
	EntityKindProject: {},
	EntityKindAction:  {},
}

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	_, ok := entityKinds[k]
	return ok
}

// Document is the metadata record for an uploaded file. Blob storage is an
// external concern; only the reference lives here.
type Document struct {
	ID          int64
	EntityKind  EntityKind
	EntityID    int64
	Filename    string
	ContentType *string
	UploadedBy  *string
	CreatedAt   time.Time
}

// Validate checks the link target and filename.
func (d *Document) Validate() error {
	if !d.EntityKind.Valid() {
		return ErrValidation("unknown entity kind %q", d.EntityKind)
	}
	if d.EntityID <= 0 {
		return ErrValidation("entity id is required")
	}
	if d.Filename == "" {
		return ErrValidation("filename is required")
	}
	return nil
}
