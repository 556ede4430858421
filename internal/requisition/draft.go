package requisition

import (
	"context"
	"strings"

	"pharma-wms-api-server/internal/models"
)

// Draft accumulates line items before a requisition is submitted. Duplicate
// (type, id) additions merge into one line by summing quantities; lines keep
// the insertion order of their first occurrence.
type Draft struct {
	catalog Catalog
	lines   []models.RequisitionItem
	index   map[models.ItemRef]int
}

// Submission is the immutable result of a completed draft.
type Submission struct {
	Items   []models.RequisitionItem
	Comment string
}

func NewDraft(catalog Catalog) *Draft {
	return &Draft{
		catalog: catalog,
		index:   make(map[models.ItemRef]int),
	}
}

// AddItem validates the line against the current catalog snapshot and merges
// it into the draft.
func (d *Draft) AddItem(ctx context.Context, itemType models.ItemType, itemID string, qty int64) error {
	if !itemType.Valid() {
		return &ValidationError{Field: "itemType", Reason: "must be medicine or medical_device"}
	}
	if itemID == "" {
		return &ValidationError{Field: "itemID", Reason: "must not be empty"}
	}
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}

	ref := models.ItemRef{Type: itemType, ID: itemID}
	name, err := d.catalog.ResolveName(ctx, ref)
	if err != nil {
		return &ValidationError{Field: "itemID", Reason: "unknown catalog item " + itemID}
	}

	if i, ok := d.index[ref]; ok {
		d.lines[i].Quantity += qty
		return nil
	}
	d.index[ref] = len(d.lines)
	d.lines = append(d.lines, models.RequisitionItem{
		ItemType: itemType,
		ItemID:   itemID,
		Name:     name,
		Quantity: qty,
	})
	return nil
}

// RemoveItem deletes the line if present; absent lines are a no-op.
func (d *Draft) RemoveItem(itemType models.ItemType, itemID string) {
	ref := models.ItemRef{Type: itemType, ID: itemID}
	i, ok := d.index[ref]
	if !ok {
		return
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	delete(d.index, ref)
	for j := i; j < len(d.lines); j++ {
		d.index[d.lines[j].Ref()] = j
	}
}

// Items returns a copy of the current lines.
func (d *Draft) Items() []models.RequisitionItem {
	out := make([]models.RequisitionItem, len(d.lines))
	copy(out, d.lines)
	return out
}

// ToSubmission seals the draft. A whitespace-only comment is dropped rather
// than submitted as an empty string.
func (d *Draft) ToSubmission(comment string) (Submission, error) {
	if len(d.lines) == 0 {
		return Submission{}, &ValidationError{Field: "items", Reason: "requisition must contain at least one item"}
	}
	return Submission{
		Items:   d.Items(),
		Comment: strings.TrimSpace(comment),
	}, nil
}
