package domain

import "sort"

// ChangeTracker tracks which fields have been modified in a domain aggregate.
// Repositories use it to persist only changed columns.
type ChangeTracker struct {
	dirtyFields map[string]bool
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirtyFields: make(map[string]bool)}
}

func (ct *ChangeTracker) MarkDirty(field string) {
	ct.dirtyFields[field] = true
}

func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirtyFields[field]
}

func (ct *ChangeTracker) Clear() {
	ct.dirtyFields = make(map[string]bool)
}

func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirtyFields) > 0
}

// DirtyFields returns the modified field names in sorted order.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.dirtyFields))
	for field := range ct.dirtyFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
