package domain

import (
	"encoding/json"
	"time"
)

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// History is an append-only audit record of a product mutation. Product
// name is denormalized so the entry survives product deletion.
type History struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Action      string    `json:"action"`
	Changes     string    `json:"changes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FieldChange holds one side-by-side value pair. A nil side marks an
// absent value (CREATE has no old values, DELETE has no new values).
type FieldChange struct {
	Old *string `json:"old,omitempty"`
	New *string `json:"new,omitempty"`
}

type Diff map[string]FieldChange

// ComputeDiff keeps only the keys whose value differs between the two
// snapshots. Keys present on a single side always differ.
func ComputeDiff(oldSnap, newSnap map[string]string) Diff {
	diff := Diff{}
	for key, oldValue := range oldSnap {
		if newValue, ok := newSnap[key]; ok {
			if oldValue != newValue {
				o, n := oldValue, newValue
				diff[key] = FieldChange{Old: &o, New: &n}
			}
			continue
		}
		o := oldValue
		diff[key] = FieldChange{Old: &o}
	}
	for key, newValue := range newSnap {
		if _, ok := oldSnap[key]; !ok {
			n := newValue
			diff[key] = FieldChange{New: &n}
		}
	}
	return diff
}

// ChangesDiff decodes the serialized diff, returning an empty diff when
// the stored payload is not valid JSON.
func (h *History) ChangesDiff() Diff {
	diff := Diff{}
	if h.Changes == "" {
		return diff
	}
	if err := json.Unmarshal([]byte(h.Changes), &diff); err != nil {
		return Diff{}
	}
	return diff
}

type ListFilter struct {
	// UserID restricts results to one author; non-admin viewers are
	// always restricted to themselves by the service.
	UserID      string
	ProductName string
	Action      string
}
