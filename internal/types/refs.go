package types

import (
	"encoding/json"
)

// Ref is one normalized back-reference from a packaging or partner document
// to a linked entity.
type Ref struct {
	ID   string `json:"_id"`
	Code string `json:"product_code,omitempty"`
}

// RefList is a list of back-references. Historical documents store them in
// three shapes: a bare id string, a {_id, product_code} link record, or an
// extended-JSON {$oid} wrapper. All three decode; marshaling always emits
// canonical link records.
type RefList []Ref

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *RefList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(RefList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, Ref{ID: s})
			}
			continue
		}

		var rec struct {
			ID   string `json:"_id"`
			Oid  string `json:"$oid"`
			Code string `json:"product_code"`
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			// Unrecognized entries are dropped, not fatal.
			continue
		}
		switch {
		case rec.ID != "":
			out = append(out, Ref{ID: rec.ID, Code: rec.Code})
		case rec.Oid != "":
			out = append(out, Ref{ID: rec.Oid})
		}
	}

	*r = out
	return nil
}

// ParseRefs decodes a stored connection list best-effort. Malformed input
// yields an empty list so stale documents never abort a read path.
func ParseRefs(data []byte) RefList {
	var refs RefList
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil
	}
	return refs
}

// IDs returns the ids of all references in order.
func (r RefList) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, ref := range r {
		ids = append(ids, ref.ID)
	}
	return ids
}

// Contains reports whether the list references the given id.
func (r RefList) Contains(id string) bool {
	for _, ref := range r {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every reference to id removed.
func (r RefList) Without(id string) RefList {
	out := make(RefList, 0, len(r))
	for _, ref := range r {
		if ref.ID != id {
			out = append(out, ref)
		}
	}
	return out
}
