package safebox

import "encoding/json"

// Kind classifies a queued evidence record.
type Kind string

const (
	KindReport   Kind = "report"
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

// EvidenceRecord is one queued unit of evidence or a report awaiting submission.
// Payload is opaque to the store: it carries whatever the intake flow captured
// (form fields, attachment references, a GPS fix) and is never interpreted or
// validated here.
type EvidenceRecord struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CreatedAt   int64           `json:"createdAt"` // epoch milliseconds
	Submitted   bool            `json:"submitted"`
	FileSize    int64           `json:"fileSize,omitempty"`
}

// Snapshot is the single persisted aggregate: every queued record plus derived
// totals. It is serialized as one JSON value under a fixed key, so a mutation
// is durable exactly when the whole snapshot is.
type Snapshot struct {
	Items       []EvidenceRecord `json:"items"`
	TotalItems  int              `json:"totalItems"`
	TotalSize   int64            `json:"totalSize"`
	LastUpdated int64            `json:"lastUpdated"` // epoch milliseconds
}

// emptySnapshot returns a fresh zero-item snapshot stamped with now.
func emptySnapshot(now int64) Snapshot {
	return Snapshot{
		Items:       []EvidenceRecord{},
		TotalItems:  0,
		TotalSize:   0,
		LastUpdated: now,
	}
}

// clone returns a copy of the snapshot with its own items slice, so callers
// cannot alias the store's internal state.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Items = make([]EvidenceRecord, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// recompute derives TotalItems and TotalSize from Items.
func (s *Snapshot) recompute() {
	s.TotalItems = len(s.Items)
	var size int64
	for _, item := range s.Items {
		size += item.FileSize
	}
	s.TotalSize = size
}
