package models

// MergeRecords returns existing without any record whose id appears in batch,
// followed by batch. A record in batch always replaces a stored record with the
// same id, changed or not. Repeated ids inside batch keep the last version.
func MergeRecords(existing, batch []QCRecord) []QCRecord {
	incoming := make([]QCRecord, 0, len(batch))
	position := make(map[string]int, len(batch))
	for _, r := range batch {
		if i, ok := position[r.ID]; ok {
			incoming[i] = r
			continue
		}
		position[r.ID] = len(incoming)
		incoming = append(incoming, r)
	}

	out := make([]QCRecord, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if _, replaced := position[r.ID]; replaced {
			continue
		}
		out = append(out, r)
	}
	return append(out, incoming...)
}

// RemoveRecord returns records without the record identified by id, and whether
// it was present.
func RemoveRecord(records []QCRecord, id string) ([]QCRecord, bool) {
	out := make([]QCRecord, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}
