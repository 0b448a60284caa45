package exam

// Reconcile aligns persisted section entries with the current catalog.
// Catalog sections come first in catalog order, carrying the persisted entry
// when one matches by exact name and synthesizing an empty entry otherwise.
// Persisted entries no longer in the catalog (the patient's sex or neuter
// status changed after they were written) are kept at the end when they carry
// content and dropped when empty, so user-entered text survives catalog edits
// without empty rows accumulating. Applying Reconcile to its own output is a
// fixed point.
func Reconcile(catalog []string, persisted []SectionEntry) []SectionEntry {
	byName := make(map[string]SectionEntry, len(persisted))
	for _, e := range persisted {
		if _, ok := byName[e.SectionName]; !ok {
			byName[e.SectionName] = e
		}
	}

	inCatalog := make(map[string]bool, len(catalog))
	out := make([]SectionEntry, 0, len(persisted))
	for _, name := range catalog {
		inCatalog[name] = true
		if e, ok := byName[name]; ok {
			out = append(out, e)
			continue
		}
		out = append(out, SectionEntry{
			SectionName:  name,
			Measurements: make(map[string]Measurement),
			ReportText:   "",
		})
	}

	for _, e := range persisted {
		if inCatalog[e.SectionName] {
			continue
		}
		if e.HasContent() {
			out = append(out, e)
		}
	}
	return out
}

// SpliceText inserts text into existing at the rune offset cursor, or appends
// it after a newline when cursor is nil or out of range. Repeated insertion
// of the same text inserts again; nothing is deduplicated.
func SpliceText(existing, text string, cursor *int) string {
	if text == "" {
		return existing
	}
	runes := []rune(existing)
	if cursor != nil && *cursor >= 0 && *cursor <= len(runes) {
		return string(runes[:*cursor]) + text + string(runes[*cursor:])
	}
	if existing == "" {
		return text
	}
	return existing + "\n" + text
}
