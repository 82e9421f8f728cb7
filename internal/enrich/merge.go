package enrich

// fillGap stages a proposed value for a column only when the stored value
// is empty. Existing values, typically user-supplied, are never overwritten.
func fillGap(updates map[string]any, column, existing, proposed string) {
	if existing == "" && proposed != "" {
		updates[column] = proposed
	}
}

// overwrite stages a proposed value unconditionally. Category is the one
// field merged this way, so a later more specific classification can
// correct an earlier coarse guess.
func overwrite(updates map[string]any, column, proposed string) {
	if proposed != "" {
		updates[column] = proposed
	}
}
