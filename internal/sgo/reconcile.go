package sgo

// Reconcile normalises an archive-schema row onto the canonical field set.
// For each canonical field absent from the row whose archive alias is
// present, the alias value is copied under the canonical name. Fields the
// row already carries are never overwritten, so applying Reconcile to an
// already-canonical row is a no-op and the operation is idempotent.
func Reconcile(r Row) Row {
	out := r.clone()
	for canonical, alias := range archiveAliases {
		if out.Has(canonical) {
			continue
		}
		if v, ok := out.Fields[alias]; ok {
			out.Fields[canonical] = v
		}
	}
	return out
}

// ReconcileAll applies Reconcile to every row.
func ReconcileAll(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Reconcile(r)
	}
	return out
}
