// Package importer is the import reconciliation engine. It classifies
// heterogeneous research-tool JSON exports into one of a fixed set of
// schema variants, normalizes vendor vocabulary into the pipeline's
// closed enumerations, and merge-upserts prospects, contacts and
// dimension scores through the abstract entity store.
//
// A batch is one parsed document. Records are reconciled strictly in
// input order, each inside its own transaction, so one bad record
// never rolls back its siblings (continue-and-isolate). The engine is
// idempotent: re-importing a document creates nothing new, it only
// updates fields whose incoming values differ.
//
// Concurrent batches are not coordinated. Two imports referencing the
// same institution name race last-write-wins at the store layer; the
// watch-folder collaborator serializes file drops, network submissions
// are on their own. This is a known constraint.
package importer
