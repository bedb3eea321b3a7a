// Package store is Guardian's embedded persistence engine.
//
// Records are kept as JSON bodies in SQLite tables, one per collection
// declared in a Registry. Secondary indexes are expression indexes over
// json_extract, so unique indexes ignore null fields. Schema versions are
// applied with goose at Open; each version only adds collections or
// indexes.
//
// All operations take a context and are bounded by Options.OpTimeout.
// Engine.Tx groups several operations into one SQLite transaction.
package store
