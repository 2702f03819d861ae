// Package document models configuration data as an immutable-ish tree of
// values: scalars, sequences and order-preserving mappings. It is the shared
// currency between format adapters (YAML, JSON, TOML), the schema compiler
// and the validator.
//
// A Value may carry a short tag (for example "!string" or "!ref") attached by
// the format adapter that decoded it. Tags have no intrinsic meaning here;
// the schema and interp packages interpret them.
package document
