/*
Package ports defines the driven ports (interfaces) for the validation engine.

These interfaces decouple the core logic from external implementations,
allowing the registry and services to work with various storage backends.

# Key Interfaces

  - SchemaStore: Responsible for persisting and loading schema sources
    (e.g., in memory, on disk, or in Redis).

The package also ships RunSchemaStoreContract, a reusable test suite every
SchemaStore implementation is expected to pass.
*/
package ports
