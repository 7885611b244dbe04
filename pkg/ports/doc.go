/*
Package ports defines the driven ports (interfaces) around the schema checker.

# Key Interfaces

  - RejectionStore: persists payloads refused by a checker (memory, Redis).

RunRejectionStoreContract is a reusable suite every RejectionStore adapter must pass.
*/
package ports
