// Package types defines the diagram domain entities, capability interfaces,
// and standard errors for the Blueprints storage system.
//
// Entities are plain structs persisted by internal/store and mirrored by
// internal/history. The Security and Notifier interfaces are implemented by
// external collaborators (the session layer and the UI notification surface);
// this package only consumes them.
package types
