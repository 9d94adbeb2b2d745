// Package models defines domain entities and persistence interfaces for logomatch.
//
// The package contains two categories of types:
//
// 1. Matching values: lightweight structs produced and consumed by the matching pipeline
//   - [Candidate] : A harvested logo (display name + resource reference)
//   - [Match] : The selected logo for one channel with its similarity score
//   - [MatchSet] : All selected matches keyed by channel name
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Run] : A single matching run with its parameters, counts and matches
//
// Persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
