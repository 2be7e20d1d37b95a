// Package models defines domain entities and persistence interfaces for the tunedex resolution engine.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs moving through the resolution pipeline
//   - [Query] : A caller request (track/artist/album/lyrics lookup)
//   - [Track] : Song metadata shared by providers and the store
//   - [ExternalCandidate] : Normalized provider output awaiting dedup and persistence
//   - [ResolvedSet] : The resolver's only return type
//   - [GenreMatch] : A scored genre classification
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedTrack] : Cached tracks keyed by (source, source_id) with lyrics and genre tags
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
