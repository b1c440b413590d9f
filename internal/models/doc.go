// Package models defines domain entities and persistence interfaces for the UniWorld terminal client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs mirroring backend API payloads
//   - [University] : Catalog entry with location and enrollment metadata
//   - [Program] : A degree offering, the primary search/browse unit
//   - [Coordinator] : A university staff contact addressable by email
//   - [User] : The authenticated account returned by login/register
//
// 2. Locally Persisted Entities: SQLite-backed state standing in for the
// original client's browser storage
//   - [Favorite] : Snapshot of a program taken at favorite-time
//   - [EmailRecord] : Append-only outreach history entry
//   - [EmailAccount] : Per-provider OAuth2 link state
//   - [Session] : Current user, bearer token, and subscription
//
// [Subscription] carries the plan tier and usage counters that gate email
// features. The server is authoritative for catalog data; nothing fetched from
// the API is cached across runs.
//
// Persisted entities implement the [Model] interface providing ID generation,
// timestamps, and validation. The [Repository] interface defines standard CRUD
// operations for local database access.
package models
