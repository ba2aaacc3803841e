// Package prefs provides the persistent key/value store that remembers the
// user's attribution identity and per-recipe UI preferences across runs.
//
// Values are JSON-encoded and kept behind a Backend so the store can be
// tested without a real persistence medium. Two backends exist:
//   - SQLiteBackend: durable storage in a single SQLite file
//   - MemoryBackend: process-local map, for tests
//
// # Keys
//
// Keys are plain strings with no enforced namespacing. Observed keys:
//   - gitName, gitEmail: the attribution identity
//   - checkedIngredients<recipeID>: ingredient name -> checked flag
//
// # Database Configuration
//
//   - WAL mode: readers never block the single writer
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - schema versioned through PRAGMA user_version
package prefs
