// Package model provides the entity types exchanged with the recipe store.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key constraints:
//   - Recipe.ID is assigned once at creation and never recomputed
//   - RecipeLog.RecipeID is required and immutable once set
//   - Commit values are produced by the server, the client only reads them
//   - JSON tags use camelCase to match the REST boundary
package model
