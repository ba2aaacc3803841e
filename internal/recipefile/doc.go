// Package recipefile reads and writes recipe documents.
//
// A document is a .cue, .yaml/.yml or .json file holding a single recipe,
// a list of recipes, or a struct with a "recipes" list. YAML files may
// contain several documents separated by "---". Every recipe is unified
// with the embedded #Recipe schema before it is decoded, so a document
// that loads is always complete enough to save. Recipes without an id get
// one derived from their title.
package recipefile
