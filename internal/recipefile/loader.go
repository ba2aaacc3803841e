package recipefile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/recipetracker/internal/model"
	"github.com/roach88/recipetracker/internal/slug"
)

//go:embed schema.cue
var schemaSource string

// LoadMode controls how errors are handled while loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Extensions lists the recognised document extensions.
var Extensions = []string{".cue", ".yaml", ".yml", ".json"}

// Result holds the recipes read from a path.
type Result struct {
	Recipes []model.Recipe
	Files   []string
}

// Loader validates documents against the recipe schema.
//
// Thread-safety: a Loader owns a CUE context and must not be shared
// between goroutines.
type Loader struct {
	ctx    *cue.Context
	recipe cue.Value
}

// NewLoader compiles the embedded schema.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile recipe schema: %w", err)
	}
	return &Loader{ctx: ctx, recipe: schema.LookupPath(cue.ParsePath("#Recipe"))}, nil
}

// Load reads one document, or every document under a directory.
func Load(path string, mode LoadMode) (*Result, []error) {
	l, err := NewLoader()
	if err != nil {
		return nil, []error{err}
	}
	return l.Load(path, mode)
}

// Load reads one document, or every document under a directory. Recipe
// ids must be unique across the whole result.
func (l *Loader) Load(path string, mode LoadMode) (*Result, []error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []error{&LoadError{File: path, Code: ErrCodeNotFound, Message: err.Error()}}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindFiles(path)
		if err != nil {
			return nil, []error{&LoadError{File: path, Code: ErrCodeNotFound, Message: fmt.Sprintf("scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{File: path, Code: ErrCodeNoFiles, Message: "no recipe documents found"}}
		}
	}

	result := &Result{}
	seen := make(map[string]string)
	var errs []error
	for _, file := range files {
		recipes, fileErrs := l.LoadFile(file)
		errs = append(errs, fileErrs...)
		if len(fileErrs) > 0 && mode == LoadModeFailFast {
			return result, errs
		}
		for _, r := range recipes {
			if prev, dup := seen[r.ID]; dup {
				errs = append(errs, &LoadError{
					File:    file,
					Code:    ErrCodeDuplicateID,
					Message: fmt.Sprintf("recipe id %q already defined in %s", r.ID, prev),
				})
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			seen[r.ID] = file
			result.Recipes = append(result.Recipes, r)
		}
		result.Files = append(result.Files, file)
	}
	return result, errs
}

// LoadFile reads every recipe in one document. Each invalid recipe
// produces its own error; the valid ones are still returned.
func (l *Loader) LoadFile(path string) ([]model.Recipe, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{File: path, Code: ErrCodeNotFound, Message: err.Error()}}
	}

	var values []cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		v := l.ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, []error{cueLoadError(path, ErrCodeParse, err)}
		}
		values = []cue.Value{v}
	case ".yaml", ".yml", ".json":
		values, err = l.decodeYAML(path, data)
		if err != nil {
			return nil, []error{&LoadError{File: path, Code: ErrCodeParse, Message: err.Error()}}
		}
	default:
		return nil, []error{&LoadError{
			File:    path,
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported extension %q: must be one of %v", filepath.Ext(path), Extensions),
		}}
	}

	var (
		recipes []model.Recipe
		errs    []error
	)
	for _, doc := range values {
		for _, v := range entries(doc) {
			r, err := l.decode(path, v)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			recipes = append(recipes, r)
		}
	}
	return recipes, errs
}

// decodeYAML reads every document of a YAML stream. JSON is read through
// the same decoder.
func (l *Loader) decodeYAML(path string, data []byte) ([]cue.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var values []cue.Value
	for {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		v := l.ctx.Encode(doc)
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// entries expands a document into its recipe values.
func entries(doc cue.Value) []cue.Value {
	if list := doc.LookupPath(cue.ParsePath("recipes")); list.Exists() && doc.IncompleteKind() == cue.StructKind {
		doc = list
	}
	if doc.IncompleteKind() != cue.ListKind {
		return []cue.Value{doc}
	}
	iter, err := doc.List()
	if err != nil {
		return []cue.Value{doc}
	}
	var out []cue.Value
	for iter.Next() {
		out = append(out, iter.Value())
	}
	return out
}

func (l *Loader) decode(path string, v cue.Value) (model.Recipe, error) {
	unified := l.recipe.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return model.Recipe{}, cueLoadError(path, ErrCodeSchema, err)
	}

	var r model.Recipe
	if err := unified.Decode(&r); err != nil {
		return model.Recipe{}, cueLoadError(path, ErrCodeSchema, err)
	}
	if r.ID == "" {
		r.ID = slug.Slugify(r.Title)
	}
	if r.ID == "" {
		return model.Recipe{}, &LoadError{
			File:    path,
			Code:    ErrCodeNoID,
			Message: fmt.Sprintf("title %q yields no id", r.Title),
		}
	}
	if r.Ingredients == nil {
		r.Ingredients = []model.Ingredient{}
	}
	return r, nil
}

// FindFiles walks dir and returns every recipe document, sorted.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func cueLoadError(path, code string, err error) *LoadError {
	le := &LoadError{File: path, Code: code, Message: err.Error()}
	if pos := cueerrors.Positions(err); len(pos) > 0 {
		le.Pos = pos[0]
	}
	return le
}
