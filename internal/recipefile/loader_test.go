package recipefile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipetracker/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadCodes(errs []error) []string {
	var codes []string
	for _, err := range errs {
		if le, ok := err.(*LoadError); ok {
			codes = append(codes, le.Code)
		}
	}
	return codes
}

func TestLoad_Directory(t *testing.T) {
	result, errs := Load("testdata", LoadModeCollectAll)
	require.Empty(t, errs)
	require.Len(t, result.Files, 3)

	ids := make([]string, 0, len(result.Recipes))
	for _, r := range result.Recipes {
		ids = append(ids, r.ID)
	}
	// files are visited in sorted order
	assert.Equal(t, []string{"sourdough-bread", "pancakes", "tomato-soup", "aapen-oerret-cafe"}, ids)
}

func TestLoadFile_YAMLStream(t *testing.T) {
	l, err := NewLoader()
	require.NoError(t, err)

	recipes, errs := l.LoadFile(filepath.Join("testdata", "soups.yaml"))
	require.Empty(t, errs)
	require.Len(t, recipes, 2)

	assert.Equal(t, model.Recipe{
		ID:          "tomato-soup",
		Title:       "Tomato Soup",
		Description: "Simmer slowly.",
		Ingredients: []model.Ingredient{
			{Name: "tomato", Quantity: 4, Unit: "pcs"},
			{Name: "salt", Quantity: 0.5, Unit: "tsp"},
		},
	}, recipes[0])
	assert.Equal(t, "aapen-oerret-cafe", recipes[1].ID)
	assert.Equal(t, []model.Ingredient{}, recipes[1].Ingredients)
}

func TestLoadFile_MissingTitleRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.cue", `description: "no title"`+"\n")

	l, err := NewLoader()
	require.NoError(t, err)
	recipes, errs := l.LoadFile(path)

	assert.Empty(t, recipes)
	require.Len(t, errs, 1)
	assert.Equal(t, []string{ErrCodeSchema}, loadCodes(errs))
}

func TestLoadFile_QuantityMustBeNumber(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "title: Soup\ningredients:\n  - name: salt\n    quantity: a pinch\n")

	l, err := NewLoader()
	require.NoError(t, err)
	_, errs := l.LoadFile(path)

	assert.Equal(t, []string{ErrCodeSchema}, loadCodes(errs))
}

func TestLoadFile_InvalidIDRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"id": "Not A Slug", "title": "Soup"}`)

	l, err := NewLoader()
	require.NoError(t, err)
	_, errs := l.LoadFile(path)

	assert.Equal(t, []string{ErrCodeSchema}, loadCodes(errs))
}

func TestLoadFile_KeepsValidRecipesAlongsideInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.json", `[{"title": "Soup"}, {"description": "orphan"}]`)

	l, err := NewLoader()
	require.NoError(t, err)
	recipes, errs := l.LoadFile(path)

	require.Len(t, recipes, 1)
	assert.Equal(t, "soup", recipes[0].ID)
	assert.Len(t, errs, 1)
}

func TestLoadFile_TitleWithoutSlug(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "title: '!!!'\n")

	l, err := NewLoader()
	require.NoError(t, err)
	_, errs := l.LoadFile(path)

	assert.Equal(t, []string{ErrCodeNoID}, loadCodes(errs))
}

func TestLoadFile_ParseErrors(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLoader()
	require.NoError(t, err)

	_, errs := l.LoadFile(writeFile(t, dir, "broken.yaml", "title: [unclosed\n"))
	assert.Equal(t, []string{ErrCodeParse}, loadCodes(errs))

	_, errs = l.LoadFile(writeFile(t, dir, "broken.cue", "title: \n"))
	assert.Equal(t, []string{ErrCodeParse}, loadCodes(errs))

	_, errs = l.LoadFile(writeFile(t, dir, "recipe.toml", "title = 'x'\n"))
	assert.Equal(t, []string{ErrCodeUnsupported}, loadCodes(errs))
}

func TestLoad_DuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "title: Soup\n")
	writeFile(t, dir, "b.json", `{"id": "soup", "title": "Other Soup"}`)

	result, errs := Load(dir, LoadModeCollectAll)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, []string{ErrCodeDuplicateID}, loadCodes(errs))
	assert.Contains(t, errs[0].Error(), "a.yaml")
}

func TestLoad_FailFastStopsAtFirstBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "description: no title\n")
	writeFile(t, dir, "b.yaml", "title: Soup\n")

	result, errs := Load(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
	assert.Empty(t, result.Recipes)
}

func TestLoad_MissingPathAndEmptyDir(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "nope"), LoadModeCollectAll)
	assert.Equal(t, []string{ErrCodeNotFound}, loadCodes(errs))

	_, errs = Load(t.TempDir(), LoadModeCollectAll)
	assert.Equal(t, []string{ErrCodeNoFiles}, loadCodes(errs))
}

func TestWriteYAML_LoadsBack(t *testing.T) {
	recipes := []model.Recipe{
		{ID: "tomato-soup", Title: "Tomato Soup", Ingredients: []model.Ingredient{{Name: "tomato", Quantity: 4, Unit: "pcs"}}},
		{ID: "toast", Title: "Toast", Description: "Brown.", Ingredients: []model.Ingredient{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, recipes))

	path := writeFile(t, t.TempDir(), "out.yaml", buf.String())
	result, errs := Load(path, LoadModeCollectAll)
	require.Empty(t, errs)
	assert.Equal(t, recipes, result.Recipes)
}
