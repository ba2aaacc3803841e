// Package export writes recipes to spreadsheet workbooks and reads them
// back.
//
// A workbook has an index sheet listing every recipe and one sheet per
// recipe holding its fields and ingredient rows. The checked column
// mirrors the shopping state kept in local preferences.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/recipetracker/internal/model"
)

// IndexSheet names the sheet listing every recipe.
const IndexSheet = "Recipes"

const (
	maxSheetName   = 31
	ingredientsRow = 6 // first ingredient row on a recipe sheet
	checkedMark    = "yes"
)

var (
	indexHeader      = []any{"ID", "Title", "Description", "Ingredients", "Sheet"}
	ingredientHeader = []any{"Name", "Quantity", "Unit", "Checked"}
)

// Checked maps recipe id -> ingredient name -> checked.
type Checked map[string]map[string]bool

// WriteWorkbook writes recipes as an xlsx workbook to w.
func WriteWorkbook(w io.Writer, recipes []model.Recipe, checked Checked) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), IndexSheet); err != nil {
		return fmt.Errorf("rename index sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(IndexSheet, "A1", &indexHeader); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}
	if err := f.SetRowStyle(IndexSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style index header: %w", err)
	}

	used := map[string]bool{strings.ToLower(IndexSheet): true}
	for i, r := range recipes {
		sheet := sheetName(r.ID, used)
		if err := writeRecipeSheet(f, sheet, r, checked[r.ID], bold); err != nil {
			return fmt.Errorf("recipe %s: %w", r.ID, err)
		}

		row := []any{r.ID, r.Title, r.Description, len(r.Ingredients), sheet}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(IndexSheet, cell, &row); err != nil {
			return fmt.Errorf("write index row %d: %w", i+2, err)
		}
		link, err := excelize.CoordinatesToCellName(5, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellHyperLink(IndexSheet, link, fmt.Sprintf("'%s'!A1", sheet), "Location"); err != nil {
			return fmt.Errorf("link recipe sheet: %w", err)
		}
	}

	if err := f.SetColWidth(IndexSheet, "B", "C", 32); err != nil {
		return fmt.Errorf("size index columns: %w", err)
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRecipeSheet(f *excelize.File, sheet string, r model.Recipe, checked map[string]bool, header int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	fields := [][]any{
		{"ID", r.ID},
		{"Title", r.Title},
		{"Description", r.Description},
	}
	for i, row := range fields {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("write field row: %w", err)
		}
	}

	headerRow := ingredientsRow - 1
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &ingredientHeader); err != nil {
		return fmt.Errorf("write ingredient header: %w", err)
	}
	if err := f.SetRowStyle(sheet, headerRow, headerRow, header); err != nil {
		return fmt.Errorf("style ingredient header: %w", err)
	}

	for i, in := range r.Ingredients {
		mark := ""
		if checked[in.Name] {
			mark = checkedMark
		}
		row := []any{in.Name, in.Quantity, in.Unit, mark}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", ingredientsRow+i), &row); err != nil {
			return fmt.Errorf("write ingredient %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

// sheetName returns a unique sheet name for a recipe id. Names are
// limited to 31 characters and compared case-insensitively.
func sheetName(id string, used map[string]bool) string {
	base := id
	if base == "" {
		base = "recipe"
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := "~" + strconv.Itoa(n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		name = trimmed + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

// ReadWorkbook reads recipes and checked state from a workbook written by
// WriteWorkbook.
func ReadWorkbook(r io.Reader) ([]model.Recipe, Checked, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	index, err := f.GetRows(IndexSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read index sheet: %w", err)
	}
	if len(index) == 0 {
		return nil, nil, errors.New("index sheet is empty")
	}

	var recipes []model.Recipe
	checked := Checked{}
	for i, row := range index[1:] {
		if len(row) < 5 || row[4] == "" {
			return nil, nil, fmt.Errorf("index row %d: missing sheet name", i+2)
		}
		recipe, marks, err := readRecipeSheet(f, row[4])
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", row[4], err)
		}
		recipes = append(recipes, recipe)
		if len(marks) > 0 {
			checked[recipe.ID] = marks
		}
	}
	return recipes, checked, nil
}

func readRecipeSheet(f *excelize.File, sheet string) (model.Recipe, map[string]bool, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Recipe{}, nil, err
	}

	cell := func(row, col int) string {
		if row < len(rows) && col < len(rows[row]) {
			return rows[row][col]
		}
		return ""
	}

	recipe := model.Recipe{
		ID:          cell(0, 1),
		Title:       cell(1, 1),
		Description: cell(2, 1),
		Ingredients: []model.Ingredient{},
	}
	marks := map[string]bool{}
	for i := ingredientsRow - 1; i < len(rows); i++ {
		name := cell(i, 0)
		if name == "" {
			continue
		}
		qty, err := strconv.ParseFloat(cell(i, 1), 64)
		if err != nil {
			return model.Recipe{}, nil, fmt.Errorf("row %d: invalid quantity %q", i+1, cell(i, 1))
		}
		recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{Name: name, Quantity: qty, Unit: cell(i, 2)})
		if cell(i, 3) == checkedMark {
			marks[name] = true
		}
	}
	return recipe, marks, nil
}
