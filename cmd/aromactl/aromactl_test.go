package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Название аромата", "пол", "10 гр", "Набрано", "Anna"},
		{"Amber", "жен", 70, 120, 10},
		{"Birch", "муж", "50 ₽", 60, ""},
		{"НОВИНКИ: Cedar", "уни", 90, "", ""},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "aroma.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRowsCommand(t *testing.T) {
	path := writeSheet(t)

	out, _, err := run(t, "rows", "--source", "xlsx", "--xlsx", path, "-u", "anna")
	require.NoError(t, err)
	assert.Contains(t, out, "ROW")
	assert.Regexp(t, `0\s+Amber\s+жен\s+70\s+10\s+120`, out)
	assert.Regexp(t, `1\s+Birch\s+муж\s+50\s+0\s+60`, out)

	out, _, err = run(t, "rows", "--source", "xlsx", "--xlsx", path, "--from-anchor")
	require.NoError(t, err)
	assert.NotContains(t, out, "Amber")
	assert.Contains(t, out, "НОВИНКИ: Cedar")
}

func TestTotalsCommand(t *testing.T) {
	path := writeSheet(t)

	out, _, err := run(t, "totals", "--source", "xlsx", "--xlsx", path, "-u", "Anna")
	require.NoError(t, err)
	assert.Equal(t, "rows: 3\nordered: 70\n", out)

	out, _, err = run(t, "totals", "--source", "xlsx", "--xlsx", path, "-u", "Oleg")
	require.NoError(t, err)
	assert.Contains(t, out, `no column for "Oleg"`)

	_, _, err = run(t, "totals", "--source", "xlsx", "--xlsx", path)
	assert.Error(t, err)
}

func TestOrderCommand(t *testing.T) {
	path := writeSheet(t)

	out, errOut, err := run(t, "order", "--source", "xlsx", "--xlsx", path, "-u", " Anna ", "--plan", "1=20", "--plan", "2=0")
	require.NoError(t, err)
	assert.Equal(t, "#дозаказ Anna\n• Birch — 20 мл\n", out)
	assert.Equal(t, "planned: 100, ordered: 70\n", errOut)

	_, _, err = run(t, "order", "--source", "xlsx", "--xlsx", path, "-u", "Anna", "--plan", "1")
	assert.Error(t, err)

	_, _, err = run(t, "order", "--source", "xlsx", "--xlsx", path, "-u", "Anna")
	assert.ErrorContains(t, err, "empty")
}

func TestParsePlan(t *testing.T) {
	ledger, err := parsePlan([]string{"3=20", " 4 = -5 "})
	require.NoError(t, err)
	assert.Equal(t, 20, ledger.Get(3))
	assert.Equal(t, 0, ledger.Get(4))
	assert.Equal(t, []int{3}, ledger.Positive())
}
