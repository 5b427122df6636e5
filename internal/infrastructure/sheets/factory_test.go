package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	src, err := NewSource(context.Background(), Options{SheetURL: "https://example.com/a.csv"})
	require.NoError(t, err)
	assert.Equal(t, KindCSV, src.Name())

	src, err = NewSource(context.Background(), Options{Kind: "XLSX", XLSXPath: "/tmp/a.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, KindXLSX, src.Name())

	_, err = NewSource(context.Background(), Options{Kind: "ftp"})
	assert.Error(t, err)
}
