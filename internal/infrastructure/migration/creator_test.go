package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add bills table", "add_bills_table"},
		{"Add-Bills-Table", "add_bills_table"},
		{"ADD_BILLS_TABLE", "add_bills_table"},
		{"add__bills__table", "add_bills_table"},
		{"Add Fees 2019", "add_fees_2019"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add bill notes", "Free text notes on bills")
	require.NoError(t, err)

	assert.Equal(t, uint(1), mf.Version)
	assert.Equal(t, "000001_add_bill_notes", mf.BaseName())
	assert.Equal(t, filepath.Join(dir, "000001_add_bill_notes.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_bill_notes.down.sql"), mf.DownPath)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add_bill_notes")
	assert.Contains(t, string(upContent), "Free text notes on bills")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
}

func TestCreateMigration_NumbersAfterExisting(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"000001_create_fund_tables.up.sql", "000007_create_bills.up.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}

	mf, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), mf.Version)
	assert.True(t, strings.HasPrefix(filepath.Base(mf.UpPath), "000008_"))
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "first", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_create_bills.up.sql":         {Data: []byte("--")},
		"000002_create_bills.down.sql":       {Data: []byte("--")},
		"000001_create_fund_tables.up.sql":   {Data: []byte("--")},
		"000001_create_fund_tables.down.sql": {Data: []byte("--")},
		"README.md":                          {Data: []byte("docs")},
		"notaversion_x.up.sql":               {Data: []byte("--")},
		"subdir.up.sql/keep":                 {Data: []byte("")},
	}

	migrations, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, uint(1), migrations[0].Version)
	assert.Equal(t, "create_fund_tables", migrations[0].Name)
	assert.Equal(t, uint(2), migrations[1].Version)
	assert.Equal(t, "000002_create_bills.down.sql", migrations[1].DownPath)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := ListMigrations(EmbeddedMigrations())
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "create_fund_tables", migrations[0].Name)
	assert.Equal(t, "create_bills", migrations[1].Name)

	for _, m := range migrations {
		up, err := fs.ReadFile(EmbeddedMigrations(), m.UpPath)
		require.NoError(t, err)
		assert.NotEmpty(t, up)
		_, err = fs.ReadFile(EmbeddedMigrations(), m.DownPath)
		assert.NoError(t, err, "missing rollback for %s", m.UpPath)
	}

	up, err := fs.ReadFile(EmbeddedMigrations(), "000002_create_bills.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "uq_bills_investor_dedup")
}

func TestEmbeddedSource(t *testing.T) {
	src, err := EmbeddedSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}
