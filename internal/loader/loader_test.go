package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookscape/catalog/internal/entities"
)

type stubStore struct {
	existing  int64
	inserted  []entities.Book
	replaced  []entities.Book
	callOrder []string
}

func (s *stubStore) Count() (int64, error) {
	s.callOrder = append(s.callOrder, "count")
	return s.existing, nil
}

func (s *stubStore) InsertAll(books []entities.Book) error {
	s.callOrder = append(s.callOrder, "insert")
	s.inserted = books
	return nil
}

func (s *stubStore) ReplaceAll(books []entities.Book) error {
	s.callOrder = append(s.callOrder, "replace")
	s.replaced = books
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `title,price,rating,availability,category,image_url,product_url
A Light in the Attic,51.77,3,22,Poetry,https://example.com/a.jpg,https://example.com/a-light-in-the-attic
Sharp Objects,47.82,4,20,Mystery,,https://example.com/sharp-objects
`

func TestLoad_EmptyTable(t *testing.T) {
	store := &stubStore{}
	loader := New(store, writeCSV(t, sampleCSV))

	result, err := loader.Load(false)

	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Loaded)
	require.Len(t, store.inserted, 2)

	first := store.inserted[0]
	assert.Equal(t, "A Light in the Attic", first.Title)
	assert.Equal(t, 51.77, *first.Price)
	assert.Equal(t, 3, *first.Rating)
	assert.Equal(t, 22, *first.Availability)
	assert.Equal(t, "Poetry", first.Category)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "https://example.com/a.jpg", *first.ImageURL)

	// Empty image_url stays nil rather than an empty string.
	assert.Nil(t, store.inserted[1].ImageURL)
}

func TestLoad_PopulatedTableSkips(t *testing.T) {
	store := &stubStore{existing: 100}
	loader := New(store, writeCSV(t, sampleCSV))

	result, err := loader.Load(false)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Zero(t, result.Loaded)
	assert.Empty(t, store.inserted)
	assert.Empty(t, store.replaced)
}

func TestLoad_OverwriteReplacesRows(t *testing.T) {
	store := &stubStore{existing: 100}
	loader := New(store, writeCSV(t, sampleCSV))

	result, err := loader.Load(true)

	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Loaded)
	assert.Len(t, store.replaced, 2)
	assert.Empty(t, store.inserted)
}

func TestLoad_EmptyCSVSkips(t *testing.T) {
	store := &stubStore{}
	loader := New(store, writeCSV(t, "title,category,product_url\n"))

	result, err := loader.Load(false)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, store.callOrder)
}

func TestLoad_MissingFile(t *testing.T) {
	store := &stubStore{}
	loader := New(store, filepath.Join(t.TempDir(), "absent.csv"))

	_, err := loader.Load(false)

	assert.Error(t, err)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	store := &stubStore{}
	loader := New(store, writeCSV(t, "title,price\nSome Book,9.99\n"))

	_, err := loader.Load(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestLoad_DropsIDColumn(t *testing.T) {
	store := &stubStore{}
	csv := `id,title,category,product_url
999,Renumbered,Fiction,https://example.com/renumbered
`
	loader := New(store, writeCSV(t, csv))

	_, err := loader.Load(false)

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Zero(t, store.inserted[0].ID)
}

func TestLoad_SkipsRowsWithoutProductURL(t *testing.T) {
	store := &stubStore{}
	csv := `title,category,product_url
Kept,Fiction,https://example.com/kept
Dropped,Fiction,
`
	loader := New(store, writeCSV(t, csv))

	result, err := loader.Load(false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "Kept", store.inserted[0].Title)
}

func TestLoad_MalformedNumbersBecomeNil(t *testing.T) {
	store := &stubStore{}
	csv := `title,price,rating,category,product_url
Odd Row,not-a-price,many,Fiction,https://example.com/odd-row
`
	loader := New(store, writeCSV(t, csv))

	_, err := loader.Load(false)

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Nil(t, store.inserted[0].Price)
	assert.Nil(t, store.inserted[0].Rating)
}
