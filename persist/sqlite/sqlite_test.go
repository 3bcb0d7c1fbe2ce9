package sqlite_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoponcell/Barbearia/model"
	"github.com/gustavoponcell/Barbearia/persist/sqlite"
	"github.com/gustavoponcell/Barbearia/value"
)

func newTestArchive(t *testing.T) *sqlite.Archive {
	t.Helper()
	archive, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func archiveCustomer(t *testing.T) *model.Customer {
	t.Helper()
	phone, err := value.ParsePhone("81999990000")
	require.NoError(t, err)
	mail, err := value.ParseEmail("alice@example.com")
	require.NoError(t, err)
	cpf, err := value.HashCPF("11122233344")
	require.NoError(t, err)
	c, err := model.NewCustomer(uuid.New(), "Alice Santos",
		value.Address{Street: "Rua do Sol 1", City: "Recife"}, phone, mail, cpf, true)
	require.NoError(t, err)
	return c
}

func TestArchive_SaveAndGet(t *testing.T) {
	// GIVEN: an archived statement
	// WHEN: fetching it by reference
	// THEN: customer, body and timestamp come back

	archive := newTestArchive(t)
	c := archiveCustomer(t)

	ref, err := archive.SaveStatement(c, "SERVICE STATEMENT\ntotal BRL 40.00\n", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "sqlite:"))

	rec, err := archive.GetStatement(ref)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, c.ID.String(), rec.CustomerID)
	assert.Equal(t, "Alice Santos", rec.CustomerName)
	assert.Contains(t, rec.Body, "SERVICE STATEMENT")
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestArchive_WalkIn(t *testing.T) {
	archive := newTestArchive(t)

	ref, err := archive.SaveStatement(nil, "SALE STATEMENT\n", "")
	require.NoError(t, err)

	rec, err := archive.GetStatement(ref)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.CustomerID)
	assert.Equal(t, "walk-in", rec.CustomerName)
}

func TestArchive_ListByCustomer(t *testing.T) {
	archive := newTestArchive(t)
	c := archiveCustomer(t)

	_, err := archive.SaveStatement(c, "first", "")
	require.NoError(t, err)
	_, err = archive.SaveStatement(c, "second", "")
	require.NoError(t, err)
	_, err = archive.SaveStatement(nil, "walk-in sale", "")
	require.NoError(t, err)

	records, err := archive.ListByCustomer(c.ID.String())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	count, err := archive.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestArchive_GetMissingStatement(t *testing.T) {
	archive := newTestArchive(t)
	rec, err := archive.GetStatement("sqlite:" + uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, rec)
}
