package tablestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_Defaults(t *testing.T) {
	p := NewPagination("users", nil)
	assert.Equal(t, 0, p.PageIndex())
	assert.Equal(t, DefaultPageSize, p.PageSize())
}

func TestPagination_ReadsStoredPreference(t *testing.T) {
	prefs := NewMemoryPreferences()
	require.NoError(t, prefs.SetPageSize("users", 25))

	p := NewPagination("users", prefs)
	assert.Equal(t, 25, p.PageSize())

	// Other kinds keep the entity-agnostic default.
	q := NewPagination("nodes", prefs)
	assert.Equal(t, DefaultPageSize, q.PageSize())
}

func TestPagination_SetPageSize_ResetsIndexAndPersists(t *testing.T) {
	prefs := NewMemoryPreferences()
	p := NewPagination("users", prefs)

	changes := 0
	p.OnChange(func() { changes++ })

	p.SetPageIndex(3)
	assert.Equal(t, 3, p.PageIndex())

	p.SetPageSize(50)
	assert.Equal(t, 0, p.PageIndex(), "page size change must reset the page index")
	assert.Equal(t, 50, p.PageSize())

	stored, ok := prefs.PageSize("users")
	require.True(t, ok)
	assert.Equal(t, 50, stored)

	assert.Equal(t, 2, changes)
}

func TestPagination_IgnoresInvalidSize(t *testing.T) {
	p := NewPagination("users", nil)
	p.SetPageIndex(2)

	p.SetPageSize(0)
	p.SetPageSize(-10)

	assert.Equal(t, DefaultPageSize, p.PageSize())
	assert.Equal(t, 2, p.PageIndex(), "invalid sizes must not reset the index")
}

func TestPagination_ClampsNegativeIndex(t *testing.T) {
	p := NewPagination("users", nil)
	p.SetPageIndex(-4)
	assert.Equal(t, 0, p.PageIndex())
}

func TestPagination_NoNotifyWithoutChange(t *testing.T) {
	p := NewPagination("users", nil)
	changes := 0
	p.OnChange(func() { changes++ })

	p.SetPageIndex(0)
	p.SetPageSize(DefaultPageSize)
	assert.Equal(t, 0, changes)
}
