package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiDeduplicates(t *testing.T) {
	m := NewMulti[uint32]()
	require.NoError(t, m.Insert("Ronaldo", 1))
	require.NoError(t, m.Insert("ronaldo", 2))
	require.NoError(t, m.Insert("RONALDO", 1))

	ids, ok := m.Get("Ronaldo")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, ids)
	assert.Equal(t, 1, m.Len())
}

func TestMultiGetReturnsCopy(t *testing.T) {
	m := NewMulti[uint32]()
	require.NoError(t, m.Insert("Pele", 1))
	require.NoError(t, m.Insert("Pele", 2))

	ids, ok := m.Get("Pele")
	require.True(t, ok)
	ids[0] = 99
	_ = append(ids[:1], 42)

	again, ok := m.Get("pele")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, again)
	assert.Equal(t, []uint32{1, 2}, m.Find("pel"))
}

func TestMultiFind(t *testing.T) {
	m := NewMulti[uint32]()
	require.NoError(t, m.Insert("Jon Doe", 1))
	require.NoError(t, m.Insert("Jonas", 2))
	require.NoError(t, m.Insert("Jonas", 3))
	require.NoError(t, m.Insert("Pele", 4))

	assert.ElementsMatch(t, []uint32{1, 2, 3}, m.Find("jon"))
	assert.Empty(t, m.Find("zico"))
	assert.ElementsMatch(t, []uint32{1, 2, 3, 4}, m.Find(""))
}

func TestMultiEmptyKey(t *testing.T) {
	m := NewMulti[uint32]()
	assert.ErrorIs(t, m.Insert("", 1), ErrEmptyKey)
}
