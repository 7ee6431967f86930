package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s, err := NewSchema(
			Field{Name: "id", Type: TypeString},
			Field{Name: "ts", Type: TypeTimestamp},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, []string{"id", "ts"}, s.FieldNames())

		idx, ok := s.Index("ts")
		require.True(t, ok)
		assert.Equal(t, 1, idx)

		_, ok = s.Index("missing")
		assert.False(t, ok)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NewSchema()
		require.Error(t, err)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := NewSchema(
			Field{Name: "id", Type: TypeString},
			Field{Name: "id", Type: TypeInteger},
		)
		require.Error(t, err)
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := NewSchema(Field{Name: "", Type: TypeString})
		require.Error(t, err)
	})
}

func TestTypeTemporal(t *testing.T) {
	assert.True(t, TypeTimestamp.Temporal())
	assert.True(t, TypeDate.Temporal())
	assert.False(t, TypeString.Temporal())
	assert.False(t, TypeInteger.Temporal())
}
