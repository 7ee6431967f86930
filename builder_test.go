package eslookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eslookup/codec"
	"github.com/hupe1980/eslookup/model"
)

func validBuilder(t *testing.T) Builder {
	t.Helper()
	return New("http://localhost:9200").
		Index("users").
		Schema(userSchema(t)).
		Keys("id")
}

func TestBuild(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		exec, err := validBuilder(t).Build()
		require.NoError(t, err)
		require.NotNil(t, exec)
	})

	t.Run("NoEndpoints", func(t *testing.T) {
		_, err := New().Index("users").Schema(userSchema(t)).Keys("id").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "hosts", verr.Option)
	})

	t.Run("BadEndpoint", func(t *testing.T) {
		_, err := New("ftp://host:21").Index("users").Schema(userSchema(t)).Keys("id").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "hosts", verr.Option)
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		_, err := validBuilder(t).Index("  ").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "index", verr.Option)
	})

	t.Run("NilSchema", func(t *testing.T) {
		_, err := New("http://localhost:9200").Index("users").Keys("id").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "schema", verr.Option)
	})

	t.Run("NoKeys", func(t *testing.T) {
		_, err := New("http://localhost:9200").Index("users").Schema(userSchema(t)).Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "lookup-keys", verr.Option)
	})

	t.Run("UnknownKeyField", func(t *testing.T) {
		_, err := validBuilder(t).Keys("missing").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "lookup-keys", verr.Option)
	})

	t.Run("UsernameWithoutPassword", func(t *testing.T) {
		_, err := validBuilder(t).Username("reader").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Option)
		assert.Contains(t, err.Error(), "'username' and 'password' must be set at the same time")
	})

	t.Run("BlankPasswordCountsAsUnset", func(t *testing.T) {
		_, err := validBuilder(t).Username("reader").Password("   ").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Option)
	})

	t.Run("PasswordWithoutUsername", func(t *testing.T) {
		_, err := validBuilder(t).Password("secret").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("BasicAuthTogether", func(t *testing.T) {
		_, err := validBuilder(t).BasicAuth("reader", "secret").Build()
		require.NoError(t, err)
	})

	t.Run("UnknownCodecName", func(t *testing.T) {
		_, err := validBuilder(t).CodecName("msgpack").Build()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "format", verr.Option)
	})

	t.Run("KnownCodecName", func(t *testing.T) {
		exec, err := validBuilder(t).CodecName("json").Build()
		require.NoError(t, err)
		assert.Equal(t, "json", exec.opts.codec.Name())
	})

	t.Run("CodecDirect", func(t *testing.T) {
		exec, err := validBuilder(t).Codec(codec.JSON{}).Build()
		require.NoError(t, err)
		assert.Equal(t, "json", exec.opts.codec.Name())
	})

	t.Run("DefaultCodec", func(t *testing.T) {
		exec, err := validBuilder(t).Build()
		require.NoError(t, err)
		assert.Equal(t, codec.Default.Name(), exec.opts.codec.Name())
	})
}

func TestBuilderImmutability(t *testing.T) {
	base := New("http://localhost:9200").Schema(userSchema(t)).Keys("id")

	a := base.Index("a")
	b := base.Index("b")

	execA, err := a.Build()
	require.NoError(t, err)
	execB, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "a", execA.rawIndex)
	assert.Equal(t, "b", execB.rawIndex)
}

func TestMustBuild(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NotPanics(t, func() {
			validBuilder(t).MustBuild()
		})
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Panics(t, func() {
			New().MustBuild()
		})
	})
}

func TestBuilderSchemaHelpers(t *testing.T) {
	schema := model.MustSchema(
		model.Field{Name: "id", Type: model.TypeString},
	)
	exec, err := New("http://localhost:9200").Index("users").Schema(schema).Keys("id").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, exec.schema.FieldNames())
}
