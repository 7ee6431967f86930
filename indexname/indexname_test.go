package indexname

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eslookup/model"
)

func testSchema(t *testing.T) *model.Schema {
	t.Helper()
	return model.MustSchema(
		model.Field{Name: "id", Type: model.TypeString},
		model.Field{Name: "region", Type: model.TypeString},
		model.Field{Name: "ts", Type: model.TypeTimestamp},
		model.Field{Name: "amount", Type: model.TypeFloat},
	)
}

func TestCompile(t *testing.T) {
	schema := testSchema(t)

	t.Run("Static", func(t *testing.T) {
		p, err := Compile("users", schema)
		require.NoError(t, err)
		assert.True(t, p.Static())
		assert.Equal(t, "users", p.Raw())
	})

	t.Run("FieldReference", func(t *testing.T) {
		p, err := Compile("users-{region}", schema)
		require.NoError(t, err)
		assert.False(t, p.Static())
	})

	t.Run("EscapedBraces", func(t *testing.T) {
		p, err := Compile("a{{b}}c", schema)
		require.NoError(t, err)
		assert.True(t, p.Static())

		name, err := p.Resolve(model.NewRow("42", "eu", int64(0), 1.5), time.Now(), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "a{b}c", name)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := Compile("users-{missing}", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Reason, `"missing"`)
	})

	t.Run("TimeSegmentRequiresTemporalField", func(t *testing.T) {
		_, err := Compile("idx-{amount|yyyy.MM.dd}", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("MalformedDateFormat", func(t *testing.T) {
		_, err := Compile("idx-{ts|qqqq}", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Reason, "qqqq")
	})

	t.Run("BareMillisecondFormat", func(t *testing.T) {
		_, err := Compile("idx-{ts|HHmmssSSS}", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Reason, "SSS")
	})

	t.Run("UnterminatedBrace", func(t *testing.T) {
		_, err := Compile("users-{region", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Reason, "unterminated")
	})

	t.Run("UnmatchedClosingBrace", func(t *testing.T) {
		_, err := Compile("users-}x", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Reason, "unmatched")
	})

	t.Run("EmptyPattern", func(t *testing.T) {
		_, err := Compile("", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("EmptySegmentName", func(t *testing.T) {
		_, err := Compile("users-{}", schema)
		var perr *PatternError
		require.ErrorAs(t, err, &perr)
	})
}

func TestResolve(t *testing.T) {
	schema := testSchema(t)
	row := model.NewRow("42", "eu", int64(1_700_000_000_000), 1.5)

	t.Run("StaticIgnoresTime", func(t *testing.T) {
		p, err := Compile("users", schema)
		require.NoError(t, err)

		a, err := p.Resolve(row, time.Unix(0, 0), time.UTC)
		require.NoError(t, err)
		b, err := p.Resolve(row, time.Now(), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "users", a)
		assert.Equal(t, a, b)
	})

	t.Run("FieldReference", func(t *testing.T) {
		p, err := Compile("users-{region}", schema)
		require.NoError(t, err)

		name, err := p.Resolve(row, time.Now(), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "users-eu", name)
	})

	t.Run("ShortRow", func(t *testing.T) {
		p, err := Compile("users-{region}", schema)
		require.NoError(t, err)

		_, err = p.Resolve(model.NewRow("42"), time.Now(), time.UTC)
		var cerr *model.ConversionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "region", cerr.Field)
	})

	t.Run("TimeSegmentSameDay", func(t *testing.T) {
		p, err := Compile("idx-{ts|yyyy.MM.dd}", schema)
		require.NoError(t, err)

		morning := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
		evening := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

		a, err := p.Resolve(row, morning, time.UTC)
		require.NoError(t, err)
		b, err := p.Resolve(row, evening, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "idx-2024.03.15", a)
		assert.Equal(t, a, b)
	})

	t.Run("TimeSegmentStraddlesMidnight", func(t *testing.T) {
		p, err := Compile("idx-{ts|yyyy.MM.dd}", schema)
		require.NoError(t, err)

		before := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
		after := time.Date(2024, 3, 16, 0, 1, 0, 0, time.UTC)

		a, err := p.Resolve(row, before, time.UTC)
		require.NoError(t, err)
		b, err := p.Resolve(row, after, time.UTC)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("TimeSegmentHonorsZone", func(t *testing.T) {
		p, err := Compile("idx-{ts|yyyy.MM.dd}", schema)
		require.NoError(t, err)

		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)

		// 23:00 UTC is already the next day in Tokyo.
		now := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)

		utcName, err := p.Resolve(row, now, time.UTC)
		require.NoError(t, err)
		tokyoName, err := p.Resolve(row, now, tokyo)
		require.NoError(t, err)
		assert.Equal(t, "idx-2024.03.15", utcName)
		assert.Equal(t, "idx-2024.03.16", tokyoName)
	})

	t.Run("MixedSegments", func(t *testing.T) {
		p, err := Compile("orders-{region}-{ts|yyyy.MM}", schema)
		require.NoError(t, err)

		now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		name, err := p.Resolve(row, now, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "orders-eu-2024.03", name)
	})
}

func TestConvertDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"yyyy.MM.dd", "2006.01.02"},
		{"yyyy-MM-dd_HH", "2006-01-02_15"},
		{"yy/MM", "06/01"},
		{"HH:mm:ss.SSS", "15:04:05.000"},
		{"HHmmss,SSS", "150405,000"},
	}
	for _, tt := range tests {
		layout, err := convertDateFormat(tt.format)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.want, layout, tt.format)
	}

	t.Run("Errors", func(t *testing.T) {
		for _, format := range []string{"", "yyy", "abc", "yyyy.MM.DD"} {
			_, err := convertDateFormat(format)
			assert.Error(t, err, format)
		}
	})

	t.Run("BareMillisecondToken", func(t *testing.T) {
		// Zeros render as fractional seconds only after '.' or ',' so a
		// bare SSS would produce literal zeros instead of milliseconds.
		for _, format := range []string{"SSS", "HHmmssSSS", "ss-SSS"} {
			_, err := convertDateFormat(format)
			require.Error(t, err, format)
			assert.Contains(t, err.Error(), "must follow", format)
		}
	})
}
