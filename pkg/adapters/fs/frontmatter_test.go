package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

func TestSerialize_Layout(t *testing.T) {
	meta := core.Metadata{
		Title:     "Groceries",
		Emoji:     "cart",
		Tags:      []string{"home"},
		CreatedAt: "2024-01-01T00:00:00.000Z",
		UpdatedAt: "2024-01-02T00:00:00.000Z",
		Extra:     map[string]any{"zeta": 1, "alpha": "first"},
	}

	data, err := fs.Serialize(meta, "- milk\n- eggs\n")
	require.NoError(t, err)

	want := "---\n" +
		"title: Groceries\n" +
		"emoji: cart\n" +
		"tags:\n  - home\n" +
		"created_at: \"2024-01-01T00:00:00.000Z\"\n" +
		"updated_at: \"2024-01-02T00:00:00.000Z\"\n" +
		"alpha: first\n" +
		"zeta: 1\n" +
		"---\n\n" +
		"- milk\n- eggs\n"
	assert.Equal(t, want, string(data))
}

func TestSerialize_EmptyMetadata(t *testing.T) {
	data, err := fs.Serialize(core.Metadata{}, "just text")
	require.NoError(t, err)
	assert.Equal(t, "---\n{}\n---\n\njust text", string(data))

	meta, content, err := fs.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, core.Metadata{}, meta)
	assert.Equal(t, "just text", content)
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		meta    core.Metadata
		content string
	}{
		{"empty", core.Metadata{}, ""},
		{"plain", core.Metadata{Title: "Hello"}, "# Hello\n\nWorld"},
		{"leading blank lines", core.Metadata{Title: "x"}, "\n\nstarts after blanks"},
		{"content with delimiters", core.Metadata{Title: "x"}, "---\nnot front matter\n---\n"},
		{"numeric-looking strings", core.Metadata{Title: "123", ParentID: "true", Emoji: "null"}, "body"},
		{"tags empty", core.Metadata{Tags: []string{}}, "body"},
		{"nested extras", core.Metadata{
			Title: "n",
			Extra: map[string]any{
				"cover": map[string]any{"url": "x.png", "offset": 0.5},
				"list":  []any{"a", 2, true},
			},
		}, "body"},
		{"emoji", core.Metadata{Title: "e", Emoji: "📄"}, "c"},
		{"crlf content", core.Metadata{Title: "w"}, "line1\r\nline2\r\n"},
		{"whole float", core.Metadata{Extra: map[string]any{"n": float64(3)}}, "body"},
		{"nested whole floats", core.Metadata{Extra: map[string]any{
			"scores": []any{float64(1), 2.5},
			"size":   map[string]any{"w": float64(100)},
		}}, "body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := fs.Serialize(tc.meta, tc.content)
			require.NoError(t, err)

			meta, content, err := fs.Parse(data)
			require.NoError(t, err)
			assert.Equal(t, tc.content, content)
			assert.Equal(t, tc.meta, meta)
		})
	}
}

func TestRoundTrip_KeepsFloats(t *testing.T) {
	meta, _, err := fs.Parse([]byte("---\ntitle: t\nrating: 3.0\nratio: 1e3\ncount: 3\n---\n\nbody"))
	require.NoError(t, err)

	data, err := fs.Serialize(meta, "body")
	require.NoError(t, err)
	assert.Contains(t, string(data), "rating: 3.0\n")
	assert.Contains(t, string(data), "count: 3\n")

	again, _, err := fs.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, float64(3), again.Extra["rating"])
	assert.Equal(t, float64(1000), again.Extra["ratio"])
	assert.Equal(t, 3, again.Extra["count"])
}

func TestSerialize_InvalidUTF8(t *testing.T) {
	cases := map[string]core.Metadata{
		"title":     {Title: "a\xffb"},
		"tag":       {Tags: []string{"ok", "\xff"}},
		"extra":     {Extra: map[string]any{"note": "\xfe"}},
		"extra key": {Extra: map[string]any{"\xff": "v"}},
		"nested":    {Extra: map[string]any{"list": []any{"\xff"}}},
	}
	for name, meta := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fs.Serialize(meta, "body")
			assert.ErrorIs(t, err, core.ErrInvalidMetadata)
		})
	}
}

func TestParse_NoFrontMatter(t *testing.T) {
	meta, content, err := fs.Parse([]byte("# Title\n\nno header here"))
	require.NoError(t, err)
	assert.Equal(t, core.Metadata{}, meta)
	assert.Equal(t, "# Title\n\nno header here", content)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unclosed":    "---\ntitle: x\nbody without closing",
		"bad yaml":    "---\ntitle: [unterminated\n---\n\nbody",
		"not mapping": "---\n- a\n- b\n---\n\nbody",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := fs.Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParse_ForeignFiles(t *testing.T) {
	t.Run("No Blank Line After Delimiter", func(t *testing.T) {
		meta, content, err := fs.Parse([]byte("---\ntitle: Tight\n---\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "Tight", meta.Title)
		assert.Equal(t, "body", content)
	})

	t.Run("CRLF Line Endings", func(t *testing.T) {
		meta, content, err := fs.Parse([]byte("---\r\ntitle: Win\r\n---\r\n\r\nbody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Win", meta.Title)
		assert.Equal(t, "body\r\n", content)
	})

	t.Run("Native Timestamps Stay Strings", func(t *testing.T) {
		meta, _, err := fs.Parse([]byte("---\ncreated_at: 2024-03-01T10:00:00Z\npublished: 2024-03-02\n---\n\n"))
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01T10:00:00Z", meta.CreatedAt)
		assert.Equal(t, "2024-03-02", meta.Extra["published"])
	})

	t.Run("Unfit Known Keys Are Preserved", func(t *testing.T) {
		input := "---\ntitle: 42\nparentId: null\n---\n\nbody"
		meta, content, err := fs.Parse([]byte(input))
		require.NoError(t, err)
		assert.Empty(t, meta.Title)
		assert.Equal(t, 42, meta.Extra["title"])
		assert.Contains(t, meta.Extra, "parentId")

		data, err := fs.Serialize(meta, content)
		require.NoError(t, err)
		again, _, err := fs.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, meta, again)
	})

	t.Run("Empty Front Matter Block", func(t *testing.T) {
		meta, content, err := fs.Parse([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.Equal(t, core.Metadata{}, meta)
		assert.Equal(t, "body", content)
	})
}
