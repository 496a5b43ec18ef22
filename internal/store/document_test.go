package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestDocumentIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty stream", "", true},
		{"document marker only", "---\n", true},
		{"null", "null\n", true},
		{"tilde", "~\n", true},
		{"empty mapping", "{}\n", true},
		{"empty sequence", "[]\n", true},
		{"false", "false\n", true},
		{"zero", "0\n", true},
		{"empty string", "''\n", true},
		{"mapping", "title: x\n", false},
		{"sequence", "- a\n", false},
		{"true", "true\n", false},
		{"text", "hello\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.IsEmpty())
		})
	}
}

func TestDocumentFields(t *testing.T) {
	doc, err := ParseDocument([]byte("title: Fix router\npriority: high\ntags: [net, home]\nprivate: true\n"))
	require.NoError(t, err)

	fields, err := doc.Fields()
	require.NoError(t, err)
	assert.Equal(t, "Fix router", fields["title"])
	assert.Equal(t, "high", fields["priority"])
	assert.Equal(t, []any{"net", "home"}, fields["tags"])
	assert.Equal(t, true, fields["private"])
}

func TestDocumentFieldsNotMapping(t *testing.T) {
	for _, input := range []string{"- a\n- b\n", "just text\n", ""} {
		doc, err := ParseDocument([]byte(input))
		require.NoError(t, err)
		_, err = doc.Fields()
		assert.ErrorIs(t, err, types.ErrNotMapping, "input %q", input)
	}
}

func TestDocumentSetPreservesLayout(t *testing.T) {
	src := "title: Fix router\nupdated: old\nstatus: done # moved by hand\nowner: me\n"
	doc, err := ParseDocument([]byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.Set("updated", "2026-01-02 03:04:05 UTC"))
	require.NoError(t, doc.Set("reviewer", "sam"))

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		"title: Fix router\nupdated: 2026-01-02 03:04:05 UTC\nstatus: done # moved by hand\nowner: me\nreviewer: sam\n",
		string(out))
}

func TestDocumentSetKeepsStringType(t *testing.T) {
	doc, err := ParseDocument([]byte("title: A\n"))
	require.NoError(t, err)
	require.NoError(t, doc.Set("updated", "2026"))
	require.NoError(t, doc.Set("flag", "true"))

	out, err := doc.Marshal()
	require.NoError(t, err)
	again, err := ParseDocument(out)
	require.NoError(t, err)
	fields, err := again.Fields()
	require.NoError(t, err)
	assert.Equal(t, "2026", fields["updated"])
	assert.Equal(t, "true", fields["flag"])
}

func TestDocumentSetRejectsNonMapping(t *testing.T) {
	doc, err := ParseDocument([]byte("- a\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, doc.Set("updated", "now"), types.ErrNotMapping)
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument("title", "A", "status", "todo", "tags", []string{"x"})
	require.NoError(t, err)

	fields, err := doc.Fields()
	require.NoError(t, err)
	assert.Equal(t, "A", fields["title"])
	assert.Equal(t, "todo", fields["status"])
	assert.Equal(t, []any{"x"}, fields["tags"])

	_, err = NewDocument("odd")
	assert.Error(t, err)
	_, err = NewDocument(1, "x")
	assert.Error(t, err)
}
