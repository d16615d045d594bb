package diagnostics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "model info provider",
			msg:  "Could not resolve model info provider for model FHIR",
			want: "unresolved model info provider",
		},
		{
			name: "model namespace",
			msg:  "Could not resolve model with namespace QDM and version 5.6",
			want: "unresolved model namespace",
		},
		{
			name: "type name",
			msg:  "Could not resolve type name Patient.",
			want: "unresolved type name",
		},
		{
			name: "generic resolution failure",
			msg:  "Could not resolve call to operator Equal",
			want: "unresolved reference",
		},
		{
			name: "unknown message keeps original text",
			msg:  "Syntax error at line 3",
			want: "Syntax error at line 3",
		},
		{
			name: "whitespace trimmed",
			msg:  "  could not resolve type name Foo  ",
			want: "unresolved type name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.msg))
		})
	}
}

func TestAggregate(t *testing.T) {
	// Three messages share one normalized pattern, the other two another.
	msgs := []string{
		"Could not resolve type name Patient.",
		"Could not resolve type name Encounter.",
		"Could not resolve type name Claim.",
		"Could not resolve model with namespace QDM and version 5.6",
		"Could not resolve model with namespace USCore and version 3.1",
	}

	groups := Aggregate(msgs)
	require.Len(t, groups, 2)

	assert.Equal(t, "unresolved type name", groups[0].Label)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "Could not resolve type name Patient.", groups[0].Sample)

	assert.Equal(t, "unresolved model namespace", groups[1].Label)
	assert.Equal(t, 2, groups[1].Count)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestWriteShortCapsAtTen(t *testing.T) {
	var msgs []string
	for i := 0; i < 14; i++ {
		msgs = append(msgs, fmt.Sprintf("Syntax error at line %d", i))
	}

	var buf bytes.Buffer
	WriteShort(&buf, msgs)
	out := buf.String()

	assert.Contains(t, out, "Translation failed due to 14 errors")
	assert.Contains(t, out, "10. Syntax error at line 9")
	assert.NotContains(t, out, "line 10")
	assert.Contains(t, out, "... and 4 more errors")
}

func TestWriteShortDeduplicates(t *testing.T) {
	msgs := []string{"same error", "same error", "other error"}

	var buf bytes.Buffer
	WriteShort(&buf, msgs)
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "same error"))
	assert.Contains(t, out, "2. other error")
	assert.NotContains(t, out, "more errors")
}

func TestCollectContext(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Main.cql")
	source := "library Main version '1.0'\nusing FHIR version '4.0.1'\ninclude Common version '1.0.0' called C\ndefine X: 1\n"
	require.NoError(t, os.WriteFile(input, []byte(source), 0o644))

	ctx := CollectContext(input, []string{"Common", "Main"})

	assert.Equal(t, int64(len(source)), ctx.InputSize)
	assert.Equal(t, []string{"Common", "Main"}, ctx.Libraries)
	require.Len(t, ctx.Statements, 3)
	assert.Equal(t, "library Main version '1.0'", ctx.Statements[0])
	assert.Equal(t, "using FHIR version '4.0.1'", ctx.Statements[1])
	assert.Equal(t, "include Common version '1.0.0' called C", ctx.Statements[2])
}

func TestCollectContextMissingInput(t *testing.T) {
	ctx := CollectContext(filepath.Join(t.TempDir(), "gone.cql"), nil)
	assert.Zero(t, ctx.InputSize)
	assert.Empty(t, ctx.Statements)
}

func TestWriteVerbose(t *testing.T) {
	msgs := []string{
		"Could not resolve type name Patient.",
		"Could not resolve type name Encounter.",
		"Syntax error at line 3",
	}
	ctx := Context{
		InputPath:  "Main.cql",
		InputSize:  120,
		Libraries:  []string{"Common"},
		Statements: []string{"library Main"},
	}

	var buf bytes.Buffer
	WriteVerbose(&buf, msgs, ctx)
	out := buf.String()

	assert.Contains(t, out, "Translation failed due to 3 errors")
	assert.Contains(t, out, "unresolved type name")
	assert.Contains(t, out, "Main.cql (120 bytes)")
	assert.Contains(t, out, "Libraries on search path: Common")
	assert.Contains(t, out, "library Main")
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Messages: []string{"a", "b"}}
	assert.Equal(t, "translation failed due to 2 errors", err.Error())
}
