package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

func TestRecorderLines(t *testing.T) {
	g := New()
	root := mustRoot(t, g)
	rec := NewRecorder(g)

	div, err := rec.CreateElement("div")
	require.NoError(t, err)
	txt, err := rec.CreateText("a\"b")
	require.NoError(t, err)
	require.NoError(t, rec.Append(div, txt))
	require.NoError(t, rec.Append(root, div))
	h, err := rec.ChildAt(root, 0)
	require.NoError(t, err)
	other, err := rec.CreateText("z")
	require.NoError(t, err)
	require.NoError(t, rec.ReplaceChildAt(h, 0, other))
	require.NoError(t, rec.RemoveChildAt(h, 0))

	assert.Equal(t, []string{
		`CreateElement("div") = #2`,
		`CreateText("a\"b") = #3`,
		`Append(#2, #3)`,
		`Append(#1, #2)`,
		`ChildAt(#1, 0) = #4`,
		`CreateText("z") = #5`,
		`ReplaceChildAt(#4, 0, #5)`,
		`RemoveChildAt(#4, 0)`,
	}, rec.Lines())

	assert.Equal(t, 8, rec.Count())
	assert.Equal(t, 2, rec.Count(vdom.OpAppend))
	assert.Equal(t, 3, rec.Count(vdom.OpCreateElement, vdom.OpCreateText))

	rec.Reset()
	assert.Empty(t, rec.Calls())
	assert.Equal(t, "", rec.String())
}

func TestRecorderRecordsFailures(t *testing.T) {
	rec := NewRecorder(New())
	err := rec.RemoveChildAt(9, 0)
	require.ErrorIs(t, err, ErrInvalidHandle)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.ErrorIs(t, calls[0].Err, ErrInvalidHandle)
	assert.Contains(t, calls[0].String(), "RemoveChildAt(#9, 0) ! host: invalid handle")
}
