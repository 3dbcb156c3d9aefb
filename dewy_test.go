package dewy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile_SimpleConcatenation(t *testing.T) {
	gr, err := Compile(`#S = 'a' 'b';`, "")
	require.NoError(t, err)

	forest, root, err := gr.Parse("ab")
	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.GreaterOrEqual(t, root, 0)
}

func Test_Compile_RejectsBadInput(t *testing.T) {
	gr, err := Compile(`#S = 'a' | 'b';`, "")
	require.NoError(t, err)

	_, _, err = gr.Parse("c")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, parseErr.Pos)
}

func Test_Compile_ReportsScanErrorPosition(t *testing.T) {
	_, err := Compile(`#S = 'a` /* unterminated string literal */, "")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "scan", compileErr.Stage)
}

func Test_Compile_StartOverrideSelectsNamedRule(t *testing.T) {
	gr, err := Compile(`#S = 'a'; #T = 'b';`, "T")
	require.NoError(t, err)

	_, _, err = gr.Parse("b")
	assert.NoError(t, err)

	_, _, err = gr.Parse("a")
	assert.Error(t, err)
}

func Test_Compile_AmbiguousGrammarYieldsPackedForest(t *testing.T) {
	gr, err := Compile(`#E = #E '+' #E | '1';`, "")
	require.NoError(t, err)

	forest, root, err := gr.Parse("1+1+1")
	require.NoError(t, err)
	assert.True(t, forest.IsAmbiguous(root))
}
