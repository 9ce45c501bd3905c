package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_SupportsLanguage(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.SupportsLanguage("go"))
	assert.True(t, e.SupportsLanguage("rust"))
	assert.False(t, e.SupportsLanguage("cobol"))
}

func TestEngine_ParseFile_UnsupportedLanguageReturnsError(t *testing.T) {
	e := NewEngine()
	_, err := e.ParseFile("cobol", []byte("IDENTIFICATION DIVISION."))
	assert.Error(t, err)
}

func TestEngine_ParseFile_GoExtractsTopLevelFunctions(t *testing.T) {
	e := NewEngine()
	src := `package main

func add(a, b int) int {
	return a + b
}

func main() {
	add(1, 2)
}
`
	pf, err := e.ParseFile("go", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, pf)
	assert.Equal(t, "go", pf.Language)

	var names []string
	for _, n := range pf.Nodes {
		if n.Kind == NodeFunction {
			names = append(names, n.Name)
		}
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "main")
}

func TestEngine_ParseFile_PopulatesSortedBoundaries(t *testing.T) {
	e := NewEngine()
	src := `package main

const Max = 10

func run() {}
`
	pf, err := e.ParseFile("go", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, pf.Boundaries)

	for i := 1; i < len(pf.Boundaries); i++ {
		prev, cur := pf.Boundaries[i-1], pf.Boundaries[i]
		if prev.Line == cur.Line {
			assert.GreaterOrEqual(t, prev.Strength, cur.Strength)
		} else {
			assert.Less(t, prev.Line, cur.Line)
		}
	}
}

func TestEngine_ParseFile_SyntaxErrorsSurfaceAsMarkersNotFailures(t *testing.T) {
	e := NewEngine()
	pf, err := e.ParseFile("go", []byte("package main\nfunc broken( {\n"))
	require.NoError(t, err)
	assert.False(t, pf.Valid())
}
