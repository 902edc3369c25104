package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakePosLineCol(t *testing.T) {
	cases := []struct{ line, col int }{
		{1, 1}, {1, 2}, {42, 7}, {MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		require.Equal(t, c.line, gotLine)
		require.Equal(t, c.col, gotCol)
	}
}

func TestPosUnknown(t *testing.T) {
	require.True(t, Pos(0).Unknown())
	require.False(t, MakePos(1, 1).Unknown())
}

func TestPositionString(t *testing.T) {
	p := Position{Filename: "a.zero", Pos: MakePos(3, 7)}
	require.Equal(t, "a.zero:3:7", p.String())

	p2 := Position{Pos: MakePos(1, 1)}
	require.Equal(t, "1:1", p2.String())
}
