package types_test

import (
	"testing"

	"github.com/mna/zero/lang/types"
	"github.com/stretchr/testify/require"
)

func TestCompatibleNumeric(t *testing.T) {
	require.True(t, types.Compatible(types.IntType, types.FloatType))
	require.True(t, types.Compatible(types.IntType, types.IntType))
}

func TestCompatibleUnknown(t *testing.T) {
	require.True(t, types.Compatible(types.UnknownType, types.StringType))
	require.True(t, types.Compatible(types.BoolType, types.UnknownType))
}

func TestCompatibleArray(t *testing.T) {
	a := types.NewArray(types.IntType)
	b := types.NewArray(types.FloatType)
	require.True(t, types.Compatible(a, b))

	c := types.NewArray(types.StringType)
	require.False(t, types.Compatible(a, c))
}

func TestCompatibleStructByName(t *testing.T) {
	p1 := types.NewStruct("Point", []types.StructField{{Name: "x", Type: types.IntType}})
	p2 := types.NewStruct("Point", []types.StructField{{Name: "x", Type: types.IntType}})
	other := types.NewStruct("Other", nil)
	require.True(t, types.Compatible(p1, p2))
	require.False(t, types.Compatible(p1, other))
}

func TestIncompatibleKinds(t *testing.T) {
	require.False(t, types.Compatible(types.StringType, types.BoolType))
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "[int]", types.NewArray(types.IntType).String())
	fn := types.NewFunction([]types.Type{types.IntType, types.IntType}, types.IntType)
	require.Equal(t, "fn(int, int) -> int", fn.String())
}
