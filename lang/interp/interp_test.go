package interp_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/zero/lang/interp"
	"github.com/mna/zero/lang/parser"
	"github.com/mna/zero/lang/token"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	fset := token.NewFileSet()
	chunk, err := parser.ParseChunk(fset, "test.zero", []byte(src))
	require.NoError(t, err)

	var out bytes.Buffer
	ip := interp.New()
	ip.Stdout = &out
	_, runErr := ip.Run(context.Background(), chunk)
	return out.String(), runErr
}

func TestRunArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print(1 + 2 * 3);`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestRunFunctionCallAndForwardReference(t *testing.T) {
	out, err := run(t, `
print(add(2, 3));
fn add(a: int, b: int) -> int {
	return a + b;
}`)
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestRunWhileLoopWithBreak(t *testing.T) {
	out, err := run(t, `
var i = 0;
while true {
	if i == 3 {
		break;
	}
	print(i);
	i = i + 1;
}`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestRunForRangeWithContinue(t *testing.T) {
	out, err := run(t, `
for i in 0..5 {
	if i % 2 == 0 {
		continue;
	}
	print(i);
}`)
	require.NoError(t, err)
	require.Equal(t, "1\n3\n", out)
}

func TestRunStructFieldAndMethod(t *testing.T) {
	out, err := run(t, `
struct Point {
	x: int,
	y: int
};

impl Point {
	fn sum(self) -> int {
		return self.x + self.y;
	}
}

let p = Point{x: 1, y: 2};
print(p.sum());
print(p.x);`)
	require.NoError(t, err)
	require.Equal(t, "3\n1\n", out)
}

func TestRunArrayIndexWriteBack(t *testing.T) {
	out, err := run(t, `
let a = [1, 2, 3];
a[1] = 9;
print(a[1]);
print(a[-1]);`)
	require.NoError(t, err)
	require.Equal(t, "9\n3\n", out)
}

func TestRunDivisionByZeroReportsRuntimeError(t *testing.T) {
	_, err := run(t, `print(1 / 0);`)
	require.Error(t, err)
	ierr, ok := err.(*interp.Error)
	require.True(t, ok)
	require.Contains(t, ierr.Error(), "division by zero")
}

func TestRunTypeErrorHaltsPipeline(t *testing.T) {
	_, err := run(t, `print(1 + true);`)
	require.Error(t, err)
	// A type error is caught by the checker before any statement executes,
	// so it is not an *interp.Error.
	_, ok := err.(*interp.Error)
	require.False(t, ok)
}
