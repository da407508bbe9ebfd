package pyrltest_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pyrl-lang/pyrl/internal/vm"
)

// TestSleepLeavesNoGoroutineBehind guards the one built-in that blocks a
// call's goroutine on a timer (builtins.go's biSleep).
func TestSleepLeavesNoGoroutineBehind(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := vm.New()
	res := v.Execute(`sleep(0.01)
print("done")
`)
	require.Nil(t, res.Error)
	require.Equal(t, "done\n", res.Stdout)
}

// TestRunTestsLeavesNoGoroutineBehind guards run_tests(), the other path
// that executes a batch of previously-registered bodies outside the normal
// single top-level Run() call.
func TestRunTestsLeavesNoGoroutineBehind(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := vm.New()
	res := v.Execute(`test "addition" {
    assert 1 + 1 == 2
}
test "sleeps a little" {
    sleep(0.01)
    assert True
}
`)
	require.Nil(t, res.Error)

	summary := v.RunTests()
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 2, summary.Passed)
	require.Equal(t, 0, summary.Failed)
}
