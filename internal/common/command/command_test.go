package command

import (
	"context"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecExecutor_CapturesOutputAndExitCode(t *testing.T) {
	requireShell(t)
	e := NewExecExecutor(zerolog.Nop())

	res, err := e.Execute(context.Background(), "", "sh", "-c", "echo out; echo err 1>&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestExecExecutor_RunsInDir(t *testing.T) {
	requireShell(t)
	e := NewExecExecutor(zerolog.Nop())
	dir := t.TempDir()

	res, err := e.Execute(context.Background(), dir, "sh", "-c", "pwd")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Stdout), dir)
}

func TestExecExecutor_SpawnFailure(t *testing.T) {
	e := NewExecExecutor(zerolog.Nop())

	_, err := e.Execute(context.Background(), "", "definitely-not-a-real-binary-8b1f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestExitPolicy_Classify(t *testing.T) {
	p := ExitPolicy{SuccessCodes: []int{0}, FindingsCodes: []int{1}}

	tests := []struct {
		code int
		want Outcome
	}{
		{0, OutcomeClean},
		{1, OutcomeFindings},
		{2, OutcomeFailed},
		{126, OutcomeFailed},
		{-1, OutcomeFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Classify(tt.code), "exit code %d", tt.code)
	}

	assert.Equal(t, OutcomeFailed, ExitPolicy{SuccessCodes: []int{0}}.Classify(1))
	assert.Equal(t, "findings", OutcomeFindings.String())
}
