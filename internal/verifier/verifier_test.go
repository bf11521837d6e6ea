package verifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/verifier"
)

func TestVerifyAbsentPasses(t *testing.T) {
	t.Parallel()

	result, fb, err := verifier.Verify(context.Background(), "", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyPassed, result)
	assert.Empty(t, fb)
}

func TestVerifyHumanYields(t *testing.T) {
	t.Parallel()

	result, _, err := verifier.Verify(context.Background(), "human", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyPending, result)
}

func TestVerifyShellCommandPasses(t *testing.T) {
	t.Parallel()

	result, _, err := verifier.Verify(context.Background(), "true", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyPassed, result)
}

func TestVerifyShellCommandFailsWithFeedback(t *testing.T) {
	t.Parallel()

	result, fb, err := verifier.Verify(context.Background(), "echo boom >&2; exit 1", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyFailed, result)
	assert.Contains(t, fb, "boom")
}
