package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
)

func TestWorkflowValidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty workflow", func(t *testing.T) {
		t.Parallel()
		err := domain.Workflow{}.Validate()
		require.Error(t, err)
	})

	t.Run("rejects duplicate step names", func(t *testing.T) {
		t.Parallel()
		wf := domain.Workflow{Steps: []domain.Step{{Name: "a"}, {Name: "a"}}}
		require.Error(t, wf.Validate())
	})

	t.Run("rejects negative max_retries", func(t *testing.T) {
		t.Parallel()
		neg := -1
		wf := domain.Workflow{Steps: []domain.Step{{Name: "a", Run: "true", MaxRetries: &neg}}}
		require.Error(t, wf.Validate())
	})

	t.Run("rejects gate step with verify", func(t *testing.T) {
		t.Parallel()
		wf := domain.Workflow{Steps: []domain.Step{{Name: "g", Verify: "true"}}}
		require.Error(t, wf.Validate())
	})

	t.Run("accepts a well-formed workflow", func(t *testing.T) {
		t.Parallel()
		wf := domain.Workflow{Steps: []domain.Step{
			{Name: "build", Run: "go build ./..."},
			{Name: "approve"},
		}}
		assert.NoError(t, wf.Validate())
	})
}

func TestWorkflowIndexOf(t *testing.T) {
	t.Parallel()

	wf := domain.Workflow{Steps: []domain.Step{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, 1, wf.IndexOf("b"))
	assert.Equal(t, -1, wf.IndexOf("missing"))
}

func TestValidateSkipList(t *testing.T) {
	t.Parallel()

	wf := domain.Workflow{Steps: []domain.Step{{Name: "a"}, {Name: "b"}}}
	assert.NoError(t, wf.ValidateSkipList([]string{"a"}))
	assert.Error(t, wf.ValidateSkipList([]string{"missing"}))
}

func TestStepEffectiveMaxRetries(t *testing.T) {
	t.Parallel()

	override := 5
	assert.Equal(t, 5, domain.Step{MaxRetries: &override}.EffectiveMaxRetries(2))
	assert.Equal(t, 2, domain.Step{}.EffectiveMaxRetries(2))
}

func TestValidateTaskName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, domain.ValidateTaskName("build-api"))
	assert.Error(t, domain.ValidateTaskName(""))
	assert.Error(t, domain.ValidateTaskName("../etc"))
	assert.Error(t, domain.ValidateTaskName("has space"))
}
