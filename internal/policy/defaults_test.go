package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, ValidatePolicy(ctx, DefaultPolicyFile, DefaultPolicy))

	e := newTestEngine(t, map[string]string{DefaultPolicyFile: DefaultPolicy})
	require.Equal(t, 1, e.PolicyCount())

	d, err := e.EvaluateBreakdown(ctx, BreakdownInput{Host: "Excel", Complexity: 40, Tasks: []string{"a"}})
	require.NoError(t, err)
	assert.True(t, d.IsAllowed())

	d, err = e.EvaluateBreakdown(ctx, BreakdownInput{Host: "Outlook", Complexity: 99})
	require.NoError(t, err)
	assert.False(t, d.IsAllowed())
	assert.Len(t, d.Warnings, 1)

	d, err = e.EvaluateDeploy(ctx, DeployInput{Environment: "dev", AppName: "func-dev", Files: []string{"host.json", "dist/.env"}})
	require.NoError(t, err)
	assert.False(t, d.IsAllowed())
	assert.Contains(t, d.Violations[0], "dist/.env")

	d, err = e.EvaluateDeploy(ctx, DeployInput{Environment: "prod", AppName: "func-prod", Files: []string{"host.json"}})
	require.NoError(t, err)
	assert.True(t, d.IsAllowed())
	assert.Len(t, d.Warnings, 1)
}
