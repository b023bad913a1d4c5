package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

const codeReply = "Here is the code:\n```typescript\nawait Excel.run(async (context) => {\n  await context.sync();\n});\n```\nIt runs on the active sheet."

func acceptedSpec(complexity int) *spec.Spec {
	s := spec.New("insert a chart for sales data")
	s.ApplyBreakdown(&spec.BreakdownResult{
		Host:           "Excel",
		ShouldContinue: true,
		Complexity:     complexity,
		Data:           []string{"Get the used range", "Add a column chart"},
	})
	return s
}

func TestExtractCode(t *testing.T) {
	code, err := ExtractCode(codeReply)
	require.NoError(t, err)
	assert.Equal(t, "await Excel.run(async (context) => {\n  await context.sync();\n});", code)

	_, err = ExtractCode("```js\nconsole.log(1)\n```")
	assert.ErrorIs(t, err, ErrNoCodeBlock)

	_, err = ExtractCode("no code here")
	assert.ErrorIs(t, err, ErrNoCodeBlock)
}

func TestCodegenRole(t *testing.T) {
	tests := []struct {
		complexity int
		want       llm.Role
	}{
		{1, llm.RoleCodegen},
		{50, llm.RoleCodegen},
		{51, llm.RoleCodegenAdvanced},
		{100, llm.RoleCodegenAdvanced},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodegenRole(tt.complexity), "complexity %d", tt.complexity)
	}
}

func TestCodegenRun_ModelSelection(t *testing.T) {
	tests := []struct {
		complexity int
		wantRole   llm.Role
	}{
		{50, llm.RoleCodegen},
		{51, llm.RoleCodegenAdvanced},
	}
	for _, tt := range tests {
		models := newFakeModels("", codeReply, codeReply)
		s := acceptedSpec(tt.complexity)

		gen, err := NewCodegen(models, nil, 0, nil).Run(context.Background(), s)
		require.NoError(t, err)

		assert.Equal(t, []llm.Role{tt.wantRole}, models.roles, "complexity %d", tt.complexity)
		assert.Equal(t, "fake-"+string(tt.wantRole), gen.Model)
		assert.Equal(t, gen.Model, s.Appendix.Model)
		assert.Equal(t, gen.Code, s.Appendix.CodeSnippet)
	}
}

func TestCodegenRun_NoFenceReturnsNil(t *testing.T) {
	models := newFakeModels("", "Sure! Call Excel.run and add a chart.", "")
	s := acceptedSpec(20)

	gen, err := NewCodegen(models, nil, 0, nil).Run(context.Background(), s)
	assert.Nil(t, gen)
	assert.ErrorIs(t, err, ErrNoCodeBlock)
	assert.Empty(t, s.Appendix.CodeSnippet)
}

func TestCodegenRun_UsesSamples(t *testing.T) {
	models := newFakeModels("", codeReply, "")
	src := &fakeSamples{matches: []samples.Match{
		{Sample: samples.Sample{ID: "excel-add-chart", Description: "Add a column chart", Code: "sheet.charts.add(...)"}, Score: 0.5},
	}}
	s := acceptedSpec(30)

	gen, err := NewCodegen(models, src, 2, nil).Run(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	assert.Equal(t, "Excel", src.queries[0].Host)
	assert.Equal(t, 2, src.queries[0].Limit)
	assert.Equal(t, []string{"excel-add-chart"}, gen.SampleIDs)
	assert.Equal(t, 1.0, s.Appendix.Telemetry.Measurement(spec.MeasureSamplesUsed))

	system := models.byRole[llm.RoleCodegen].lastSystemPrompt()
	assert.Contains(t, system, "sheet.charts.add(...)")
	assert.Contains(t, system, "Excel.run")
	assert.Contains(t, models.byRole[llm.RoleCodegen].lastUserPrompt(), "2. Add a column chart")
}

func TestCodegenRun_AtMostTwoSamples(t *testing.T) {
	models := newFakeModels("", codeReply, "")
	src := &fakeSamples{matches: []samples.Match{
		{Sample: samples.Sample{ID: "a", Description: "A", Code: "a()"}, Score: 0.9},
		{Sample: samples.Sample{ID: "b", Description: "B", Code: "b()"}, Score: 0.8},
		{Sample: samples.Sample{ID: "c", Description: "C", Code: "c()"}, Score: 0.7},
	}}
	s := acceptedSpec(30)

	gen, err := NewCodegen(models, src, 10, nil).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 2, src.queries[0].Limit)
	assert.Equal(t, []string{"a", "b"}, gen.SampleIDs)
	assert.NotContains(t, models.byRole[llm.RoleCodegen].lastSystemPrompt(), "c()")
}

func TestCodegenRun_SampleFailureDegrades(t *testing.T) {
	models := newFakeModels("", codeReply, "")
	src := &fakeSamples{err: errors.New("embedder down")}

	gen, err := NewCodegen(models, src, 0, nil).Run(context.Background(), acceptedSpec(10))
	require.NoError(t, err)
	assert.Empty(t, gen.SampleIDs)
}

func TestCodegenRun_RequiresTasks(t *testing.T) {
	models := newFakeModels("", codeReply, "")
	_, err := NewCodegen(models, nil, 0, nil).Run(context.Background(), spec.New("x"))
	require.Error(t, err)
	assert.Empty(t, models.roles)
}
