package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	quiet, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel))

	verbose, err := New(Options{Verbose: true})
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestSet_NilInstallsNop(t *testing.T) {
	orig := L()
	t.Cleanup(func() { Set(orig) })

	Set(nil)
	assert.NotNil(t, L())

	l := zap.NewExample()
	Set(l)
	assert.Same(t, l, L())
}
