package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/runoshun/promptdesk/internal/app"
	"github.com/runoshun/promptdesk/internal/domain"
	"github.com/runoshun/promptdesk/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLaunchTUI replaces launchTUIFunc for the duration of the test and
// reports whether it was called.
func mockLaunchTUI(t *testing.T) *bool {
	t.Helper()
	originalFunc := launchTUIFunc
	t.Cleanup(func() {
		launchTUIFunc = originalFunc
	})

	called := false
	launchTUIFunc = func(_ context.Context, _ *app.Container, _ *cobra.Command) error {
		called = true
		return nil
	}
	return &called
}

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	called := mockLaunchTUI(t)

	// Create root command with nil container (not used in this test)
	root := NewRootCommand(nil, "test-version")

	root.SetArgs([]string{})
	err := root.Execute()

	assert.NoError(t, err)
	assert.True(t, *called, "launchTUIFunc should be called when no arguments are provided")
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	called := mockLaunchTUI(t)

	root := NewRootCommand(nil, "test-version")
	var out bytes.Buffer
	root.SetOut(&out)

	root.SetArgs([]string{"--help"})
	err := root.Execute()

	assert.NoError(t, err)
	assert.False(t, *called, "launchTUIFunc should not be called when --help is provided")
	assert.Contains(t, out.String(), "Task Commands:")
	assert.Contains(t, out.String(), "fetch")
	assert.Contains(t, out.String(), "reply")
	assert.Contains(t, out.String(), "Setup Commands:")
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)

	root.SetArgs([]string{"--version"})
	err := root.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1.2.3")
}

func TestNewRootCommand_URLFlagOverridesConfig(t *testing.T) {
	called := mockLaunchTUI(t)
	q := testutil.NewMockQueue()
	c := app.NewWithDeps(app.Config{}, q, &testutil.MockConfigLoader{}, &testutil.MockClock{}, &testutil.MockLogger{})

	root := NewRootCommand(c, "test-version")
	root.SetArgs([]string{"--url", "http://queue.internal:8080"})
	err := root.Execute()

	require.NoError(t, err)
	assert.True(t, *called)
	assert.Equal(t, "http://queue.internal:8080", c.AppConfig.Backend.URL)
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	mockLaunchTUI(t)
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = []string{"unknown section: theme"}
	c := app.NewWithDeps(app.Config{}, testutil.NewMockQueue(), &testutil.MockConfigLoader{Config: cfg}, &testutil.MockClock{}, &testutil.MockLogger{})

	root := NewRootCommand(c, "test-version")
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs([]string{})
	err := root.Execute()

	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Warning: unknown section: theme")
}

func TestLaunchTUI_NilContainer(t *testing.T) {
	err := launchTUI(context.Background(), nil, &cobra.Command{})
	assert.Error(t, err)
}

func TestLaunchTUI_InvalidConfig(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Backend.URL = "not a url"
	c := app.NewWithDeps(app.Config{}, testutil.NewMockQueue(), &testutil.MockConfigLoader{Config: cfg}, &testutil.MockClock{}, &testutil.MockLogger{})

	err := launchTUI(context.Background(), c, &cobra.Command{})

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
