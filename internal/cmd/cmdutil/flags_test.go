package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/cmd/application"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

func TestResolve(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddInputFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--areas", "km2.csv"}))

	settings := application.Settings{Input: "records.csv", Areas: "old.csv", Locale: "nl"}
	require.NoError(t, flags.Resolve(cmd, &settings))
	assert.Equal(t, "records.csv", settings.Input)
	assert.Equal(t, "km2.csv", settings.Areas)
	assert.Equal(t, "nl", settings.Locale)
}

func TestResolveRequiresInput(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddInputFlags(cmd)
	require.NoError(t, cmd.ParseFlags(nil))

	err := flags.Resolve(cmd, &application.Settings{})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
