package cmd

import (
	"testing"

	"sublime-migrate/core/config"
	"sublime-migrate/feature/orchestrator"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"get", "actions"}, {"get", "rules"}, {"get", "lists"}, {"get", "exclusions"}, {"get", "feeds"},
		{"auth", "verify"}, {"auth", "regions"},
		{"compare"},
		{"history", "list"}, {"history", "show"}, {"history", "archive"},
	}
	for _, step := range orchestrator.StepNames {
		paths = append(paths, []string{"migrate", step})
	}
	paths = append(paths, []string{"migrate", "all"})

	for _, p := range paths {
		c, _, err := RootCmd.Find(p)
		require.NoError(t, err, p)
		assert.Equal(t, p[len(p)-1], c.Name())
	}
}

func TestMigrationFlags(t *testing.T) {
	for _, step := range orchestrator.StepNames {
		c, _, err := RootCmd.Find([]string{"migrate", step})
		require.NoError(t, err)
		assert.NotNil(t, c.Flags().Lookup("dry-run"), step)
		assert.NotNil(t, c.Flags().ShorthandLookup("y"), step)
	}
	assert.NotNil(t, migrateAllCmd.Flags().Lookup("skip"))
	assert.NotNil(t, migrateRulesCmd.Flags().Lookup("type"))
	assert.NotNil(t, migrateActionsToRulesCmd.Flags().Lookup("include-action-ids"))
}

func TestApplyFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "test"}
		f := c.Flags()
		f.StringVar(&globals.format, "format", "", "")
		f.StringVar(&globals.outputFile, "output", "", "")
		f.StringVar(&globals.apiKey, "api-key", "", "")
		f.StringVar(&globals.destRegion, "dest-region", "", "")
		return c
	}

	t.Run("OverridesOnlyChangedFlags", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Set("api-key", "flag-key"))
		require.NoError(t, c.Flags().Set("dest-region", "EU_UK"))

		cfg := &config.Config{}
		cfg.Source.Region = "NA_WEST"
		cfg.Output.Format = "json"
		applyFlags(c, cfg)

		assert.Equal(t, "flag-key", cfg.Source.APIKey)
		assert.Equal(t, "NA_WEST", cfg.Source.Region)
		assert.Equal(t, "EU_UK", cfg.Destination.Region)
		assert.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("OutputFileImpliesMarkdown", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Set("output", "report.md"))

		cfg := &config.Config{}
		applyFlags(c, cfg)
		assert.Equal(t, "markdown", cfg.Output.Format)
		assert.Equal(t, "report.md", cfg.Output.File)
	})

	t.Run("ExplicitFormatWins", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Set("output", "report.md"))
		require.NoError(t, c.Flags().Set("format", "yaml"))

		cfg := &config.Config{}
		applyFlags(c, cfg)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})
}

func TestValidateRuleType(t *testing.T) {
	assert.NoError(t, validateRuleType(""))
	assert.NoError(t, validateRuleType("triage"))
	assert.EqualError(t, validateRuleType("yara"), "type: must be detection or triage")
}

func TestRegionTable(t *testing.T) {
	secs := RegionTable{{Code: "NA_EAST", Description: "North America East", BaseURL: "https://x"}}.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, []string{"NA_EAST", "North America East", "https://x"}, secs[0].Rows[0])
}
