package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestApp(action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name: "promptdeck",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				EnvVars: []string{"PROMPTDECK_DB"},
			},
		},
		Before: setupLogger,
		Action: action,
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Info"} {
			t.Run(level, func(t *testing.T) {
				app := newTestApp(func(c *cli.Context) error { return nil })
				require.NoError(t, app.Run([]string{"promptdeck", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := newTestApp(func(c *cli.Context) error { return nil })
		err := app.Run([]string{"promptdeck", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestDatabasePath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		app := newTestApp(func(c *cli.Context) error {
			path, err := databasePath(c)
			require.NoError(t, err)
			assert.Equal(t, "/tmp/deck", path)
			return nil
		})
		require.NoError(t, app.Run([]string{"promptdeck", "--db", "/tmp/deck"}))
	})

	t.Run("env var fills the flag", func(t *testing.T) {
		t.Setenv("PROMPTDECK_DB", "/tmp/from-env")
		app := newTestApp(func(c *cli.Context) error {
			path, err := databasePath(c)
			require.NoError(t, err)
			assert.Equal(t, "/tmp/from-env", path)
			return nil
		})
		require.NoError(t, app.Run([]string{"promptdeck"}))
	})

	t.Run("defaults under the home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		app := newTestApp(func(c *cli.Context) error {
			path, err := databasePath(c)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(home, ".promptdeck"), path)
			return nil
		})
		require.NoError(t, app.Run([]string{"promptdeck"}))
	})
}
