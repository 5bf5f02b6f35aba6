package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: action,
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				app := newApp(func(c *cli.Context) error { return nil })
				err := app.Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		app := newApp(func(c *cli.Context) error { return nil })
		err := app.Run([]string{"test", "--log-level", "WaRn"})
		require.NoError(t, err)
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := newApp(func(c *cli.Context) error { return nil })
		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "verbose")
	})

	t.Run("default level is info", func(t *testing.T) {
		app := newApp(func(c *cli.Context) error {
			assert.Equal(t, "info", c.String("log-level"))
			return nil
		})
		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})
}

func TestSearchCommandValidation(t *testing.T) {
	t.Run("rejects unknown mode before connecting", func(t *testing.T) {
		app := &cli.App{
			Name: "lectern",
			Commands: []*cli.Command{
				{
					Name:   "search",
					Action: searchCommand,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "mode", Value: "enhanced"},
						&cli.IntFlag{Name: "size", Value: 50},
						&cli.BoolFlag{Name: "group"},
					},
				},
			},
		}

		err := app.Run([]string{"lectern", "search", "--mode", "fuzzy", "الصلاة"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mode")
	})

	t.Run("requires query terms", func(t *testing.T) {
		app := &cli.App{
			Name: "lectern",
			Commands: []*cli.Command{
				{
					Name:   "search",
					Action: searchCommand,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "mode", Value: "enhanced"},
					},
				},
			},
		}

		err := app.Run([]string{"lectern", "search"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query terms")
	})
}
