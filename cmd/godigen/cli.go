package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/a-peyrard/godigen/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type (
	cli struct {
		rootCmd  *cobra.Command
		dir      string
		settings *config.Settings
		logger   zerolog.Logger
	}

	command interface {
		registerFlags() *cobra.Command
		run(c *cli, cmd *cobra.Command, args []string) error
	}
)

func newCLI() *cli {
	c := &cli{}
	c.rootCmd = &cobra.Command{
		Use:           "godigen",
		Short:         "godigen generates the implementation of dependency graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.rootCmd.PersistentFlags().StringVar(&c.dir, "dir", "", "directory of the module, found from the current directory by default")

	c.addCmd(&generateCmd{})
	c.addCmd(&checkCmd{})
	c.addCmd(&graphCmd{})
	return c
}

func (c *cli) Exec() error {
	err := c.rootCmd.Execute()
	if err != nil {
		c.logger.Error().Err(err).Msg("💥 godigen failed")
	}
	return err
}

func (c *cli) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		if err := c.setup(innerCmd); err != nil {
			return err
		}
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

// setup finds the module and reads the settings, environment variables override the godigen file.
func (c *cli) setup(cmd *cobra.Command) error {
	c.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	if c.dir == "" {
		c.dir = findModuleRoot()
	}
	settings, err := config.LoadSettings(c.dir)
	if err != nil {
		return fmt.Errorf("unable to load settings:\n\t%w", err)
	}
	c.settings = settings

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q:\n\t%w", settings.LogLevel, err)
	}
	c.logger = c.logger.Level(level)
	return nil
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}
