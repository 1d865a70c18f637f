package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pinbox/pinbox/internal/appdir"
	"github.com/pinbox/pinbox/internal/config"
	"github.com/pinbox/pinbox/internal/logging"
	"github.com/pinbox/pinbox/internal/vcs"
)

// Settings resolved from flags, then PINBOX_* environment variables.
const (
	flagConfigDir = "config-dir"
	flagVerbose   = "verbose"
	flagLogFile   = "log-file"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v *viper.Viper

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	dirs     *appdir.Dirs
	store    *config.Store
	logger   *zap.Logger
	closeLog func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(appdir.AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		v:      v,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: zap.NewNop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pinbox",
		Short: "Bookmarks stored in a git repository",
		Long: `pinbox keeps bookmarks and their categories in a git repository and
uses a remote git host to sync them.

Point it at a remote first:

  pinbox config git.repository https://example.com/u/notes.git
  pinbox config git.token <token>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfigDir, "", "base configuration directory (default: the OS user config dir)")
	flags.BoolP(flagVerbose, "v", false, "enable debug logging")
	flags.Bool(flagLogFile, false, "also write logs to pinbox.log in the pinbox directory")

	rootCmd.AddCommand(
		newConfigCmd(a),
		newCategoriesCmd(a),
		newPinCmd(a),
		newAddCmd(a),
	)
	return rootCmd
}

// setup resolves the settings of cmd and builds the directories, config
// store and logger from them.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	base := appdir.UserConfigDir
	if dir := a.v.GetString(flagConfigDir); dir != "" {
		base = appdir.Fixed(dir)
	}
	a.dirs = appdir.New(base)

	opts := logging.Options{
		Verbose: a.v.GetBool(flagVerbose),
		Console: a.stderr,
	}
	if a.v.GetBool(flagLogFile) {
		path, err := a.dirs.LogFile()
		if err != nil {
			return err
		}
		opts.LogFile = path
	}

	a.logger, a.closeLog = logging.New(opts)
	a.store = config.NewStore(a.dirs, a.logger)
	return nil
}

// report records a failed command in the log.
func (a *app) report(err error) {
	kind := "failure"
	switch {
	case vcs.IsUserActionRequired(err):
		kind = "user-action"
	case vcs.IsFatal(err):
		kind = "fatal"
	}
	a.logger.Info("command failed", zap.String("kind", kind), zap.Error(err))
}

func (a *app) close() {
	if a.closeLog == nil {
		return
	}
	if err := a.closeLog(); err != nil {
		a.logger.Warn("failed to close log file", zap.Error(err))
	}
}
