package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/tomledit/internal/logging"
)

// Version 构建时可通过 -ldflags 覆盖
var Version = "v0.1 -- HEAD"

type rootParams struct {
	LogLevel string // 日志级别
	Debug    bool   // 是否开启调试日志
	Color    string // 输出着色：auto / always / never
}

func newRootCmd() *cobra.Command {
	params := &rootParams{}
	rootCmd := &cobra.Command{
		Use:   "tomledit",
		Short: "tomledit edits TOML files without losing formatting.",
		Long:  "tomledit is a structural TOML editor. It inspects and edits documents token by token, so comments, blank lines and spacing it does not touch are kept byte for byte.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), logging.ResolveLevel(params.LogLevel, params.Debug))
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&params.LogLevel, "log-level", "info", "log level: debug, info, warn, error (env "+logging.EnvLevel+")")
	rootCmd.PersistentFlags().BoolVar(&params.Debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&params.Color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTomlCmd(params))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tomledit",
		Long:  `All software has versions. This is tomledit's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tomledit "+Version)
		},
	}
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Default().Error("command failed", logging.FieldError, err)
		os.Exit(1)
	}
}
