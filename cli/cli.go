// SPDX-License-Identifier: MIT

// Package cli implements the smallmat command line: evaluate catalog
// operations on JSON tensors, run request batches, and convert tensors
// between the JSON and binary encodings.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "smallmat",
		Short:         "Shape-specialized small matrix operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(cmd.ErrOrStderr(), verbose)
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Log kernel specialization at debug level")

	rootCmd.AddCommand(
		newEvalCmd(),
		newBatchCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newOpsCmd(),
	)
	appendEnvDocs(rootCmd)
	return rootCmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				if source, ok := attr.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	})
	slog.SetDefault(slog.New(handler))
}

func appendEnvDocs(cmd *cobra.Command) {
	envs := AsMap()
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("\nEnvironment Variables:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "      %-16s %s\n", name, envs[name].Description)
	}
	cmd.SetUsageTemplate(cmd.UsageTemplate() + sb.String())
}
