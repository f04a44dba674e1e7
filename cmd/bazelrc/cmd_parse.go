package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/bazelrc/format"
	"github.com/dhamidi/bazelrc/project"
	"github.com/dhamidi/bazelrc/rcfile"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string
	var includeTokens bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an rc file and dump its lines with source spans",
		Long: `Parse an rc file and dump its lines with source spans.

Lexical errors are included in the output and do not make the command fail.
Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			source, err := readInput(cmd.InOrStdin(), filename, opts.config.MaxFileSize)
			if err != nil {
				return err
			}

			encoder, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			doc := format.NewDocument(filename, source, rcfile.Parse(source), includeTokens)
			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"output format ("+strings.Join(format.Formats, ", ")+")")
	cmd.Flags().BoolVar(&includeTokens, "tokens", false, "include the raw token stream")

	return cmd
}

func readInput(stdin io.Reader, filename string, limit int64) (string, error) {
	if filename != "-" {
		return project.ReadSource(filename, limit)
	}
	data, err := io.ReadAll(io.LimitReader(stdin, limit+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("read stdin: %w", project.ErrFileTooLarge)
	}
	return string(data), nil
}
