// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/promptpack/promptpack/internal/config"
	"github.com/promptpack/promptpack/internal/options"
	"github.com/promptpack/promptpack/internal/output"
	"github.com/promptpack/promptpack/internal/services/clipboard"
	"github.com/promptpack/promptpack/internal/stats"
	"github.com/promptpack/promptpack/internal/stream"
	"github.com/promptpack/promptpack/internal/tokenizer"
	"github.com/promptpack/promptpack/internal/utils"
)

const (
	rootUse              = "promptpack [paths...]"
	rootShortDescription = "concatenate files into one annotated stream for LLM prompts"
	rootLongDescription  = `promptpack takes one or more paths to files or directories and outputs every
file, recursively, each one preceded by its path:

    path/to/file.py
    ---
    Contents of file.py goes here

    ---

Use --cxml for a <documents> wrapper suited to long-context prompts, or
--markdown for fenced code blocks. Additional paths are read from standard
input when it is not a terminal.`
	rootUsageExample = `  # Pack a source tree as Claude XML into a file
  promptpack --cxml -o context.xml ./src

  # Only Python and Markdown files, with line numbers
  promptpack -e py -e md -n .

  # Combine with a file list produced by another tool
  find . -name "*.go" | promptpack --copy`

	extensionFlagName       = "extension"
	includeHiddenFlagName   = "include-hidden"
	ignoreFilesOnlyFlagName = "ignore-files-only"
	ignoreGitignoreFlagName = "ignore-gitignore"
	ignoreFlagName          = "ignore"
	outputFlagName          = "output"
	copyFlagName            = "copy"
	claudeXMLFlagName       = "cxml"
	markdownFlagName        = "markdown"
	lineNumbersFlagName     = "line-numbers"
	nullFlagName            = "null"
	statsFlagName           = "stats"
	noConfigFlagName        = "no-config"

	extensionFlagDescription       = "only include files whose name ends with this suffix (repeatable)"
	includeHiddenFlagDescription   = "include files and folders starting with ."
	ignoreFilesOnlyFlagDescription = "--ignore patterns only apply to files, never to directories"
	ignoreGitignoreFlagDescription = "ignore .gitignore files and include all files"
	ignoreFlagDescription          = "glob pattern of entries to exclude (repeatable)"
	outputFlagDescription          = "write the output to a file instead of stdout"
	copyFlagDescription            = "copy the output to the system clipboard"
	claudeXMLFlagDescription       = "output in XML-ish format suitable for Claude's long context window"
	markdownFlagDescription        = "output Markdown with fenced code blocks"
	lineNumbersFlagDescription     = "add line numbers to the output"
	nullFlagDescription            = "use NUL as the separator when reading paths from stdin"
	statsFlagDescription           = "show statistics about processed files on stderr"
	noConfigFlagDescription        = "skip user and project configuration files"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	createOutputErrorFormat     = "creating output file %s: %w"
	warningSkipFileFormat       = "Warning: skipping file %s: %s"
	clipboardCopiedNoticeFormat = "copied %d characters to clipboard"
	clipboardFallbackWarning    = "falling back to standard output"
)

// Execute runs the promptpack application.
func Execute(logger *zap.Logger) error {
	return NewRootCommand(logger).Execute()
}

// commandFlags stores the raw flag values bound to the root command.
type commandFlags struct {
	values        options.CLIValues
	nullSeparator bool
	statsEnabled  bool
	skipConfig    bool
}

// NewRootCommand builds the Cobra command implementing the tool.
func NewRootCommand(logger *zap.Logger) *cobra.Command {
	var flags commandFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return run(command, arguments, &flags, logger)
		},
	}

	rootCommand.Flags().StringArrayVarP(&flags.values.Extensions, extensionFlagName, "e", nil, extensionFlagDescription)
	rootCommand.Flags().BoolVar(&flags.values.IncludeHidden, includeHiddenFlagName, false, includeHiddenFlagDescription)
	rootCommand.Flags().BoolVar(&flags.values.IgnoreFilesOnly, ignoreFilesOnlyFlagName, false, ignoreFilesOnlyFlagDescription)
	rootCommand.Flags().BoolVar(&flags.values.IgnoreGitignore, ignoreGitignoreFlagName, false, ignoreGitignoreFlagDescription)
	rootCommand.Flags().StringArrayVar(&flags.values.IgnorePatterns, ignoreFlagName, nil, ignoreFlagDescription)
	rootCommand.Flags().StringVarP(&flags.values.Output, outputFlagName, "o", "", outputFlagDescription)
	rootCommand.Flags().BoolVar(&flags.values.CopyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.values.ClaudeXML, claudeXMLFlagName, "c", false, claudeXMLFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.values.Markdown, markdownFlagName, "m", false, markdownFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.values.LineNumbers, lineNumbersFlagName, "n", false, lineNumbersFlagDescription)
	rootCommand.Flags().BoolVarP(&flags.nullSeparator, nullFlagName, "0", false, nullFlagDescription)
	rootCommand.Flags().BoolVar(&flags.statsEnabled, statsFlagName, false, statsFlagDescription)
	rootCommand.Flags().BoolVar(&flags.skipConfig, noConfigFlagName, false, noConfigFlagDescription)

	return rootCommand
}

// explicitOptionNames maps the option keys to whether their flag was
// supplied on the command line.
func explicitOptionNames(command *cobra.Command) map[string]bool {
	flagNamesByOptionKey := map[string]string{
		config.KeyIncludeHidden:   includeHiddenFlagName,
		config.KeyIgnoreFilesOnly: ignoreFilesOnlyFlagName,
		config.KeyIgnoreGitignore: ignoreGitignoreFlagName,
		config.KeyCopyToClipboard: copyFlagName,
		config.KeyClaudeXML:       claudeXMLFlagName,
		config.KeyMarkdown:        markdownFlagName,
		config.KeyLineNumbers:     lineNumbersFlagName,
		config.KeyOutput:          outputFlagName,
	}
	explicit := make(map[string]bool, len(flagNamesByOptionKey))
	for optionKey, flagName := range flagNamesByOptionKey {
		explicit[optionKey] = command.Flags().Changed(flagName)
	}
	return explicit
}

// run resolves options, walks the roots, and drives the selected renderer
// and sink.
func run(command *cobra.Command, arguments []string, flags *commandFlags, logger *zap.Logger) (err error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	defaults, resolveError := config.Resolve(flags.skipConfig, workingDirectory, logger)
	if resolveError != nil {
		return resolveError
	}
	resolved := options.Merge(flags.values, explicitOptionNames(command), defaults, logger)

	roots := append([]string{}, arguments...)
	roots = append(roots, readStandardInputPaths(command.InOrStdin(), flags.nullSeparator)...)

	var clipboardBuffer *bytes.Buffer
	destination := command.OutOrStdout()
	var outputFile *os.File
	switch {
	case resolved.Output != "":
		createdFile, createError := os.Create(resolved.Output)
		if createError != nil {
			return fmt.Errorf(createOutputErrorFormat, resolved.Output, createError)
		}
		outputFile = createdFile
		destination = createdFile
	case resolved.CopyToClipboard:
		clipboardBuffer = &bytes.Buffer{}
		destination = clipboardBuffer
	}

	renderer, rendererError := output.NewRenderer(resolved.Format(), destination)
	if rendererError != nil {
		return rendererError
	}

	var collector *stats.Collector
	if flags.statsEnabled {
		collector = stats.NewCollector(tokenizer.NewCounter())
	}

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.Files(streamCtx, stream.WalkOptions{Roots: roots, Resolved: resolved}, events)
	}
	consumer := func(event stream.Event) error {
		switch event.Kind {
		case stream.EventKindFile:
			if collector != nil {
				collector.AddFile(event.File.Path, event.File.Content)
			}
			record := *event.File
			if resolved.LineNumbers {
				record.Content = output.AddLineNumbers(record.Content)
			}
			return renderer.RenderFile(record)
		case stream.EventKindSkip:
			logger.Warn(fmt.Sprintf(warningSkipFileFormat, event.Skip.Path, event.Skip.Reason))
			if collector != nil {
				collector.IncrementIgnored()
			}
			return nil
		default:
			return nil
		}
	}

	walkError := dispatchStream(context.Background(), producer, consumer)

	if flushError := renderer.Flush(); flushError != nil && walkError == nil {
		walkError = flushError
	}
	if outputFile != nil {
		if closeError := outputFile.Close(); closeError != nil && walkError == nil {
			walkError = closeError
		}
	}
	if walkError != nil {
		return walkError
	}

	if clipboardBuffer != nil {
		deliverToClipboard(clipboardBuffer.String(), command.OutOrStdout(), logger)
	}

	if collector != nil {
		collector.WriteSummary(command.ErrOrStderr())
	}
	return nil
}

// deliverToClipboard copies the collected output, falling back to standard
// output when clipboard support is missing or the copy fails. The collected
// content is never discarded.
func deliverToClipboard(content string, fallback io.Writer, logger *zap.Logger) {
	copier := clipboard.NewService()
	if !copier.Available() {
		logger.Warn(clipboard.ErrUnavailable.Error() + "; " + clipboardFallbackWarning)
		fmt.Fprint(fallback, content)
		return
	}
	if copyError := copier.Copy(content); copyError != nil {
		logger.Warn(copyError.Error() + "; " + clipboardFallbackWarning)
		fmt.Fprint(fallback, content)
		return
	}
	logger.Info(fmt.Sprintf(clipboardCopiedNoticeFormat, len(content)))
}

// dispatchStream joins the traversal producer with the rendering consumer
// over an unbuffered channel, so records are handed over one at a time in
// traversal order.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if consumeError := consume(event); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}
