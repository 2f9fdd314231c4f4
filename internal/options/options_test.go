package options

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/promptpack/promptpack/internal/config"
	"github.com/promptpack/promptpack/internal/types"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

// TestMergeExplicitBooleanWins verifies explicit CLI booleans beat config defaults.
func TestMergeExplicitBooleanWins(testingHandle *testing.T) {
	defaults := config.Defaults{IncludeHidden: boolPointer(true), LineNumbers: boolPointer(true)}
	cliValues := CLIValues{IncludeHidden: false}
	explicit := map[string]bool{config.KeyIncludeHidden: true}

	resolved := Merge(cliValues, explicit, defaults, zap.NewNop())

	if resolved.IncludeHidden {
		testingHandle.Fatal("explicit CLI false must override configured true")
	}
	if !resolved.LineNumbers {
		testingHandle.Fatal("unset CLI boolean must fall back to configured default")
	}
	if resolved.IgnoreGitignore {
		testingHandle.Fatal("option absent everywhere must use the built-in false default")
	}
}

// TestMergeExtensionsReplaceNotUnion verifies CLI extensions discard config extensions.
func TestMergeExtensionsReplaceNotUnion(testingHandle *testing.T) {
	defaults := config.Defaults{Extensions: []string{"py"}}

	withCLI := Merge(CLIValues{Extensions: []string{"txt"}}, nil, defaults, zap.NewNop())
	if !reflect.DeepEqual(withCLI.Extensions, []string{"txt"}) {
		testingHandle.Fatalf("expected CLI extensions alone, got %v", withCLI.Extensions)
	}

	withoutCLI := Merge(CLIValues{}, nil, defaults, zap.NewNop())
	if !reflect.DeepEqual(withoutCLI.Extensions, []string{"py"}) {
		testingHandle.Fatalf("expected config extensions fallback, got %v", withoutCLI.Extensions)
	}
}

// TestMergeIgnorePatternsUnion verifies the union semantics for ignore patterns.
func TestMergeIgnorePatternsUnion(testingHandle *testing.T) {
	defaults := config.Defaults{Ignore: []string{"*.pyc"}}

	combined := Merge(CLIValues{IgnorePatterns: []string{"*.tmp"}}, nil, defaults, zap.NewNop())
	if !reflect.DeepEqual(combined.IgnorePatterns, []string{"*.tmp", "*.pyc"}) {
		testingHandle.Fatalf("expected union of CLI and config patterns, got %v", combined.IgnorePatterns)
	}

	cliOnly := Merge(CLIValues{IgnorePatterns: []string{"*.tmp"}}, nil, config.Defaults{}, zap.NewNop())
	if !reflect.DeepEqual(cliOnly.IgnorePatterns, []string{"*.tmp"}) {
		testingHandle.Fatalf("expected CLI patterns alone, got %v", cliOnly.IgnorePatterns)
	}

	configOnly := Merge(CLIValues{}, nil, defaults, zap.NewNop())
	if !reflect.DeepEqual(configOnly.IgnorePatterns, []string{"*.pyc"}) {
		testingHandle.Fatalf("expected config patterns fallback, got %v", configOnly.IgnorePatterns)
	}
}

// TestMergeOutputFallback verifies output path precedence.
func TestMergeOutputFallback(testingHandle *testing.T) {
	defaults := config.Defaults{Output: "from-config.txt"}

	if resolved := Merge(CLIValues{Output: "cli.txt"}, nil, defaults, zap.NewNop()); resolved.Output != "cli.txt" {
		testingHandle.Fatalf("expected CLI output to win, got %q", resolved.Output)
	}
	if resolved := Merge(CLIValues{}, nil, defaults, zap.NewNop()); resolved.Output != "from-config.txt" {
		testingHandle.Fatalf("expected config output fallback, got %q", resolved.Output)
	}
}

// TestMergeSinkConflictPrefersFile verifies the clipboard/file resolution.
func TestMergeSinkConflictPrefersFile(testingHandle *testing.T) {
	resolved := Merge(CLIValues{CopyToClipboard: true, Output: "out.txt"}, map[string]bool{config.KeyCopyToClipboard: true}, config.Defaults{}, zap.NewNop())
	if resolved.CopyToClipboard {
		testingHandle.Fatal("clipboard must be disabled when file output is active")
	}
	if resolved.Output != "out.txt" {
		testingHandle.Fatalf("file output must survive the conflict, got %q", resolved.Output)
	}
}

// TestFormatPrecedence verifies XML wins over Markdown when both are set.
func TestFormatPrecedence(testingHandle *testing.T) {
	if format := (Options{ClaudeXML: true, Markdown: true}).Format(); format != types.FormatClaudeXML {
		testingHandle.Fatalf("expected XML precedence, got %q", format)
	}
	if format := (Options{Markdown: true}).Format(); format != types.FormatMarkdown {
		testingHandle.Fatalf("expected markdown, got %q", format)
	}
	if format := (Options{}).Format(); format != types.FormatPlain {
		testingHandle.Fatalf("expected plain default, got %q", format)
	}
}
