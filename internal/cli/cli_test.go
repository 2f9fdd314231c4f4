package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// changeDir switches the working directory for the duration of the test,
// restoring the original directory on cleanup (t.Chdir needs Go 1.24+).
func changeDir(testingHandle *testing.T, directory string) {
	testingHandle.Helper()
	previous, getwdError := os.Getwd()
	if getwdError != nil {
		testingHandle.Fatalf("getting working directory: %v", getwdError)
	}
	if chdirError := os.Chdir(directory); chdirError != nil {
		testingHandle.Fatalf("changing directory to %s: %v", directory, chdirError)
	}
	testingHandle.Cleanup(func() {
		if chdirError := os.Chdir(previous); chdirError != nil {
			testingHandle.Errorf("restoring working directory: %v", chdirError)
		}
	})
}

// newIsolatedWorkspace creates a temporary working directory and points the
// user configuration lookups away from the real home directory.
func newIsolatedWorkspace(testingHandle *testing.T) string {
	testingHandle.Helper()
	workspace := testingHandle.TempDir()
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)
	testingHandle.Setenv("USERPROFILE", homeDirectory)
	testingHandle.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
	changeDir(testingHandle, workspace)
	return workspace
}

func writeWorkspaceFile(testingHandle *testing.T, workspace, relativePath, content string) {
	testingHandle.Helper()
	fullPath := filepath.Join(workspace, relativePath)
	if directoryError := os.MkdirAll(filepath.Dir(fullPath), 0o755); directoryError != nil {
		testingHandle.Fatalf("creating directory for %s: %v", relativePath, directoryError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", relativePath, writeError)
	}
}

// runCommand executes the root command with the given arguments and standard
// input, returning captured stdout and stderr.
func runCommand(testingHandle *testing.T, arguments []string, standardInput string) (string, string, error) {
	testingHandle.Helper()
	command := NewRootCommand(zap.NewNop())
	var standardOutput, standardError bytes.Buffer
	command.SetOut(&standardOutput)
	command.SetErr(&standardError)
	command.SetIn(strings.NewReader(standardInput))
	if arguments == nil {
		// Cobra falls back to os.Args when the argument slice is nil.
		arguments = []string{}
	}
	command.SetArgs(arguments)
	executeError := command.Execute()
	return standardOutput.String(), standardError.String(), executeError
}

// TestRunDefaultScenario verifies the default walk: hidden entries stay out,
// .gitignore rules apply, and files render in the plain format.
func TestRunDefaultScenario(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, ".gitignore", "secret.txt\n")
	writeWorkspaceFile(testingHandle, workspace, "secret.txt", "hidden by rule")
	writeWorkspaceFile(testingHandle, workspace, ".dotfile", "hidden by name")
	writeWorkspaceFile(testingHandle, workspace, "visible.txt", "hello")

	standardOutput, _, executeError := runCommand(testingHandle, []string{"."}, "")
	if executeError != nil {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}

	expected := "visible.txt\n---\nhello\n\n---\n"
	if standardOutput != expected {
		testingHandle.Fatalf("unexpected output:\n%q\nwant:\n%q", standardOutput, expected)
	}
}

// TestRunClaudeXMLToFile verifies -c together with -o writes the document
// wrapper to the file and keeps stdout empty.
func TestRunClaudeXMLToFile(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, "a.txt", "alpha")
	outputPath := filepath.Join(workspace, "bundle.xml")

	standardOutput, _, executeError := runCommand(testingHandle, []string{"-c", "-o", outputPath, "a.txt"}, "")
	if executeError != nil {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}
	if standardOutput != "" {
		testingHandle.Fatalf("expected empty stdout, got %q", standardOutput)
	}

	written, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("reading output file: %v", readError)
	}
	document := string(written)
	for _, expected := range []string{
		"<documents>",
		"<document index=\"1\">",
		"<source>a.txt</source>",
		"alpha",
		"</documents>",
	} {
		if !strings.Contains(document, expected) {
			testingHandle.Fatalf("output file missing %q:\n%s", expected, document)
		}
	}
}

// TestRunStandardInputPaths verifies paths piped on stdin join the argument
// list, including NUL separation under -0.
func TestRunStandardInputPaths(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, "first.txt", "one")
	writeWorkspaceFile(testingHandle, workspace, "second.txt", "two")

	standardOutput, _, executeError := runCommand(testingHandle, nil, "first.txt\nsecond.txt\n")
	if executeError != nil {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}
	if !strings.Contains(standardOutput, "one") || !strings.Contains(standardOutput, "two") {
		testingHandle.Fatalf("expected both piped files in output:\n%s", standardOutput)
	}

	nullOutput, _, nullError := runCommand(testingHandle, []string{"-0"}, "first.txt\x00second.txt\x00")
	if nullError != nil {
		testingHandle.Fatalf("unexpected error with null separator: %v", nullError)
	}
	if !strings.Contains(nullOutput, "one") || !strings.Contains(nullOutput, "two") {
		testingHandle.Fatalf("expected both NUL separated files in output:\n%s", nullOutput)
	}
}

// TestRunProjectConfiguration verifies a project dotfile changes defaults and
// --no-config switches it back off.
func TestRunProjectConfiguration(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, ".promptpack.toml", "[defaults]\ncxml = true\nignore = [\"*.log\"]\n")
	writeWorkspaceFile(testingHandle, workspace, "note.txt", "configured")
	writeWorkspaceFile(testingHandle, workspace, "trace.log", "noise")

	configuredOutput, _, configuredError := runCommand(testingHandle, []string{"note.txt", "trace.log"}, "")
	if configuredError != nil {
		testingHandle.Fatalf("unexpected error: %v", configuredError)
	}
	if !strings.Contains(configuredOutput, "<documents>") {
		testingHandle.Fatalf("expected XML output under project config:\n%s", configuredOutput)
	}

	plainOutput, _, plainError := runCommand(testingHandle, []string{"--no-config", "note.txt"}, "")
	if plainError != nil {
		testingHandle.Fatalf("unexpected error with --no-config: %v", plainError)
	}
	if strings.Contains(plainOutput, "<documents>") {
		testingHandle.Fatalf("expected plain output under --no-config:\n%s", plainOutput)
	}
}

// TestRunStatsSummary verifies --stats writes the report to stderr while the
// content stays on stdout.
func TestRunStatsSummary(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, "a.txt", strings.Repeat("x", 400))

	standardOutput, standardError, executeError := runCommand(testingHandle, []string{"--stats", "a.txt"}, "")
	if executeError != nil {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}
	if !strings.Contains(standardOutput, strings.Repeat("x", 400)) {
		testingHandle.Fatalf("expected file content on stdout:\n%s", standardOutput)
	}
	if !strings.Contains(standardError, "Files processed: 1") {
		testingHandle.Fatalf("expected summary on stderr:\n%s", standardError)
	}
	if strings.Contains(standardOutput, "Files processed") {
		testingHandle.Fatal("summary leaked into the content stream")
	}
}

// TestRunMissingRootFails verifies a nonexistent path aborts the run.
func TestRunMissingRootFails(testingHandle *testing.T) {
	newIsolatedWorkspace(testingHandle)

	_, _, executeError := runCommand(testingHandle, []string{"no-such-path"}, "")
	if executeError == nil {
		testingHandle.Fatal("expected an error for a missing path")
	}
	if !strings.Contains(executeError.Error(), "path does not exist") {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}
}

// TestRunLineNumbers verifies -n prefixes each line with its number.
func TestRunLineNumbers(testingHandle *testing.T) {
	workspace := newIsolatedWorkspace(testingHandle)
	writeWorkspaceFile(testingHandle, workspace, "a.txt", "alpha\nbeta\n")

	standardOutput, _, executeError := runCommand(testingHandle, []string{"-n", "a.txt"}, "")
	if executeError != nil {
		testingHandle.Fatalf("unexpected error: %v", executeError)
	}
	if !strings.Contains(standardOutput, "1  alpha\n2  beta") {
		testingHandle.Fatalf("expected numbered lines:\n%s", standardOutput)
	}
}

// TestReadStandardInputPaths exercises the separator handling directly.
func TestReadStandardInputPaths(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		input         string
		nullSeparator bool
		expected      []string
	}{
		{name: "whitespace separated", input: " a.txt\nb.txt\tc.txt ", nullSeparator: false, expected: []string{"a.txt", "b.txt", "c.txt"}},
		{name: "null separated", input: "a b.txt\x00c.txt\x00", nullSeparator: true, expected: []string{"a b.txt", "c.txt"}},
		{name: "empty input", input: "", nullSeparator: false, expected: nil},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			actual := readStandardInputPaths(strings.NewReader(testCase.input), testCase.nullSeparator)
			if len(actual) != len(testCase.expected) {
				subtestHandle.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
			for index := range actual {
				if actual[index] != testCase.expected[index] {
					subtestHandle.Fatalf("expected %v, got %v", testCase.expected, actual)
				}
			}
		})
	}
}
