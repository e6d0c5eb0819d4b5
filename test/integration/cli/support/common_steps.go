package support

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/testutil"
	"github.com/cucumber/godog"
)

// fixtureLanguages lists the languages the generated models cover.
const fixtureLanguages = "en,fr,de,it,ru,es,uk"

// theLanguageModelsAreAvailable writes fixture models into a temporary
// models directory and points the CLI at them.
func (testCtx *TestContext) theLanguageModelsAreAvailable() error {
	dir := testCtx.GetTempDir("models")
	if err := testutil.WriteModels(dir, testutil.Corpora); err != nil {
		return fmt.Errorf("failed to write fixture models: %w", err)
	}

	testCtx.ModelsDir = dir
	testCtx.AddEnvVar("POLYGLOT_MODELS_DIR", dir)
	testCtx.AddEnvVar("POLYGLOT_DETECTOR_LANGUAGES", fixtureLanguages)
	return nil
}

// aTextFileContaining creates a text file in the scenario texts directory.
func (testCtx *TestContext) aTextFileContaining(name, content string) error {
	_, err := testCtx.WriteTextFile(name, []byte(content))
	return err
}

// substituteCommandVariables replaces scenario placeholders in command.
func (testCtx *TestContext) substituteCommandVariables(command string) string {
	return strings.NewReplacer(
		"{models_dir}", testCtx.ModelsDir,
		"{texts_dir}", testCtx.TextsDir,
		"{temp_dir}", testCtx.TempDir,
	).Replace(command)
}

// splitCommand splits a command line on spaces. Single quotes group words.
func splitCommand(command string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range command {
		switch {
		case r == '\'':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			if started {
				parts = append(parts, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unbalanced quote in command: %s", command)
	}
	if started {
		parts = append(parts, current.String())
	}
	return parts, nil
}

// resolveBinary maps the bare CLI name to the binary built for the suite.
func resolveBinary(name string) string {
	if name == "polyglot" {
		if bin := os.Getenv("POLYGLOT_BIN"); bin != "" {
			return bin
		}
	}
	return name
}

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	return testCtx.runCommand(command, "")
}

// iRunCommandWithInput executes a command with input on stdin.
func (testCtx *TestContext) iRunCommandWithInput(command, input string) error {
	return testCtx.runCommand(command, input)
}

func (testCtx *TestContext) runCommand(command, input string) error {
	command = testCtx.substituteCommandVariables(command)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts, err := splitCommand(command)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, resolveBinary(parts[0]), parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s\nStderr: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput, testCtx.LastStderr)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain checks stdout and stderr for expectedText.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	combined := testCtx.LastOutput + testCtx.LastStderr
	if !strings.Contains(combined, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, combined)
	}
	return nil
}

// theOutputShouldNotContain checks stdout for the absence of text.
func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies stdout is a single JSON document.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nOutput: %s", err, testCtx.LastOutput)
	}
	return nil
}

// theJSONFieldShouldBe compares a dotted JSON path of stdout with expected.
func (testCtx *TestContext) theJSONFieldShouldBe(field, expected string) error {
	return checkJSONField(testCtx.LastOutput, field, expected)
}

// checkJSONField resolves a dotted path such as "result.confidences.0.language"
// and compares its string form with expected.
func checkJSONField(doc, field, expected string) error {
	var data interface{}
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w\nJSON: %s", err, doc)
	}

	current := data
	for _, part := range strings.Split(field, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			val, ok := node[part]
			if !ok {
				return fmt.Errorf("field '%s' not found in JSON", field)
			}
			current = val
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("invalid index '%s' in field '%s'", part, field)
			}
			current = node[idx]
		default:
			return fmt.Errorf("cannot navigate into '%s' of field '%s'", part, field)
		}
	}

	if actual := fmt.Sprint(current); actual != expected {
		return fmt.Errorf("field '%s' is '%s', expected '%s'", field, actual, expected)
	}
	return nil
}

// theDetectedLanguageShouldBe checks the first line of text output, which
// starts with the most likely language.
func (testCtx *TestContext) theDetectedLanguageShouldBe(name string) error {
	first, _, _ := strings.Cut(strings.TrimSpace(testCtx.LastOutput), "\n")
	if !strings.HasPrefix(first, name) {
		return fmt.Errorf("detected language line is '%s', expected '%s'", first, name)
	}
	return nil
}

// theOutputShouldHaveLines checks the number of non-empty stdout lines.
func (testCtx *TestContext) theOutputShouldHaveLines(count int) error {
	lines := strings.Split(strings.TrimSpace(testCtx.LastOutput), "\n")
	if len(lines) != count {
		return fmt.Errorf("output has %d lines, expected %d\nOutput: %s", len(lines), count, testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	full := testCtx.LastOutput + " " + testCtx.LastStderr
	if !strings.Contains(strings.ToLower(full), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, full)
	}
	return nil
}

// theFileShouldExistContaining checks a file below the temp directory.
func (testCtx *TestContext) theFileShouldExistContaining(name, text string) error {
	path := filepath.Join(testCtx.TempDir, name)
	data, err := os.ReadFile(path) //nolint:gosec // G304: scenario temp file
	if err != nil {
		return fmt.Errorf("output file not readable: %w", err)
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("file %s does not contain '%s'\nContent: %s", name, text, data)
	}
	return nil
}

// RegisterCommonSteps registers the command line steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the language models are available$`, testCtx.theLanguageModelsAreAvailable)
	sc.Step(`^a text file "([^"]*)" containing "([^"]*)"$`, testCtx.aTextFileContaining)
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^I run "([^"]*)" with input "([^"]*)"$`, testCtx.iRunCommandWithInput)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^the detected language should be "([^"]*)"$`, testCtx.theDetectedLanguageShouldBe)
	sc.Step(`^the output should have (\d+) lines?$`, testCtx.theOutputShouldHaveLines)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldExistContaining)
}
