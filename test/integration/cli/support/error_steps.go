package support

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
)

// theModelsDirectoryIsEmpty points the CLI at a models directory without
// any model.
func (testCtx *TestContext) theModelsDirectoryIsEmpty() error {
	dir := testCtx.GetTempDir("empty-models")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}
	testCtx.ModelsDir = dir
	testCtx.AddEnvVar("POLYGLOT_MODELS_DIR", dir)
	return nil
}

// aBinaryFile creates a file in the texts directory that is not valid UTF-8.
func (testCtx *TestContext) aBinaryFile(name string) error {
	_, err := testCtx.WriteTextFile(name, []byte{0xff, 0xfe, 0x00, 0x41})
	return err
}

// aConfigFileWith writes a configuration file below the temp directory.
func (testCtx *TestContext) aConfigFileWith(name string, content *godog.DocString) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := os.WriteFile(path, []byte(content.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RegisterErrorSteps registers steps that prepare failure conditions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the models directory is empty$`, testCtx.theModelsDirectoryIsEmpty)
	sc.Step(`^a binary file "([^"]*)"$`, testCtx.aBinaryFile)
	sc.Step(`^a config file "([^"]*)" with:$`, testCtx.aConfigFileWith)
}
