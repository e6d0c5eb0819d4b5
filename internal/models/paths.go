package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Frequency file names, indexed by n-gram order minus one.
var fileNames = [...]string{
	"unigrams.json",
	"bigrams.json",
	"trigrams.json",
	"quadrigrams.json",
	"fivegrams.json",
}

// Order bounds of the shipped frequency files.
const (
	MinOrder = 1
	MaxOrder = len(fileNames)
)

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "POLYGLOT_MODELS_DIR"

// FileName returns the frequency file name of an n-gram order.
func FileName(order int) (string, error) {
	if order < MinOrder || order > MaxOrder {
		return "", fmt.Errorf("invalid n-gram order %d (want %d-%d)", order, MinOrder, MaxOrder)
	}
	return fileNames[order-1], nil
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path from various sources
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	return DefaultModelsDir
}

// ModelPath returns the path of the frequency file for a language code and
// order below the resolved models directory.
func ModelPath(modelsDir, isoCode string, order int) (string, error) {
	name, err := FileName(order)
	if err != nil {
		return "", err
	}
	return filepath.Join(GetModelsDir(modelsDir), isoCode, name), nil
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}

// ModelInfo describes the frequency files found for one language directory.
type ModelInfo struct {
	IsoCode string `json:"iso_code"`
	Orders  []int  `json:"orders"`
}

// Complete reports whether every order from MinOrder to MaxOrder is present.
func (m ModelInfo) Complete() bool {
	return len(m.Orders) == MaxOrder-MinOrder+1
}

// ListAvailableModels scans the models directory and reports, per language
// directory, which frequency files exist. Directories without any frequency
// file are skipped. Results are sorted by ISO code.
func ListAvailableModels(modelsDir string) ([]ModelInfo, error) {
	base := GetModelsDir(modelsDir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("failed to read models directory %s: %w", base, err)
	}

	var out []ModelInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info := ModelInfo{IsoCode: e.Name()}
		for order := MinOrder; order <= MaxOrder; order++ {
			if _, err := os.Stat(filepath.Join(base, e.Name(), fileNames[order-1])); err == nil {
				info.Orders = append(info.Orders, order)
			}
		}
		if len(info.Orders) > 0 {
			out = append(out, info)
		}
	}

	slices.SortFunc(out, func(a, b ModelInfo) int {
		switch {
		case a.IsoCode < b.IsoCode:
			return -1
		case a.IsoCode > b.IsoCode:
			return 1
		}
		return 0
	})
	return out, nil
}
