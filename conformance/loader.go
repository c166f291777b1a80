// Package conformance runs the YAML behavior suites: each case carries a
// JSON syntax tree and pins the program's output, the classified error, or
// substrings of the emitted IR.
package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TestPath is the suite directory, relative to this package
const TestPath = "testdata"

// LoadedCase represents a case with its source file path
type LoadedCase struct {
	File  string
	Suite Suite
	Case  Case
}

// LoadAllCases walks the suite directory and loads every case
func LoadAllCases() ([]LoadedCase, error) {
	testDir, err := filepath.Abs(TestPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(testDir); err != nil {
		return nil, fmt.Errorf("could not find suite directory %s: %w", testDir, err)
	}

	var loaded []LoadedCase
	err = filepath.Walk(testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		suite, err := loadSuiteFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		relPath, _ := filepath.Rel(testDir, path)
		for _, c := range suite.Tests {
			loaded = append(loaded, LoadedCase{
				File:  relPath,
				Suite: suite,
				Case:  c,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// loadSuiteFile parses a single YAML file
func loadSuiteFile(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return Suite{}, err
	}
	return suite, nil
}
