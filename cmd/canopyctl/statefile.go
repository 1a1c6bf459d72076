package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"gopkg.in/yaml.v3"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readSurvey loads a survey state file. YAML files are converted through
// JSON so both formats use the API field names.
func readSurvey(path string) (models.Survey, error) {
	var sv models.Survey
	data, err := os.ReadFile(path)
	if err != nil {
		return sv, err
	}
	if isYAML(path) {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return sv, fmt.Errorf("parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return sv, fmt.Errorf("convert %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, &sv); err != nil {
		return sv, fmt.Errorf("parse %s: %w", path, err)
	}
	return sv, nil
}

// writeSurvey stores sv as a state file.
func writeSurvey(path string, sv models.Survey) error {
	data, err := json.MarshalIndent(sv, "", "  ")
	if err != nil {
		return err
	}
	if isYAML(path) {
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
