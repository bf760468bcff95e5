package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// PromptVariant is one extra label -> model/instruction pair from the prompts file.
type PromptVariant struct {
	Label       string `toml:"label"`
	Model       string `toml:"model"`
	Instruction string `toml:"instruction"`
}

// PromptFile is the TOML layout of PROMPTS_FILE:
//
//	[[variants]]
//	label = "summarize"
//	model = "ep-..."
//	instruction = "..."
type PromptFile struct {
	Variants []PromptVariant `toml:"variants"`
}

// LoadPrompts decodes the optional prompts file. An empty path yields no variants.
func LoadPrompts(path string) ([]PromptVariant, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("prompts file: %w", err)
	}

	var f PromptFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode prompts file %s: %w", path, err)
	}
	for i, v := range f.Variants {
		if v.Label == "" {
			return nil, fmt.Errorf("prompts file %s: variant %d has no label", path, i)
		}
	}
	return f.Variants, nil
}
