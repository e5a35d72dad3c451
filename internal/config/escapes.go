package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// EscapeTable 额外的符号转义，例如
//
//	[escapes]
//	'\textpm' = "±"
type EscapeTable struct {
	Escapes map[string]string `toml:"escapes"`
}

// LoadEscapeTable 从 TOML 文件加载转义表
func LoadEscapeTable(path string) (*EscapeTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("escape table file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read escape table file: %w", err)
	}

	table := &EscapeTable{}
	if err := toml.Unmarshal(content, table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal escape table: %w", err)
	}

	for name := range table.Escapes {
		if strings.TrimSpace(strings.TrimPrefix(name, `\`)) == "" {
			return nil, fmt.Errorf("escape table contains an empty command name")
		}
	}
	return table, nil
}
