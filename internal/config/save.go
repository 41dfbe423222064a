package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// SaveSourceDirs updates the source_dirs section in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveSourceDirs(configPath string, dirs []string) error {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, dir := range dirs {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: dir})
	}
	return saveSection(configPath, "source_dirs", node)
}

// SaveFlags updates the flags section in the config file.
// Flags are written in sorted order so repeated saves stay stable.
func SaveFlags(configPath string, flags map[string]bool) error {
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		value := "false"
		if flags[name] {
			value = "true"
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!bool"},
		)
	}
	return saveSection(configPath, "flags", node)
}

// saveSection replaces a single top-level key in the config file, creating
// the file if it does not exist. Other sections keep their comments.
func saveSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user supplied config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == key {
					root.Content[i+1] = value
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					value,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".gumup.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
