package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SaveTheme writes theme into the config file at path, preserving any
// other sections and comments already present. Adapted line-for-line from
// the teacher's internal/config/save.go technique: parse into a yaml.Node
// document so untouched sections survive, patch the "theme" key, then
// write through a temp file in the same directory and rename over the
// target — the identical atomic-swap discipline internal/snapshot uses
// for the canvas file itself.
func SaveTheme(path string, theme ThemeConfig) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-controlled config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	themeNode, err := buildThemeNode(theme)
	if err != nil {
		return fmt.Errorf("building theme node: %w", err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Value: "theme"},
					themeNode,
				},
			}},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == "theme" {
					root.Content[i+1] = themeNode
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "theme"},
					themeNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	return atomicWrite(path, buf.Bytes())
}

// SaveAutosave writes interval into the config file at path as
// autosave_interval, preserving any other sections and comments already
// present. Mirrors SaveTheme's parse-patch-rewrite technique exactly, down
// to the same atomicWrite swap.
func SaveAutosave(path string, interval time.Duration) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-controlled config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	var intervalNode yaml.Node
	if err := intervalNode.Encode(interval.String()); err != nil {
		return fmt.Errorf("encoding autosave interval: %w", err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Value: "autosave_interval"},
					&intervalNode,
				},
			}},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == "autosave_interval" {
					root.Content[i+1] = &intervalNode
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "autosave_interval"},
					&intervalNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	return atomicWrite(path, buf.Bytes())
}

func buildThemeNode(theme ThemeConfig) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(map[string]string{
		"normal_fg":     theme.NormalFG,
		"selected_fg":   theme.SelectedFG,
		"stricken_fg":   theme.StrickenFG,
		"arrow_fg":      theme.ArrowFG,
		"log_header_bg": theme.LogHeaderBG,
	}); err != nil {
		return nil, err
	}
	return &node, nil
}

// atomicWrite is the teacher's write-temp-then-rename technique: a
// pre-existing temp file is unlinked first, the new content lands in a
// fresh temp file beside the target, then an atomic rename swaps it in.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp := path + ".tmp"
	if _, err := os.Stat(tmp); err == nil {
		if err := os.Remove(tmp); err != nil {
			return fmt.Errorf("removing stale temp config: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming temp config into place: %w", err)
	}
	return nil
}
