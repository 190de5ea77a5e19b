package model

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---\n"

// yamlFrontMatter renders v as a YAML front matter block with an empty body.
func yamlFrontMatter(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterFence)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}

	buf.WriteString(frontMatterFence)
	return buf.Bytes(), nil
}

// parseYAMLFrontMatter decodes the block between the first two fences into v.
func parseYAMLFrontMatter(data []byte, v any) error {
	rest, ok := bytes.CutPrefix(data, []byte(frontMatterFence))
	if !ok {
		return fmt.Errorf("missing front matter fence")
	}
	block, _, ok := bytes.Cut(rest, []byte("\n"+frontMatterFence))
	if !ok {
		return fmt.Errorf("unterminated front matter")
	}
	if err := yaml.Unmarshal(block, v); err != nil {
		return fmt.Errorf("decoding front matter: %w", err)
	}
	return nil
}
