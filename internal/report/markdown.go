package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter is an ordered set of YAML fields written at the top of a
// markdown report. Keys are emitted alphabetically; string lists under
// "tags" use flow style so they stay on one line.
type Frontmatter struct {
	fields map[string]any
	keys   []string
}

// NewFrontmatter creates a new empty Frontmatter.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{fields: make(map[string]any)}
}

// Set sets a value, maintaining sorted key order.
func (f *Frontmatter) Set(key string, value any) {
	if _, exists := f.fields[key]; !exists {
		f.keys = append(f.keys, key)
		sort.Strings(f.keys)
	}
	f.fields[key] = value
}

// Keys returns a copy of the sorted keys.
func (f *Frontmatter) Keys() []string {
	return append([]string(nil), f.keys...)
}

// MarshalYAML implements yaml.Marshaler with sorted keys and flow-style tags.
func (f *Frontmatter) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, len(f.keys)*2),
	}

	for _, key := range f.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(f.fields[key]); err != nil {
			return nil, err
		}
		if key == "tags" && valueNode.Kind == yaml.SequenceNode {
			valueNode.Style = yaml.FlowStyle
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// Build serializes the frontmatter between "---" delimiters. An empty
// frontmatter produces no output.
func (f *Frontmatter) Build() ([]byte, error) {
	if len(f.keys) == 0 {
		return nil, nil
	}

	out, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(out)
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

func reportFrontmatter(r Report) *Frontmatter {
	fm := NewFrontmatter()
	if r.RunID != "" {
		fm.Set("run_id", r.RunID)
	}
	fm.Set("generated", r.GeneratedAt.UTC().Format(time.RFC3339))
	fm.Set("threshold", r.Threshold)
	fm.Set("matches", len(r.Matches))
	fm.Set("catalogs", map[string]int{
		string(r.Primary.Source):   r.Primary.Titles,
		string(r.Secondary.Source): r.Secondary.Titles,
	})
	fm.Set("tags", []string{"crosspass", string(r.Primary.Source), string(r.Secondary.Source)})
	return fm
}

func renderMarkdown(w io.Writer, r Report) error {
	head, err := reportFrontmatter(r).Build()
	if err != nil {
		return err
	}

	var body strings.Builder
	body.Write(head)
	fmt.Fprintf(&body, "\n# Games on both %s and %s\n\n", r.Primary.Label, r.Secondary.Label)
	if len(r.Matches) == 0 {
		body.WriteString("No matches.\n")
	} else {
		body.WriteString(matchTable(r).RenderMarkdown())
		body.WriteString("\n")
	}

	if len(r.Unmatched) > 0 {
		fmt.Fprintf(&body, "\n## %s only\n\n", r.Primary.Label)
		for _, title := range r.Unmatched {
			fmt.Fprintf(&body, "- %s\n", title)
		}
	}

	_, err = io.WriteString(w, body.String())
	return err
}
