package fs

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

const (
	// NoteExt is the extension of note files inside the workspace root.
	NoteExt = ".md"

	frontMatterDelimiter = "---"
)

var (
	errUnclosedFrontMatter = errors.New("frontmatter started but no closing delimiter found")
	errNotMapping          = errors.New("frontmatter is not a mapping")
)

// Parse splits a note file into its metadata and content.
//
// A file that does not start with a "---" line has no front-matter: the
// whole file is content. After the closing delimiter one line break is
// consumed, then one blank line if present.
func Parse(data []byte) (core.Metadata, string, error) {
	text := string(data)
	rest, ok := cutDelimiterLine(text)
	if !ok {
		return core.Metadata{}, text, nil
	}

	yamlBlock, body, ok := splitClosing(rest)
	if !ok {
		return core.Metadata{}, "", errUnclosedFrontMatter
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlBlock), &node); err != nil {
		return core.Metadata{}, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	meta, err := decodeMetadata(&node)
	if err != nil {
		return core.Metadata{}, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	if b, ok := cutLineBreak(body); ok {
		body = b
	}
	return meta, body, nil
}

// Serialize renders metadata and content in the on-disk format:
// a front-matter block, a blank line, then the raw content.
// Metadata strings must be valid UTF-8, otherwise the error wraps
// core.ErrInvalidMetadata.
func Serialize(meta core.Metadata, content string) ([]byte, error) {
	node, err := encodeMetadata(meta)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString(frontMatterDelimiter + "\n\n")
	buf.WriteString(content)
	return buf.Bytes(), nil
}

// cutDelimiterLine strips a leading "---" line.
func cutDelimiterLine(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, frontMatterDelimiter)
	if !ok {
		return s, false
	}
	return cutLineBreak(rest)
}

// splitClosing finds the closing "---" line and returns the YAML block
// before it and everything after its line break.
func splitClosing(s string) (block, body string, ok bool) {
	// An empty block closes immediately.
	if after, found := strings.CutPrefix(s, frontMatterDelimiter); found {
		if b, isLine := lineEnd(after); isLine {
			return "", b, true
		}
	}
	offset := 0
	for {
		idx := strings.Index(s[offset:], "\n"+frontMatterDelimiter)
		if idx == -1 {
			return "", "", false
		}
		start := offset + idx
		after := s[start+1+len(frontMatterDelimiter):]
		if b, isLine := lineEnd(after); isLine {
			return s[:start+1], b, true
		}
		offset = start + 1
	}
}

// lineEnd reports whether s starts with a line break (or is empty) and
// returns what follows it.
func lineEnd(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	return cutLineBreak(s)
}

func cutLineBreak(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "\r\n"); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(s, "\n"); ok {
		return rest, true
	}
	return s, false
}

// --- YAML node mapping ---

func decodeMetadata(node *yaml.Node) (core.Metadata, error) {
	var meta core.Metadata
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return meta, nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return meta, nil
	}
	if node.Kind != yaml.MappingNode {
		return meta, errNotMapping
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if assignKnown(&meta, key, val) {
			continue
		}
		v, err := decodeValue(val)
		if err != nil {
			return meta, fmt.Errorf("key %q: %w", key, err)
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]any)
		}
		meta.Extra[key] = v
	}
	return meta, nil
}

func assignKnown(meta *core.Metadata, key string, val *yaml.Node) bool {
	switch key {
	case core.KeyTitle, core.KeyEmoji, core.KeyParentID:
		if !isTag(val, "!!str") {
			return false
		}
		meta.Set(key, val.Value)
		return true
	case core.KeyCreatedAt, core.KeyUpdatedAt:
		if !isTag(val, "!!str", "!!timestamp") {
			return false
		}
		meta.Set(key, val.Value)
		return true
	case core.KeyTags:
		if val.Kind != yaml.SequenceNode {
			return false
		}
		tags := make([]string, 0, len(val.Content))
		for _, item := range val.Content {
			if !isTag(item, "!!str") {
				return false
			}
			tags = append(tags, item.Value)
		}
		meta.Tags = tags
		return true
	}
	return false
}

func isTag(n *yaml.Node, tags ...string) bool {
	return n.Kind == yaml.ScalarNode && slices.Contains(tags, n.ShortTag())
}

// decodeValue converts an arbitrary node to plain Go values.
// Timestamps stay strings so they are written back verbatim.
func decodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeValue(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := decodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	}
	var out any
	if err := n.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeMetadata(meta core.Metadata) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	written := make(map[string]bool)
	add := func(key string, val *yaml.Node) {
		node.Content = append(node.Content, strNode(key), val)
		written[key] = true
	}

	fields := map[string]string{
		core.KeyTitle:     meta.Title,
		core.KeyEmoji:     meta.Emoji,
		core.KeyParentID:  meta.ParentID,
		core.KeyCreatedAt: meta.CreatedAt,
		core.KeyUpdatedAt: meta.UpdatedAt,
	}
	for _, key := range core.KnownKeys {
		if !utf8.ValidString(fields[key]) {
			return nil, invalidUTF8(key)
		}
		if key == core.KeyTags {
			if meta.Tags != nil {
				seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
				for _, tag := range meta.Tags {
					if !utf8.ValidString(tag) {
						return nil, invalidUTF8(key)
					}
					seq.Content = append(seq.Content, strNode(tag))
				}
				add(key, seq)
			}
			continue
		}
		if v := fields[key]; v != "" {
			add(key, strNode(v))
		}
	}

	for _, key := range slices.Sorted(maps.Keys(meta.Extra)) {
		if written[key] {
			continue
		}
		if !utf8.ValidString(key) {
			return nil, invalidUTF8(key)
		}
		val, err := encodeValue(key, meta.Extra[key])
		if err != nil {
			return nil, err
		}
		add(key, val)
	}
	return node, nil
}

// encodeValue builds the node of an extra value. Whole floats keep a
// decimal point so they read back as floats.
func encodeValue(key string, v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case string:
		if !utf8.ValidString(v) {
			return nil, invalidUTF8(key)
		}
	case float64:
		return floatNode(v), nil
	case float32:
		return floatNode(float64(v)), nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			n, err := encodeValue(key, item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case map[string]any:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range slices.Sorted(maps.Keys(v)) {
			if !utf8.ValidString(k) {
				return nil, invalidUTF8(key)
			}
			n, err := encodeValue(key, v[k])
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, strNode(k), n)
		}
		return m, nil
	}

	var val yaml.Node
	if err := val.Encode(v); err != nil {
		return nil, fmt.Errorf("key %q: %w", key, err)
	}
	return &val, nil
}

func invalidUTF8(key string) error {
	return fmt.Errorf("%w: key %q is not valid UTF-8", core.ErrInvalidMetadata, key)
}

func floatNode(f float64) *yaml.Node {
	var s string
	switch {
	case math.IsInf(f, 1):
		s = ".inf"
	case math.IsInf(f, -1):
		s = "-.inf"
	case math.IsNaN(f):
		s = ".nan"
	default:
		s = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
