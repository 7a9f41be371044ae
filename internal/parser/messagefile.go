package parser

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// MessageFileParser reads go-i18n message files (TOML, YAML or JSON).
//
// Each message contributes its ID and its "other" form; nested tables
// produce dotted IDs. These formats carry no reliable entry order, so keys
// are stored sorted.
type MessageFileParser struct {
	unmarshalFuncs map[string]i18n.UnmarshalFunc
}

func NewMessageFileParser() *MessageFileParser {
	return &MessageFileParser{
		unmarshalFuncs: map[string]i18n.UnmarshalFunc{
			"toml": toml.Unmarshal,
			"yaml": yaml.Unmarshal,
			"yml":  yaml.Unmarshal,
			"json": json.Unmarshal,
		},
	}
}

func (p *MessageFileParser) CanParse(ext string) bool {
	switch ext {
	case ".toml", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func (p *MessageFileParser) Parse(name string, content []byte) (*Table, error) {
	// go-i18n derives the format from the extension of the path it is given.
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext) + strings.ToLower(ext)

	mf, err := i18n.ParseMessageFileBytes(content, base, p.unmarshalFuncs)
	if err != nil {
		return nil, &ParseError{File: name, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	messages := mf.Messages
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })

	table := NewTable()
	for _, m := range messages {
		table.Set(m.ID, m.Other)
	}
	return table, nil
}
