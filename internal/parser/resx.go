package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ResxParser extracts translation entries from .resx XML documents.
//
// Every data element below the root carrying a name attribute is an entry;
// the text of its first value child is the translation. Entries without a
// name or without a value element are skipped.
type ResxParser struct{}

func NewResxParser() *ResxParser { return &ResxParser{} }

func (p *ResxParser) CanParse(ext string) bool {
	return ext == ".resx"
}

// resxEntry is one data element in document order.
type resxEntry struct {
	key      string
	text     strings.Builder
	hasValue bool
}

// resxFrame tracks an open element while streaming tokens.
type resxFrame struct {
	// entry is set on data elements with a usable name.
	entry *resxEntry
	// value is set on the value element whose text feeds an entry.
	value *resxEntry
	// sawChild stops text capture once the value element has a child element.
	sawChild bool
}

func (p *ResxParser) Parse(name string, content []byte) (*Table, error) {
	var charsetErr error

	input := transform.NewReader(bytes.NewReader(content), unicode.BOMOverride(transform.Nop))
	dec := xml.NewDecoder(input)
	dec.CharsetReader = func(label string, r io.Reader) (io.Reader, error) {
		out, err := charsetReader(label, r)
		if err != nil {
			charsetErr = err
		}
		return out, err
	}

	var (
		stack    []*resxFrame
		entries  []*resxEntry
		rootSeen bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			if charsetErr != nil {
				return nil, &ParseError{File: name, Err: fmt.Errorf("%w: %v", ErrDecode, charsetErr)}
			}
			return nil, malformed(name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if rootSeen {
					return nil, malformed(name, errors.New("junk after document element"))
				}
				rootSeen = true
				stack = append(stack, &resxFrame{})
				continue
			}

			parent := stack[len(stack)-1]
			if parent.value != nil {
				parent.sawChild = true
			}

			frame := &resxFrame{}
			switch {
			case isPlain(t.Name, "data"):
				if key := plainAttr(t, "name"); key != "" {
					e := &resxEntry{key: key}
					entries = append(entries, e)
					frame.entry = e
				}
			case isPlain(t.Name, "value") && parent.entry != nil && !parent.entry.hasValue:
				parent.entry.hasValue = true
				frame.value = parent.entry
			}
			stack = append(stack, frame)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, malformed(name, errors.New("text outside the root element"))
				}
				continue
			}
			top := stack[len(stack)-1]
			if top.value != nil && !top.sawChild {
				top.value.text.Write(t)
			}
		}
	}

	if !rootSeen {
		return nil, malformed(name, errors.New("no root element found"))
	}

	table := NewTable()
	for _, e := range entries {
		if e.hasValue {
			table.Set(e.key, e.text.String())
		}
	}
	return table, nil
}

func malformed(name string, err error) *ParseError {
	return &ParseError{File: name, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
}

// isPlain matches an element name without namespace.
func isPlain(n xml.Name, local string) bool {
	return n.Space == "" && n.Local == local
}

func plainAttr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if isPlain(a.Name, local) {
			return a.Value
		}
	}
	return ""
}

// charsetReader converts input declared with a non UTF-8 encoding label.
// Unicode labels pass through: byte order marks were already resolved before
// the XML decoder saw the content.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(label))
	if strings.HasPrefix(norm, "utf") {
		return input, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
