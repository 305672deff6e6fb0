package tunes

import (
	"encoding/xml"
	"fmt"
	"io"
)

// plistDict is a property-list dict with its keys kept in document
// order, so track iteration preserves library order.
type plistDict struct {
	keys   []string
	values map[string]any
}

func (d *plistDict) get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// parsePlist reads an Apple property list and returns its top-level dict.
// Leaf values (string, integer, real, date, data, booleans) are kept as
// their text form; the foreign record handed to normalization is a plain
// string mapping either way.
func parsePlist(r io.Reader) (*plistDict, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("plist has no top-level dict")
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "plist" {
			continue
		}
		if start.Name.Local != "dict" {
			return nil, fmt.Errorf("unexpected top-level element <%s>", start.Name.Local)
		}
		return parseDict(dec)
	}
}

func parseDict(dec *xml.Decoder) (*plistDict, error) {
	d := &plistDict{values: make(map[string]any)}
	var key string
	haveKey := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "key" {
				if err := dec.DecodeElement(&key, &t); err != nil {
					return nil, err
				}
				haveKey = true
				continue
			}
			if !haveKey {
				return nil, fmt.Errorf("dict value <%s> without preceding key", t.Name.Local)
			}
			value, err := parseValue(dec, t)
			if err != nil {
				return nil, err
			}
			if _, dup := d.values[key]; !dup {
				d.keys = append(d.keys, key)
			}
			d.values[key] = value
			haveKey = false
		case xml.EndElement:
			if t.Name.Local == "dict" {
				return d, nil
			}
		}
	}
}

func parseValue(dec *xml.Decoder, start xml.StartElement) (any, error) {
	switch start.Name.Local {
	case "dict":
		return parseDict(dec)
	case "array":
		return parseArray(dec)
	case "true", "false":
		if err := dec.Skip(); err != nil {
			return nil, err
		}
		return start.Name.Local, nil
	default:
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, err
		}
		return text, nil
	}
}

func parseArray(dec *xml.Decoder) ([]any, error) {
	var out []any
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			value, err := parseValue(dec, t)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		case xml.EndElement:
			if t.Name.Local == "array" {
				return out, nil
			}
		}
	}
}
