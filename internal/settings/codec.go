package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// JSONCCodec decodes JSON-with-comments settings files and encodes
// documents as indented JSON in insertion order.
type JSONCCodec struct {
	// Indent is the indentation unit used by Encode. Defaults to four
	// spaces, the editor's own settings style.
	Indent string
}

// Decode parses data into a Document. Comments and trailing commas are
// accepted. Empty input decodes to an empty document.
func (c JSONCCodec) Decode(filename string, data []byte) (*Document, error) {
	clean := jsonc.ToJSON(bytes.TrimPrefix(data, utf8BOM))
	if len(bytes.TrimSpace(clean)) == 0 {
		return NewDocument(), nil
	}
	if !gjson.ValidBytes(clean) {
		return nil, &DocumentParseError{Filename: filename, Detail: syntaxDetail(clean)}
	}
	root := gjson.ParseBytes(clean)
	if !root.IsObject() {
		return nil, &DocumentParseError{Filename: filename, Detail: "top-level value must be an object"}
	}
	return decodeObject(root), nil
}

func decodeObject(r gjson.Result) *Document {
	doc := NewDocument()
	r.ForEach(func(key, value gjson.Result) bool {
		doc.Set(key.String(), decodeValue(value))
		return true
	})
	return doc
}

func decodeValue(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return numberLiteral(r.Raw, r.Num)
	case gjson.String:
		return String(r.Str)
	}
	if r.IsArray() {
		var items []Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, decodeValue(item))
			return true
		})
		return Value{kind: KindArray, arr: items}
	}
	return Object(decodeObject(r))
}

// syntaxDetail locates the first syntax error in data. gjson only reports
// validity, so the standard decoder is used for the position.
func syntaxDetail(data []byte) string {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return "malformed JSON"
	}
	line, col := 1, 1
	for i := 0; i < int(syntaxErr.Offset) && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return fmt.Sprintf("line %d, column %d: %s", line, col, syntaxErr.Error())
}

// Encode renders doc as indented JSON with a trailing newline.
func (c JSONCCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeObject(&buf, doc); err != nil {
		return nil, err
	}
	indent := c.Indent
	if indent == "" {
		indent = "    "
	}
	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:    80,
		Indent:   indent,
		SortKeys: false,
	}), nil
}

func writeObject(buf *bytes.Buffer, doc *Document) error {
	buf.WriteByte('{')
	first := true
	var err error
	doc.Range(func(key string, value Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = writeScalar(buf, key); err != nil {
			return false
		}
		buf.WriteByte(':')
		err = writeValue(buf, value)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.raw != "" {
			buf.WriteString(v.raw)
			return nil
		}
		return writeScalar(buf, v.num)
	case KindString:
		return writeScalar(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return writeObject(buf, v.obj)
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %v: %w", v, err)
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
