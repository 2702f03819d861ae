// Package jsondoc converts JSON and JSONC bytes to and from document trees.
//
// The standard library loses object key order when unmarshalling into maps,
// so Decode walks the token stream instead. Numbers keep their written form:
// a literal with a fraction or exponent becomes a decimal, anything else an
// integer.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// maxDepth bounds the token walk, mirroring the YAML side.
const maxDepth = 2048

// Decode parses a single JSON value into a tree, preserving object key
// order. Duplicate object keys are an error.
func Decode(data []byte) (document.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return document.Value{}, errors.New("failed to parse json: empty input")
		}
		return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
	}
	v, err := walk(dec, tok, 0)
	if err != nil {
		return document.Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return document.Value{}, errors.New("failed to parse json: expected a single value")
	}
	return v, nil
}

// DecodeJSONC parses JSON with comments and trailing commas by stripping
// them first.
func DecodeJSONC(data []byte) (document.Value, error) {
	return Decode(jsonc.ToJSON(data))
}

func walk(dec *json.Decoder, tok json.Token, depth int) (document.Value, error) {
	if depth > maxDepth {
		return document.Value{}, fmt.Errorf("json document nests deeper than %d levels", maxDepth)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return walkObject(dec, depth)
		case '[':
			return walkArray(dec, depth)
		}
		return document.Value{}, fmt.Errorf("failed to parse json: unexpected %q", t)
	case string:
		return document.NewString(t), nil
	case bool:
		return document.NewBool(t), nil
	case json.Number:
		text := t.String()
		if strings.ContainsAny(text, ".eE") {
			return document.NewScalar(document.ScalarFloat, text), nil
		}
		return document.NewScalar(document.ScalarInt, text), nil
	case nil:
		return document.Null(), nil
	default:
		return document.Value{}, fmt.Errorf("failed to parse json: unexpected token %v", tok)
	}
}

func walkObject(dec *json.Decoder, depth int) (document.Value, error) {
	out := document.NewMapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return document.Value{}, fmt.Errorf("failed to parse json: object key %v", keyTok)
		}
		if _, dup := out.Get(key); dup {
			return document.Value{}, fmt.Errorf("duplicate key %q", key)
		}
		valTok, err := dec.Token()
		if err != nil {
			return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
		}
		child, err := walk(dec, valTok, depth+1)
		if err != nil {
			return document.Value{}, err
		}
		out.Put(key, child)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
	}
	return out, nil
}

func walkArray(dec *json.Decoder, depth int) (document.Value, error) {
	out := document.NewSequence()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
		}
		child, err := walk(dec, tok, depth+1)
		if err != nil {
			return document.Value{}, err
		}
		out.Append(child)
	}
	if _, err := dec.Token(); err != nil {
		return document.Value{}, fmt.Errorf("failed to parse json: %w", err)
	}
	return out, nil
}

// Encode renders a tree as JSON, object keys in tree order. Tags have no
// JSON representation and are dropped; null renders for the null scalar.
func Encode(v document.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, v document.Value) error {
	switch v.Kind() {
	case document.KindMapping:
		buf.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			child, _ := v.Get(key)
			if err := write(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case document.KindSequence:
		buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := write(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case document.KindScalar:
		return writeScalar(buf, v)
	default:
		return errors.New("cannot encode an invalid value")
	}
}

func writeScalar(buf *bytes.Buffer, v document.Value) error {
	switch v.Scalar() {
	case document.ScalarNull:
		buf.WriteString("null")
	case document.ScalarBool:
		b, _ := v.Bool()
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case document.ScalarInt, document.ScalarFloat:
		text := v.Text()
		if json.Valid([]byte(text)) {
			buf.WriteString(text)
			return nil
		}
		// Spellings JSON does not know, like ".5" or "+1.5".
		if f, ok := v.Float64(); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return nil
		}
		// Inf and NaN have no JSON form at all; fall back to a string.
		b, err := json.Marshal(text)
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		b, err := json.Marshal(v.Text())
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
