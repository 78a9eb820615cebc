package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var jsonNull = []byte("null")

var errNotObject = errors.New("not a JSON object")

// looseFields holds what a JSON object carried beyond its Go struct: keys
// this version does not know, and known keys whose value could not be
// decoded. Both are written back verbatim on save unless the field was
// modified in the meantime.
type looseFields struct {
	unknown map[string]json.RawMessage
	invalid map[string]invalidValue
}

// invalidValue is a value that did not fit its field. fallback is the
// encoding of the default the field kept instead.
type invalidValue struct {
	raw      json.RawMessage
	fallback []byte
}

// objectField binds a JSON key to a pointer into the struct being coded.
type objectField struct {
	key       string
	ptr       any
	omitEmpty bool
}

func (l *looseFields) keep(key string, raw json.RawMessage) {
	if l.unknown == nil {
		l.unknown = make(map[string]json.RawMessage)
	}
	l.unknown[key] = raw
}

func (l *looseFields) reject(key string, raw json.RawMessage, fallback []byte) {
	if l.invalid == nil {
		l.invalid = make(map[string]invalidValue)
	}
	l.invalid[key] = invalidValue{raw: raw, fallback: fallback}
}

// issues lists the keys whose stored value is being carried raw.
func (l *looseFields) issues(prefix string) []string {
	out := make([]string, 0, len(l.invalid))
	for k := range l.invalid {
		out = append(out, prefix+k)
	}
	sort.Strings(out)
	return out
}

// decodeObject decodes data field by field over the current values. A
// field that fails to decode keeps its current value; the failure is
// remembered instead of aborting the whole object.
func decodeObject(data []byte, fields []objectField, loose *looseFields) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	if all == nil {
		return errNotObject
	}
	*loose = looseFields{}

	byKey := make(map[string]objectField, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
	}
	for key, raw := range all {
		f, ok := byKey[key]
		if !ok {
			loose.keep(key, raw)
			continue
		}
		current, err := encodeValue(f.ptr)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			if !bytes.Equal(current, jsonNull) {
				loose.reject(key, raw, current)
			}
			continue
		}
		dst := reflect.ValueOf(f.ptr).Elem()
		tmp := reflect.New(dst.Type())
		tmp.Elem().Set(dst)
		if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
			loose.reject(key, raw, current)
			continue
		}
		dst.Set(tmp.Elem())
	}
	return nil
}

// encodeObject writes fields in declaration order followed by the unknown
// keys sorted by name.
func encodeObject(fields []objectField, loose looseFields) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	write := func(key string, val []byte) {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		n++
	}

	for _, f := range fields {
		val, err := encodeValue(f.ptr)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		if inv, ok := loose.invalid[f.key]; ok && bytes.Equal(val, inv.fallback) {
			write(f.key, inv.raw)
			continue
		}
		if f.omitEmpty && bytes.Equal(val, jsonNull) {
			continue
		}
		write(f.key, val)
	}

	keys := make([]string, 0, len(loose.unknown))
	for k := range loose.unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, loose.unknown[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue marshals v without HTML escaping so stored text round-trips
// byte for byte.
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
