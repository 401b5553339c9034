package objtree

import (
	"bytes"
	"fmt"
	"strconv"
)

// DecodeObject parses a canonical encoding back into a *Blob or *Tree.
// A decoded blob shares its content with data.
func DecodeObject(data []byte) (Object, error) {
	t, body, err := splitEnvelope(data)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeBlob:
		return &Blob{content: body}, nil
	case TypeTree:
		return decodeTreeBody(body)
	}
	return nil, fmt.Errorf("%w: unsupported object type %q", ErrMalformedObject, t)
}

// DecodeBlob parses data that must be a blob encoding.
func DecodeBlob(data []byte) (*Blob, error) {
	obj, err := DecodeObject(data)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*Blob)
	if !ok {
		return nil, fmt.Errorf("%w: expected blob, got %s", ErrMalformedObject, obj.Type())
	}
	return b, nil
}

// DecodeTree parses data that must be a tree encoding.
func DecodeTree(data []byte) (*Tree, error) {
	obj, err := DecodeObject(data)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*Tree)
	if !ok {
		return nil, fmt.Errorf("%w: expected tree, got %s", ErrMalformedObject, obj.Type())
	}
	return t, nil
}

// ObjectTypeOf returns the type tag from the envelope header without decoding the body.
func ObjectTypeOf(data []byte) (ObjectType, int64, error) {
	t, body, err := splitEnvelope(data)
	if err != nil {
		return "", 0, err
	}
	return t, int64(len(body)), nil
}

func splitEnvelope(data []byte) (ObjectType, []byte, error) {
	idx := bytes.IndexByte(data, 0)
	if idx == -1 {
		return "", nil, fmt.Errorf("%w: missing null terminator", ErrMalformedObject)
	}

	header := string(data[:idx])
	body := data[idx+1:]

	sp := bytes.IndexByte(data[:idx], ' ')
	if sp <= 0 {
		return "", nil, fmt.Errorf("%w: bad header %q", ErrMalformedObject, header)
	}
	t := ObjectType(header[:sp])
	sizeStr := header[sp+1:]
	if sizeStr == "" || (len(sizeStr) > 1 && sizeStr[0] == '0') {
		return "", nil, fmt.Errorf("%w: bad size %q", ErrMalformedObject, sizeStr)
	}
	size, err := strconv.ParseUint(sizeStr, 10, 63)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad size %q", ErrMalformedObject, sizeStr)
	}
	if size != uint64(len(body)) {
		return "", nil, fmt.Errorf("%w: header says %d bytes, body has %d", ErrMalformedObject, size, len(body))
	}
	return t, body, nil
}

func decodeTreeBody(body []byte) (*Tree, error) {
	t := NewTree()
	prev := ""
	for len(body) > 0 {
		sp := bytes.IndexByte(body, ' ')
		if sp == -1 {
			return nil, fmt.Errorf("%w: tree entry without mode", ErrMalformedObject)
		}
		mode, err := ParseMode(string(body[:sp]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedObject, err)
		}
		body = body[sp+1:]

		nul := bytes.IndexByte(body, 0)
		if nul == -1 {
			return nil, fmt.Errorf("%w: tree entry without name terminator", ErrMalformedObject)
		}
		name := string(body[:nul])
		body = body[nul+1:]

		if len(body) < Size {
			return nil, fmt.Errorf("%w: truncated identifier for %q", ErrMalformedObject, name)
		}
		id := FromDigest(body[:Size])
		body = body[Size:]

		if t.Len() > 0 && name <= prev {
			return nil, fmt.Errorf("%w: entry %q out of order", ErrMalformedObject, name)
		}
		if err := t.Insert(name, mode, id); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedObject, err)
		}
		prev = name
	}
	return t, nil
}
