package objtree

import (
	"os"
	"strconv"
)

// Blob is the canonical representation of a single file's raw content.
type Blob struct {
	content []byte
}

// NewBlob wraps a copy of content. Empty content is valid.
func NewBlob(content []byte) *Blob {
	c := make([]byte, len(content))
	copy(c, content)
	return &Blob{content: c}
}

// NewSymlinkBlob returns the blob stored for a symbolic link: the target text itself.
func NewSymlinkBlob(target string) *Blob {
	return &Blob{content: []byte(target)}
}

// ReadBlob reads the entire file at path.
func ReadBlob(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read", path, err)
	}
	return &Blob{content: data}, nil
}

func (b *Blob) Type() ObjectType { return TypeBlob }

// Size returns the content length in bytes.
func (b *Blob) Size() int64 { return int64(len(b.content)) }

// Contents returns the raw content. Callers must not modify it.
func (b *Blob) Contents() []byte { return b.content }

// Encode returns "blob {size}\0{content}".
func (b *Blob) Encode() []byte {
	return encodeEnvelope(TypeBlob, b.content)
}

// ID returns the identifier under DefaultAlgorithm.
func (b *Blob) ID() ID {
	return DefaultAlgorithm.Sum(b.Encode())
}

// encodeEnvelope frames body as "{type} {len}\0{body}".
func encodeEnvelope(t ObjectType, body []byte) []byte {
	buf := make([]byte, 0, len(t)+22+len(body))
	buf = append(buf, t...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(len(body)), 10)
	buf = append(buf, 0)
	return append(buf, body...)
}
