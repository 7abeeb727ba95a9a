package message

import (
	"strconv"
	"strings"
)

// FileDescriptor - file name and exact size in bytes exchanged before streaming.
type FileDescriptor struct {
	Name string
	Size int64
}

func (d FileDescriptor) String() string {
	return d.Name + SizeSeparator + strconv.FormatInt(d.Size, 10)
}

// ParseDescriptor - parses `name||size` payload.
func ParseDescriptor(payload string) (FileDescriptor, error) {
	i := strings.Index(payload, SizeSeparator)
	if i < 0 {
		return FileDescriptor{}, &FormatError{Field: "descriptor", Value: payload, Err: ErrNoSizeSeparator}
	}
	name, sizeStr := payload[:i], payload[i+len(SizeSeparator):]
	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return FileDescriptor{}, &FormatError{Field: "size", Value: sizeStr, Err: err}
	}
	if size < 0 {
		return FileDescriptor{}, &FormatError{Field: "size", Value: sizeStr, Err: ErrNegativeSize}
	}
	return FileDescriptor{Name: name, Size: size}, nil
}
