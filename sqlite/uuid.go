package sqlite

import (
	"github.com/google/uuid"
)

// UUIDFormat selects how a UUID is stored.
type UUIDFormat int

const (
	// UUIDBlob stores the 16 raw bytes.
	UUIDBlob UUIDFormat = iota
	// UUIDText stores the canonical 36 character form.
	UUIDText
)

// UUIDValue returns u as a BLOB or TEXT value.
func UUIDValue(u uuid.UUID, format UUIDFormat) Value {
	if format == UUIDText {
		return Text(u.String())
	}
	return Blob(u[:])
}

// AsUUID decodes a UUID stored as TEXT or as a 16 byte BLOB.
func AsUUID(v Value) (uuid.UUID, error) {
	switch v.kind {
	case kindText:
		u, err := uuid.Parse(v.s)
		if err != nil {
			return uuid.Nil, err
		}
		return u, nil
	case kindBlob:
		u, err := uuid.FromBytes(v.b)
		if err != nil {
			return uuid.Nil, err
		}
		return u, nil
	}
	return uuid.Nil, mismatch(v, "uuid")
}
