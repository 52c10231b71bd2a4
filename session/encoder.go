package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// CurrentSchemaVersion is the encoding version written by Encode.
const CurrentSchemaVersion = 1

// Encode serializes a session record: version byte, length-prefixed
// username and role, then issued-at and expires-at as big-endian int64.
// The token itself is the storage key and is not part of the blob.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(CurrentSchemaVersion)

	if len(s.Username) == 0 || len(s.Username) > 255 {
		return nil, errors.New("invalid username length")
	}
	buf.WriteByte(byte(len(s.Username)))
	buf.WriteString(s.Username)

	if len(s.Role) == 0 || len(s.Role) > 255 {
		return nil, errors.New("invalid role length")
	}
	buf.WriteByte(byte(len(s.Role)))
	buf.WriteString(s.Role)

	if err := binary.Write(&buf, binary.BigEndian, s.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode. Malformed or truncated input
// returns an error, never a partial record.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, errors.New("invalid session version")
	}

	s := &Session{}

	usernameLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if usernameLen == 0 {
		return nil, errors.New("empty username")
	}
	username := make([]byte, usernameLen)
	if _, err := io.ReadFull(reader, username); err != nil {
		return nil, err
	}
	s.Username = string(username)

	roleLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if roleLen == 0 {
		return nil, errors.New("empty role")
	}
	role := make([]byte, roleLen)
	if _, err := io.ReadFull(reader, role); err != nil {
		return nil, err
	}
	s.Role = string(role)

	if err := binary.Read(reader, binary.BigEndian, &s.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after session record")
	}

	return s, nil
}
