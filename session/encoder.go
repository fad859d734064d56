package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const sessionFormatVersionCurrent = 1

// Access tokens are JWTs and routinely exceed one length byte; everything
// else in the record fits in one.
const maxTokenLength = 8 * 1024

// ErrSessionCorrupt is returned when a persisted session blob cannot be
// decoded.
var ErrSessionCorrupt = errors.New("persisted session corrupt")

// Encode serializes a session into the versioned binary persistence format.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}

	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionCurrent)

	for _, field := range []string{s.ID, s.UserID, s.Email} {
		if len(field) > 255 {
			return nil, errors.New("session field too long")
		}
		buf.WriteByte(byte(len(field)))
		buf.WriteString(field)
	}

	if len(s.AccessToken) > maxTokenLength {
		return nil, errors.New("access token too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.AccessToken))); err != nil {
		return nil, err
	}
	buf.WriteString(s.AccessToken)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a persisted session blob. Any structural problem is reported
// as [ErrSessionCorrupt].
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrSessionCorrupt
	}
	if version != sessionFormatVersionCurrent {
		return nil, ErrSessionCorrupt
	}

	s := &Session{}

	for _, dst := range []*string{&s.ID, &s.UserID, &s.Email} {
		fieldLen, err := reader.ReadByte()
		if err != nil {
			return nil, ErrSessionCorrupt
		}
		field := make([]byte, fieldLen)
		if _, err := io.ReadFull(reader, field); err != nil {
			return nil, ErrSessionCorrupt
		}
		*dst = string(field)
	}

	var tokenLen uint16
	if err := binary.Read(reader, binary.BigEndian, &tokenLen); err != nil {
		return nil, ErrSessionCorrupt
	}
	token := make([]byte, tokenLen)
	if _, err := io.ReadFull(reader, token); err != nil {
		return nil, ErrSessionCorrupt
	}
	s.AccessToken = string(token)

	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, ErrSessionCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, ErrSessionCorrupt
	}

	if reader.Len() != 0 {
		return nil, ErrSessionCorrupt
	}

	return s, nil
}
