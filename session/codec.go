package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const recordVersionV1 = 1

// Record is the persisted form of a session: who owns it and when it was
// created. Expiry is a store policy, not part of the record.
type Record struct {
	UserID    string
	CreatedAt int64
}

func encodeRecord(record Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, record.CreatedAt); err != nil {
		return nil, err
	}

	if len(record.UserID) > 65535 {
		return nil, errors.New("session user id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.UserID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.UserID)

	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Record{}, err
	}
	if version != recordVersionV1 {
		return Record{}, errors.New("invalid session record version")
	}

	var record Record
	if err := binary.Read(reader, binary.BigEndian, &record.CreatedAt); err != nil {
		return Record{}, err
	}

	var userIDLen uint16
	if err := binary.Read(reader, binary.BigEndian, &userIDLen); err != nil {
		return Record{}, err
	}

	userID := make([]byte, userIDLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return Record{}, err
	}
	record.UserID = string(userID)

	if reader.Len() != 0 {
		return Record{}, errors.New("trailing bytes in session record")
	}

	return record, nil
}
