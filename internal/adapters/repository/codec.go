package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/kickout/internal/domain/model"
)

// encode serializes a log as a JSON array. A nil log encodes as [].
func encode(log []model.Record) ([]byte, error) {
	if log == nil {
		log = []model.Record{}
	}
	b, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("encode log: %w", err)
	}
	return b, nil
}

// decode parses a stored entry. Blank content is an empty log.
func decode(b []byte) ([]model.Record, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	var log []model.Record
	if err := json.Unmarshal(b, &log); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return log, nil
}
