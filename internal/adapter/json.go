package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON decodes reference data files, to enable mocking
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Unmarshal(data []byte, v any) error
}

// RealJSON implements JSON with encoding/json, rejecting trailing garbage
type RealJSON struct{}

// NewJSON creates a new real JSON implementation
func NewJSON() JSON {
	return &RealJSON{}
}

func (j *RealJSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return nil
}
