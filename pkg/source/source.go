package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elonfeng/techcast/pkg/trend"
)

// Kind identifies where raw trend records come from.
type Kind string

const (
	KindAnalytics Kind = "analytics"
	KindFile      Kind = "file"
	KindSnapshot  Kind = "snapshot"
)

// Source is the interface every record provider must implement.
type Source interface {
	Name() Kind
	Fetch(ctx context.Context) ([]trend.Record, error)
}

// Payload is the wire shape served by the analytics service.
type Payload struct {
	Trends []trend.Record `json:"trends"`
}

// Decode reads a Payload from r.
func Decode(r io.Reader) ([]trend.Record, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode trends payload: %w", err)
	}
	return p.Trends, nil
}

// AllKinds returns all known source kinds.
func AllKinds() []Kind {
	return []Kind{KindAnalytics, KindFile, KindSnapshot}
}
