package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Source supplies already-fetched market data
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*MarketData, error)
}

// FileSource reads market data written by an external fetcher
type FileSource struct {
	path string
	log  zerolog.Logger
}

// NewFileSource creates a source backed by a JSON file
func NewFileSource(path string, log zerolog.Logger) *FileSource {
	return &FileSource{
		path: path,
		log:  log.With().Str("component", "market_data_file").Logger(),
	}
}

// Name identifies the source in events and logs
func (s *FileSource) Name() string {
	return "file"
}

// Fetch reads and decodes the market data file
func (s *FileSource) Fetch(ctx context.Context) (*MarketData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market data file: %w", err)
	}

	md, err := Decode(data)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("path", s.path).
		Int("quotes", len(md.Quotes)).
		Int("series", len(md.History)).
		Msg("Loaded market data")
	return md, nil
}

// StaticSource serves an in-memory document, e.g. one posted to the API
type StaticSource struct {
	data *MarketData
}

// NewStaticSource wraps md
func NewStaticSource(md *MarketData) *StaticSource {
	return &StaticSource{data: md}
}

// Name identifies the source in events and logs
func (s *StaticSource) Name() string {
	return "request"
}

// Fetch returns the wrapped document
func (s *StaticSource) Fetch(ctx context.Context) (*MarketData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.data == nil {
		return nil, fmt.Errorf("no market data provided")
	}
	return s.data, nil
}

// Decode parses a market data JSON document
func Decode(data []byte) (*MarketData, error) {
	var md MarketData
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to decode market data: %w", err)
	}
	return &md, nil
}
