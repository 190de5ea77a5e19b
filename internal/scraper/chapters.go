package scraper

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"show-scraper/internal/model"
)

// chaptersSchema is the podcast namespace JSON chapters format, restricted to the
// fields the site renders.
const chaptersSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "chapters"],
  "properties": {
    "version": {"type": "string"},
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["startTime"],
        "properties": {
          "startTime": {"type": "number", "minimum": 0},
          "endTime": {"type": "number", "minimum": 0},
          "title": {"type": "string"},
          "img": {"type": "string"},
          "url": {"type": "string"},
          "toc": {"type": "boolean"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadChaptersSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(chaptersSchema))
	})
	return schema, schemaErr
}

// ParseChapters validates a chapters document and decodes it.
func ParseChapters(body []byte) (*model.Chapters, error) {
	s, err := loadChaptersSchema()
	if err != nil {
		return nil, fmt.Errorf("loading chapters schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validating chapters: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid chapters: %s", strings.Join(msgs, "; "))
	}

	var chapters model.Chapters
	if err := json.Unmarshal(body, &chapters); err != nil {
		return nil, fmt.Errorf("decoding chapters: %w", err)
	}
	return &chapters, nil
}
