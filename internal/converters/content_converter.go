package converters

import "github.com/ecopia-map/tiles_pipeline/internal/data"

// ContentConverter transforms a single content item. Items the converter
// does not apply to are returned unchanged. Implementations must be safe for
// concurrent use.
type ContentConverter interface {
	Convert(item *data.ContentItem) (*data.ContentItem, error)
}

type IdentityConverter struct{}

func NewIdentityConverter() ContentConverter {
	return &IdentityConverter{}
}

func (c *IdentityConverter) Convert(item *data.ContentItem) (*data.ContentItem, error) {
	return item, nil
}
