package extract

import (
	"context"

	"github.com/de-tools/statement-converter/pkg/models/domain"
)

// Extractor turns the document stored at path into an ordered list of
// transactions. Unreadable or corrupt input fails with domain.ErrExtraction.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]domain.Transaction, error)
}
