package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/de-tools/statement-converter/pkg/services/spreadsheet"
	"github.com/de-tools/statement-converter/pkg/store/workdir"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const pdfMIME = "application/pdf"

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Body     io.ReadSeeker
}

// Result is a generated spreadsheet waiting to be delivered. Close removes
// the scratch files and must always be called.
type Result struct {
	Filename     string
	Transactions []domain.Transaction

	job *workdir.Job
	fs  afero.Fs
}

func (r *Result) Open() (afero.File, error) {
	return r.fs.Open(r.job.OutputPath)
}

func (r *Result) Close() error {
	return r.job.Close()
}

type Converter interface {
	Convert(ctx context.Context, upload Upload) (*Result, error)
}

type Service struct {
	dir       *workdir.Dir
	extractor extract.Extractor
	generator spreadsheet.Generator
	metrics   *Metrics
}

func NewService(
	dir *workdir.Dir,
	extractor extract.Extractor,
	generator spreadsheet.Generator,
	metrics *Metrics,
) *Service {
	return &Service{
		dir:       dir,
		extractor: extractor,
		generator: generator,
		metrics:   metrics,
	}
}

func (s *Service) Convert(ctx context.Context, upload Upload) (res *Result, err error) {
	start := time.Now()
	defer func() {
		count := 0
		if res != nil {
			count = len(res.Transactions)
		}
		s.metrics.observe(outcome(err), time.Since(start), count)
	}()

	logger := zerolog.Ctx(ctx)

	name, err := workdir.SanitizeFilename(upload.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if err := DetectPDF(upload.Body); err != nil {
		return nil, err
	}

	job, err := s.dir.Acquire()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if cerr := job.Close(); cerr != nil {
				logger.Error().Err(cerr).Str("job", job.ID).Msg("failed to clean up scratch files")
			}
		}
	}()

	if err := s.save(upload.Body, job.InputPath); err != nil {
		return nil, err
	}

	txs, err := s.extractor.Extract(ctx, job.InputPath)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, domain.ErrEmptyResult
	}

	if err := s.generator.Generate(ctx, txs, job.OutputPath); err != nil {
		return nil, err
	}

	logger.Info().
		Str("job", job.ID).
		Str("filename", name).
		Int("transactions", len(txs)).
		Msg("statement converted")

	return &Result{
		Filename:     workdir.OutputFilename(name),
		Transactions: txs,
		job:          job,
		fs:           s.dir.Fs(),
	}, nil
}

func (s *Service) save(body io.Reader, path string) error {
	fs := s.dir.Fs()
	out, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: save upload: %v", domain.ErrUpload, err)
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return fmt.Errorf("%w: save upload: %v", domain.ErrUpload, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: save upload: %v", domain.ErrUpload, err)
	}
	return nil
}

// DetectPDF sniffs the leading bytes of r and rewinds it. The declared
// filename and content type are never consulted.
func DetectPDF(r io.ReadSeeker) error {
	if r == nil {
		return fmt.Errorf("%w: empty body", domain.ErrUpload)
	}

	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("%w: read upload: %v", domain.ErrUpload, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind upload: %v", domain.ErrUpload, err)
	}

	if !mtype.Is(pdfMIME) {
		return fmt.Errorf("%w: detected %s", domain.ErrTypeMismatch, mtype.String())
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUpload):
		return "upload_error"
	case errors.Is(err, domain.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrExtraction):
		return "extraction_error"
	case errors.Is(err, domain.ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, domain.ErrWrite):
		return "write_error"
	default:
		return "error"
	}
}
