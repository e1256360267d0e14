package upload

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/de-tools/statement-converter/pkg/models/domain"
	"github.com/de-tools/statement-converter/pkg/services/conversion"
	"github.com/rs/zerolog"
)

const (
	FieldName   = "file"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// multipart parts above this size are spooled to disk by net/http
	maxMemory = 8 << 20
)

//go:embed static/index.html
var indexHTML []byte

type Handler struct {
	converter conversion.Converter
	maxSize   int64
}

func NewHandler(converter conversion.Converter, maxSize int64) *Handler {
	return &Handler{
		converter: converter,
		maxSize:   maxSize,
	}
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write upload form")
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("%w: %v", domain.ErrUpload, err))
			return
		}
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrUpload, err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrUpload, err))
		return
	}
	defer file.Close()

	res, err := h.converter.Convert(ctx, conversion.Upload{
		Filename: header.Filename,
		Body:     file,
	})
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to remove scratch files")
		}
	}()

	out, err := res.Open()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Errorf("%w: %v", domain.ErrWrite, err))
		return
	}
	defer out.Close()

	info, err := out.Stat()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, fmt.Errorf("%w: %v", domain.ErrWrite, err))
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(res.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, out); err != nil {
		logger.Error().
			Err(err).
			Str("filename", res.Filename).
			Msg("failed to stream spreadsheet")
	}
}

// contentDisposition quotes the name as needed and switches to the RFC 2231
// filename* form for non-ASCII names.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUpload):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTypeMismatch):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrEmptyResult), errors.Is(err, domain.ErrExtraction):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// message is what the user sees; the wrapped error only goes to the log.
func message(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpload):
		return "Erro ao enviar o arquivo."
	case errors.Is(err, domain.ErrTypeMismatch):
		return "O arquivo enviado não é um PDF."
	case errors.Is(err, domain.ErrEmptyResult):
		return "Nenhuma transação encontrada no PDF."
	case errors.Is(err, domain.ErrExtraction):
		return "Não foi possível ler as transações do PDF."
	case errors.Is(err, domain.ErrWrite):
		return "Erro ao gerar a planilha."
	default:
		return "Erro interno ao processar o arquivo."
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg("upload rejected")

	http.Error(w, message(err), status)
}
