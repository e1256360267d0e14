package domain

import "errors"

var (
	ErrUpload       = errors.New("upload failed")
	ErrTypeMismatch = errors.New("uploaded file is not a PDF")
	ErrExtraction   = errors.New("failed to extract transactions")
	ErrEmptyResult  = errors.New("no transactions found")
	ErrWrite        = errors.New("failed to write spreadsheet")
)
