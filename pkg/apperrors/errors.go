package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUnreadableFile      = errors.New("unreadable file")
	ErrNoHeaderRow         = errors.New("no header row found")
	ErrNoItemColumn        = errors.New("no item name column found")
	ErrNoQuoteRows         = errors.New("no valid quotation rows found")
)
