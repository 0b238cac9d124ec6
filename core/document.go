package core

import (
	"path/filepath"
	"strings"
)

// Extension is a supported document file type.
type Extension string

const (
	ExtPDF  Extension = "pdf"
	ExtDOCX Extension = "docx"
	ExtCSV  Extension = "csv"
	ExtPPTX Extension = "pptx"
	ExtTXT  Extension = "txt"
	ExtMD   Extension = "md"
)

// SupportedExtensions returns the upload allow-list.
func SupportedExtensions() []Extension {
	return []Extension{ExtPDF, ExtDOCX, ExtCSV, ExtPPTX, ExtTXT, ExtMD}
}

// Supported reports whether e belongs to the allow-list.
func (e Extension) Supported() bool {
	switch e {
	case ExtPDF, ExtDOCX, ExtCSV, ExtPPTX, ExtTXT, ExtMD:
		return true
	default:
		return false
	}
}

// PlainText reports whether documents of this type can be read verbatim.
func (e Extension) PlainText() bool {
	return e == ExtTXT || e == ExtMD || e == ExtCSV
}

// ExtensionOf returns the lower-cased extension of a file name without the
// leading dot. The result is not checked against the allow-list.
func ExtensionOf(name string) Extension {
	return Extension(strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")))
}

// Document is an accepted upload. ID is assigned at intake so that two
// uploads sharing a name remain distinct entries.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Extension Extension `json:"extension"`
	Path      string    `json:"path,omitempty"`
}
