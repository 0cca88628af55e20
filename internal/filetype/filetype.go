package filetype

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileType is the semantic category a file is routed by.
type FileType string

const (
	Text         FileType = "text"
	PDF          FileType = "pdf"
	Image        FileType = "image"
	Audio        FileType = "audio"
	Document     FileType = "document"
	Presentation FileType = "presentation"
	Spreadsheet  FileType = "spreadsheet"
	RTF          FileType = "rtf"
	HTML         FileType = "html"
	Other        FileType = "other"
)

var byExtension = map[string]FileType{
	".md":   Text,
	".txt":  Text,
	".pdf":  PDF,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".gif":  Image,
	".bmp":  Image,
	".mp3":  Audio,
	".wav":  Audio,
	".m4a":  Audio,
	".doc":  Document,
	".docx": Document,
	".ppt":  Presentation,
	".pptx": Presentation,
	".xls":  Spreadsheet,
	".xlsx": Spreadsheet,
	".rtf":  RTF,
	".html": HTML,
	".htm":  HTML,
}

// Infer maps a file name to its FileType based on the extension alone.
// Matching is case-insensitive and tolerant of surrounding whitespace;
// unknown extensions map to Other. Infer never fails.
func Infer(name string) FileType {
	ext := strings.TrimSpace(strings.ToLower(filepath.Ext(strings.TrimSpace(name))))
	if ft, ok := byExtension[ext]; ok {
		return ft
	}
	return Other
}

// Sniff reports the detected MIME type of a file on disk. It is used for
// diagnostics when a file classified as Other reaches the raw decoder.
func Sniff(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "unknown"
	}
	return mtype.String()
}

// Title returns the file type capitalized for use as a tag, e.g. "Pdf".
func (t FileType) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
