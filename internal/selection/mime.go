package selection

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".txt":  "text/plain; charset=utf-8",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eml":  "message/rfc822",
	".msg":  "application/vnd.ms-outlook",
}

// DetectMime returns the content type for a file. Known extensions are
// answered from a table; other non-empty files are sniffed from their
// first 512 bytes. Empty or unidentifiable files get "".
func DetectMime(path string, size int64) string {
	if m, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	if size == 0 {
		return ""
	}

	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return ""
	}
	contentType := http.DetectContentType(buffer[:n])
	if contentType == "application/octet-stream" {
		return ""
	}
	return contentType
}
