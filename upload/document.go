package upload

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/poiesic/solrblast/solr"
)

// extensionTypes overrides sniffing where the extension is more reliable than
// the content, e.g. HTML fragments without a doctype.
var extensionTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".xml":  "application/xml",
	".json": "application/json",
	".csv":  "text/csv",
	".md":   "text/markdown",
}

// NewDocument builds the extract request for the file at absPath.
// The document id and resource name are both the absolute path.
func NewDocument(absPath string, body []byte) solr.Document {
	return solr.Document{
		ID:           absPath,
		ResourceName: absPath,
		ContentType:  contentType(absPath, body),
		Body:         body,
	}
}

func contentType(path string, body []byte) string {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return mimetype.Detect(body).String()
}
