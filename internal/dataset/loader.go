package dataset

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
)

// parseFunc turns the raw bytes of an uploaded file into a Table.
type parseFunc func(data []byte) (*Table, error)

// parsers maps a lowercase file extension to its parser.
var parsers = map[string]parseFunc{
	".csv":  parseCSV,
	".xlsx": parseXLSX,
	".json": parseJSON,
}

// Load parses data according to the extension of fileName. The extension
// match is case-insensitive. data is never modified.
//
// An unknown extension yields a *LoadError with Kind UnsupportedFormat; any
// parser error is wrapped in a *LoadError with Kind ParseFailure.
func Load(fileName string, data []byte) (*Table, error) {
	parse, ok := parsers[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return nil, &LoadError{Kind: UnsupportedFormat, FileName: fileName}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Kind: ParseFailure, FileName: fileName, Err: errEmptyFile}
	}

	t, err := parse(data)
	if err != nil {
		return nil, &LoadError{Kind: ParseFailure, FileName: fileName, Err: err}
	}
	return t, nil
}

// SupportedExtensions returns the accepted file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// SupportedExtensionsList returns SupportedExtensions joined for messages.
func SupportedExtensionsList() string {
	return strings.Join(SupportedExtensions(), ", ")
}
