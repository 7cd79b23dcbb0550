package web

// This file contains shared helpers for page and API handlers.

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// multipartOverhead is allowed on top of the file size limit for the
// multipart envelope.
const multipartOverhead = 1 << 20

// multipartMemory is how much of an upload ParseMultipartForm keeps in
// memory before spilling to a temp file.
const multipartMemory = 32 << 20

func supportedExtensions() []string {
	return dataset.SupportedExtensions()
}

// uploadFromRequest reads the "file" form field and hands it to the service.
// The request body is capped slightly above the file size limit.
func (s *Server) uploadFromRequest(w http.ResponseWriter, r *http.Request) (core.Session, error) {
	maxSize := s.service.Options().MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Session{}, core.ErrFileTooLarge
		}
		return core.Session{}, core.ErrNoFile
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Session{}, core.ErrNoFile
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(WithRequestMetadata(r.Context(), r), s.cfg.Upload.Timeout)
	defer cancel()

	return s.service.Upload(ctx, fileName(header), file, header.Size)
}

// fileName returns the base name the browser sent, without any path.
func fileName(h *multipart.FileHeader) string {
	name := h.Filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// chartRequestFromForm reads kind, x and y form values. An unknown kind is
// left zero so validation reports it as a warning.
func chartRequestFromForm(r *http.Request) chart.Request {
	kind, _ := chart.ParseKind(r.FormValue("kind"))
	return chart.Request{
		Kind: kind,
		X:    strings.TrimSpace(r.FormValue("x")),
		Y:    strings.TrimSpace(r.FormValue("y")),
	}
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// writeDownload sends data as an attachment.
func writeDownload(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}
