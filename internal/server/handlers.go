package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/sportsbeams/pipeline/internal/server/response"
	"github.com/sportsbeams/pipeline/pkg/errors"
	"github.com/sportsbeams/pipeline/pkg/importer"
)

// handleImportJSON imports a raw JSON document from the request body.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		response.BadRequest(w, "Failed to read request body", err.Error())
		return
	}

	result, err := s.session.Import(r.Context(), body)
	if err != nil {
		s.writeImportError(w, err)
		return
	}
	response.OK(w, result)
}

// handleImportUpload imports a multipart .json file upload.
func (s *Server) handleImportUpload(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.session.Import(r.Context(), data)
	if err != nil {
		s.writeImportError(w, err)
		return
	}
	response.OK(w, result)
}

// handleImportPreview summarizes what an import would do without
// writing anything.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	preview, err := importer.PreviewImport(data)
	if err != nil {
		s.writeImportError(w, err)
		return
	}
	response.OK(w, preview)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// readUpload extracts the "file" part of a multipart upload, enforcing
// the .json extension and size limit. It writes the error response
// itself when the upload is rejected.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		response.BadRequest(w, "Failed to parse multipart form", err.Error())
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file upload", err.Error())
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		response.BadRequest(w, "File must be a JSON file", header.Filename)
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.config.MaxUploadBytes))
	if err != nil {
		response.BadRequest(w, "Failed to read upload", err.Error())
		return nil, false
	}
	return data, true
}

// writeImportError maps engine errors to HTTP responses. Unrecognized
// schemas and malformed documents are client errors; everything else
// is internal.
func (s *Server) writeImportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrSchemaUnrecognized):
		response.BadRequest(w, "Cannot determine import format", err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		response.BadRequest(w, "Invalid import document", err.Error())
	default:
		s.logger.Error().Err(err).Msg("Import failed")
		response.InternalError(w, err)
	}
}
