package server

import (
	"errors"
	"net/http"
	"strings"

	"laborviz/internal/storage"
)

// HandleExportFile serves a stored export from export storage, so
// exports kept in GCS are reachable the same way as local ones
func (s *Server) HandleExportFile(w http.ResponseWriter, r *http.Request) {
	if s.Exports == nil {
		writeError(w, http.StatusNotFound, "Export storage is not configured")
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/")
	if filePath == "exports" || filePath == "exports/" {
		s.listExports(w, r)
		return
	}

	// prevent directory traversal
	if strings.Contains(filePath, "..") {
		writeError(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	fileData, err := s.Exports.GetFile(r.Context(), filePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		s.log.Error("Failed to read export", err, map[string]interface{}{"path": filePath})
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// listExports returns every stored export path
func (s *Server) listExports(w http.ResponseWriter, r *http.Request) {
	files, err := s.Exports.ListDir(r.Context(), "exports", true)
	if err != nil {
		s.log.Error("Failed to list exports", err)
		writeError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}
