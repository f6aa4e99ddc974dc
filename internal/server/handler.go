package server

import (
	"encoding/json"
	"net/http"

	"github.com/howard-nolan/geminibridge/internal/request"
)

// handleHealth responds with a simple JSON status indicating the
// server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate handles POST /v1/generate: decode the uniform request,
// run it through the adapter, return the uniform result.
//
// Note the two failure shapes, mirroring the adapter's contract:
//   - a malformed request (bad JSON, invalid multimodal prompt,
//     unsupported media) is the caller's bug → HTTP 400 with an error
//     body;
//   - a provider failure is NOT an HTTP error → HTTP 200 with a Result
//     whose Success is false, so batch callers can tell the two apart
//     and keep going.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req request.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	// The generate endpoint never embeds, whatever the body says.
	req.Embedding = false
	s.serve(w, r, &req)
}

// handleEmbeddings handles POST /v1/embeddings. Same flow as generate,
// routed down the embedding path.
func (s *Server) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req request.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	req.Embedding = true
	s.serve(w, r, &req)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, req *request.Request) {
	// r.Context() cancels if the client disconnects, which aborts the
	// adapter's provider call too.
	result, err := s.client.MakeRequest(r.Context(), req)
	if err != nil {
		// Translation-time errors mean the request itself is broken.
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	// Headers must be set before the first write; once the body starts,
	// they're locked in.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
