// Package xbrl provides HTTP API handlers that extract facts from uploaded XBRL instance documents.
package xbrl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"edinet_xbrl/pkg/core/listing"
	"edinet_xbrl/pkg/core/store"
	coreXBRL "edinet_xbrl/pkg/core/xbrl"
)

// MaxDocumentBytes caps the size of an uploaded instance document.
const MaxDocumentBytes = 64 << 20

// Handler holds dependencies for the extraction endpoints
type Handler struct {
	Catalog *coreXBRL.Catalog
	Cache   *store.SnapshotCache // optional
}

// NewHandler creates a new extraction handler
func NewHandler(catalog *coreXBRL.Catalog, cache *store.SnapshotCache) *Handler {
	if catalog == nil {
		catalog = coreXBRL.DefaultCatalog()
	}
	return &Handler{Catalog: catalog, Cache: cache}
}

// ExtractResponse is the body of a successful extraction. Digest covers the document bytes only.
type ExtractResponse struct {
	Digest   string             `json:"digest"`
	Cached   bool               `json:"cached"`
	Snapshot *coreXBRL.Snapshot `json:"snapshot"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}

// HandleExtract handles POST /api/xbrl/extract
// The request body is the raw instance document; ?source= labels it.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	source := r.URL.Query().Get("source")
	digest := store.Digest(data)
	key := store.Digest(data, source, h.Catalog.Fingerprint())

	if h.Cache != nil {
		entry, err := h.Cache.Get(r.Context(), key)
		if err != nil {
			fmt.Printf("[WARNING] Snapshot cache read failed: %v\n", err)
		}
		if entry != nil && entry.Data != nil {
			fmt.Printf("[API] Cache hit %s (%d facts)\n", digest[:12], entry.FactCount)
			json.NewEncoder(w).Encode(ExtractResponse{Digest: digest, Cached: true, Snapshot: entry.Data})
			return
		}
	}

	doc, status, err := h.load(data, source)
	if err != nil {
		writeError(w, status, err)
		return
	}
	snap := doc.Snapshot()

	if h.Cache != nil {
		if _, err := h.Cache.Save(r.Context(), key, snap); err != nil {
			fmt.Printf("[WARNING] Failed to cache snapshot: %v\n", err)
		}
	}

	fmt.Printf("[API] Extracted %d facts, %d contexts from %s\n", len(snap.Facts), len(snap.Contexts), digest[:12])
	json.NewEncoder(w).Encode(ExtractResponse{Digest: digest, Snapshot: snap})
}

// HandleListing handles POST /api/xbrl/listing?format=text|markdown|html
func (h *Handler) HandleListing(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := listing.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	doc, status, err := h.load(data, r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, status, err)
		return
	}

	var buf bytes.Buffer
	if err := listing.Render(&buf, doc, format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	switch format {
	case listing.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case listing.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Write(buf.Bytes())
}

// load returns the HTTP status to report alongside any error.
func (h *Handler) load(data []byte, source string) (*coreXBRL.Document, int, error) {
	doc, err := coreXBRL.Load(bytes.NewReader(data), coreXBRL.WithCatalog(h.Catalog), coreXBRL.WithSource(source))
	if err == nil {
		return doc, http.StatusOK, nil
	}
	if errors.Is(err, coreXBRL.ErrMalformedContext) || errors.Is(err, coreXBRL.ErrDuplicateContext) {
		return nil, http.StatusUnprocessableEntity, err
	}
	return nil, http.StatusBadRequest, err
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", MaxDocumentBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var ce *coreXBRL.ContextError
	if errors.As(err, &ce) {
		resp.Context = ce.ID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
