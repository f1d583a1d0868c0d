package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/seiri/internal/models"
	"go.uber.org/zap"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

const defaultSearchLimit = 10

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("category", req.Category),
		zap.Int("limit", req.Limit),
	)
	hits, err := s.index.Search(r.Context(), req.Query, req.Category, req.Limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": hits,
		"total":   len(hits),
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	docs, err := s.storage.ListDocuments(r.Context(), category, offset, limit)
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	doc, err := s.storage.GetDocument(r.Context(), filename)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetRelated(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	// 404 for unknown documents, empty list for known documents with no links.
	if _, err := s.storage.GetDocument(r.Context(), filename); err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	rels, err := s.storage.GetRelationships(r.Context(), filename)
	if err != nil {
		s.logger.Error("get relationships failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"filename": filename,
		"related":  rels,
		"total":    len(rels),
	})
}

// factsPageSize bounds each storage read while consolidating facts.
const factsPageSize = 200

// handleFacts serves the consolidated facts index: the union of every
// document's fact fields, recomputed from the persisted corpus.
func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sets := make(map[string]map[string]struct{}, len(models.FactFieldOrder))
	for _, field := range models.FactFieldOrder {
		sets[field] = make(map[string]struct{})
	}
	total := 0
	for offset := 0; ; offset += factsPageSize {
		docs, err := s.storage.ListDocuments(ctx, "", offset, factsPageSize)
		if err != nil {
			s.logger.Error("facts: list documents failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, doc := range docs {
			for _, field := range models.FactFieldOrder {
				for _, v := range doc.Facts.Field(field) {
					sets[field][v] = struct{}{}
				}
			}
		}
		total += len(docs)
		if len(docs) < factsPageSize {
			break
		}
	}
	var facts models.Facts
	for _, field := range models.FactFieldOrder {
		values := make([]string, 0, len(sets[field]))
		for v := range sets[field] {
			values = append(values, v)
		}
		sort.Strings(values)
		facts.SetField(field, values)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"facts":     facts,
		"documents": total,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byCategory, err := s.storage.CountByCategory(ctx)
	if err != nil {
		s.logger.Error("status: count by category failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":  docCount,
		"categories": byCategory,
	}
	if s.index != nil {
		if indexed, err := s.index.DocCount(); err == nil {
			resp["indexed"] = indexed
		}
	}
	if last, err := s.storage.LastRunMetrics(ctx); err == nil && last != nil {
		resp["last_run"] = map[string]interface{}{
			"run_id":      last.RunID,
			"files_found": last.FilesFound,
			"processed":   last.Processed,
			"failed":      last.Failed,
			"finished_at": last.FinishedAt,
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
