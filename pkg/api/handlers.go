package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/runekv/pkg/merge"
)

// Server exposes the store's column families over HTTP.
type Server struct {
	families *Families
	metrics  *Metrics
	log      *zap.Logger
}

// NewServer builds a Server from opened families.
func NewServer(families *Families, metrics *Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{families: families, metrics: metrics, log: log}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sendSuccess(w, map[string]string{"status": "ok"})
}

func (s *Server) handlePutKV(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err = s.families.KV.Put(key, body)
	s.metrics.ObserveStoreOp("kv", "put", start, err)
	if err != nil {
		s.log.Error("put failed", zap.String("key", key), zap.Error(err))
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, kvResponse{Key: key, Value: string(body)})
}

func (s *Server) handleGetKV(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	start := time.Now()
	value, found, err := s.families.KV.Get(key)
	s.metrics.ObserveStoreOp("kv", "get", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, kvResponse{Key: key, Value: string(value)})
}

func (s *Server) handleDeleteKV(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	start := time.Now()
	err := s.families.KV.Delete(key)
	s.metrics.ObserveStoreOp("kv", "delete", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"deleted": key})
}

func (s *Server) handleListKV(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	keys := []string{}
	err := s.families.KV.Iterate(func(k string, _ []byte) bool {
		keys = append(keys, k)
		return true
	})
	s.metrics.ObserveStoreOp("kv", "iterate", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]interface{}{"keys": keys, "count": len(keys)})
}

func (s *Server) handleClearKV(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	err := s.families.KV.Clear()
	s.metrics.ObserveStoreOp("kv", "clear", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"cleared": "kv"})
}

// handleMutateTags applies additions then removals, each as a blind merge;
// no read of the current tag list happens on this path.
func (s *Server) handleMutateTags(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req tagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Add) == 0 && len(req.Remove) == 0 {
		sendError(w, "nothing to add or remove", http.StatusBadRequest)
		return
	}

	start := time.Now()
	var err error
	if len(req.Add) > 0 {
		err = s.families.Tags.Merge(key, merge.Add(req.Add...))
	}
	if err == nil && len(req.Remove) > 0 {
		err = s.families.Tags.Merge(key, merge.Remove(req.Remove...))
	}
	s.metrics.ObserveStoreOp("tags", "merge", start, err)
	if err != nil {
		s.log.Error("tag merge failed", zap.String("key", key), zap.Error(err))
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"key": key})
}

func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	start := time.Now()
	tags, found, err := s.families.Tags.Get(key)
	s.metrics.ObserveStoreOp("tags", "get", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, tagsResponse{Key: key, Tags: tags})
}

func (s *Server) handleAddCounter(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req counterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err := s.families.Counters.Merge(key, req.Delta)
	s.metrics.ObserveStoreOp("counters", "merge", start, err)
	if err != nil {
		s.log.Error("counter merge failed", zap.String("key", key), zap.Error(err))
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"key": key})
}

func (s *Server) handleGetCounter(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	start := time.Now()
	value, found, err := s.families.Counters.Get(key)
	s.metrics.ObserveStoreOp("counters", "get", start, err)
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		// An untouched counter reads as zero.
		value = 0
	}
	sendSuccess(w, counterResponse{Key: key, Value: value})
}
