// Package server exposes parsing and matching as a JSON REST API.
//
// Endpoints:
//
//	POST /api/parse   body: {"text":"..."}
//	POST /api/match   body: {"pattern":"...", "sentence":"..."} or
//	                        {"pattern":"...", "sentence_tree":"..."}
//
// The pattern is always lattice text. A sentence may be raw Japanese text
// (analyzed with the bundled kagome parser) or pre-parsed lattice text.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"kakarimatch/match"
	"kakarimatch/model"
	"kakarimatch/parse"
)

// Server holds the shared parser and logger behind the handlers.
type Server struct {
	parser *parse.Parser
	log    *zap.SugaredLogger
}

// New builds a Server around an initialized parser.
func New(p *parse.Parser, log *zap.SugaredLogger) *Server {
	return &Server{parser: p, log: log}
}

// Handler returns the full HTTP handler: routes, request logging and a
// permissive CORS wrapper for browser front ends.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/parse", s.handleParse)
	mux.HandleFunc("/api/match", s.handleMatch)
	return cors.AllowAll().Handler(s.logRequests(mux))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start),
		)
	})
}

// ---- JSON types ---------------------------------------------------------

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Tree     string          `json:"tree"`
	Sentence *model.Sentence `json:"sentence"`
}

type matchRequest struct {
	Pattern      string `json:"pattern"`
	Sentence     string `json:"sentence,omitempty"`
	SentenceTree string `json:"sentence_tree,omitempty"`
}

type spanJSON struct {
	Surface string        `json:"surface"`
	Form    string        `json:"form"`
	Tokens  []model.Token `json:"tokens"`
}

type recordJSON struct {
	Spans []spanJSON `json:"spans"`
}

type matchResponse struct {
	Matched bool         `json:"matched"`
	Results []recordJSON `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func toRecordJSON(recs []match.Record) []recordJSON {
	out := make([]recordJSON, 0, len(recs))
	for _, rec := range recs {
		spans := make([]spanJSON, 0, len(rec))
		for _, sp := range rec {
			spans = append(spans, spanJSON{
				Surface: sp.Surface(),
				Form:    sp.Form(),
				Tokens:  sp,
			})
		}
		out = append(out, recordJSON{Spans: spans})
	}
	return out
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body parseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}

	sen, err := s.parser.Parse(body.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Tree: parse.Format(sen), Sentence: sen})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body matchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Pattern == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'pattern' field")
		return
	}

	pat, err := parse.Read(body.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, "pattern: "+err.Error())
		return
	}

	var sen *model.Sentence
	switch {
	case body.SentenceTree != "":
		if sen, err = parse.Read(body.SentenceTree); err != nil {
			writeError(w, http.StatusBadRequest, "sentence_tree: "+err.Error())
			return
		}
	case body.Sentence != "":
		if sen, err = s.parser.Parse(body.Sentence); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "either 'sentence' or 'sentence_tree' is required")
		return
	}

	recs, ok := match.Match(sen, pat)
	writeJSON(w, http.StatusOK, matchResponse{Matched: ok, Results: toRecordJSON(recs)})
}
