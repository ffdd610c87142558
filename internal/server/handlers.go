package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neurite-tools/neurite/pkg/errors"
	"github.com/neurite-tools/neurite/pkg/pipeline"
	"github.com/neurite-tools/neurite/pkg/store"
	"github.com/neurite-tools/neurite/pkg/swc"
	"github.com/neurite-tools/neurite/pkg/ugx"
)

// Format names accepted in requests.
const (
	formatSWC = "swc"
	formatUGX = "ugx"
)

// convertRequest asks for a format translation.
type convertRequest struct {
	Content string `json:"content"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// convertResponse carries the translated morphology.
type convertResponse struct {
	Content  string   `json:"content"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ns, warns, err := readMorphology(req.From, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := writeMorphology(req.To, ns)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Content:  content,
		Warnings: warningStrings(warns),
	})
}

// refineRequest asks for a refinement run.
type refineRequest struct {
	Content string           `json:"content"`
	Format  string           `json:"format"`
	Options pipeline.Options `json:"options"`
}

// refineResponse carries the refined levels and run metadata.
type refineResponse struct {
	RunID    string         `json:"run_id"`
	Levels   []string       `json:"levels"`
	Warnings []string       `json:"warnings,omitempty"`
	Stats    pipeline.Stats `json:"stats"`
	CacheHit bool           `json:"cache_hit"`
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ns, warns, err := readMorphology(req.Format, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	result, err := s.runner.Refine(r.Context(), ns, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	levels := make([]string, len(result.Levels))
	for i, level := range result.Levels {
		text, err := writeMorphology(formatSWC, level)
		if err != nil {
			writeError(w, err)
			return
		}
		levels[i] = text
	}

	s.recordRun(r, result, start)

	resp := refineResponse{
		RunID:    result.RunID,
		Levels:   levels,
		Warnings: warningStrings(append(warns, result.Warnings...)),
		Stats:    result.Stats,
		CacheHit: result.CacheHit,
	}
	writeJSON(w, http.StatusOK, resp)
}

// recordRun persists run metadata when a store is configured. Failures
// are logged, not surfaced; the refinement itself succeeded.
func (s *Server) recordRun(r *http.Request, result *pipeline.Result, start time.Time) {
	if s.store == nil || result.CacheHit {
		return
	}

	counts := make([]int, len(result.Levels))
	for i, level := range result.Levels {
		counts[i] = len(level)
	}
	run := store.Run{
		ID:         result.RunID,
		CreatedAt:  start,
		InputHash:  result.InputHash,
		Levels:     len(result.Levels),
		NodeCounts: counts,
		DurationMS: result.Stats.TotalTime.Milliseconds(),
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		s.logger.Warn("failed to record run", "run_id", result.RunID, "err", err)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run persistence is not configured"))
		return
	}
	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run persistence is not configured"))
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// readMorphology parses content in the named format.
func readMorphology(format, content string) (swc.NodeSet, []errors.Warning, error) {
	switch format {
	case formatSWC, "":
		return swc.Read(strings.NewReader(content))
	case formatUGX:
		return ugx.ReadTree(strings.NewReader(content))
	default:
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

// writeMorphology serializes ns in the named format.
func writeMorphology(format string, ns swc.NodeSet) (string, error) {
	var buf bytes.Buffer
	switch format {
	case formatSWC, "":
		if err := swc.Write(ns, &buf); err != nil {
			return "", err
		}
	case formatUGX:
		if err := ugx.WriteTree(ns, &buf); err != nil {
			return "", err
		}
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	return buf.String(), nil
}

func warningStrings(warns []errors.Warning) []string {
	if len(warns) == 0 {
		return nil
	}
	out := make([]string, len(warns))
	for i, w := range warns {
		out[i] = w.String()
	}
	return out
}
