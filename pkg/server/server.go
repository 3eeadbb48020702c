package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"readyroom/pkg/logbook"
	"readyroom/pkg/prompt"
	"readyroom/pkg/settings"
)

// StreamStatusTrailer is declared on the advice response so a client can
// tell a mid-stream provider failure from normal completion. The body
// itself stays a plain byte stream with no envelope.
const StreamStatusTrailer = "X-Stream-Status"

const (
	StreamStatusComplete = "complete"
	StreamStatusError    = "error"
)

const titleRequestTimeout = 30 * time.Second

// AdviceStreamer is the completion provider as the server consumes it.
type AdviceStreamer interface {
	StreamAdvice(ctx context.Context, systemPrompt, dilemma string, onDelta func(string)) error
}

// Server exposes the ready-room HTTP surface. Each request is handled
// independently and statelessly; the only shared state is the settings
// store and the captain's log.
type Server struct {
	llm       AdviceStreamer
	annotator *logbook.Annotator
	logStore  *logbook.Store
	settings  *settings.Store
}

func New(llm AdviceStreamer, annotator *logbook.Annotator, logStore *logbook.Store, settingsStore *settings.Store) *Server {
	return &Server{
		llm:       llm,
		annotator: annotator,
		logStore:  logStore,
		settings:  settingsStore,
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/advice", s.handleAdvice)
	mux.HandleFunc("/title", s.handleTitle)
	mux.HandleFunc("/log", s.handleLog)
	mux.HandleFunc("/settings", s.handleSettings)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// relayState tracks the advice stream through its lifecycle:
// awaiting-provider until the first fragment, then streaming until the
// stream closes.
type relayState int

const (
	relayAwaitingProvider relayState = iota
	relayStreaming
)

type adviceRequest struct {
	Dilemma  string            `json:"dilemma"`
	Settings settings.Settings `json:"settings"`
}

// handleAdvice relays the provider's token stream to the caller as a
// text/plain byte stream, writing fragments in arrival order and flushing
// each one. End of response is signaled by stream end; the status trailer
// records whether the provider finished normally.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Dilemma) == "" {
		http.Error(w, "dilemma required", http.StatusBadRequest)
		return
	}

	systemPrompt := prompt.BuildSystemPrompt(req.Settings.Normalized())

	flusher, _ := w.(http.Flusher)
	state := relayAwaitingProvider

	err := s.llm.StreamAdvice(r.Context(), systemPrompt, req.Dilemma, func(delta string) {
		if state == relayAwaitingProvider {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Trailer", StreamStatusTrailer)
			w.WriteHeader(http.StatusOK)
			state = relayStreaming
		}
		io.WriteString(w, delta)
		if flusher != nil {
			flusher.Flush()
		}
	})

	if err != nil {
		log.Printf("Advice stream error: %v", err)
		if state == relayAwaitingProvider {
			// Nothing written yet: a proper error response is still possible.
			writeJSONError(w, http.StatusInternalServerError, "failed to process request")
			return
		}
		// Bytes already flowed; all that is left is the trailer.
		w.Header().Set(StreamStatusTrailer, StreamStatusError)
		return
	}

	if state == relayAwaitingProvider {
		// Provider completed without emitting anything: an empty stream.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Trailer", StreamStatusTrailer)
		w.WriteHeader(http.StatusOK)
	}
	w.Header().Set(StreamStatusTrailer, StreamStatusComplete)
}

type titleRequest struct {
	Dilemma     string `json:"dilemma"`
	Advice      string `json:"advice"`
	LocutusMode bool   `json:"locutusMode"`
}

type titleResponse struct {
	Title    string `json:"title"`
	Stardate string `json:"stardate"`
}

// handleTitle always answers 200 with both fields: the annotator falls
// back to a persona default title and a locally generated stardate on any
// provider failure.
func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	persona := settings.PersonaPicard
	if req.LocutusMode {
		persona = settings.PersonaLocutus
	}

	ctx, cancel := context.WithTimeout(r.Context(), titleRequestTimeout)
	defer cancel()

	title, stardate := s.annotator.Annotate(ctx, req.Dilemma, req.Advice, persona)
	writeJSON(w, http.StatusOK, titleResponse{Title: title, Stardate: stardate})
}

type logSaveRequest struct {
	Dilemma  string           `json:"dilemma"`
	Advice   string           `json:"advice"`
	Persona  settings.Persona `json:"persona"`
	Title    string           `json:"title"`
	Stardate string           `json:"stardate"`
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.logStore.Entries())

	case http.MethodPost:
		var req logSaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Dilemma) == "" || strings.TrimSpace(req.Advice) == "" {
			http.Error(w, "dilemma and advice required", http.StatusBadRequest)
			return
		}

		entry, created := s.logStore.Append(r.Context(), logbook.Entry{
			Dilemma:  req.Dilemma,
			Advice:   req.Advice,
			Persona:  req.Persona,
			Title:    req.Title,
			Stardate: req.Stardate,
		})
		if !created {
			log.Printf("Duplicate log entry ignored (id %s)", entry.ID)
		}
		writeJSON(w, http.StatusOK, entry)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.settings.Current())

	case http.MethodPut:
		var next settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.settings.Update(r.Context(), next))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
