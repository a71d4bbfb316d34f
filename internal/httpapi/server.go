// Package httpapi exposes the webhook receiver and the operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"whalecaster/internal/observability"
	"whalecaster/internal/pipeline"
)

// maxBodyBytes bounds webhook request bodies. Provider batches are at most a
// few hundred events; anything larger is not a legitimate delivery.
const maxBodyBytes = 8 << 20

// Processor runs one webhook batch. Satisfied by *pipeline.Pipeline.
type Processor interface {
	ProcessBatch(ctx context.Context, body []byte) pipeline.Summary
}

// API is the HTTP surface of the service.
type API struct {
	processor Processor
	stream    http.Handler
	logger    *log.Logger
	started   time.Time

	mu        sync.Mutex
	batches   int
	lastBatch time.Time
	lastSum   pipeline.Summary
}

// Options configures an API. Processor is required; Stream is optional.
type Options struct {
	Processor Processor
	Stream    http.Handler
	Logger    *log.Logger
}

// New creates an API.
func New(opts Options) *API {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[httpapi] ", log.LstdFlags|log.Lshortfile)
	}
	return &API{
		processor: opts.Processor,
		stream:    opts.Stream,
		logger:    opts.Logger,
		started:   time.Now(),
	}
}

// Routes returns the request mux for the service.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/hook", a.handleHook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", a.handleStatus)
	mux.Handle("/metrics", observability.Handler())
	if a.stream != nil {
		mux.Handle("/stream", a.stream)
	}

	return mux
}

// handleHook receives a webhook delivery. It always acknowledges with 200 and
// {"status":"ok"}: any other response makes the provider re-deliver the batch,
// and re-processing is cheaper to suppress downstream than duplicate alerts
// are to claw back.
func (a *API) handleHook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		a.logger.Printf("read hook body: %v", err)
		body = nil
	}

	summary := a.processor.ProcessBatch(r.Context(), body)

	a.mu.Lock()
	a.batches++
	a.lastBatch = time.Now()
	a.lastSum = summary
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// StatusResponse is the JSON response for /status.
type StatusResponse struct {
	Status    string           `json:"status"`
	Uptime    string           `json:"uptime"`
	Batches   int              `json:"batches"`
	LastBatch time.Time        `json:"last_batch,omitempty"`
	LastSum   pipeline.Summary `json:"last_summary"`
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	resp := StatusResponse{
		Status:    "running",
		Uptime:    time.Since(a.started).String(),
		Batches:   a.batches,
		LastBatch: a.lastBatch,
		LastSum:   a.lastSum,
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
