// Package web serves the BitFlow dashboard: a single HTML page plus
// SSE streams of price snapshots, trades and advisory events.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vadiminshakov/bitflow/internal"
	"github.com/vadiminshakov/bitflow/internal/domain"
)

const streamPollInterval = 2 * time.Second

type tradeLogReader interface {
	TransactionsAfter(index uint64) ([]domain.TransactionRecord, error)
}

type advisoryReader interface {
	EventsAfter(index uint64) ([]domain.AdvisoryEventRecord, error)
}

type sessionReader interface {
	Snapshot() internal.Overview
	HistorySnapshot() []domain.PricePoint
}

// Server exposes HTTP endpoints serving the HTML UI and SSE streams.
type Server struct {
	Addr          string
	Session       sessionReader
	TradeLog      tradeLogReader
	AdvisoryStore advisoryReader
}

// NewServer creates a new web server instance.
func NewServer(addr string, session sessionReader, tradeLog tradeLogReader, advisoryStore advisoryReader) *Server {
	return &Server{Addr: addr, Session: session, TradeLog: tradeLog, AdvisoryStore: advisoryStore}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/overview", s.handleOverview)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/trades/stream", s.handleTradeStream)
	mux.HandleFunc("/advisory/stream", s.handleAdvisoryStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if s.Session == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "session not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Session.Snapshot()); err != nil {
		log.Printf("overview encode: %v", err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Session == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "session not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Session.HistorySnapshot()); err != nil {
		log.Printf("history encode: %v", err)
	}
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	if s.TradeLog == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "trade log not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendTrades := func() error {
		records, err := s.TradeLog.TransactionsAfter(lastIndex)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Transaction)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: trade\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendTrades(); err != nil {
		http.Error(w, "failed to load trades", http.StatusInternalServerError)
		log.Printf("trade stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendTrades(); err != nil {
				log.Printf("trade stream poll err: %v", err)
			}
		}
	}
}

func (s *Server) handleAdvisoryStream(w http.ResponseWriter, r *http.Request) {
	if s.AdvisoryStore == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "advisory store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendAdvisories := func() error {
		records, err := s.AdvisoryStore.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Event)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: advisory\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendAdvisories(); err != nil {
		http.Error(w, "failed to load advisories", http.StatusInternalServerError)
		log.Printf("advisory stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendAdvisories(); err != nil {
				log.Printf("advisory stream poll err: %v", err)
			}
		}
	}
}
