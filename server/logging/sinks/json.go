package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"skyfleet/server/logging"
)

// jsonRecord is the on-disk shape for a single logged event.
type jsonRecord struct {
	Type      logging.EventType `json:"type"`
	Tick      uint64            `json:"tick"`
	Time      time.Time         `json:"time"`
	MapID     string            `json:"mapId,omitempty"`
	CommandID string            `json:"commandId,omitempty"`
	Actor     logging.EntityRef `json:"actor"`
	Targets   []logging.EntityRef `json:"targets,omitempty"`
	Severity  string            `json:"severity"`
	Category  logging.Category  `json:"category"`
	Payload   any               `json:"payload,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty"`
}

// JSON batches events and flushes them as newline-delimited JSON, either
// once MaxBatch events have queued or every FlushInterval, whichever
// comes first. A kill-streak burst fills the batch; a quiet map flushes
// on the timer instead of holding events indefinitely.
type JSON struct {
	mu       sync.Mutex
	file     *os.File
	writer   *bufio.Writer
	batch    []jsonRecord
	maxBatch int

	flushInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

// NewJSON opens (or creates) the file at cfg.FilePath and starts the
// periodic flush loop.
func NewJSON(cfg logging.JSONConfig) (*JSON, error) {
	f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	maxBatch := cfg.MaxBatch
	if maxBatch <= 0 {
		maxBatch = 32
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &JSON{
		file:          f,
		writer:        bufio.NewWriter(f),
		maxBatch:      maxBatch,
		flushInterval: interval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go s.flushLoop()
	return s, nil
}

func (s *JSON) flushLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.flushLocked()
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = append(s.batch, toRecord(event))
	if len(s.batch) >= s.maxBatch {
		return s.flushLocked()
	}
	return nil
}

func (s *JSON) flushLocked() error {
	if len(s.batch) == 0 {
		return nil
	}
	enc := json.NewEncoder(s.writer)
	for _, rec := range s.batch {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	s.batch = s.batch[:0]
	return s.writer.Flush()
}

func (s *JSON) Close(context.Context) error {
	close(s.stop)
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flushLocked(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func toRecord(event logging.Event) jsonRecord {
	return jsonRecord{
		Type:      event.Type,
		Tick:      event.Tick,
		Time:      event.Time,
		MapID:     event.MapID,
		CommandID: event.CommandID,
		Actor:     event.Actor,
		Targets:   event.Targets,
		Severity:  severityName(event.Severity),
		Category:  event.Category,
		Payload:   event.Payload,
		Extra:     event.Extra,
	}
}

func severityName(sev logging.Severity) string {
	switch sev {
	case logging.SeverityDebug:
		return "debug"
	case logging.SeverityInfo:
		return "info"
	case logging.SeverityWarn:
		return "warn"
	case logging.SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
