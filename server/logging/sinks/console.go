// Package sinks provides Sink implementations for the logging.Router: a
// human-readable console sink (the only one cmd/server wires at startup),
// a bounded in-memory ring buffer, and a batched JSON-lines file sink.
package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"skyfleet/server/logging"
)

// Console writes one line per event to the given writer.
type Console struct {
	logger  *log.Logger
	compact bool
}

// NewConsole constructs a console sink writing to w.
func NewConsole(w io.Writer, cfg logging.ConsoleConfig) *Console {
	return &Console{logger: log.New(w, "", log.LstdFlags), compact: cfg.Compact}
}

func (s *Console) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	if s.compact {
		s.logger.Printf("[%s] tick=%d map=%s actor=%s", event.Type, event.Tick, event.MapID, formatEntity(event.Actor))
		return nil
	}
	s.logger.Printf(
		"[%s] tick=%d map=%s actor=%s severity=%s%s%s",
		event.Type, event.Tick, event.MapID, formatEntity(event.Actor),
		formatSeverity(event.Severity), formatTargets(event.Targets), formatPayload(event.Payload),
	)
	return nil
}

func (s *Console) Close(context.Context) error { return nil }

func formatSeverity(sev logging.Severity) string {
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

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
