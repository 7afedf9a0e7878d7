// Package logger collects diagnostics produced while loading a module
// graph. It mirrors the shape of evanw/esbuild's internal/logger package:
// a Log accumulates Msg values instead of printing them directly, so the
// caller (a test, a CLI, an editor integration) decides how to render them.
//
// Unlike the teacher, this package has no terminal color/width rendering:
// the core has no CLI surface of its own (see SPEC_FULL.md).
package logger

import "fmt"

// MsgKind distinguishes fatal diagnostics from warnings and debug notes.
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Debug
)

func (k MsgKind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// MsgID is the set of stable diagnostic codes spec.md §6 requires.
type MsgID uint8

const (
	MsgIDNone MsgID = iota
	BadLoader
	CannotAssignModuleToChunk
	EntryCannotBeExternal
	ExternalSyntheticExports
	InternalIDCannotBeExternal
	InvalidOption
	NamespaceConflict
	UnresolvedEntry
	UnresolvedImport
	UnresolvedImportTreatedAsExternal
)

func (id MsgID) String() string {
	switch id {
	case BadLoader:
		return "BAD_LOADER"
	case CannotAssignModuleToChunk:
		return "CANNOT_ASSIGN_MODULE_TO_CHUNK"
	case EntryCannotBeExternal:
		return "ENTRY_CANNOT_BE_EXTERNAL"
	case ExternalSyntheticExports:
		return "EXTERNAL_SYNTHETIC_EXPORTS"
	case InternalIDCannotBeExternal:
		return "INTERNAL_ID_CANNOT_BE_EXTERNAL"
	case InvalidOption:
		return "INVALID_OPTION"
	case NamespaceConflict:
		return "NAMESPACE_CONFLICT"
	case UnresolvedEntry:
		return "UNRESOLVED_ENTRY"
	case UnresolvedImport:
		return "UNRESOLVED_IMPORT"
	case UnresolvedImportTreatedAsExternal:
		return "UNRESOLVED_IMPORT_TREATED_AS_EXTERNAL"
	default:
		return "NONE"
	}
}

// Msg is a single diagnostic. ModuleID is the id the message concerns,
// when there is an obvious one (empty otherwise).
type Msg struct {
	ID       MsgID
	Kind     MsgKind
	Text     string
	ModuleID string
}

func (m Msg) String() string {
	if m.ModuleID != "" {
		return fmt.Sprintf("%s [%s] (%s): %s", m.Kind, m.ID, m.ModuleID, m.Text)
	}
	return fmt.Sprintf("%s [%s]: %s", m.Kind, m.ID, m.Text)
}

// Log accumulates messages produced by a single load operation. The zero
// value is not ready for concurrent use; construct with NewLog.
type Log struct {
	msgs chan Msg
	done chan []Msg
}

// NewLog starts the background collector goroutine. Callers must call
// Done() exactly once to drain it and obtain the final message slice.
func NewLog() Log {
	log := Log{
		msgs: make(chan Msg),
		done: make(chan []Msg),
	}
	go func() {
		var all []Msg
		for msg := range log.msgs {
			all = append(all, msg)
		}
		log.done <- all
	}()
	return log
}

// Add records a diagnostic. Safe to call from any goroutine.
func (log Log) Add(id MsgID, kind MsgKind, moduleID string, text string) {
	log.msgs <- Msg{ID: id, Kind: kind, Text: text, ModuleID: moduleID}
}

func (log Log) AddError(moduleID string, text string) {
	log.Add(MsgIDNone, Error, moduleID, text)
}

func (log Log) AddErrorID(id MsgID, moduleID string, text string) {
	log.Add(id, Error, moduleID, text)
}

func (log Log) AddWarningID(id MsgID, moduleID string, text string) {
	log.Add(id, Warning, moduleID, text)
}

func (log Log) AddDebug(moduleID string, text string) {
	log.Add(MsgIDNone, Debug, moduleID, text)
}

// Done closes the log and returns every message recorded, in the order
// received. Must be called exactly once.
func (log Log) Done() []Msg {
	close(log.msgs)
	return <-log.done
}

// HasErrors reports whether msgs contains any Error-kind message.
func HasErrors(msgs []Msg) bool {
	for _, m := range msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}

// FirstError returns the first Error-kind message, or nil.
func FirstError(msgs []Msg) *Msg {
	for i := range msgs {
		if msgs[i].Kind == Error {
			return &msgs[i]
		}
	}
	return nil
}
