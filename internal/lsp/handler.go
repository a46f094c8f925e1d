// Package lsp is a thin, diagnostics-only Language Server Protocol
// front end for Ralph (spec.md's Non-goals exclude LSP/IDE integration
// as a product feature; this package only republishes internal/project's
// existing diagnostics over LSP, adapted from the reference tree's
// internal/lsp package down to that one capability).
package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/project"
)

// Handler implements the subset of glsp's Handler this server needs:
// document lifecycle notifications. DidOpen and DidChange are each
// followed by a diagnostics push; DidClose only drops the cached text.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.publish(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange re-reads the file from disk rather than trying
// to apply the reported change event: TextDocumentSyncKindFull means the
// editor already flushed the whole buffer there before notifying.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("invalid URI %s: %w", params.TextDocument.URI, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return h.publish(ctx, params.TextDocument.URI, string(content))
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("invalid URI %s: %w", uri, err)
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	u := project.Load(path, text)
	diagnostics := convertDiagnostics(u.Errors, u.Warnings)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func convertDiagnostics(errs []*errors.CompilerError, warns []errors.Warning) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs)+len(warns))
	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeFor(e.HasPos, e.Position.Line, e.Position.Column),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("ralphc"),
			Message:  fmt.Sprintf("[%s] %s", e.Slug(), e.Message),
		})
	}
	for _, w := range warns {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeFor(w.HasPos, w.Position.Line, w.Position.Column),
			Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
			Source:   ptrString("ralphc"),
			Message:  w.String(),
		})
	}
	return diagnostics
}

func rangeFor(hasPos bool, line, col int) protocol.Range {
	if !hasPos {
		return protocol.Range{}
	}
	start := protocol.Position{Line: uint32(line - 1), Character: uint32(col - 1)}
	end := protocol.Position{Line: uint32(line - 1), Character: uint32(col + 4)}
	return protocol.Range{Start: start, End: end}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool                                       { return &b }
func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity     { return &s }
func ptrString(s string) *string                                 { return &s }
