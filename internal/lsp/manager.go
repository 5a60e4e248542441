// Package lsp talks to language servers over stdio. The editor uses it as a
// checker source: published diagnostics become checker results on the
// matching editable.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/logger"
)

var log = logger.Named("lsp")

const (
	EventError       = "error"
	EventDiagnostics = "diagnostics"
)

const requestTimeout = 10 * time.Second

var (
	ErrNoServer       = errors.New("lsp: no language server for this file")
	ErrNotInitialized = errors.New("lsp: server not initialized")
)

// Event is something a server sent that the UI loop has to act on.
type Event struct {
	Kind        string
	Server      string
	Message     string
	Path        string
	Diagnostics []Diagnostic
}

type Manager struct {
	langs   config.Languages
	events  chan Event
	notify  func()
	mu      sync.Mutex
	servers map[string]*server
}

func NewManager(langs config.Languages) *Manager {
	return &Manager{
		langs:   langs,
		servers: make(map[string]*server),
		events:  make(chan Event, 64),
	}
}

// SetNotify registers fn to be called, from the reader goroutine, every
// time an event is queued. The UI uses it to wake its event loop.
func (m *Manager) SetNotify(fn func()) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

func (m *Manager) Events() <-chan Event {
	return m.events
}

// Stop kills every server and reports the failures together.
func (m *Manager) Stop() error {
	m.mu.Lock()
	servers := m.servers
	m.servers = make(map[string]*server)
	m.mu.Unlock()
	var err error
	for _, srv := range servers {
		err = multierr.Append(err, srv.stop())
	}
	return err
}

// OpenFile announces path to its language server, starting the server on
// first use. Files without a configured server are ignored.
func (m *Manager) OpenFile(path, text string) {
	srv, lang, err := m.serverFor(path)
	if err != nil {
		if !errors.Is(err, ErrNoServer) {
			m.emit(Event{Kind: EventError, Message: err.Error()})
		}
		return
	}
	srv.didOpen(fileURI(path), lang, text)
}

// ChangeFile sends the full new text of an open file.
func (m *Manager) ChangeFile(path, text string) {
	if srv := m.running(path); srv != nil {
		srv.didChange(fileURI(path), text)
	}
}

func (m *Manager) CloseFile(path string) {
	if srv := m.running(path); srv != nil {
		srv.didClose(fileURI(path))
	}
}

// Definition asks for the definition of the symbol at pos.
func (m *Manager) Definition(ctx context.Context, path string, pos Position) ([]Location, error) {
	srv := m.running(path)
	if srv == nil {
		return nil, ErrNoServer
	}
	raw, err := srv.request(ctx, "textDocument/definition", positionParams{
		TextDocument: textDocumentID{URI: fileURI(path)},
		Position:     pos,
	})
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	return decodeLocations(raw), nil
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		log.Warn("event dropped", "kind", ev.Kind, "server", ev.Server)
		return
	}
	m.mu.Lock()
	notify := m.notify
	m.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (m *Manager) running(path string) *server {
	lang := m.langs.Match(path)
	if lang == nil || len(lang.LanguageServers) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.servers[lang.LanguageServers[0]]
}

func (m *Manager) serverFor(path string) (*server, string, error) {
	if path == "" {
		return nil, "", ErrNoServer
	}
	lang := m.langs.Match(path)
	if lang == nil || len(lang.LanguageServers) == 0 {
		return nil, "", ErrNoServer
	}
	name := lang.LanguageServers[0]
	cfg, ok := m.langs.LanguageServers[name]
	if !ok || cfg.Command == "" {
		return nil, "", ErrNoServer
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if srv, ok := m.servers[name]; ok {
		return srv, lang.Name, nil
	}
	srv, err := startServer(name, cfg, findRoot(path, lang.Roots), m.emit)
	if err != nil {
		return nil, "", fmt.Errorf("start %s: %w", name, err)
	}
	m.servers[name] = srv
	log.Info("language server started", "server", name, "root", srv.rootURI)
	return srv, lang.Name, nil
}

type server struct {
	name    string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	reader  *bufio.Reader
	rootURI string
	emit    func(Event)

	writeMu sync.Mutex

	mu          sync.Mutex
	nextID      int
	initID      int
	initialized bool
	// queued holds notifications sent before the initialize reply arrived.
	queued   []message
	versions map[string]int
	handlers map[int]chan incoming
}

func startServer(name string, cfg config.LanguageServer, root string, emit func(Event)) (*server, error) {
	cmd := exec.Command(cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	srv := &server{
		name:     name,
		cmd:      cmd,
		stdin:    stdin,
		reader:   bufio.NewReader(stdout),
		rootURI:  fileURI(root),
		emit:     emit,
		initID:   -1,
		versions: make(map[string]int),
		handlers: make(map[int]chan incoming),
	}
	go srv.readLoop()
	if err := srv.initialize(); err != nil {
		_ = srv.stop()
		return nil, err
	}
	return srv, nil
}

func (s *server) initialize() error {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.initID = id
	s.mu.Unlock()
	return s.write(message{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  "initialize",
		Params: initializeParams{
			ProcessID:    os.Getpid(),
			RootURI:      s.rootURI,
			Capabilities: map[string]any{"textDocument": map[string]any{"publishDiagnostics": map[string]any{}}},
			ClientInfo:   map[string]string{"name": "nedit"},
		},
	})
}

func (s *server) write(msg message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return writeMessage(s.stdin, msg)
}

// notify sends a notification now, or queues it until the server answered
// initialize.
func (s *server) notify(method string, params any) {
	msg := message{JSONRPC: "2.0", Method: method, Params: params}
	s.mu.Lock()
	if !s.initialized {
		s.queued = append(s.queued, msg)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if err := s.write(msg); err != nil {
		log.Warn("notify failed", "server", s.name, "method", method, "error", err)
	}
}

func (s *server) didOpen(uri, languageID, text string) {
	s.mu.Lock()
	if _, open := s.versions[uri]; open {
		s.mu.Unlock()
		return
	}
	s.versions[uri] = 1
	s.mu.Unlock()
	s.notify("textDocument/didOpen", didOpenParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	})
}

func (s *server) didChange(uri, text string) {
	s.mu.Lock()
	version, open := s.versions[uri]
	if !open {
		s.mu.Unlock()
		return
	}
	version++
	s.versions[uri] = version
	s.mu.Unlock()
	s.notify("textDocument/didChange", didChangeParams{
		TextDocument:   versionedTextDocumentID{URI: uri, Version: version},
		ContentChanges: []contentChange{{Text: text}},
	})
}

func (s *server) didClose(uri string) {
	s.mu.Lock()
	_, open := s.versions[uri]
	delete(s.versions, uri)
	s.mu.Unlock()
	if open {
		s.notify("textDocument/didClose", didCloseParams{TextDocument: textDocumentID{URI: uri}})
	}
}

func (s *server) request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return nil, ErrNotInitialized
	}
	s.nextID++
	id := s.nextID
	ch := make(chan incoming, 1)
	s.handlers[id] = ch
	s.mu.Unlock()

	drop := func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
	if err := s.write(message{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		drop()
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		drop()
		return nil, ctx.Err()
	}
}

func (s *server) readLoop() {
	for {
		raw, err := readMessage(s.reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.emit(Event{Kind: EventError, Server: s.name, Message: err.Error()})
			}
			return
		}
		var msg incoming
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug("undecodable message", "server", s.name, "error", err)
			continue
		}
		switch {
		case msg.ID != nil && msg.Method == "":
			s.handleResponse(msg)
		case msg.ID != nil:
			// Server to client requests get an empty reply so the server
			// does not block on us.
			id := *msg.ID
			_ = s.write(message{JSONRPC: "2.0", ID: &id, Result: json.RawMessage("null")})
		default:
			s.handleNotification(msg)
		}
	}
}

func (s *server) handleResponse(msg incoming) {
	id := *msg.ID
	s.mu.Lock()
	if ch, ok := s.handlers[id]; ok {
		delete(s.handlers, id)
		s.mu.Unlock()
		ch <- msg
		return
	}
	if id != s.initID || s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()

	if msg.Error != nil {
		s.emit(Event{Kind: EventError, Server: s.name, Message: msg.Error.Error()})
	}
	if err := s.write(message{JSONRPC: "2.0", Method: "initialized", Params: map[string]any{}}); err != nil {
		log.Warn("initialized failed", "server", s.name, "error", err)
		return
	}
	for _, q := range queued {
		if err := s.write(q); err != nil {
			log.Warn("notify failed", "server", s.name, "method", q.Method, "error", err)
		}
	}
}

func (s *server) handleNotification(msg incoming) {
	switch msg.Method {
	case "textDocument/publishDiagnostics":
		var p publishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			log.Debug("bad diagnostics", "server", s.name, "error", err)
			return
		}
		s.emit(Event{Kind: EventDiagnostics, Server: s.name, Path: URIToPath(p.URI), Diagnostics: p.Diagnostics})
	case "window/showMessage", "window/logMessage":
		var p struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(msg.Params, &p)
		log.Debug("server message", "server", s.name, "message", p.Message)
	}
}

func (s *server) stop() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	err := s.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		err = nil
	}
	_, _ = s.cmd.Process.Wait()
	return err
}
