// Package app runs one editor view in a terminal: it owns the tcell screen,
// feeds keys and mouse events to the editor, drives its timers and connects
// the language server and session store.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/editor"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/gitinfo"
	"github.com/kobzarvs/nedit/internal/logger"
	"github.com/kobzarvs/nedit/internal/lsp"
	"github.com/kobzarvs/nedit/internal/neditable"
	"github.com/kobzarvs/nedit/internal/session"
)

var log = logger.Named("app")

const definitionTimeout = 2 * time.Second

// Options come from the command line.
type Options struct {
	Path string
	// Line is one based; zero keeps the caret from the last session.
	Line     int
	Language string
}

type App struct {
	opts Options

	screen   tcell.Screen
	ed       *editor.Editor
	editable *neditable.Editable
	ls       *lsp.Manager
	store    *session.Store

	history     []event.BackNavigation
	navigating  bool
	status      string
	branch      string
	lastVersion uint64
	quit        bool
}

func New(opts Options) *App {
	return &App{opts: opts}
}

// Run blocks until the user quits. Errors from shutting the pieces down are
// combined with the error that ended the loop.
func (a *App) Run() (err error) {
	cfg, cerr := config.Load()
	if cerr != nil {
		log.Warn("config load failed, using defaults", "error", cerr)
	}
	langs, lerr := config.LoadLanguages()
	if lerr != nil {
		log.Warn("languages load failed, using defaults", "error", lerr)
	}

	if a.opts.Path != "" {
		a.editable, err = neditable.Open(a.opts.Path, langs)
		if err != nil {
			return err
		}
	} else {
		a.editable = neditable.New("", a.opts.Language, document.New(""))
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	a.screen = s
	defer s.Fini()

	wake := func() { _ = s.PostEvent(tcell.NewEventInterrupt(nil)) }
	a.ed = editor.New(a.editable, cfg,
		editor.WithLanguages(langs),
		editor.WithWaker(func(d time.Duration) { time.AfterFunc(d, wake) }),
	)
	if a.opts.Language != "" {
		a.ed.SetLanguage(a.opts.Language)
	}
	event.On(a.ed.Bus(), a.onBackNavigation)

	a.ls = lsp.NewManager(langs)
	a.ls.SetNotify(wake)
	a.ls.OpenFile(a.editable.FilePath(), a.ed.Text())
	a.lastVersion = a.ed.Document().Version()

	if path, perr := session.DefaultPath(); perr == nil {
		a.store, perr = session.Open(path)
		if perr != nil {
			log.Warn("session load failed", "error", perr)
		}
	}
	a.restore()
	a.branch = gitinfo.Branch(a.workdir())

	defer func() {
		err = multierr.Append(err, a.shutdown())
	}()
	return a.loop()
}

func (a *App) workdir() string {
	if p := a.editable.FilePath(); p != "" {
		return p
	}
	return "."
}

func (a *App) restore() {
	w, h := a.screen.Size()
	a.ed.Resize(0, 0, w, h-1)
	path := a.editable.FilePath()
	if a.store != nil && path != "" {
		if fs, ok := a.store.Lookup(path); ok {
			a.ed.SetCursorPosition(fs.Line, fs.Col)
			a.ed.RestoreState(fs.View)
		}
	}
	if a.opts.Line > 0 {
		a.navigating = true
		a.ed.GoToLine(a.opts.Line-1, 0, true)
		a.navigating = false
	}
}

func (a *App) shutdown() error {
	var err error
	if a.store != nil && a.editable.FilePath() != "" {
		line, col := a.ed.CursorPosition()
		a.store.Remember(a.editable.FilePath(), session.FileState{Line: line, Col: col, View: a.ed.SaveState()})
		err = multierr.Append(err, a.store.Save())
	}
	a.ls.CloseFile(a.editable.FilePath())
	err = multierr.Append(err, a.ls.Stop())
	a.ed.Close()
	return err
}

func (a *App) loop() error {
	a.render()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if !a.handleAppKey(ev) {
				a.status = ""
				a.ed.HandleKey(ev)
			}
		case *tcell.EventMouse:
			a.ed.HandleMouse(ev)
		case *tcell.EventResize:
			w, h := a.screen.Size()
			a.ed.Resize(0, 0, w, h-1)
			a.screen.Sync()
		case *tcell.EventInterrupt:
			a.ed.Tick(time.Now())
			a.drainLanguageServer()
		}
		a.syncLanguageServer()
		a.render()
	}
	return nil
}

// handleAppKey handles the keys that reach past the editor view.
func (a *App) handleAppKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlQ:
		if a.editable.Document().Modified() && a.status != msgConfirmQuit {
			a.status = msgConfirmQuit
			return true
		}
		a.quit = true
	case ev.Key() == tcell.KeyF12:
		a.gotoDefinition()
	case ev.Key() == tcell.KeyLeft && ev.Modifiers()&tcell.ModAlt != 0:
		a.navigateBack()
	default:
		return false
	}
	return true
}

const msgConfirmQuit = "unsaved changes, ctrl+q again to quit"

func (a *App) onBackNavigation(ev event.BackNavigation) {
	if a.navigating {
		return
	}
	a.history = append(a.history, ev)
}

func (a *App) navigateBack() {
	if len(a.history) == 0 {
		a.status = "no jump history"
		return
	}
	last := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	a.navigating = true
	a.ed.GoToLine(last.Line, last.Col, true)
	a.navigating = false
}

func (a *App) gotoDefinition() {
	path := a.editable.FilePath()
	line, col := a.ed.CursorPosition()
	pos := lsp.Position{Line: line, Character: lsp.UTF16Column(a.ed.LineText(line), col)}
	ctx, cancel := context.WithTimeout(context.Background(), definitionTimeout)
	defer cancel()
	locs, err := a.ls.Definition(ctx, path, pos)
	switch {
	case errors.Is(err, lsp.ErrNoServer):
		a.status = "no language server"
		return
	case err != nil:
		a.status = err.Error()
		log.Debug("definition failed", "error", err)
		return
	case len(locs) == 0:
		a.status = "no definition found"
		return
	}
	target := locs[0]
	if lsp.URIToPath(target.URI) != path {
		a.status = "definition in " + lsp.URIToPath(target.URI)
		return
	}
	tl := target.Range.Start.Line
	a.ed.GoToLine(tl, lsp.RuneColumn(a.ed.LineText(tl), target.Range.Start.Character), true)
}

func (a *App) drainLanguageServer() {
	for {
		select {
		case ev := <-a.ls.Events():
			switch ev.Kind {
			case lsp.EventDiagnostics:
				if ev.Path == a.editable.FilePath() {
					lsp.Apply(a.editable, ev.Diagnostics)
				}
			case lsp.EventError:
				a.status = ev.Server + ": " + ev.Message
				log.Warn("language server error", "server", ev.Server, "message", ev.Message)
			}
		default:
			return
		}
	}
}

// syncLanguageServer sends the full text once per document version.
func (a *App) syncLanguageServer() {
	doc := a.ed.Document()
	if v := doc.Version(); v != a.lastVersion {
		a.lastVersion = v
		a.ls.ChangeFile(a.editable.FilePath(), doc.Text())
	}
}

func (a *App) render() {
	a.ed.Render(a.screen)
	a.drawStatus()
	a.screen.Show()
}
