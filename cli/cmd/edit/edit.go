package edit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// DefaultInterval is the default delay between recompiles of changed text.
const DefaultInterval = time.Second

const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeHeight is the number of terminal rows used by the status and
	// hint lines.
	chromeHeight = 2

	sourceFileMode fs.FileMode = 0o644

	keyHelp = "ctrl+s save · ctrl+e $EDITOR · tab complete · ctrl+q quit"
)

// Styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	okStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	suggestionMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("4")).
				Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	previewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("8")).
			PaddingLeft(1)
)

// Config configures an editing session.
type Config struct {
	Logger   log.Logger
	Path     string
	Options  []compiler.Option
	Interval time.Duration
}

// compiledMsg carries the outcome of a background compile.
type compiledMsg struct {
	err    error
	update compiler.Update
}

// tickMsg schedules a recompile check.
type tickMsg time.Time

// savedMsg is sent when the buffer has been written to disk.
type savedMsg struct {
	err    error
	source string
}

// editedMsg is sent when the external editor exits.
type editedMsg struct {
	err    error
	source string
}

// model is the Bubble Tea model for the editor.
type model struct {
	ctxFunc   func() context.Context
	session   *compiler.Session
	logger    log.Logger
	root      *lang.RootNode // last successful parse
	path      string
	saved     string // text last written to disk
	submitted string // text last submitted for compilation
	message   string // transient status message
	editor    textarea.Model
	preview   viewport.Model
	matches   fuzzy.Matches
	state     compiler.State
	interval  time.Duration
	wordStart int
	wordEnd   int
	suggIdx   int
	width     int
	height    int
	tabActive bool
	quitArmed bool
	quitting  bool
}

// Run opens the file at cfg.Path in the editor. A missing file starts an
// empty buffer that is created on save.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, err := load(cfg.Path)
	if err != nil {
		return err
	}

	cfg.Logger.TraceContext(ctx, "edit start",
		slog.String("path", cfg.Path),
		slog.Int("source_bytes", len(source)),
	)

	m := newModel(ctx, cfg, source)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// load returns the contents of the file at path, or an empty string if the
// file does not exist.
func load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", lang.ErrReadSource.Wrap(err).With(slog.String("file", path))
	}

	return string(data), nil
}

func newModel(ctx context.Context, cfg Config, source string) model {
	ta := textarea.New()
	ta.Placeholder = "sphere(d=2)"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(source)
	ta.Focus()

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	m := model{
		ctxFunc:   func() context.Context { return ctx },
		session:   compiler.NewSession(cfg.Options...),
		logger:    cfg.Logger,
		path:      cfg.Path,
		saved:     source,
		submitted: source,
		editor:    ta,
		preview:   viewport.New(0, 0),
		interval:  interval,
		suggIdx:   -1,
	}

	m.resize(defaultWidth, defaultHeight)

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.compile(m.editor.Value()), m.tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil

	case tickMsg:
		var cmd tea.Cmd

		if source := m.editor.Value(); source != m.submitted {
			cmd = m.compile(source)
			m.submitted = source
		}

		return m, tea.Batch(cmd, m.tick())

	case compiledMsg:
		m.applyUpdate(msg)

		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.message = errorStyle.Render("save failed: " + msg.err.Error())

			return m, nil
		}

		m.saved = msg.source
		m.message = okStyle.Render("saved " + m.path)

		return m, nil

	case editedMsg:
		if msg.err != nil {
			m.message = errorStyle.Render(msg.err.Error())

			return m, nil
		}

		m.editor.SetValue(msg.source)
		m.refreshMatches()

		return m, m.compile(msg.source)
	}

	var cmd tea.Cmd

	m.editor, cmd = m.editor.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.editor.View(),
		previewStyle.Render(m.preview.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.statusLine(),
		m.hintLine(),
	)
}

// resize lays out the editor and preview side by side.
func (m *model) resize(width, height int) {
	m.width, m.height = width, height

	bodyHeight := max(height-chromeHeight, 1)
	editorWidth := max(width/2, 1)

	// The preview border and padding take two columns.
	previewWidth := max(width-editorWidth-2, 1)

	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(bodyHeight)

	m.preview.Width = previewWidth
	m.preview.Height = bodyHeight
	m.setPreview()
}

// setPreview renders the last good code into the preview pane, one
// definition per line.
func (m *model) setPreview() {
	res := m.state.Result
	if res == nil {
		m.preview.SetContent(hintStyle.Render("no code compiled yet"))

		return
	}

	code := strings.ReplaceAll(res.Code, "}", "}\n")
	m.preview.SetContent(
		lipgloss.NewStyle().Width(m.preview.Width).Render(strings.TrimSpace(code)),
	)
}

// tick schedules the next recompile check.
func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// compile submits source to the session in the background.
func (m model) compile(source string) tea.Cmd {
	ctx, session := m.ctxFunc(), m.session

	return func() tea.Msg {
		u, err := session.Submit(ctx, source)

		return compiledMsg{update: u, err: err}
	}
}

// applyUpdate records the outcome of a compile.
func (m *model) applyUpdate(msg compiledMsg) {
	if msg.update.Stale {
		return
	}

	m.state = m.session.Snapshot()

	if msg.err == nil && msg.update.Result != nil {
		m.root = msg.update.Result.Root
	}

	if msg.update.Changed {
		m.setPreview()
	}

	m.logger.TraceContext(m.ctxFunc(), "edit compiled",
		slog.Uint64("seq", msg.update.Seq),
		slog.Bool("changed", msg.update.Changed),
		slog.Bool("ok", msg.err == nil),
	)
}

// cursor returns the byte offset of the cursor within the editor text.
func (m model) cursor() int {
	lines := strings.Split(m.editor.Value(), "\n")
	row := min(m.editor.Line(), len(lines)-1)

	offset := 0
	for _, line := range lines[:row] {
		offset += len(line) + 1
	}

	info := m.editor.LineInfo()
	col := info.StartColumn + info.ColumnOffset

	line := lines[row]
	for i := range line {
		if col == 0 {
			return offset + i
		}

		col--
	}

	return offset + len(line)
}

// position returns the 1-based line and column of the cursor.
func (m model) position() (line, col int) {
	info := m.editor.LineInfo()

	return m.editor.Line() + 1, info.StartColumn + info.ColumnOffset + 1
}

// statusLine reports the file, cursor, enclosing function, and compile
// state.
func (m model) statusLine() string {
	var b strings.Builder

	name := m.path
	if m.editor.Value() != m.saved {
		name += " [+]"
	}

	b.WriteString(titleStyle.Render(name))

	line, col := m.position()
	fmt.Fprintf(&b, "  %d:%d", line, col)

	cursor := m.cursor()
	if fn := lang.FunctionAt(m.root, cursor); fn != nil {
		b.WriteString("  " + breadcrumb(lang.Path(m.root, cursor), fn))
	}

	b.WriteString("  ")

	switch {
	case m.message != "":
		b.WriteString(m.message)

	case m.state.Err != nil:
		msg := m.state.Err.Error()
		if l, c, ok := m.state.ErrorPosition(); ok {
			msg = fmt.Sprintf("%d:%d: %s", l, c, msg)
		}

		b.WriteString(errorStyle.Render("✘ " + msg))

	case m.state.Result != nil:
		fmt.Fprintf(&b, "%s %d bytes",
			okStyle.Render("✔"), len(m.state.Result.Code))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

// breadcrumb renders the enclosing functions of fn followed by fn itself.
func breadcrumb(path []*lang.FunctionNode, fn *lang.FunctionNode) string {
	var b strings.Builder

	for _, parent := range path {
		if parent == fn {
			break
		}

		b.WriteString(hintStyle.Render(parent.Name + " › "))
	}

	b.WriteString(signatureNameStyle.Render(fn.Name))

	return b.String()
}

// hintLine shows the signature under the cursor, completion candidates, or
// key help.
func (m model) hintLine() string {
	if len(m.matches) > 0 {
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)
	}

	if c := detectCall(m.editor.Value(), m.cursor()); c.inCall {
		if schema, ok := schemaOf(c.name); ok {
			return lipgloss.NewStyle().MaxWidth(m.width).
				Render(renderSignatureHint(schema, c))
		}
	}

	return hintStyle.Render(keyHelp)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "edit keypress",
		slog.String("key", msg.String()),
	)

	m.message = ""

	if msg.Type != tea.KeyCtrlQ {
		m.quitArmed = false
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlQ:
		if m.editor.Value() != m.saved && !m.quitArmed {
			m.quitArmed = true
			m.message = errorStyle.Render("unsaved changes; press ctrl+q again to quit")

			return m, nil
		}

		m.quitting = true

		return m, tea.Quit

	case tea.KeyCtrlS:
		return m, m.save()

	case tea.KeyCtrlE:
		cmd, err := m.externalEditor()
		if err != nil {
			m.message = errorStyle.Render(err.Error())

			return m, nil
		}

		return m, cmd

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyEsc:
		m.tabActive = false
		m.matches = nil
		m.suggIdx = -1

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.editor, cmd = m.editor.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// save writes the buffer to disk in the background.
func (m model) save() tea.Cmd {
	path, source := m.path, m.editor.Value()

	return func() tea.Msg {
		return savedMsg{source: source, err: os.WriteFile(path, []byte(source), sourceFileMode)}
	}
}

// refreshMatches recomputes the completion candidates for the word at the
// cursor.
func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = computeMatches(m.editor.Value(), m.cursor())
	m.suggIdx = -1
}

// cycle selects the next (dir > 0) or previous candidate and writes it in
// place of the current word. A single candidate is accepted immediately.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.matches = nil
		m.tabActive = false
		m.suggIdx = -1

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.suggIdx = 0

		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the text between wordStart and wordEnd with s and
// leaves the cursor after it. The word never spans lines.
func (m *model) replaceWord(s string) {
	value := m.editor.Value()
	lineStart := strings.LastIndexByte(value[:m.wordStart], '\n') + 1

	startCol := utf8.RuneCountInString(value[lineStart:m.wordStart])
	endCol := utf8.RuneCountInString(value[lineStart:m.wordEnd])

	m.editor.SetCursor(endCol)

	for range endCol - startCol {
		m.editor, _ = m.editor.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}

	m.editor.InsertString(s)
	m.wordEnd = m.wordStart + len(s)
}
