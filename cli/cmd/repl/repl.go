package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ly/lang"
	"github.com/ardnew/ly/lang/eval"
	"github.com/ardnew/ly/log"
)

// Config configures a REPL.
type Config struct {
	// HistoryDir is the directory of the history file. Empty disables
	// persistent history.
	HistoryDir string
	// Logger receives trace events of the session.
	Logger log.Logger
	// Options configure the interpreter.
	Options []lang.Option
}

func (c Config) historyPath() string {
	if c.HistoryDir == "" {
		return ""
	}

	return filepath.Join(c.HistoryDir, historyFile)
}

// editDoneMsg is sent when an edit command finishes.
type editDoneMsg struct {
	cmd *editCommand
	err error
}

const (
	evalPrompt = "ly> "
	morePrompt = "... "
	ctrlPrompt = "  : "
)

func helpMessage() string {
	return `
Commands (press Esc to toggle command mode):

  help     Print this help
  list     List global names and their types
  edit     Edit the last chunk in $EDITOR and run it
  reset    Discard an unfinished block
  clear    Clear the screen
  quit     Exit

Statements run as soon as they are complete; a line that opens a block
(do ... end) or leaves a bracket open continues on the next line.

Tab / Shift-Tab cycle completions, Space or Enter accepts one.
Up / Down walk the history, Shift-Up / Shift-Down within the current mode.
Ctrl-C clears the line, or exits on an empty line. Ctrl-D exits.
`
}

// inputMode selects whether input is a program or a REPL command.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model of the REPL.
type model struct {
	ctx     context.Context
	session *Session
	logger  log.Logger
	history *History
	input   textinput.Model
	comp    completion

	histIdx   int
	selected  int    // selected match while tabbing
	tabbing   bool   // cycling through matches
	preTab    string // input before tabbing began
	preCursor int
	width     int
	mode      inputMode
	saved     [2]string // input of each mode while the other is shown
	quitting  bool
}

// Run starts the interactive REPL on the terminal.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(cfg.historyPath())
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "history not loaded", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.historyPath()),
		slog.Int("entries", history.Len()),
	)

	// The terminal belongs to the interface, so input reads nothing.
	opts := append(cfg.Options[:len(cfg.Options):len(cfg.Options)], lang.WithStdin(strings.NewReader("")))
	m := newModel(ctx, NewSession(cfg.Logger, opts...), history, cfg.Logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *Session, h *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:      ctx,
		session:  s,
		logger:   logger,
		history:  h,
		input:    ti,
		histIdx:  h.Len(),
		selected: -1,
		width:    defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 1

		return m, nil

	case editDoneMsg:
		return m.editDone(msg)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.hint())
	b.WriteByte('\n')

	return b.String()
}

// hint returns the line shown under the input: the history position, a
// usage hint, the signature of the enclosing call, or the completions.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.histIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))

	case strings.TrimSpace(input) == "" && m.mode == modeCtrl:
		return hintStyle.Render("help, list, edit, reset, clear, quit (Esc to return)")

	case strings.TrimSpace(input) == "" && m.session.Pending():
		return hintStyle.Render("continuing a block (reset to discard)")

	case strings.TrimSpace(input) == "":
		return hintStyle.Render("type a statement, or press Esc for commands")
	}

	if m.mode == modeEval && !m.tabbing {
		if c, ok := enclosingCall(input, m.input.Position()); ok {
			if p, ok := params(m.session.Interpreter(), c.name); ok {
				return renderSignature(c.name, p, c.arg)
			}
		}
	}

	return renderCandidateBar(m.comp, m.selected, m.tabbing, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && !m.session.Pending() {
			m.quitting = true

			return m, tea.Quit
		}

		m.session.Reset()
		m.setPrompt()
		m.input.SetValue("")
		m.tabbing = false
		m.histIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabbing && len(m.comp.matches) > 0 {
			m.tabbing = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabbing {
			m.tabbing = false
			m.input.SetValue(m.preTab)
			m.input.SetCursor(m.preCursor)
			m.refresh(false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil
	}

	typed := msg.Type == tea.KeyRunes
	if m.tabbing && (!typed || msg.String() == " ") {
		m.tabbing = false
	}

	var cmd tea.Cmd

	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typed)

	return m, cmd
}

// cycle moves the tab selection by step, starting a tab cycle if none is
// active. A single match is accepted outright.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.tabbing = false
		m.comp.matches = nil

		return m

	case !m.tabbing:
		m.tabbing = true
		m.preTab, m.preCursor = m.input.Value(), m.input.Position()

		m.selected = 0
		if step < 0 {
			m.selected = n - 1
		}

	default:
		m.selected = (m.selected + step + n) % n
	}

	m.replaceWord(m.comp.matches[m.selected].Str)

	return m
}

// replaceWord replaces the word being completed with text.
func (m *model) replaceWord(text string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.comp.start] + text + input[m.comp.end:])
	m.input.SetCursor(m.comp.start + len(text))
	m.comp.end = m.comp.start + len(text)
}

// refresh recomputes completions. With accept set, a word that already
// equals its only match is accepted so the bar disappears.
func (m *model) refresh(accept bool) {
	if m.tabbing {
		return
	}

	m.comp = complete(m.session.Interpreter(), m.mode, m.input.Value(), m.input.Position())
	m.selected = -1

	if accept && len(m.comp.matches) == 1 &&
		m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp.matches = nil
	}
}

// recall moves through history by step. With sameMode set, entries of the
// other mode are skipped; otherwise the mode follows the entry.
func (m model) recall(step int, sameMode bool) model {
	for i := m.histIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, _ := m.history.Entry(i)
		if sameMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.histIdx = i
		m.input.SetValue(e.Line)
		m.input.CursorEnd()
		m.refresh(false)

		return m
	}

	if step > 0 && m.histIdx < m.history.Len() {
		m.histIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// switchMode shows the input of mode, keeping the input of the other.
func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode] = m.input.Value()
	m.mode = mode
	m.setPrompt()
	m.input.SetValue(m.saved[mode])
	m.input.CursorEnd()
	m.refresh(false)

	return m
}

func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case m.session.Pending():
		m.input.Prompt = promptStyle.Render(morePrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) submit() (model, tea.Cmd) {
	line := m.input.Value()
	prompt := m.input.Prompt

	m.input.SetValue("")
	m.saved[m.mode] = ""
	m.comp = completion{}

	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		if strings.TrimSpace(line) == "" {
			return m, nil
		}

		return m.command(line)
	}

	echo := tea.Println(prompt + inputStyle.Render(line))

	res, err := m.session.Feed(m.ctx, line)
	m.setPrompt()

	return m, tea.Sequence(append([]tea.Cmd{echo}, report(res, err)...)...)
}

// report returns the commands printing the outcome of a chunk.
func report(res Result, err error) []tea.Cmd {
	var cmds []tea.Cmd

	if out := strings.TrimSuffix(res.Output, "\n"); out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	if err != nil {
		return append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if res.Value != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(res.Value)))
	}

	return cmds
}

func (m model) command(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))

	m.logger.TraceContext(m.ctx, "repl command", slog.String("command", fields[0]))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listGlobals(m.session.Interpreter())))

	case "r", "reset":
		m.session.Reset()
		m.setPrompt()

		return m, echo

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		cmd := &editCommand{ctx: m.ctx, session: m.session}

		return m, tea.Sequence(echo, tea.Exec(cmd, func(err error) tea.Msg {
			return editDoneMsg{cmd: cmd, err: err}
		}))

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try help)"))
	}
}

func (m model) editDone(msg editDoneMsg) (model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, ErrEditDeclined):
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case msg.err != nil:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))

	case msg.cmd.empty:
		return m, tea.Println(hintStyle.Render("edit cancelled"))
	}

	cmds := append(
		[]tea.Cmd{tea.Println(inputStyle.Render(m.session.Last()))},
		report(msg.cmd.result, msg.cmd.err)...,
	)

	return m, tea.Sequence(cmds...)
}

// listGlobals renders the global names of interp with their types,
// leaving out builtins.
func listGlobals(interp *lang.Interpreter) string {
	members, err := interp.Evaluator().Members("")
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	var b strings.Builder

	for _, mem := range members {
		kind := "module"

		if !mem.Module {
			v, err := interp.Lookup(mem.Name)
			if err != nil || (v.Kind == eval.KindFunc && v.Callable.Kind == eval.CallNative) {
				continue
			}

			kind = interp.Evaluator().TypeName(v)
		}

		fmt.Fprintf(&b, "  %s %s\n", mem.Name, hintStyle.Render(kind))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
