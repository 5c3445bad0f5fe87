// Package form implements the interactive generation form: a full-screen
// terminal UI with text entry, emotion and model selectors, a child-voice
// toggle, and sliders for the DSP controls. Generation runs as a background
// command so the form stays responsive, with the trigger disabled while a
// generation is in flight.
package form

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emovox/emovox/internal/emotion"
	"github.com/emovox/emovox/internal/synth"
	"github.com/emovox/emovox/pkg/provider/tts"
)

// Backend is the synthesis surface the form drives. *synth.Synthesizer
// satisfies it.
type Backend interface {
	Generate(ctx context.Context, req synth.Request) (synth.Result, error)
	ListVoices(ctx context.Context, model string) ([]tts.Voice, error)
	Models() []string
}

// focusArea enumerates the form fields in tab order.
type focusArea int

const (
	focusText focusArea = iota
	focusSpeaker
	focusEmotion
	focusModel
	focusChild
	focusSpeed
	focusPitch
	focusEnergy
	focusTremolo
	focusTremRate
	focusReverb
	focusBrightness
	focusOutput
	focusCount
)

// slider is one adjustable DSP control.
type slider struct {
	label string
	val   float64
	min   float64
	max   float64
	step  float64
}

func (s *slider) adjust(dir float64) {
	s.val += dir * s.step
	if s.val < s.min {
		s.val = s.min
	}
	if s.val > s.max {
		s.val = s.max
	}
	// Snap away from float drift so 0.1+0.2 style artefacts don't show.
	s.val = float64(int(s.val*1000+0.5*sign(s.val))) / 1000
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Model is the bubbletea model for the generation form.
type Model struct {
	backend Backend

	width  int
	height int

	focus      focusArea
	generating bool
	status     string
	err        error

	textarea textarea.Model
	speaker  textinput.Model
	output   textinput.Model
	spinner  spinner.Model

	emotions     []string
	emotionIndex int
	models       []string
	modelIndex   int
	childVoice   bool

	speed      slider
	pitch      slider
	energy     slider
	tremolo    slider
	tremRate   slider
	reverb     slider
	brightness slider

	voices []tts.Voice

	// autoSpeaker remembers the value the voice probe filled in, so a fresh
	// probe may replace it without clobbering a hand-typed speaker.
	autoSpeaker string
}

// New creates the form model bound to a backend.
func New(backend Backend) Model {
	ta := textarea.New()
	ta.Placeholder = "Text to speak..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := textinput.New()
	sp.Placeholder = "model default"
	sp.CharLimit = 32

	out := textinput.New()
	out.Placeholder = "auto (timestamped)"
	out.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	labels := emotion.Labels()
	neutralIndex := 0
	for i, l := range labels {
		if l == emotion.Neutral.Label {
			neutralIndex = i
		}
	}

	return Model{
		backend:      backend,
		textarea:     ta,
		speaker:      sp,
		output:       out,
		spinner:      spin,
		emotions:     labels,
		emotionIndex: neutralIndex,
		models:       backend.Models(),
		speed:        slider{label: "Speed", val: 1, min: 0.5, max: 2, step: 0.05},
		pitch:        slider{label: "Pitch", val: 0, min: -7, max: 7, step: 1},
		energy:       slider{label: "Energy", val: 1, min: 0.2, max: 2, step: 0.1},
		tremolo:      slider{label: "Tremolo", val: 0, min: 0, max: 1, step: 0.05},
		tremRate:     slider{label: "Trem rate", val: 5, min: 0.5, max: 20, step: 0.5},
		reverb:       slider{label: "Reverb", val: 0, min: 0, max: 1, step: 0.05},
		brightness:   slider{label: "Brightness", val: 0, min: -1, max: 1, step: 0.1},
	}
}

// Init implements tea.Model. The initial voice probe fills the speaker
// field before the user touches anything.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.voiceProbeCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(min(msg.Width-8, 72))

	case spinner.TickMsg:
		if m.generating {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case generationDoneMsg:
		m.generating = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
		} else {
			m.err = nil
			m.status = fmt.Sprintf("Saved %s (%s, model %s)",
				msg.res.Path, msg.res.Duration.Round(10*time.Millisecond), msg.res.Model)
			if msg.res.FellBack {
				m.status += " — via fallback"
			}
		}

	case voicesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.voices = msg.voices
			m.status = voicesStatus(msg.voices)
			// Select the first voice unless the user typed their own.
			cur := strings.TrimSpace(m.speaker.Value())
			if len(msg.voices) > 0 && (cur == "" || cur == m.autoSpeaker) {
				m.speaker.SetValue(msg.voices[0].ID)
				m.autoSpeaker = msg.voices[0].ID
			}
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.speaker, cmd = m.speaker.Update(msg)
	cmds = append(cmds, cmd)
	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab:
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case tea.KeyShiftTab:
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case tea.KeyCtrlG:
		return m.triggerGenerate()

	case tea.KeyCtrlL:
		return m.triggerVoiceProbe()

	case tea.KeyLeft, tea.KeyRight:
		dir := 1.0
		if msg.Type == tea.KeyLeft {
			dir = -1
		}
		if m.adjustFocused(dir) {
			// Changing model re-probes its voices.
			if m.focus == focusModel {
				return m, m.voiceProbeCmd()
			}
			return m, nil
		}
	}

	// Space toggles the child voice when the toggle has focus.
	if m.focus == focusChild && msg.String() == " " {
		m.childVoice = !m.childVoice
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	case focusSpeaker:
		m.speaker, cmd = m.speaker.Update(msg)
		cmds = append(cmds, cmd)
	case focusOutput:
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// setFocus moves keyboard focus, blurring and focusing the text components.
func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.textarea.Blur()
	m.speaker.Blur()
	m.output.Blur()
	switch f {
	case focusText:
		m.textarea.Focus()
	case focusSpeaker:
		m.speaker.Focus()
	case focusOutput:
		m.output.Focus()
	}
}

// adjustFocused applies a left/right adjustment to the focused control.
// Returns false when the focused field is a text field, so arrow keys keep
// moving the cursor there.
func (m *Model) adjustFocused(dir float64) bool {
	switch m.focus {
	case focusEmotion:
		m.emotionIndex = cycle(m.emotionIndex, len(m.emotions), dir)
	case focusModel:
		if len(m.models) > 0 {
			m.modelIndex = cycle(m.modelIndex, len(m.models), dir)
		}
	case focusChild:
		m.childVoice = !m.childVoice
	case focusSpeed:
		m.speed.adjust(dir)
	case focusPitch:
		m.pitch.adjust(dir)
	case focusEnergy:
		m.energy.adjust(dir)
	case focusTremolo:
		m.tremolo.adjust(dir)
	case focusTremRate:
		m.tremRate.adjust(dir)
	case focusReverb:
		m.reverb.adjust(dir)
	case focusBrightness:
		m.brightness.adjust(dir)
	default:
		return false
	}
	return true
}

func cycle(i, n int, dir float64) int {
	if dir < 0 {
		return (i + n - 1) % n
	}
	return (i + 1) % n
}

// triggerGenerate starts a background generation unless one is already
// running or the text is empty.
func (m Model) triggerGenerate() (tea.Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		m.err = synth.ErrEmptyText
		return m, nil
	}

	req := m.request(text)
	m.generating = true
	m.err = nil
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := m.backend.Generate(context.Background(), req)
		return generationDoneMsg{res: res, err: err}
	})
}

// triggerVoiceProbe queries the selected model's voices in the background.
func (m Model) triggerVoiceProbe() (tea.Model, tea.Cmd) {
	return m, m.voiceProbeCmd()
}

func (m Model) voiceProbeCmd() tea.Cmd {
	model := m.selectedModel()
	return func() tea.Msg {
		voices, err := m.backend.ListVoices(context.Background(), model)
		return voicesLoadedMsg{voices: voices, err: err}
	}
}

// request assembles the synthesis request from the current form state.
func (m Model) request(text string) synth.Request {
	var tremoloRate float64
	if m.tremolo.val > 0 {
		tremoloRate = m.tremRate.val
	}
	return synth.Request{
		Text:       text,
		Emotion:    m.emotions[m.emotionIndex],
		Speaker:    strings.TrimSpace(m.speaker.Value()),
		Model:      m.selectedModel(),
		OutputPath: strings.TrimSpace(m.output.Value()),
		Controls: emotion.Controls{
			GlobalSpeed:  m.speed.val,
			PitchOffset:  m.pitch.val,
			Energy:       m.energy.val,
			TremoloRate:  tremoloRate,
			TremoloDepth: m.tremolo.val,
			ReverbAmount: m.reverb.val,
			Brightness:   m.brightness.val,
			ChildVoice:   m.childVoice,
		},
	}
}

func (m Model) selectedModel() string {
	if len(m.models) == 0 {
		return ""
	}
	return m.models[m.modelIndex]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("emovox — emotional speech generator"))
	b.WriteString("\n")

	b.WriteString(m.row(focusText, "Text", m.textarea.View()))
	b.WriteString(m.row(focusSpeaker, "Speaker", m.speaker.View()))
	b.WriteString(m.row(focusEmotion, "Emotion", selectorView(m.emotions, m.emotionIndex)))
	b.WriteString(m.row(focusModel, "Model", selectorView(m.models, m.modelIndex)))
	b.WriteString(m.row(focusChild, "Child", checkboxView(m.childVoice)))
	b.WriteString(m.row(focusSpeed, m.speed.label, sliderView(m.speed)))
	b.WriteString(m.row(focusPitch, m.pitch.label, sliderView(m.pitch)))
	b.WriteString(m.row(focusEnergy, m.energy.label, sliderView(m.energy)))
	b.WriteString(m.row(focusTremolo, m.tremolo.label, sliderView(m.tremolo)))
	b.WriteString(m.row(focusTremRate, m.tremRate.label, sliderView(m.tremRate)))
	b.WriteString(m.row(focusReverb, m.reverb.label, sliderView(m.reverb)))
	b.WriteString(m.row(focusBrightness, m.brightness.label, sliderView(m.brightness)))
	b.WriteString(m.row(focusOutput, "Output", m.output.View()))

	b.WriteString("\n")
	switch {
	case m.generating:
		b.WriteString(m.spinner.View() + " generating...")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}

	b.WriteString(helpStyle.Render(
		"\ntab: next field • ←/→: adjust • ctrl+g: generate • ctrl+l: voices • esc: quit"))

	return boxStyle.Render(b.String())
}

// row renders one labelled form line, highlighting the focused label.
func (m Model) row(f focusArea, label, value string) string {
	ls := labelStyle
	if m.focus == f {
		ls = focusedLabelStyle
	}
	return ls.Render(label) + " " + valueStyle.Render(value) + "\n"
}

// voicesStatus summarises a probe result for the status line, previewing the
// first few voice IDs.
func voicesStatus(voices []tts.Voice) string {
	s := fmt.Sprintf("%d voices available", len(voices))
	n := min(len(voices), 6)
	if n == 0 {
		return s
	}
	ids := make([]string, n)
	for i, v := range voices[:n] {
		ids[i] = v.ID
	}
	s += ": " + strings.Join(ids, ", ")
	if len(voices) > n {
		s += ", …"
	}
	return s
}

func selectorView(options []string, index int) string {
	if len(options) == 0 {
		return "(none)"
	}
	return fmt.Sprintf("◀ %s ▶ (%d/%d)", options[index], index+1, len(options))
}

func checkboxView(on bool) string {
	if on {
		return "[x] child voice"
	}
	return "[ ] child voice"
}

func sliderView(s slider) string {
	const width = 20
	frac := (s.val - s.min) / (s.max - s.min)
	filled := int(frac*width + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %+.2f", bar, s.val)
}
