package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/stepwise/pkg/model"
	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

const (
	maxTitleWidth = 24
	zonePrefix    = "step-"
)

// hostState receives the root's callbacks. It sits behind a pointer so the
// copies Bubble Tea makes of StepperModel all see the same queue.
type hostState struct {
	requests    []int
	changes     []int
	rendered    map[int]string // Markdown cache for mounted panels
	renderWidth int
	unsubscribe func()
}

// StepperModel hosts one stepper in the terminal: the nav of step controls,
// the content panel of the active step, and a footer.
type StepperModel struct {
	def      *model.Definition
	root     *stepper.Root
	steps    []*stepper.Step    // definition order
	triggers []*stepper.Trigger // parallel to steps
	host     *hostState

	theme   Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	md      *MarkdownRenderer
	zones   *zone.Manager
	copyFn  func(string) error

	width        int
	height       int
	scrollOffset int
	status       string
	statusIsErr  bool
	warning      string
}

// NewStepperModel builds the root, steps and controls for def and mounts
// the controls in definition order. The tab stop starts focused.
func NewStepperModel(def *model.Definition, theme Theme) StepperModel {
	host := &hostState{rendered: make(map[int]string)}

	opts := def.RootOptions()
	opts.Logger = log.Default()
	opts.OnActiveStepChange = func(step int) {
		host.requests = append(host.requests, step)
	}
	root := stepper.New(opts)
	host.unsubscribe = root.Subscribe(func(step int) {
		host.changes = append(host.changes, step)
	})

	h := help.New()
	h.Styles.ShortKey = theme.Renderer.NewStyle().Foreground(theme.Primary).Bold(true)
	h.Styles.ShortDesc = theme.Renderer.NewStyle().Foreground(theme.Subtext)
	h.Styles.ShortSeparator = theme.Renderer.NewStyle().Foreground(theme.Muted)
	h.ShortSeparator = " │ "

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Renderer.NewStyle().Foreground(theme.Loading)),
	)

	m := StepperModel{
		def:     def,
		root:    root,
		host:    host,
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: sp,
		md:      NewMarkdownRendererWithTheme(80, theme),
		copyFn:  clipboard.WriteAll,
	}

	for i := range def.Steps {
		step := stepper.NewStep(root, def.StepProps(i))
		trigger := stepper.NewTrigger(step)
		trigger.Mount()
		m.steps = append(m.steps, step)
		m.triggers = append(m.triggers, trigger)
	}

	if t := root.TabStop(); t != nil {
		t.Focus()
	}
	return m
}

// Init starts the loading spinner.
func (m StepperModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetZoneManager enables mouse activation of step controls.
func (m *StepperModel) SetZoneManager(z *zone.Manager) {
	m.zones = z
}

// SetClipboard replaces the function used by the copy binding.
func (m *StepperModel) SetClipboard(fn func(string) error) {
	m.copyFn = fn
}

// SetSize updates the model dimensions.
func (m *StepperModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	if contentWidth != m.host.renderWidth {
		m.host.renderWidth = contentWidth
		m.md.SetWidth(contentWidth)
		m.host.rendered = make(map[int]string)
	}
}

// Root exposes the underlying controller.
func (m StepperModel) Root() *stepper.Root { return m.root }

// Definition returns the definition currently mounted.
func (m StepperModel) Definition() *model.Definition { return m.def }

// Triggers returns the step controls in definition order.
func (m StepperModel) Triggers() []*stepper.Trigger { return m.triggers }

// Status returns the last status line message.
func (m StepperModel) Status() string { return m.status }

// Warning returns the current structural warning, if any.
func (m StepperModel) Warning() string { return m.warning }

// KeyMap returns the model's bindings.
func (m StepperModel) KeyMap() KeyMap { return m.keys }

// Close detaches the model from its root.
func (m StepperModel) Close() {
	if m.host.unsubscribe != nil {
		m.host.unsubscribe()
		m.host.unsubscribe = nil
	}
}

// Update handles keys, mouse clicks and spinner ticks.
func (m StepperModel) Update(msg tea.Msg) (StepperModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		m.statusIsErr = false
		m = m.handleKey(msg)
	case tea.MouseMsg:
		m = m.handleMouse(msg)
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	m.settle()
	return m, cmd
}

func (m StepperModel) handleKey(msg tea.KeyMsg) StepperModel {
	switch {
	case key.Matches(msg, m.keys.Tab):
		if t := m.root.TabStop(); t != nil {
			t.Focus()
		} else {
			m.root.Registry().FocusFirst()
		}
		return m
	case key.Matches(msg, m.keys.ShiftTab):
		if f := m.root.Focused(); f != nil {
			f.Blur()
		}
		return m
	case key.Matches(msg, m.keys.Next):
		m.advance(1)
		return m
	case key.Matches(msg, m.keys.Prev):
		m.advance(-1)
		return m
	case key.Matches(msg, m.keys.Copy):
		m.copyActiveTitle()
		return m
	}

	if f := m.root.Focused(); f != nil {
		if k, ok := m.keys.controlKey(msg); ok {
			f.HandleKey(k)
		}
		return m
	}

	// Focus is in the content panel
	switch msg.String() {
	case "j", "down":
		m.scrollOffset++
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case "ctrl+d", "pgdown":
		m.scrollOffset += m.contentHeight() / 2
	case "ctrl+u", "pgup":
		m.scrollOffset -= m.contentHeight() / 2
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}
	case "home", "g":
		m.scrollOffset = 0
	}
	return m
}

func (m StepperModel) handleMouse(msg tea.MouseMsg) StepperModel {
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m
	}
	for _, t := range m.triggers {
		if m.zones.Get(zoneID(t.Step().Ordinal())).InBounds(msg) {
			m.ActivateOrdinal(t.Step().Ordinal())
			break
		}
	}
	return m
}

// ActivateOrdinal focuses the control for ordinal and activates it, as a
// click would. It reports whether a transition was requested.
func (m *StepperModel) ActivateOrdinal(ordinal int) bool {
	for _, t := range m.triggers {
		if t.Step().Ordinal() != ordinal || !t.Mounted() {
			continue
		}
		t.Focus()
		if !t.Activate() {
			m.setStatus(fmt.Sprintf("Step %d is disabled", ordinal), true)
			return false
		}
		return true
	}
	return false
}

// RequestStep asks the root for ordinal directly, the way a control outside
// the nav would. The core does not check the target: a self-managed root
// moves there even if the step is disabled, while a controlled root only
// moves if this host accepts the request.
func (m *StepperModel) RequestStep(ordinal int) {
	m.root.SetActiveStep(ordinal)
	m.settle()
}

// advance requests the next (or previous) enabled step in definition order.
func (m *StepperModel) advance(delta int) {
	if len(m.steps) == 0 {
		return
	}
	idx := m.activeIndex()
	if idx < 0 {
		if delta > 0 {
			idx = -1
		} else {
			idx = len(m.steps)
		}
	}
	for i := idx + delta; i >= 0 && i < len(m.steps); i += delta {
		if m.steps[i].Disabled() {
			continue
		}
		m.root.SetActiveStep(m.steps[i].Ordinal())
		if m.root.Focused() != nil {
			m.triggers[i].Focus()
		}
		return
	}
}

func (m StepperModel) activeIndex() int {
	active := m.root.ActiveStep()
	for i, s := range m.steps {
		if s.Ordinal() == active {
			return i
		}
	}
	return -1
}

// settle acts on the requests and changes the root emitted while handling
// a message. With a controlled root the model plays the caller: it accepts
// requests for enabled steps and mirrors them back with Sync.
func (m *StepperModel) settle() {
	requests := m.host.requests
	m.host.requests = nil
	for _, req := range requests {
		if !m.root.Controlled() {
			continue
		}
		if s, ok := m.stepByOrdinal(req); ok && s.Disabled() {
			log.Printf("ui: rejected transition to disabled step %d", req)
			m.setStatus(fmt.Sprintf("Step %d is disabled", req), true)
			continue
		}
		if err := m.root.Sync(req); err != nil {
			log.Printf("ui: sync %d: %v", req, err)
		}
	}

	changes := m.host.changes
	m.host.changes = nil
	if len(changes) > 0 {
		m.scrollOffset = 0
		if step := changes[len(changes)-1]; !m.hasStep(step) {
			m.setStatus(fmt.Sprintf("No step with ordinal %d", step), true)
		}
	}
}

func (m StepperModel) hasStep(ordinal int) bool {
	_, ok := m.stepByOrdinal(ordinal)
	return ok
}

func (m StepperModel) stepByOrdinal(ordinal int) (*stepper.Step, bool) {
	for _, s := range m.steps {
		if s.Ordinal() == ordinal {
			return s, true
		}
	}
	return nil, false
}

func (m *StepperModel) copyActiveTitle() {
	s, ok := m.def.StepByOrdinal(m.root.ActiveStep())
	if !ok {
		m.setStatus("Nothing to copy", true)
		return
	}
	if err := m.copyFn(s.Title); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %q", s.Title), false)
}

func (m *StepperModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusIsErr = isErr
}

// Reload swaps in a new definition while keeping the root. Steps whose
// ordinal survives are updated in place; removed steps unmount their
// controls and new steps mount theirs at the end of the registry.
func (m *StepperModel) Reload(def *model.Definition) {
	old := make(map[int]int, len(m.steps))
	for i, s := range m.steps {
		old[s.Ordinal()] = i
	}
	kept := make(map[int]bool, len(m.steps))

	steps := make([]*stepper.Step, 0, len(def.Steps))
	triggers := make([]*stepper.Trigger, 0, len(def.Steps))
	for i := range def.Steps {
		props := def.StepProps(i)
		if j, ok := old[props.Ordinal]; ok && !kept[j] {
			kept[j] = true
			m.steps[j].Update(props)
			steps = append(steps, m.steps[j])
			triggers = append(triggers, m.triggers[j])
			continue
		}
		step := stepper.NewStep(m.root, props)
		trigger := stepper.NewTrigger(step)
		trigger.Mount()
		steps = append(steps, step)
		triggers = append(triggers, trigger)
	}
	for j, t := range m.triggers {
		if !kept[j] {
			t.Unmount()
		}
	}

	if def.Orientation != m.def.Orientation || def.Variant != m.def.Variant || def.Controlled() != m.def.Controlled() {
		log.Printf("ui: %s: orientation, variant and mode changes apply on restart", def.Path)
	}

	m.def = def
	m.steps = steps
	m.triggers = triggers
	m.host.rendered = make(map[int]string)

	m.warning = ""
	if m.root.OutOfOrder() {
		m.warning = "Steps mounted out of order: arrow keys follow mount order"
	}
	m.setStatus(fmt.Sprintf("Reloaded %d steps", len(steps)), false)
}

// View renders the header, nav, content panel and footer.
func (m StepperModel) View() string {
	if len(m.steps) == 0 {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render("No steps")
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	nav := m.renderNav()
	body := m.renderContent()
	if m.root.Orientation() == stepper.Vertical {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, nav, "  ", body))
	} else {
		sections = append(sections, nav, "", body)
	}

	if m.warning != "" {
		sections = append(sections, m.theme.Renderer.NewStyle().Foreground(m.theme.Loading).Render("⚠ "+m.warning))
	}
	if m.status != "" {
		color := m.theme.Secondary
		if m.statusIsErr {
			color = m.theme.Error
		}
		sections = append(sections, m.theme.Renderer.NewStyle().Foreground(color).Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n")
}

func (m StepperModel) renderHeader() string {
	r := m.theme.Renderer

	completed := 0
	for _, s := range m.steps {
		if s.State() == stepper.StateCompleted {
			completed++
		}
	}
	total := len(m.steps)

	barWidth := 10
	filled := 0
	if total > 0 {
		filled = completed * barWidth / total
	}
	bar := r.NewStyle().Foreground(m.theme.Completed).Render(strings.Repeat("█", filled)) +
		r.NewStyle().Foreground(m.theme.Muted).Render(strings.Repeat("░", barWidth-filled))

	title := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(m.def.Title)
	progress := r.NewStyle().Foreground(m.theme.Subtext).Render(fmt.Sprintf("[%d/%d]", completed, total))

	mode := ""
	if m.root.Controlled() {
		mode = " " + r.NewStyle().Foreground(m.theme.Muted).Italic(true).Render("(controlled)")
	}
	return title + "  " + progress + " " + bar + mode
}

func (m StepperModel) renderNav() string {
	vertical := m.root.Orientation() == stepper.Vertical

	var parts []string
	for i := range m.steps {
		parts = append(parts, m.renderControl(i))
		if sep := m.renderSeparator(i); sep != "" {
			parts = append(parts, sep)
		}
	}

	if vertical {
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m StepperModel) renderControl(i int) string {
	r := m.theme.Renderer
	step := m.steps[i]
	trigger := m.triggers[i]
	def := m.def.Steps[i]
	state := step.State()

	color := m.stateColor(state)
	if step.Disabled() {
		color = m.theme.Disabled
	}

	fallback := fmt.Sprintf("%d", step.Ordinal())
	switch state {
	case stepper.StateCompleted:
		fallback = "✓"
	case stepper.StateLoading:
		fallback = m.spinner.View()
	}
	indicator := r.NewStyle().Foreground(color).Bold(true).Render(stepper.Indicator(step, fallback))

	titleStyle := r.NewStyle()
	switch stepper.Title(step) {
	case stepper.EmphasisStrong:
		titleStyle = titleStyle.Bold(true).Foreground(color)
	case stepper.EmphasisNormal:
		titleStyle = titleStyle.Foreground(m.theme.Text)
	default:
		titleStyle = titleStyle.Foreground(m.theme.Muted)
	}
	if step.Disabled() {
		titleStyle = titleStyle.Foreground(m.theme.Disabled).Strikethrough(true)
	}
	if trigger.Focused() {
		titleStyle = titleStyle.Underline(true)
	}
	label := indicator + " " + titleStyle.Render(truncate(def.Title, maxTitleWidth))

	if m.root.Orientation() == stepper.Vertical && def.Description != "" {
		descStyle := r.NewStyle().Foreground(m.theme.Muted)
		if stepper.Description(step) == stepper.EmphasisNormal {
			descStyle = descStyle.Foreground(m.theme.Subtext)
		}
		label += "\n  " + descStyle.Render(truncate(def.Description, maxTitleWidth+4))
	}

	if m.root.Variant() == stepper.VariantCard {
		border := m.theme.Border
		if trigger.Selected() {
			border = color
		}
		if trigger.Focused() {
			border = m.theme.Primary
		}
		label = r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Render(label)
	} else {
		prefix := "  "
		if trigger.Focused() {
			prefix = r.NewStyle().Foreground(m.theme.Primary).Render("> ")
		}
		label = prefix + label
	}

	return m.mark(zoneID(step.Ordinal()), label)
}

func (m StepperModel) renderSeparator(i int) string {
	sep := stepper.Separator(m.steps[i], false)
	if !sep.Visible {
		return ""
	}
	color := m.theme.Muted
	if sep.Filled {
		color = m.theme.Completed
	}
	style := m.theme.Renderer.NewStyle().Foreground(color)

	if sep.Orientation == stepper.Vertical {
		indent := "  "
		if m.root.Variant() == stepper.VariantCard {
			indent = "   "
		}
		glyph := "│"
		if sep.Filled {
			glyph = "┃"
		}
		return indent + style.Render(glyph)
	}
	if sep.Filled {
		return style.Render(" ━━━ ")
	}
	return style.Render(" ─── ")
}

func (m StepperModel) renderContent() string {
	r := m.theme.Renderer

	var panel string
	for i, s := range m.steps {
		cp := stepper.Content(m.root, s.Ordinal(), m.def.Steps[i].ForceMount)
		if !cp.Mounted {
			continue
		}
		rendered := m.renderMarkdown(i)
		if cp.Visible() {
			panel = rendered
		}
	}

	if panel == "" {
		if !m.hasStep(m.root.ActiveStep()) {
			return r.NewStyle().Foreground(m.theme.Muted).Italic(true).
				Render(fmt.Sprintf("No step with ordinal %d", m.root.ActiveStep()))
		}
		return ""
	}

	lines := strings.Split(panel, "\n")
	visible := m.contentHeight()
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	offset := m.scrollOffset
	if offset > maxScroll {
		offset = maxScroll
	}
	end := offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	out := strings.Join(lines[offset:end], "\n")
	if offset > 0 || end < len(lines) {
		out += "\n" + r.NewStyle().Foreground(m.theme.Muted).
			Render(fmt.Sprintf("lines %d-%d of %d", offset+1, end, len(lines)))
	}
	return out
}

// renderMarkdown renders the description and content of the step at index
// i, caching by ordinal until the width or definition changes.
func (m StepperModel) renderMarkdown(i int) string {
	s := m.def.Steps[i]
	if cached, ok := m.host.rendered[s.Ordinal]; ok {
		return cached
	}

	var b strings.Builder
	if s.Description != "" {
		b.WriteString("*" + s.Description + "*\n\n")
	}
	b.WriteString(s.Content)

	out, err := m.md.Render(b.String())
	if err != nil {
		log.Printf("ui: rendering step %d: %v", s.Ordinal, err)
		out = b.String()
	}
	out = strings.TrimRight(out, "\n")
	m.host.rendered[s.Ordinal] = out
	return out
}

func (m StepperModel) contentHeight() int {
	h := m.height - 10
	if m.root.Orientation() == stepper.Horizontal && m.root.Variant() == stepper.VariantCard {
		h -= 2
	}
	if h < 5 {
		h = 5
	}
	return h
}

func (m StepperModel) stateColor(state stepper.StepState) lipgloss.AdaptiveColor {
	switch state {
	case stepper.StateCompleted:
		return m.theme.Completed
	case stepper.StateActive:
		return m.theme.Active
	case stepper.StateLoading:
		return m.theme.Loading
	default:
		return m.theme.Inactive
	}
}

func (m StepperModel) mark(id, v string) string {
	if m.zones == nil {
		return v
	}
	return m.zones.Mark(id, v)
}

func zoneID(ordinal int) string {
	return fmt.Sprintf("%s%d", zonePrefix, ordinal)
}

// truncate shortens s to width terminal cells.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
