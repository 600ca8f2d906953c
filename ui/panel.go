package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/shapes"
)

// ActionKind identifies what the user did in the panel.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionShape
	ActionText
	ActionColor
)

// Action is one user request from the control panel.
type Action struct {
	Kind  ActionKind
	Shape shapes.Kind // ActionShape
	Text  string      // ActionText
	Color rl.Color    // ActionColor
}

const (
	maxTextLen   = 64
	pickerSize   = 120
	buttonGap    = 6
	goButtonWide = 40
)

// ControlPanel renders the shape buttons, text input, color picker and the
// gesture readout. It never touches the field directly; Draw returns the
// actions taken this frame.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool

	text    string
	editing bool
	picker  colorLatch

	actions []Action
}

// NewControlPanel creates a visible control panel.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		actions:  make([]Action, 0, 4),
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Editing reports whether the text box has keyboard focus.
func (c *ControlPanel) Editing() bool {
	return c.editing
}

// Draw renders the panel and returns the actions taken. The returned slice
// is reused on the next call.
func (c *ControlPanel) Draw(readout []string, current rl.Color) []Action {
	c.actions = c.actions[:0]
	if !c.visible {
		return c.actions
	}

	r := c.renderer
	th := r.Theme
	pad := th.Padding
	inner := float32(c.width - pad*2)
	kinds := shapes.Kinds()

	height := pad*2 + (th.LineHeight+2)*3 +
		int32(len(kinds))*(int32(th.ButtonHeight)+buttonGap) +
		int32(th.ButtonHeight) + buttonGap +
		pickerSize + buttonGap +
		int32(len(readout))*th.LineHeight
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + pad)
	y := r.DrawSectionHeader(c.x+pad, c.y+pad, "Shape")

	for _, k := range kinds {
		bounds := rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: th.ButtonHeight}
		if gui.Button(bounds, shapeLabel(k)) {
			c.actions = append(c.actions, Action{Kind: ActionShape, Shape: k})
		}
		y += int32(th.ButtonHeight) + buttonGap
	}

	// Text input: clicking toggles focus, Enter or Go submits
	boxBounds := rl.Rectangle{X: x, Y: float32(y), Width: inner - goButtonWide - buttonGap, Height: th.ButtonHeight}
	if gui.TextBox(boxBounds, &c.text, maxTextLen, c.editing) {
		if c.editing && rl.IsKeyPressed(rl.KeyEnter) {
			c.submit()
		}
		c.editing = !c.editing
	}
	goBounds := rl.Rectangle{X: x + inner - goButtonWide, Y: float32(y), Width: goButtonWide, Height: th.ButtonHeight}
	if gui.Button(goBounds, "Go") {
		c.submit()
		c.editing = false
	}
	y += int32(th.ButtonHeight) + buttonGap

	y = r.DrawSectionHeader(c.x+pad, y, "Color")
	shown := c.picker.show(current)
	picked := gui.ColorPicker(rl.Rectangle{X: x, Y: float32(y), Width: pickerSize, Height: pickerSize}, "", shown)
	if col, ok := c.picker.pick(picked); ok {
		c.actions = append(c.actions, Action{Kind: ActionColor, Color: col})
	}
	y += pickerSize + buttonGap

	y = r.DrawSectionHeader(c.x+pad, y, "Gesture")
	for _, line := range readout {
		col := th.ValueColor
		if strings.HasPrefix(line, "Tracker: failed") {
			col = th.WarnColor
		}
		y = r.DrawLine(c.x+pad, y, line, col)
	}
	return c.actions
}

func (c *ControlPanel) submit() {
	c.actions = append(c.actions, Action{Kind: ActionText, Text: c.text})
}

// shapeLabel capitalizes the shape name for its button.
func shapeLabel(k shapes.Kind) string {
	name := k.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// colorLatch holds the color the picker last returned. New picks are
// compared with it, not with the field color.
type colorLatch struct {
	last rl.Color
	set  bool
}

// show returns the color to feed the picker, seeding it with current once.
func (l *colorLatch) show(current rl.Color) rl.Color {
	if !l.set {
		l.last = current
		l.set = true
	}
	return l.last
}

// pick records the picker's output and reports whether the user changed it.
func (l *colorLatch) pick(c rl.Color) (rl.Color, bool) {
	c.A = 255
	if c == l.last {
		return c, false
	}
	l.last = c
	return c, true
}
