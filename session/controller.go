package session

import (
	"image/color"
	"strings"

	"github.com/pthm-cable/morph/field"
	"github.com/pthm-cable/morph/gesture"
	"github.com/pthm-cable/morph/shapes"
)

// Controller turns detector output and panel actions into field calls.
type Controller struct {
	field      *field.Field
	interp     *gesture.Interpreter
	thresholds gesture.Thresholds

	last     gesture.Signal
	status   string
	received bool
}

// NewController creates a controller driving f.
func NewController(f *field.Field, interp *gesture.Interpreter, th gesture.Thresholds) *Controller {
	return &Controller{
		field:      f,
		interp:     interp,
		thresholds: th,
		status:     gesture.StatusWaiting,
	}
}

// OnHands interprets one detected frame and applies it to the field. It
// reports whether the status label changed. An empty frame is applied as
// a neutral signal.
func (c *Controller) OnHands(hands []gesture.Hand) (gesture.Signal, bool) {
	sig := c.interp.Interpret(hands)
	c.field.ApplyGestureSignal(sig)

	c.last = sig
	c.received = true
	status := gesture.Status(sig, c.thresholds)
	changed := status != c.status
	c.status = status
	return sig, changed
}

// SelectShape retargets the field to a template shape.
func (c *Controller) SelectShape(kind shapes.Kind) shapes.Spec {
	spec := shapes.Spec{Kind: kind}
	c.field.SetShape(spec)
	return spec
}

// SubmitText retargets the field to rendered text.
func (c *Controller) SubmitText(text string) shapes.Spec {
	spec := shapes.Spec{Kind: shapes.Text, Text: strings.TrimSpace(text)}
	c.field.SetShape(spec)
	return spec
}

// SetColor changes the point color and reports whether it differed.
func (c *Controller) SetColor(col color.RGBA) bool {
	if col == c.field.Params().Color {
		return false
	}
	c.field.SetColor(col)
	return true
}

// Signal returns the last applied signal.
func (c *Controller) Signal() gesture.Signal { return c.last }

// Status returns the current status label, "Waiting..." before the first
// detected frame.
func (c *Controller) Status() string { return c.status }

// Received reports whether any frame has been applied yet.
func (c *Controller) Received() bool { return c.received }
