package landmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/morph/gesture"
)

// NoHand marks a row that records an empty frame.
const NoHand = -1

// defaultFrameGap is the loop gap used when a recording has a single frame.
const defaultFrameGap = 1.0 / 30

// Row is one CSV record of a landmark recording. A hand is 21 consecutive
// rows with Index 0..20. A row with Hand = NoHand records a frame without
// hands.
type Row struct {
	Time  float64 `csv:"time"`
	Hand  int     `csv:"hand"`
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
	Label string  `csv:"label"` // Optional expected status, used by cmd/tune
}

// Recorded is one frame of a recording.
type Recorded struct {
	Time  float64
	Hands []gesture.Hand
	Label string
}

// ReadRows decodes recording rows from CSV.
func ReadRows(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decoding landmark csv: %w", err)
	}
	return rows, nil
}

// WriteRows encodes frames as CSV rows.
func WriteRows(w io.Writer, frames []Recorded) error {
	var rows []Row
	for _, f := range frames {
		if len(f.Hands) == 0 {
			rows = append(rows, Row{Time: f.Time, Hand: NoHand, Label: f.Label})
			continue
		}
		for h, hand := range f.Hands {
			for i, l := range hand {
				rows = append(rows, Row{Time: f.Time, Hand: h, Index: i, X: l.X, Y: l.Y, Z: l.Z, Label: f.Label})
			}
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("encoding landmark csv: %w", err)
	}
	return nil
}

// Frames groups rows into frames. Rows must be ordered by time, and each
// hand's landmarks must appear in index order.
func Frames(rows []Row) ([]Recorded, error) {
	var frames []Recorded
	var cur *Recorded
	var pts []gesture.Landmark
	hand := NoHand

	flush := func() error {
		if hand == NoHand {
			return nil
		}
		h, err := gesture.HandFromSlice(pts)
		if err != nil {
			return fmt.Errorf("frame at %gs hand %d: %w", cur.Time, hand, err)
		}
		cur.Hands = append(cur.Hands, h)
		pts = pts[:0]
		hand = NoHand
		return nil
	}

	for i, r := range rows {
		if cur == nil || r.Time != cur.Time {
			if cur != nil && r.Time < cur.Time {
				return nil, fmt.Errorf("row %d: time %g before %g", i, r.Time, cur.Time)
			}
			if err := flush(); err != nil {
				return nil, err
			}
			frames = append(frames, Recorded{Time: r.Time, Label: r.Label})
			cur = &frames[len(frames)-1]
		}
		if r.Hand == NoHand {
			continue
		}
		if r.Hand != hand {
			if err := flush(); err != nil {
				return nil, err
			}
			hand = r.Hand
		}
		if r.Index != len(pts) {
			return nil, fmt.Errorf("row %d: landmark index %d, want %d", i, r.Index, len(pts))
		}
		pts = append(pts, gesture.Landmark{X: r.X, Y: r.Y, Z: r.Z})
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return frames, nil
}

// LoadFrames reads a recording file.
func LoadFrames(path string) ([]Recorded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, err
	}
	return Frames(rows)
}

// Replay plays a recording back on the wall clock.
type Replay struct {
	path string
	loop bool
	now  func() time.Time

	frames []Recorded
	period float64
	start  time.Time
}

// NewReplay creates a replay source for the recording at path.
func NewReplay(path string, loop bool) *Replay {
	return &Replay{path: path, loop: loop, now: time.Now}
}

// Start loads the recording and starts the playback clock.
func (r *Replay) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frames, err := LoadFrames(r.path)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.New("recording has no frames")
	}

	gap := defaultFrameGap
	if n := len(frames); n > 1 {
		gap = frames[n-1].Time - frames[n-2].Time
	}
	r.frames = frames
	r.period = frames[len(frames)-1].Time + gap
	r.start = r.now()
	return nil
}

// CurrentFrame returns the recorded frame at the current playback time.
// When looping, the returned Time keeps increasing across passes.
func (r *Replay) CurrentFrame() Frame {
	if len(r.frames) == 0 {
		return Frame{Index: -1}
	}
	elapsed := r.now().Sub(r.start).Seconds()

	var pass float64
	if r.loop && r.period > 0 {
		pass = math.Floor(elapsed / r.period)
		elapsed -= pass * r.period
	}

	i := sort.Search(len(r.frames), func(i int) bool {
		return r.frames[i].Time > elapsed
	}) - 1
	if i < 0 {
		return Frame{Time: pass * r.period, Index: -1}
	}
	return Frame{Time: pass*r.period + r.frames[i].Time, Index: i}
}

// Detect returns the hands recorded for frame.
func (r *Replay) Detect(frame Frame) ([]gesture.Hand, error) {
	if frame.Index < 0 {
		return nil, nil
	}
	if frame.Index >= len(r.frames) {
		return nil, fmt.Errorf("frame %d out of range", frame.Index)
	}
	return r.frames[frame.Index].Hands, nil
}

// Close implements Source.
func (r *Replay) Close() error {
	return nil
}
