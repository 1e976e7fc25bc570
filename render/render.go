package render

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"orchestrion/composition"
	"orchestrion/smf"
)

// DefaultPreRoll is how far ahead of its note a keyswitch fires, so
// the sample library has switched technique before the attack.
const DefaultPreRoll = 50 * time.Millisecond

// Options configure one render. The zero value gets sensible
// defaults, except Articulations, which must be provided when any
// note carries an articulation tag.
type Options struct {
	// TicksPerQuarter is the file's time resolution. Default 480.
	TicksPerQuarter uint16
	// PreRoll is the keyswitch lead time. Default 50ms.
	PreRoll time.Duration
	// Articulations maps instrument and articulation tag to scaling
	// and keyswitch data. Lookups that miss fail the render.
	Articulations *composition.ArticulationTable
	// SequentialTracks disables the per-track encoding fan-out.
	// Output bytes are identical either way.
	SequentialTracks bool
}

func (o Options) withDefaults() Options {
	if o.TicksPerQuarter == 0 {
		o.TicksPerQuarter = smf.DefaultTicksPerQuarter
	}
	if o.PreRoll == 0 {
		o.PreRoll = DefaultPreRoll
	}
	if o.Articulations == nil {
		o.Articulations = composition.NewArticulationTable(nil)
	}
	return o
}

// Render compiles the composition into a complete format-1 SMF byte
// buffer: one meta/tempo track plus one track per part, in part
// order. The composition is only read; concurrent renders of
// independent compositions need no synchronization. On error no
// bytes are returned.
func Render(c *composition.Composition, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := validate(c); err != nil {
		return nil, err
	}
	q, err := newQuantizer(c.Tempo, opts.TicksPerQuarter)
	if err != nil {
		return nil, err
	}

	tracks := make([][]byte, len(c.Parts)+1)
	tracks[0], err = buildMetaTrack(c, q)
	if err != nil {
		return nil, err
	}

	preRoll := opts.PreRoll.Seconds()
	chunks := tracks[1:]
	if opts.SequentialTracks || len(c.Parts) < 2 {
		for i, part := range c.Parts {
			chunks[i], err = encodePart(part, opts.Articulations, preRoll, q)
			if err != nil {
				return nil, err
			}
		}
	} else {
		// Part tracks are independent after timeline compilation, so
		// encode them concurrently and join in part order.
		errs := make([]error, len(c.Parts))
		var wg sync.WaitGroup
		for i, part := range c.Parts {
			wg.Add(1)
			go func(i int, part *composition.InstrumentPart) {
				defer wg.Done()
				chunks[i], errs[i] = encodePart(part, opts.Articulations, preRoll, q)
			}(i, part)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	return smf.EncodeFile(opts.TicksPerQuarter, tracks)
}

// encodePart runs one part through the resolver, timeline compiler,
// and quantizer, and serializes the result into an MTrk chunk.
func encodePart(part *composition.InstrumentPart, table *composition.ArticulationTable,
	preRoll float64, q *quantizer) ([]byte, error) {

	notes, switches, err := resolvePart(part, table, preRoll)
	if err != nil {
		return nil, err
	}
	events := compilePart(part, notes, switches)
	quantizeAndSort(events, q)

	tw := smf.NewTrackWriter()
	if part.Name != "" {
		tw.TrackName(0, part.Name)
	}
	prev := int64(0)
	for i, ev := range events {
		delta := ev.tick - prev
		if delta < 0 {
			return nil, &InvalidEventOrderingError{Part: part.Name, Index: i, Delta: delta}
		}
		d := uint64(delta)
		switch ev.kind {
		case kindProgram:
			tw.ProgramChange(d, part.Channel, ev.a)
		case kindControl:
			tw.ControlChange(d, part.Channel, ev.a, ev.b)
		case kindBend:
			tw.PitchBend(d, part.Channel, ev.bend)
		case kindNoteOn:
			tw.NoteOn(d, part.Channel, ev.a, ev.b)
		case kindNoteOff:
			tw.NoteOff(d, part.Channel, ev.a, 0)
		}
		prev = ev.tick
	}
	tw.End(0)
	chunk, err := tw.Chunk()
	if err != nil {
		return nil, fmt.Errorf("part %q: %w", part.Name, err)
	}
	return chunk, nil
}

// metaItem is one pending event for track 0.
type metaItem struct {
	tick int64
	emit func(tw *smf.TrackWriter, delta uint64)
}

// buildMetaTrack assembles track 0: title, time and key signatures
// and their changes, one set-tempo event per tempo breakpoint, and
// section markers, all delta-timed within the track.
func buildMetaTrack(c *composition.Composition, q *quantizer) ([]byte, error) {
	var items []metaItem

	if c.Title != "" {
		title := c.Title
		items = append(items, metaItem{0, func(tw *smf.TrackWriter, d uint64) { tw.TrackName(d, title) }})
	}

	ts := c.Time
	if ts.Numerator == 0 {
		ts = composition.TimeSignature{Numerator: 4, Denominator: 4}
	}
	if err := appendTimeSignature(&items, 0, ts); err != nil {
		return nil, err
	}
	for _, tc := range c.TimeChanges {
		if err := appendTimeSignature(&items, q.ticksAt(tc.Time), tc.Signature); err != nil {
			return nil, err
		}
	}

	if c.Key.Name != "" {
		appendKeySignature(&items, 0, c.Key)
	}
	for _, kc := range c.KeyChanges {
		appendKeySignature(&items, q.ticksAt(kc.Time), kc.Key)
	}

	for _, p := range c.Tempo {
		micros := uint32(math.Round(60e6 / p.BPM))
		items = append(items, metaItem{q.ticksAt(p.Time), func(tw *smf.TrackWriter, d uint64) { tw.Tempo(d, micros) }})
	}

	for _, m := range c.Markers {
		label := m.Label
		items = append(items, metaItem{q.ticksAt(m.Time), func(tw *smf.TrackWriter, d uint64) { tw.Marker(d, label) }})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].tick < items[j].tick })

	tw := smf.NewTrackWriter()
	prev := int64(0)
	for i, item := range items {
		delta := item.tick - prev
		if delta < 0 {
			return nil, &InvalidEventOrderingError{Part: "meta", Index: i, Delta: delta}
		}
		item.emit(tw, uint64(delta))
		prev = item.tick
	}
	tw.End(0)
	return tw.Chunk()
}

func appendTimeSignature(items *[]metaItem, tick int64, ts composition.TimeSignature) error {
	pow, ok := ts.DenominatorPow()
	if !ok {
		return fmt.Errorf("time signature %d/%d: denominator is not a power of two",
			ts.Numerator, ts.Denominator)
	}
	num := uint8(ts.Numerator)
	*items = append(*items, metaItem{tick, func(tw *smf.TrackWriter, d uint64) { tw.TimeSignature(d, num, pow) }})
	return nil
}

func appendKeySignature(items *[]metaItem, tick int64, ks composition.KeySignature) {
	*items = append(*items, metaItem{tick, func(tw *smf.TrackWriter, d uint64) { tw.KeySignature(d, ks.Sharps, ks.Minor) }})
}
