// Package midifile exports a parsed score as a Standard MIDI File.
package midifile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/epotocko/vexmusicxml/config"
	"github.com/epotocko/vexmusicxml/keyspec"
	"github.com/epotocko/vexmusicxml/musicxml"
)

// TicksPerQuarter is the resolution of exported files.
const TicksPerQuarter = 960

const (
	defaultTempo    = 120.0
	defaultVelocity = 80
	drumChannel     = 9
)

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

type exporter struct {
	tables   *config.Tables
	tempo    float64
	velocity uint8
}

// Option configures an export.
type Option func(*exporter)

// WithTables replaces the note-type table used to derive durations.
func WithTables(t *config.Tables) Option {
	return func(e *exporter) {
		if t != nil {
			e.tables = t
		}
	}
}

// WithTempo sets the tempo in quarter notes per minute.
func WithTempo(bpm float64) Option {
	return func(e *exporter) {
		if bpm > 0 {
			e.tempo = bpm
		}
	}
}

// WithVelocity sets the note-on velocity.
func WithVelocity(v uint8) Option {
	return func(e *exporter) {
		if v > 0 && v < 128 {
			e.velocity = v
		}
	}
}

type event struct {
	tick uint32
	on   bool
	key  uint8
}

// Export builds a format 1 file: a conductor track followed by one track per
// part. Voices restart at each measure start and the measure advances by its
// longest voice, or by the time signature when it holds no notes.
func Export(score *musicxml.Score, opts ...Option) (*smf.SMF, error) {
	if score == nil {
		return nil, fmt.Errorf("midifile: score is nil")
	}
	e := &exporter{tables: config.Default(), tempo: defaultTempo, velocity: defaultVelocity}
	for _, opt := range opts {
		opt(e)
	}

	starts, err := e.measureStarts(score)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(e.tempo))
	if num, denom, ok := firstMeter(score); ok {
		conductor.Add(0, smf.MetaMeter(num, denom))
	}
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("midifile: %w", err)
	}

	pitchedChannel := uint8(0)
	for _, part := range score.Parts {
		events, drums, err := e.partEvents(score, part.ID, starts)
		if err != nil {
			return nil, err
		}
		channel := drumChannel
		if !drums {
			channel = int(pitchedChannel)
			pitchedChannel++
			if pitchedChannel == drumChannel {
				pitchedChannel++
			}
			pitchedChannel %= 16
		}
		if err := s.Add(e.track(part, uint8(channel), events)); err != nil {
			return nil, fmt.Errorf("midifile: part %s: %w", part.ID, err)
		}
	}
	return s, nil
}

// Write exports the score and writes it to w.
func Write(w io.Writer, score *musicxml.Score, opts ...Option) error {
	s, err := Export(score, opts...)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("midifile: write: %w", err)
	}
	return nil
}

func (e *exporter) track(part *musicxml.Part, channel uint8, events []event) smf.Track {
	var tr smf.Track
	name := part.Name
	if name == "" {
		name = part.ID
	}
	tr.Add(0, smf.MetaTrackSequenceName(name))
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// 同一时刻先结束旧音再开始新音
		return !events[i].on && events[j].on
	})
	var last uint32
	for _, ev := range events {
		delta := ev.tick - last
		last = ev.tick
		if ev.on {
			tr.Add(delta, midi.NoteOn(channel, ev.key, e.velocity))
		} else {
			tr.Add(delta, midi.NoteOff(channel, ev.key))
		}
	}
	tr.Close(0)
	return tr
}

// measureStarts returns the start tick of every measure plus the end tick.
func (e *exporter) measureStarts(score *musicxml.Score) ([]uint32, error) {
	starts := make([]uint32, 0, len(score.Measures)+1)
	var at uint32
	for _, m := range score.Measures {
		starts = append(starts, at)
		length := uint32(0)
		for _, pm := range m.Parts {
			for _, v := range pm.Voices {
				var pos uint32
				for _, tick := range v.Ticks {
					d, err := e.tickLength(tick, pm)
					if err != nil {
						return nil, fmt.Errorf("midifile: measure %s part %s: %w", m.Number, pm.PartID, err)
					}
					pos += d
				}
				length = max(length, pos)
			}
		}
		if length == 0 && len(m.Parts) > 0 {
			length = meterTicks(m.Parts[0])
		}
		at += length
	}
	return append(starts, at), nil
}

func (e *exporter) partEvents(score *musicxml.Score, partID string, starts []uint32) ([]event, bool, error) {
	var events []event
	drums := false
	for i, m := range score.Measures {
		for _, pm := range m.Parts {
			if pm.PartID != partID {
				continue
			}
			for _, v := range pm.Voices {
				pos := starts[i]
				for _, tick := range v.Ticks {
					d, err := e.tickLength(tick, pm)
					if err != nil {
						return nil, false, err
					}
					for _, n := range tick.Notes {
						if n.Unpitched {
							drums = true
						}
						key, ok := midiKey(n)
						if !ok {
							continue
						}
						length, err := e.noteLength(n, pm)
						if err != nil {
							return nil, false, err
						}
						events = append(events,
							event{tick: pos, on: true, key: key},
							event{tick: pos + length, key: key})
					}
					pos += d
				}
			}
		}
	}
	return events, drums, nil
}

// tickLength is the longest note of a tick.
func (e *exporter) tickLength(t musicxml.Tick, pm *musicxml.PartMeasure) (uint32, error) {
	var out uint32
	for _, n := range t.Notes {
		d, err := e.noteLength(n, pm)
		if err != nil {
			return 0, err
		}
		out = max(out, d)
	}
	return out, nil
}

// noteLength derives ticks from the note type and dots. Whole-measure rests
// and notes without a type take the length of the measure.
func (e *exporter) noteLength(n *musicxml.Note, pm *musicxml.PartMeasure) (uint32, error) {
	if n.WholeMeasure || n.Type == "" {
		return meterTicks(pm), nil
	}
	code, ok := e.tables.Durations[n.Type]
	if !ok {
		return 0, fmt.Errorf("unsupported note type %q", n.Type)
	}
	d, err := keyspec.ParseDuration(code + strings.Repeat("d", n.Dots))
	if err != nil {
		return 0, err
	}
	return uint32(d.Beats() * TicksPerQuarter), nil
}

func midiKey(n *musicxml.Note) (uint8, bool) {
	if n.Rest || n.Pitch == nil {
		return 0, false
	}
	semi, ok := stepSemitones[strings.ToUpper(n.Pitch.Step)]
	if !ok {
		return 0, false
	}
	key := 12*(n.Pitch.Octave+1) + semi + n.Pitch.Alter
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

// meterTicks is the length of one measure under the first staff's time
// signature, 4/4 when none is known.
func meterTicks(pm *musicxml.PartMeasure) uint32 {
	beats, beatType := 4, 4
	if len(pm.Staves) > 0 && pm.Staves[0].Time != nil {
		if b, ok := sumBeats(pm.Staves[0].Time.Beats); ok && pm.Staves[0].Time.BeatType > 0 {
			beats, beatType = b, pm.Staves[0].Time.BeatType
		}
	}
	return uint32(beats * 4 * TicksPerQuarter / beatType)
}

// sumBeats reads composite meters such as "3+2".
func sumBeats(s string) (int, bool) {
	total := 0
	for _, p := range strings.Split(s, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return 0, false
		}
		total += n
	}
	return total, total > 0
}

func firstMeter(score *musicxml.Score) (uint8, uint8, bool) {
	if len(score.Measures) == 0 || len(score.Measures[0].Parts) == 0 {
		return 0, 0, false
	}
	pm := score.Measures[0].Parts[0]
	if len(pm.Staves) == 0 || pm.Staves[0].Time == nil {
		return 0, 0, false
	}
	b, ok := sumBeats(pm.Staves[0].Time.Beats)
	bt := pm.Staves[0].Time.BeatType
	if !ok || b > 255 || bt <= 0 || bt > 255 {
		return 0, 0, false
	}
	return uint8(b), uint8(bt), true
}
