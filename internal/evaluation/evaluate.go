package evaluation

import (
	"errors"
	"sort"

	"asreval/internal/dataset"
	"asreval/internal/metadata"
	"asreval/internal/textutil"
	"asreval/internal/wer"
)

// ErrNoMatches reports an evaluation with no matched records.
var ErrNoMatches = errors.New("no matching rows found")

// Defaults used when Options leaves a limit unset.
const (
	DefaultWorstClips   = 10
	DefaultSpeakerLimit = 10
)

// Options tunes how much of the ranking is kept.
type Options struct {
	WorstClips   int
	SpeakerLimit int
}

func (o Options) withDefaults() Options {
	if o.WorstClips <= 0 {
		o.WorstClips = DefaultWorstClips
	}
	if o.SpeakerLimit <= 0 {
		o.SpeakerLimit = DefaultSpeakerLimit
	}
	return o
}

// GroupStat is the WER of every record sharing one metadata value.
type GroupStat struct {
	Key   string
	WER   float64
	Count int
}

// ClipResult is one record with its own WER.
type ClipResult struct {
	dataset.Record
	WER float64
}

// Result holds the statistics computed from a set of matched records.
type Result struct {
	Matched      int
	Overall      float64
	Environments []GroupStat
	Conditions   []GroupStat
	// Speakers is ordered by WER descending and truncated to Options.SpeakerLimit.
	Speakers []GroupStat
	// SpeakerGroups is the number of distinct speakers before truncation.
	SpeakerGroups int
	WorstClips    []ClipResult
}

// Evaluate computes WER statistics over records. Transcripts are normalized
// before scoring; the records themselves are left untouched. It returns
// ErrNoMatches when records is empty.
func Evaluate(records []dataset.Record, opts Options) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrNoMatches
	}
	opts = opts.withDefaults()

	env := newGrouping()
	cond := newGrouping()
	spk := newGrouping()
	var total wer.Stats
	clips := make([]ClipResult, 0, len(records))

	for _, rec := range records {
		stats := wer.Measure(textutil.Normalize(rec.Reference), textutil.Normalize(rec.Hypothesis))
		total.Add(stats)
		env.add(rec.Environment, stats)
		cond.add(rec.Condition, stats)
		spk.add(rec.Speaker, stats)
		clips = append(clips, ClipResult{Record: rec, WER: stats.Rate()})
	}

	speakers := spk.stats()
	speakerGroups := len(speakers)
	sortByWERDesc(speakers)
	if len(speakers) > opts.SpeakerLimit {
		speakers = speakers[:opts.SpeakerLimit]
	}

	return Result{
		Matched:       len(records),
		Overall:       total.Rate(),
		Environments:  sortByKey(env.stats()),
		Conditions:    sortByKey(cond.stats()),
		Speakers:      speakers,
		SpeakerGroups: speakerGroups,
		WorstClips:    Worst(clips, opts.WorstClips),
	}, nil
}

// Worst returns the k clips with the highest WER, highest first. Ties keep
// their input order.
func Worst(clips []ClipResult, k int) []ClipResult {
	ranked := append([]ClipResult(nil), clips...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].WER > ranked[j].WER })
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// grouping accumulates edit counts per key in first-seen order.
type grouping struct {
	order []string
	acc   map[string]*groupAcc
}

type groupAcc struct {
	stats wer.Stats
	count int
}

func newGrouping() *grouping {
	return &grouping{acc: make(map[string]*groupAcc)}
}

func (g *grouping) add(key string, stats wer.Stats) {
	if key == "" {
		key = metadata.Unknown
	}
	a, ok := g.acc[key]
	if !ok {
		a = &groupAcc{}
		g.acc[key] = a
		g.order = append(g.order, key)
	}
	a.stats.Add(stats)
	a.count++
}

func (g *grouping) stats() []GroupStat {
	out := make([]GroupStat, 0, len(g.order))
	for _, key := range g.order {
		a := g.acc[key]
		out = append(out, GroupStat{Key: key, WER: a.stats.Rate(), Count: a.count})
	}
	return out
}

func sortByKey(groups []GroupStat) []GroupStat {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

func sortByWERDesc(groups []GroupStat) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].WER > groups[j].WER })
}
