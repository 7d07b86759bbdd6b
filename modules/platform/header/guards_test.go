package header

import (
	"testing"
	"time"

	"coursedesk/modules/platform/routes"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOwner(screen string, gen uint64) Owner {
	return Owner{screen: routes.Name(screen), token: uuid.New(), gen: gen}
}

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// baseInput is a write that every guard lets through.
func baseInput() Input {
	return Input{
		Prev: &Descriptor{
			Title: Text("Prev"),
			Owner: testOwner("P", 1),
			Stamp: 10,
		},
		Incoming: &Descriptor{
			Title:  Text("In"),
			Manual: true,
			Owner:  testOwner("I", 2),
			Stamp:  20,
		},
		Now:    t0,
		Window: DefaultDebounceWindow,
	}
}

// triggers makes exactly the named guard reject, indexed like Chain.
var triggers = []struct {
	name  string
	apply func(in *Input)
}{
	{"debounce", func(in *Input) {
		in.LastClear = &ClearRecord{Owner: in.Incoming.Owner, At: in.Now.Add(-100 * time.Millisecond)}
	}},
	{"manual", func(in *Input) {
		in.Prev.Manual = true
		in.Incoming.Manual = false
	}},
	{"auth", func(in *Input) {
		in.AuthRoute = true
		in.Incoming.Manual = false
		in.Incoming.Hidden = false
	}},
	{"provisional", func(in *Input) {
		in.Incoming.Provisional = true
	}},
	{"stale", func(in *Input) {
		in.Incoming.Stamp = 5
	}},
	{"unchanged", func(in *Input) {
		in.Incoming.Title = Text(in.Prev.TitleText())
		in.Incoming.Manual = in.Prev.Manual
	}},
}

func TestChainOrder(t *testing.T) {
	want := []Outcome{
		OutcomeDebounced,
		OutcomeManualHeld,
		OutcomeAuthRoute,
		OutcomeProvisional,
		OutcomeStale,
		OutcomeUnchanged,
	}
	got := make([]Outcome, len(Chain))
	for i, g := range Chain {
		got[i] = g.Outcome
	}
	assert.Equal(t, want, got)
	require.Len(t, triggers, len(Chain))
}

func TestEvaluate_BaseInputIsAccepted(t *testing.T) {
	in := baseInput()
	for _, g := range Chain {
		assert.False(t, g.Reject(in), g.Outcome.String())
	}
	assert.Equal(t, OutcomeAccepted, Evaluate(Chain, in))
}

func TestEvaluate_EachGuardAlone(t *testing.T) {
	for i, tr := range triggers {
		t.Run(tr.name, func(t *testing.T) {
			in := baseInput()
			tr.apply(&in)
			assert.Equal(t, Chain[i].Outcome, Evaluate(Chain, in))
		})
	}
}

// When two guards would both reject, the earlier one in the chain names the
// outcome.
func TestEvaluate_PairwiseEarlierGuardWins(t *testing.T) {
	tested := 0
	for i := range triggers {
		for j := i + 1; j < len(triggers); j++ {
			in := baseInput()
			triggers[i].apply(&in)
			triggers[j].apply(&in)
			if !Chain[i].Reject(in) || !Chain[j].Reject(in) {
				// manual + unchanged cannot hold together: unchanged needs
				// equal manual flags, manual-held needs them to differ.
				continue
			}
			tested++
			assert.Equal(t, Chain[i].Outcome, Evaluate(Chain, in),
				"%s vs %s", triggers[i].name, triggers[j].name)
		}
	}
	assert.Equal(t, 14, tested)
}

func TestDebounced(t *testing.T) {
	reports1 := testOwner("Reports", 1)
	reports2 := testOwner("Reports", 2)
	courses := testOwner("Courses", 3)

	tests := []struct {
		name     string
		clear    *ClearRecord
		incoming *Descriptor
		want     bool
	}{
		{
			name:     "no clear",
			incoming: &Descriptor{Owner: reports1},
			want:     false,
		},
		{
			name:     "same mount inside window",
			clear:    &ClearRecord{Owner: reports1, At: t0},
			incoming: &Descriptor{Owner: reports1},
			want:     true,
		},
		{
			name:     "same mount at window edge",
			clear:    &ClearRecord{Owner: reports1, At: t0.Add(-DefaultDebounceWindow)},
			incoming: &Descriptor{Owner: reports1},
			want:     false,
		},
		{
			name:     "newer mount",
			clear:    &ClearRecord{Owner: reports1, At: t0},
			incoming: &Descriptor{Owner: reports2},
			want:     false,
		},
		{
			name:     "older mount",
			clear:    &ClearRecord{Owner: reports2, At: t0},
			incoming: &Descriptor{Owner: reports1},
			want:     true,
		},
		{
			name:     "other screen",
			clear:    &ClearRecord{Owner: reports1, At: t0},
			incoming: &Descriptor{Owner: courses},
			want:     false,
		},
		{
			name:     "ownerless same fingerprint",
			clear:    &ClearRecord{At: t0, Fingerprint: "|Dashboard|"},
			incoming: &Descriptor{Title: Text("Dashboard")},
			want:     true,
		},
		{
			name:     "ownerless different subtitle",
			clear:    &ClearRecord{At: t0, Fingerprint: "|Dashboard|"},
			incoming: &Descriptor{Title: Text("Dashboard"), Subtitle: Text("today")},
			want:     false,
		},
		{
			name:     "owned write after ownerless clear",
			clear:    &ClearRecord{At: t0, Fingerprint: "|Dashboard|"},
			incoming: &Descriptor{Title: Text("Dashboard"), Owner: courses},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				Incoming:  tt.incoming,
				LastClear: tt.clear,
				Now:       t0,
				Window:    DefaultDebounceWindow,
			}
			assert.Equal(t, tt.want, Debounced(in))
		})
	}
}

func TestAuthSuppressed_LetsHiddenAndManualThrough(t *testing.T) {
	in := Input{AuthRoute: true, Incoming: &Descriptor{Hidden: true}}
	assert.False(t, AuthSuppressed(in))

	in.Incoming = &Descriptor{Manual: true}
	assert.False(t, AuthSuppressed(in))

	in.Incoming = &Descriptor{}
	assert.True(t, AuthSuppressed(in))

	in.AuthRoute = false
	assert.False(t, AuthSuppressed(in))
}

func TestStale_IgnoresUnstampedPrev(t *testing.T) {
	in := Input{
		Prev:     &Descriptor{Owner: testOwner("A", 1)},
		Incoming: &Descriptor{Owner: testOwner("B", 2), Stamp: 1},
	}
	assert.False(t, Stale(in))
}

func TestUnchanged_ComparesRenderedFields(t *testing.T) {
	prev := &Descriptor{Title: Text("A"), ShowBack: Flag(true)}

	assert.True(t, Unchanged(Input{Prev: prev, Incoming: &Descriptor{Title: Text("A"), ShowBack: Flag(true), Stamp: 99}}))
	assert.False(t, Unchanged(Input{Prev: prev, Incoming: &Descriptor{Title: Text("A")}}))
	assert.False(t, Unchanged(Input{Prev: prev, Incoming: &Descriptor{Title: Text("A"), ShowBack: Flag(false)}}))
	assert.False(t, Unchanged(Input{Prev: nil, Incoming: prev}))
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "manual-held", OutcomeManualHeld.String())
	assert.Equal(t, "unknown", Outcome(99).String())
	assert.True(t, Result{Outcome: OutcomeCleared}.Changed())
	assert.False(t, Result{Outcome: OutcomeStale}.Changed())
}
