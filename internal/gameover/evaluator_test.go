package gameover

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gameprogress/internal/analytics"
	"github.com/robalobadob/gameprogress/internal/catalog"
	"github.com/robalobadob/gameprogress/internal/prefs"
	"github.com/robalobadob/gameprogress/internal/progress"
	"github.com/robalobadob/gameprogress/internal/stars"
)

type promptCounter struct{ n int }

func (p *promptCounter) PromptRating(context.Context) { p.n++ }

type recorder struct {
	mu     sync.Mutex
	events []analytics.Event
	err    error
}

func (r *recorder) Record(_ context.Context, e analytics.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

type fixedRule int

func (f fixedRule) NewStarsWon(stars.Round) (int, error) { return int(f), nil }

type failingRule struct{}

func (failingRule) NewStarsWon(stars.Round) (int, error) { return 0, errors.New("boom") }

type harness struct {
	session  *progress.Session
	gm       *progress.GameManager
	store    *prefs.Store
	mem      *prefs.Memory
	prompts  *promptCounter
	recorder *recorder
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	store, mem := prefs.NewMemoryStore("")
	h := &harness{
		session:  progress.NewSession(),
		store:    store,
		mem:      mem,
		prompts:  &promptCounter{},
		recorder: &recorder{},
		now:      time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	h.gm = progress.NewGameManager(cat, store)
	h.session.Start(h.gm)
	return h
}

func (h *harness) evaluator(rule stars.Rule, opts Options) *Evaluator {
	return New(Deps{
		Session:   h.session,
		Rule:      rule,
		Feedback:  h.prompts,
		Analytics: h.recorder,
		Now:       func() time.Time { return h.now },
	}, opts)
}

func (h *harness) playRound(t *testing.T, score, coins int, took time.Duration) {
	t.Helper()
	l, err := h.gm.BeginRound(h.now)
	require.NoError(t, err)
	l.AddPoints(score)
	l.AddCoins(coins)
	h.gm.Player.AddCoins(coins)
	h.now = h.now.Add(took)
}

func staticOptions() Options {
	o := DefaultOptions()
	o.PeriodicUpdateDelay = 0
	return o
}

func TestShow_NoSession(t *testing.T) {
	e := New(Deps{Session: progress.NewSession()}, staticOptions())
	_, err := e.Show(context.Background(), true)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestShow_FullSummary(t *testing.T) {
	h := newHarness(t)
	e := h.evaluator(stars.Thresholds{}, staticOptions())
	h.playRound(t, 260, 7, 65*time.Second)

	d, err := e.Show(context.Background(), true)
	require.NoError(t, err)
	defer d.Close()

	sum := d.Summary()
	assert.True(t, sum.Won)
	assert.Equal(t, 1, sum.Level)
	require.NotNil(t, sum.Stars)
	assert.Equal(t, progress.Star1|progress.Star2, sum.Stars.Mask)
	assert.Equal(t, [3]bool{true, true, false}, sum.Stars.JustWon)
	assert.Equal(t, "01.05", sum.Time)
	require.NotNil(t, sum.Score)
	assert.Equal(t, 260, *sum.Score)
	require.NotNil(t, sum.Coins)
	assert.Equal(t, 7, *sum.Coins)
	assert.True(t, sum.NewHighScore)
	assert.Equal(t, 13, sum.NeededCoins, "level 2 costs 20 coins")
	assert.False(t, sum.TargetCoinsGot)
	assert.False(t, d.Periodic())
}

func TestShow_StarsAccumulateAcrossRounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.playRound(t, 10, 0, time.Second)
	d, err := h.evaluator(fixedRule(progress.Star1), staticOptions()).Show(ctx, true)
	require.NoError(t, err)
	d.Close()

	h.playRound(t, 10, 0, time.Second)
	d, err = h.evaluator(fixedRule(progress.Star2), staticOptions()).Show(ctx, true)
	require.NoError(t, err)
	d.Close()

	assert.Equal(t, progress.Star1|progress.Star2, h.gm.Levels.Selected().StarsWon)
	assert.Equal(t, progress.Star1|progress.Star2, d.Summary().Stars.Mask)
	assert.Equal(t, progress.Star2, d.Summary().Stars.New)
}

func TestShow_StarsAwardedWhenHidden(t *testing.T) {
	h := newHarness(t)
	opts := staticOptions()
	opts.ShowStars = false
	h.playRound(t, 10, 0, time.Second)

	d, err := h.evaluator(fixedRule(progress.Star3), opts).Show(context.Background(), true)
	require.NoError(t, err)
	defer d.Close()

	assert.Nil(t, d.Summary().Stars)
	assert.Equal(t, progress.Star3, h.gm.Levels.Selected().StarsWon)
}

func TestShow_RuleErrorAwardsNothing(t *testing.T) {
	h := newHarness(t)
	h.playRound(t, 10, 0, time.Second)
	d, err := h.evaluator(failingRule{}, staticOptions()).Show(context.Background(), true)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, 0, h.gm.Levels.Selected().StarsWon)
}

func TestShow_HighScoreAgainstSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e := h.evaluator(nil, staticOptions())

	h.playRound(t, 300, 0, time.Second)
	d, err := e.Show(ctx, true)
	require.NoError(t, err)
	d.Close()
	assert.True(t, d.Summary().NewHighScore)

	h.playRound(t, 200, 0, time.Second)
	d, err = e.Show(ctx, true)
	require.NoError(t, err)
	d.Close()
	assert.False(t, d.Summary().NewHighScore)
	assert.Equal(t, 300, h.gm.Levels.Selected().HighScore)
}

func TestShow_PersistsAndFlushes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.playRound(t, 120, 9, time.Second)
	saves := h.mem.Saves()

	d, err := h.evaluator(fixedRule(progress.Star1), staticOptions()).Show(ctx, true)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, saves+1, h.mem.Saves())
	persisted, err := h.mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "120", persisted["L1.HighScore"])
	assert.Equal(t, "1", persisted["L1.StarsWon"])
	assert.Equal(t, "9", persisted["P0.Coins"])
}

func TestShow_RatingPromptExactMatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	opts := staticOptions()
	opts.TimesPlayedBeforeRatingPrompt = 5
	e := h.evaluator(nil, opts)
	h.playRound(t, 1, 0, time.Second)

	h.gm.TimesPlayedForRatingPrompt = 4
	d, err := e.Show(ctx, false)
	require.NoError(t, err)
	d.Close()
	assert.Equal(t, 0, h.prompts.n)
	assert.False(t, d.Summary().RatingPrompted)

	h.gm.TimesPlayedForRatingPrompt = 5
	d, err = e.Show(ctx, false)
	require.NoError(t, err)
	d.Close()
	assert.Equal(t, 1, h.prompts.n)
	assert.True(t, d.Summary().RatingPrompted)

	h.gm.TimesPlayedForRatingPrompt = 6
	d, err = e.Show(ctx, false)
	require.NoError(t, err)
	d.Close()
	assert.Equal(t, 1, h.prompts.n, "a counter past the threshold never prompts")
}

func TestShow_AnalyticsEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.recorder.err = errors.New("offline")
	h.playRound(t, 50, 3, 42*time.Second)

	d, err := h.evaluator(nil, staticOptions()).Show(ctx, true)
	require.NoError(t, err, "analytics failures are swallowed")
	d.Close()

	require.Len(t, h.recorder.events, 1)
	ev := h.recorder.events[0]
	assert.Equal(t, 1, ev.Level)
	assert.Equal(t, 50, ev.Score)
	assert.Equal(t, 3, ev.Coins)
	require.NotNil(t, ev.Elapsed)
	assert.Equal(t, 42*time.Second, *ev.Elapsed)

	opts := staticOptions()
	opts.ShowTime = false
	d, err = h.evaluator(nil, opts).Show(ctx, true)
	require.NoError(t, err)
	d.Close()
	require.Len(t, h.recorder.events, 2)
	assert.Nil(t, h.recorder.events[1].Elapsed)
	assert.Empty(t, d.Summary().Time)
}

func requireAssertion(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an assertion panic")
		_, ok := r.(*AssertionError)
		assert.True(t, ok, "panic value %T", r)
	}()
	fn()
}

func TestShow_MissingRegionPanics(t *testing.T) {
	for _, region := range []Region{RegionStars, RegionTime, RegionCoins, RegionScore} {
		t.Run(string(region), func(t *testing.T) {
			h := newHarness(t)
			h.playRound(t, 1, 0, time.Second)
			opts := staticOptions()
			opts.Layout = FullLayout()
			delete(opts.Layout, region)
			e := h.evaluator(nil, opts)
			requireAssertion(t, func() { _, _ = e.Show(context.Background(), true) })
		})
	}
}

func TestShow_TimeWithoutRoundPanics(t *testing.T) {
	h := newHarness(t)
	e := h.evaluator(nil, staticOptions())
	requireAssertion(t, func() { _, _ = e.Show(context.Background(), true) })

	opts := staticOptions()
	opts.ShowTime = false
	d, err := h.evaluator(nil, opts).Show(context.Background(), true)
	require.NoError(t, err)
	d.Close()
}

func TestShow_PeriodicNeededCoins(t *testing.T) {
	h := newHarness(t)
	opts := staticOptions()
	opts.PeriodicUpdateDelay = 5 * time.Millisecond
	h.playRound(t, 10, 5, time.Second)

	d, err := h.evaluator(nil, opts).Show(context.Background(), true)
	require.NoError(t, err)
	require.True(t, d.Periodic())
	assert.Equal(t, 15, d.Summary().NeededCoins)

	h.session.WithLock(func() { h.gm.Player.Coins = 25 })
	assert.Eventually(t, func() bool { return d.Summary().TargetCoinsGot }, time.Second, time.Millisecond)

	// Closing while holding the session lock must not deadlock.
	h.session.WithLock(d.Close)
	assert.True(t, d.Closed())

	h.session.WithLock(func() { h.gm.Player.Coins = 0 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, d.Summary().NeededCoins, "no recompute after Close")
}

func TestShow_NeededCoinsNothingLeft(t *testing.T) {
	h := newHarness(t)
	h.gm.Levels.SetAllUnlocked(true, h.store)
	h.playRound(t, 10, 0, time.Second)

	d, err := h.evaluator(nil, staticOptions()).Show(context.Background(), true)
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, -1, d.Summary().NeededCoins)
	assert.False(t, d.Summary().TargetCoinsGot)
}

func TestDialog_CloseNilAndTwice(t *testing.T) {
	var d *Dialog
	assert.NotPanics(t, d.Close)

	h := newHarness(t)
	h.playRound(t, 1, 0, time.Second)
	opts := staticOptions()
	opts.PeriodicUpdateDelay = time.Millisecond
	d, err := h.evaluator(nil, opts).Show(context.Background(), true)
	require.NoError(t, err)
	d.Close()
	assert.NotPanics(t, d.Close)
}

func TestDialog_CollaboratorsOptional(t *testing.T) {
	h := newHarness(t)
	h.playRound(t, 1, 0, time.Second)
	d, err := h.evaluator(nil, staticOptions()).Show(context.Background(), true)
	require.NoError(t, err)
	defer d.Close()

	assert.ErrorIs(t, d.Share(context.Background()), ErrUnsupported)
	assert.ErrorIs(t, d.Continue(context.Background()), ErrUnsupported)
}

func TestDialog_RetryStartsNewRound(t *testing.T) {
	h := newHarness(t)
	h.playRound(t, 1, 0, time.Second)
	e := New(Deps{
		Session: h.session,
		Scenes:  &progress.Scenes{Session: h.session, Now: func() time.Time { return h.now }},
		Now:     func() time.Time { return h.now },
	}, staticOptions())
	d, err := e.Show(context.Background(), true)
	require.NoError(t, err)

	h.now = h.now.Add(time.Minute)
	require.NoError(t, d.Retry(context.Background()))
	assert.True(t, d.Closed())
	assert.Equal(t, h.now, h.gm.RoundStart)
	assert.Equal(t, 0, h.gm.Levels.Selected().Score)

	require.NoError(t, d.Continue(context.Background()))
	assert.False(t, h.gm.RoundActive())
}

func TestFormatElapsed(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                        "00.00",
		5 * time.Second:                          "00.05",
		65 * time.Second:                         "01.05",
		59*time.Minute + 59*time.Second:          "59.59",
		time.Hour + 2*time.Minute + 5*time.Second: "02.05",
		-time.Second:                             "00.00",
	}
	for d, want := range cases {
		assert.Equal(t, want, FormatElapsed(d), d.String())
	}
}
