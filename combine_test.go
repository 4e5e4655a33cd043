package hotstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairs[A, B any](t *testing.T, rec *recorder[Pair[A, B]]) []Pair[A, B] {
	t.Helper()
	var out []Pair[A, B]
	for _, event := range rec.snapshot() {
		if value, ok := event.Value(); ok {
			out = append(out, value)
		}
	}
	return out
}

func TestCombineLatest(t *testing.T) {
	a, sinkA := Pipe[int]()
	b, sinkB := Pipe[string]()
	var rec recorder[Pair[int, string]]
	derived := CombineLatest(a, b)
	derived.Observe(rec.observer())

	sinkA.SendNext(1)
	require.Empty(t, rec.snapshot(), "nothing may be emitted until both inputs have a value")

	sinkB.SendNext("a")
	sinkA.SendNext(2)
	sinkB.SendNext("b")

	require.Equal(t, []Pair[int, string]{
		{First: 1, Second: "a"},
		{First: 2, Second: "a"},
		{First: 2, Second: "b"},
	}, pairs(t, &rec))

	derived.Dispose()
	a.Dispose()
	b.Dispose()
}

func TestCombineLatest_failurePropagatesImmediately(t *testing.T) {
	a, sinkA := Pipe[int]()
	b, sinkB := Pipe[string]()
	sentinel := errors.New("boom")
	var rec recorder[Pair[int, string]]
	derived := CombineLatest(a, b)
	derived.Observe(rec.observer())

	sinkB.SendFailed(sentinel)

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].Err(), sentinel)
	assert.True(t, derived.Terminated())

	sinkA.SendNext(1)
	assert.Len(t, rec.snapshot(), 1, "a failed combinator must deliver nothing further")
	a.Dispose()
}

func TestCombineLatest_completionRequiresBoth(t *testing.T) {
	a, sinkA := Pipe[int]()
	b, sinkB := Pipe[string]()
	var rec recorder[Pair[int, string]]
	derived := CombineLatest(a, b)
	derived.Observe(rec.observer())

	sinkA.SendNext(1)
	sinkB.SendNext("a")
	sinkA.SendCompleted()
	require.False(t, derived.Terminated(), "one completed input must not complete the pair stream")

	// the completed side's latest value still participates
	sinkB.SendNext("b")
	require.Equal(t, []Pair[int, string]{
		{First: 1, Second: "a"},
		{First: 1, Second: "b"},
	}, pairs(t, &rec))

	sinkB.SendCompleted()
	assert.True(t, derived.Terminated())
	events := rec.snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, KindCompleted, events[len(events)-1].Kind())
}

func TestSampleOn(t *testing.T) {
	source, sinkSource := Pipe[int]()
	sampler, sinkSampler := Pipe[struct{}]()
	var rec recorder[int]
	derived := SampleOn(source, sampler)
	derived.Observe(rec.observer())

	sinkSampler.SendNext(struct{}{})
	require.Empty(t, rec.snapshot(), "samples before the first source value must be dropped")

	sinkSource.SendNext(1)
	require.Empty(t, rec.snapshot(), "source values alone must not emit")

	sinkSampler.SendNext(struct{}{})
	sinkSampler.SendNext(struct{}{})
	sinkSource.SendNext(2)
	sinkSampler.SendNext(struct{}{})

	assert.Equal(t, []string{"Next(1)", "Next(1)", "Next(2)"}, rec.strings(),
		"repeated samples of an unchanged latest value re-emit it")

	derived.Dispose()
	source.Dispose()
	sampler.Dispose()
}

func TestSampleOn_failurePropagates(t *testing.T) {
	sentinel := errors.New("boom")

	t.Run("source", func(t *testing.T) {
		source, sinkSource := Pipe[int]()
		sampler, _ := Pipe[struct{}]()
		var rec recorder[int]
		derived := SampleOn(source, sampler)
		derived.Observe(rec.observer())

		sinkSource.SendFailed(sentinel)
		events := rec.snapshot()
		require.Len(t, events, 1)
		assert.ErrorIs(t, events[0].Err(), sentinel)
		assert.True(t, derived.Terminated())
		sampler.Dispose()
	})

	t.Run("sampler", func(t *testing.T) {
		source, _ := Pipe[int]()
		sampler, sinkSampler := Pipe[struct{}]()
		var rec recorder[int]
		derived := SampleOn(source, sampler)
		derived.Observe(rec.observer())

		sinkSampler.SendFailed(sentinel)
		events := rec.snapshot()
		require.Len(t, events, 1)
		assert.ErrorIs(t, events[0].Err(), sentinel)
		assert.True(t, derived.Terminated())
		source.Dispose()
	})
}

func TestSampleOn_completionRequiresBoth(t *testing.T) {
	source, sinkSource := Pipe[int]()
	sampler, sinkSampler := Pipe[struct{}]()
	var rec recorder[int]
	derived := SampleOn(source, sampler)
	derived.Observe(rec.observer())

	sinkSource.SendNext(7)
	sinkSource.SendCompleted()
	require.False(t, derived.Terminated())

	// the latest value survives source completion
	sinkSampler.SendNext(struct{}{})
	require.Equal(t, []string{"Next(7)"}, rec.strings())

	sinkSampler.SendCompleted()
	assert.True(t, derived.Terminated())
}

func TestTakeUntil(t *testing.T) {
	source, sinkSource := Pipe[int]()
	trigger, sinkTrigger := Pipe[struct{}]()
	var rec recorder[int]
	derived := TakeUntil(source, trigger)
	derived.Observe(rec.observer())

	sinkSource.SendNext(1)
	sinkTrigger.SendNext(struct{}{})

	require.Equal(t, []string{"Next(1)", "Completed"}, rec.strings())
	require.True(t, derived.Terminated())

	// both subscriptions were torn down with the derived stream
	source.mu.Lock()
	sourceObservers := source.registry.Len()
	source.mu.Unlock()
	assert.Zero(t, sourceObservers)

	sinkSource.SendNext(2)
	assert.Equal(t, []string{"Next(1)", "Completed"}, rec.strings(),
		"source pushes after the trigger must have no observable effect")
	source.Dispose()
	trigger.Dispose()
}

func TestTakeUntil_triggerCompletionAlsoEnds(t *testing.T) {
	source, sinkSource := Pipe[int]()
	trigger, sinkTrigger := Pipe[struct{}]()
	var rec recorder[int]
	derived := TakeUntil(source, trigger)
	derived.Observe(rec.observer())

	sinkTrigger.SendCompleted()
	require.Equal(t, []string{"Completed"}, rec.strings())
	assert.True(t, derived.Terminated())

	sinkSource.SendNext(1)
	assert.Equal(t, []string{"Completed"}, rec.strings())
	source.Dispose()
}

func TestTakeUntil_triggerFailureIgnored(t *testing.T) {
	source, sinkSource := Pipe[int]()
	trigger, sinkTrigger := Pipe[struct{}]()
	sentinel := errors.New("boom")
	var rec recorder[int]
	derived := TakeUntil(source, trigger)
	derived.Observe(rec.observer())

	sinkSource.SendNext(1)
	sinkTrigger.SendFailed(sentinel)
	require.False(t, derived.Terminated(), "a failed trigger must not end the stream")

	sinkSource.SendNext(2)
	sinkSource.SendFailed(sentinel)

	assert.Equal(t, []string{"Next(1)", "Next(2)", "Failed(boom)"}, rec.strings())
}

func TestMerge(t *testing.T) {
	a, sinkA := Pipe[int]()
	b, sinkB := Pipe[int]()
	var rec recorder[int]
	derived := Merge(a, b)
	derived.Observe(rec.observer())

	sinkA.SendNext(1)
	sinkB.SendNext(2)
	sinkA.SendNext(3)
	sinkA.SendCompleted()
	require.False(t, derived.Terminated(), "one completed input must not complete the merge")

	sinkB.SendNext(4)
	sinkB.SendCompleted()

	assert.Equal(t, []string{"Next(1)", "Next(2)", "Next(3)", "Next(4)", "Completed"}, rec.strings())
	assert.True(t, derived.Terminated())
}

func TestMerge_failurePropagatesImmediately(t *testing.T) {
	a, sinkA := Pipe[int]()
	b, sinkB := Pipe[int]()
	sentinel := errors.New("boom")
	var rec recorder[int]
	derived := Merge(a, b)
	derived.Observe(rec.observer())

	sinkA.SendNext(1)
	sinkB.SendFailed(sentinel)

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.ErrorIs(t, events[1].Err(), sentinel)
	assert.True(t, derived.Terminated())

	sinkA.SendNext(2)
	assert.Len(t, rec.snapshot(), 2)
	a.Dispose()
}
