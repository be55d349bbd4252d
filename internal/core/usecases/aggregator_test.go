// internal/core/usecases/aggregator_test.go
package usecases

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
)

func TestAggregate_UnionOfSuccessesOnly(t *testing.T) {
	notifier := &recordingNotifier{}
	agg := NewAggregator(AggregatorOptions{Notifier: notifier})

	sources := []ports.Source{
		newMockSource("one", "a.example.com"),
		failingSource("two", errors.Protocol(errors.New("bad json"), "decode")),
		newMockSource("three", "b.example.com", "a.example.com"),
	}

	got := agg.Aggregate(context.Background(), "example.com", sources)

	assert.DeepEqual(t, got.Sorted(), []string{"a.example.com", "b.example.com"})
	assert.Equal(t, notifier.count(ports.EventTypeSourceFailed), 1)
}

func TestAggregate_FailureIsolation(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	ok := newMockSource("ok", "x.example.com")

	kinds := []error{
		errors.Unavailable(errors.New("connection refused"), "dial"),
		errors.Protocol(errors.New("status 500"), "GET"),
		errors.Wrap(errors.ErrCredentialMissing, "TOKEN"),
		errors.ErrPaginationIncomplete,
	}

	alone := agg.Aggregate(context.Background(), "example.com", []ports.Source{ok})
	for _, kind := range kinds {
		withFailure := agg.Aggregate(context.Background(), "example.com", []ports.Source{
			failingSource("bad", kind), ok,
		})
		assert.DeepEqual(t, withFailure.Sorted(), alone.Sorted())
	}
}

func TestAggregate_AllFailIsEmptySet(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	got := agg.Aggregate(context.Background(), "example.com", []ports.Source{
		failingSource("a", errors.ErrProviderUnavailable),
		failingSource("b", errors.ErrProviderProtocol),
	})

	assert.Assert(t, got != nil)
	assert.Equal(t, got.Len(), 0)
}

func TestAggregate_Idempotent(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	sources := []ports.Source{
		newMockSource("one", "a.example.com", "a.example.com"),
		newMockSource("two", "a.example.com", "c.example.com"),
	}

	first := agg.Aggregate(context.Background(), "example.com", sources)
	second := agg.Aggregate(context.Background(), "example.com", sources)

	assert.DeepEqual(t, first.Sorted(), second.Sorted())
	assert.Equal(t, first.Len(), 2)
}

func TestAggregate_FullJoin(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	slow := newMockSource("slow", "slow.example.com")
	slow.delay = 50 * time.Millisecond
	fast := failingSource("fast", errors.ErrProviderUnavailable)

	got := agg.Aggregate(context.Background(), "example.com", []ports.Source{fast, slow})

	// Un fallo rápido no cancela ni adelanta el join.
	assert.Check(t, got.Contains("slow.example.com"))
	assert.Equal(t, int(slow.calls.Load()), 1)
}

func TestAggregate_RecoversPanic(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	boom := newMockSource("boom")
	boom.panics = true

	outcomes := agg.Outcomes(context.Background(), "example.com", []ports.Source{
		boom, newMockSource("ok", "a.example.com"),
	})

	assert.Equal(t, len(outcomes), 2)
	assert.Equal(t, outcomes[0].Source, "boom")
	assert.Check(t, errors.Is(outcomes[0].Err, errors.ErrSourcePanic))
	assert.Check(t, outcomes[1].Succeeded())
	assert.Check(t, is.Contains(outcomes[1].Subdomains, "a.example.com"))
}

func TestAggregate_SourceTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{SourceTimeout: 20 * time.Millisecond})
	hung := newMockSource("hung", "late.example.com")
	hung.delay = 5 * time.Second

	start := time.Now()
	got := agg.Aggregate(context.Background(), "example.com", []ports.Source{
		hung, newMockSource("ok", "a.example.com"),
	})

	assert.Check(t, time.Since(start) < 2*time.Second)
	assert.DeepEqual(t, got.Sorted(), []string{"a.example.com"})
}

func TestAggregate_NoSources(t *testing.T) {
	agg := NewAggregator(AggregatorOptions{})
	got := agg.Aggregate(context.Background(), domain.Host("example.com"), nil)
	assert.Equal(t, got.Len(), 0)
}
