package competitionrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	competitionhandlers "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubHandlers struct {
	mu        sync.Mutex
	scheduled []uuid.UUID
	attempts  int
	failFirst bool
}

func (s *stubHandlers) HandleScoresUpdated(ctx context.Context, payload *competitionevents.ScoresUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	s.mu.Lock()
	s.attempts++
	fail := s.failFirst && s.attempts == 1
	s.mu.Unlock()
	if fail {
		return nil, assert.AnError
	}
	return []handlerwrapper.Result{{
		Topic: competitionevents.StandingsComputedV1,
		Payload: &competitionevents.StandingsPayloadV1{
			ComputedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}}, nil
}

func (s *stubHandlers) HandleCompetitionScheduled(ctx context.Context, payload *competitionevents.CompetitionScheduledPayloadV1) ([]handlerwrapper.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, payload.CompetitionID)
	return nil, nil
}

func (s *stubHandlers) HandleHTTPScorecard(http.ResponseWriter, *http.Request)       {}
func (s *stubHandlers) HandleHTTPStandingsChart(http.ResponseWriter, *http.Request)  {}
func (s *stubHandlers) HandleHTTPScorecardExport(http.ResponseWriter, *http.Request) {}
func (s *stubHandlers) HandleHTTPDashboard(http.ResponseWriter, *http.Request)       {}

var _ competitionhandlers.Handlers = (*stubHandlers)(nil)

func startRouter(t *testing.T, handlers competitionhandlers.Handlers, registry *prometheus.Registry) *gochannel.GoChannel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wmLogger := watermill.NewSlogLogger(logger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, wmLogger)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	r := NewCompetitionRouter(logger, router, pubSub, pubSub, noop.NewTracerProvider().Tracer("test"), registry)
	require.NoError(t, r.Configure(context.Background(), handlers))

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = router.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = r.Close()
		_ = pubSub.Close()
	})

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return pubSub
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestCompetitionRouter_ScoresUpdatedPublishesStandings(t *testing.T) {
	pubSub := startRouter(t, &stubHandlers{}, prometheus.NewRegistry())

	out, err := pubSub.Subscribe(context.Background(), competitionevents.StandingsComputedV1)
	require.NoError(t, err)

	in, err := handlerwrapper.NewMessage(context.Background(), competitionevents.ScoresUpdatedPayloadV1{CompetitionID: uuid.New()})
	require.NoError(t, err)
	middleware.SetCorrelationID("corr-1", in)
	require.NoError(t, pubSub.Publish(competitionevents.ScoresUpdatedV1, in))

	msg := receive(t, out)
	assert.Equal(t, "corr-1", middleware.MessageCorrelationID(msg))

	var payload competitionevents.StandingsPayloadV1
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), payload.ComputedAt)
}

func TestCompetitionRouter_RetriesFailedHandler(t *testing.T) {
	handlers := &stubHandlers{failFirst: true}
	pubSub := startRouter(t, handlers, nil)

	out, err := pubSub.Subscribe(context.Background(), competitionevents.StandingsComputedV1)
	require.NoError(t, err)

	in, err := handlerwrapper.NewMessage(context.Background(), competitionevents.ScoresUpdatedPayloadV1{CompetitionID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(competitionevents.ScoresUpdatedV1, in))

	receive(t, out)

	handlers.mu.Lock()
	defer handlers.mu.Unlock()
	assert.Equal(t, 2, handlers.attempts)
}

func TestCompetitionRouter_CompetitionScheduled(t *testing.T) {
	handlers := &stubHandlers{}
	pubSub := startRouter(t, handlers, nil)

	competitionID := uuid.New()
	in, err := handlerwrapper.NewMessage(context.Background(), competitionevents.CompetitionScheduledPayloadV1{
		CompetitionID: competitionID,
		EndTime:       time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(competitionevents.CompetitionScheduledV1, in))

	assert.Eventually(t, func() bool {
		handlers.mu.Lock()
		defer handlers.mu.Unlock()
		return len(handlers.scheduled) == 1 && handlers.scheduled[0] == competitionID
	}, 5*time.Second, 10*time.Millisecond)
}
