// Package handlerwrapper adapts typed event handlers to Watermill.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// NewMessage encodes payload as JSON into a message that carries the
// correlation id found in ctx, or its own UUID when ctx has none.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := observability.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = msg.UUID
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// WrapTransformingTyped decodes the incoming payload into T, runs handler and
// publishes each returned Result to its own topic.
//
// Payloads that do not decode are logged and acknowledged. Handler and publish
// errors are returned so the router middleware can retry.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := msg.Context()
		if correlationID := middleware.MessageCorrelationID(msg); correlationID != "" {
			ctx = observability.WithCorrelationID(ctx, correlationID)
		}

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("messaging.message.id", msg.UUID),
		))
		defer span.End()

		log := logger.With(
			slog.String("handler", handlerName),
			slog.String("message_id", msg.UUID),
			observability.CorrelationAttr(ctx),
		)

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid payload")
			log.ErrorContext(ctx, "Dropping message with invalid payload", observability.ErrorAttr(err))
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.ErrorContext(ctx, "Handler failed", observability.ErrorAttr(err))
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		for _, result := range results {
			out, err := NewMessage(ctx, result.Payload)
			if err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s: %w", handlerName, err)
			}
			for k, v := range result.Metadata {
				out.Metadata.Set(k, v)
			}
			if err := publisher.Publish(result.Topic, out); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "publish failed")
				log.ErrorContext(ctx, "Failed to publish result",
					slog.String("topic", result.Topic),
					observability.ErrorAttr(err),
				)
				return fmt.Errorf("%s: publish %s: %w", handlerName, result.Topic, err)
			}
		}

		log.DebugContext(ctx, "Message handled", slog.Int("results", len(results)))
		return nil
	}
}
