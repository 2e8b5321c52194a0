package shared

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HandlerMetrics records per-topic fact handling outcomes.
type HandlerMetrics interface {
	FactHandled(topic string)
	FactFailed(topic string, reason string)
}

type nopHandlerMetrics struct{}

func (nopHandlerMetrics) FactHandled(string)        {}
func (nopHandlerMetrics) FactFailed(string, string) {}

// WrapTransformingTyped adapts a typed fact handler into a watermill
// HandlerFunc. It unmarshals the JSON payload, runs the handler inside a
// span, and converts returned Results into outbound messages with the
// destination topic set in metadata.
//
// Failures never cross the fact boundary: a malformed payload, a handler
// error, or a panic is logged and counted, and the message is acked so the
// feed keeps flowing. Handlers must therefore treat their return error as
// diagnostic, not as flow control.
func WrapTransformingTyped[T any](
	topic string,
	handler func(ctx context.Context, payload *T) ([]Result, error),
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics HandlerMetrics,
) message.HandlerFunc {
	if metrics == nil {
		metrics = nopHandlerMetrics{}
	}
	return func(msg *message.Message) (out []*message.Message, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in fact handler",
					slog.String("topic", topic),
					slog.String("message_id", msg.UUID),
					slog.Any("panic", r),
				)
				metrics.FactFailed(topic, "panic")
				out, err = nil, nil
			}
		}()

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logger.Warn("discarding malformed fact payload",
				slog.String("topic", topic),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			metrics.FactFailed(topic, "unmarshal")
			return nil, nil
		}

		ctx, span := tracer.Start(msg.Context(), "handle."+topic,
			trace.WithAttributes(
				attribute.String("fact.topic", topic),
				attribute.String("message.id", msg.UUID),
			))
		defer span.End()

		results, handlerErr := handler(ctx, &payload)
		if handlerErr != nil {
			span.RecordError(handlerErr)
			logger.Error("fact handler failed",
				slog.String("topic", topic),
				slog.String("message_id", msg.UUID),
				slog.Any("error", handlerErr),
			)
			metrics.FactFailed(topic, "handler")
			return nil, nil
		}

		for _, res := range results {
			body, marshalErr := json.Marshal(res.Payload)
			if marshalErr != nil {
				logger.Error("dropping unmarshalable result payload",
					slog.String("topic", topic),
					slog.String("result_topic", res.Topic),
					slog.Any("error", marshalErr),
				)
				metrics.FactFailed(res.Topic, "marshal")
				continue
			}
			outMsg := message.NewMessage(watermill.NewUUID(), body)
			outMsg.SetContext(ctx)
			outMsg.Metadata.Set(TopicMetadataKey, res.Topic)
			out = append(out, outMsg)
		}

		metrics.FactHandled(topic)
		return out, nil
	}
}
