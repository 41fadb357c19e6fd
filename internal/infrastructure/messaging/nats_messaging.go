// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package messaging sends attendance reconciliation messages over NATS.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-attendance-service/pkg/constants"
)

// INatsConn is the NATS connection interface needed by the message builder.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds reconciliation messages and sends them to the NATS
// server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

var _ domain.MessageBuilder = (*MessageBuilder)(nil)

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendIndexerMessage wraps the record payload in the indexer envelope. The
// indexer expects the data as a map[string]any decoded from the record's JSON
// representation.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	// Reconciliation runs are system-initiated, so there is no user auth
	// context to forward; the indexer still requires the header to be set.
	headers := map[string]string{
		constants.AuthorizationHeader: "Bearer attendance-service",
	}

	var payload any
	switch action {
	case models.ActionCreated, models.ActionUpdated:
		var jsonData any
		if err := json.Unmarshal(data, &jsonData); err != nil {
			slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
			return err
		}

		config := mapstructure.DecoderConfig{
			TagName: "json",
			Result:  &payload,
		}
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
			return err
		}
		if err := decoder.Decode(jsonData); err != nil {
			slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
			return err
		}
	case models.ActionDeleted:
		// The data is just the UID being deleted.
		payload = string(data)
	}

	message := models.AttendanceIndexerMessage{
		Action:  action,
		Headers: headers,
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// SendIndexAttendanceRecord sends the message to the NATS server for the
// attendance record indexing.
func (m *MessageBuilder) SendIndexAttendanceRecord(ctx context.Context, action models.MessageAction, record models.AttendanceRecord) error {
	dataBytes, err := json.Marshal(record)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexAttendanceRecordSubject, action, dataBytes, record.Tags())
}

// SendAttendanceImportCompleted announces the end of a reconciliation run.
func (m *MessageBuilder) SendAttendanceImportCompleted(ctx context.Context, message models.AttendanceImportCompletedMessage) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.AttendanceImportCompletedSubject, messageBytes)
}
