// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-attendance-service/internal/logging"
)

// natsConnectTimeout bounds the initial NATS connection attempt.
const natsConnectTimeout = 10 * time.Second

// repositories bundles the NATS KV repositories of the service.
type repositories struct {
	Session          *store.NatsSessionRepository
	User             *store.NatsUserRepository
	EmailAlias       *store.NatsEmailAliasRepository
	AttendanceRecord *store.NatsAttendanceRecordRepository
	ImportAudit      *store.NatsImportAuditRepository
}

// setupNATS connects to the NATS server with reconnect handling.
func setupNATS(ctx context.Context, env environment) (*nats.Conn, error) {
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Timeout(natsConnectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "reconnected to NATS server", "url", env.NatsURL)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.WarnContext(ctx, "disconnected from NATS server", logging.ErrKey, err)
		}),
	)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "connected to NATS server", "url", env.NatsURL)
	return natsConn, nil
}

// getKeyValueStores binds the repositories to their KV buckets. The session
// and user buckets are provisioned by their owning services; the buckets this
// service owns are created on demand.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	sessions, err := getKeyValue(ctx, js, store.KVStoreNameSessions, false)
	if err != nil {
		return nil, err
	}
	users, err := getKeyValue(ctx, js, store.KVStoreNameUsers, false)
	if err != nil {
		return nil, err
	}
	aliases, err := getKeyValue(ctx, js, store.KVStoreNameEmailAliases, true)
	if err != nil {
		return nil, err
	}
	records, err := getKeyValue(ctx, js, store.KVStoreNameAttendanceRecords, true)
	if err != nil {
		return nil, err
	}
	audits, err := getKeyValue(ctx, js, store.KVStoreNameImportAudits, true)
	if err != nil {
		return nil, err
	}

	return &repositories{
		Session:          store.NewNatsSessionRepository(sessions),
		User:             store.NewNatsUserRepository(users),
		EmailAlias:       store.NewNatsEmailAliasRepository(aliases),
		AttendanceRecord: store.NewNatsAttendanceRecordRepository(records),
		ImportAudit:      store.NewNatsImportAuditRepository(audits),
	}, nil
}

// getKeyValue opens a KV bucket, optionally creating it when this service
// owns the bucket.
func getKeyValue(ctx context.Context, js jetstream.JetStream, bucket string, createIfMissing bool) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if createIfMissing && errors.Is(err, jetstream.ErrBucketNotFound) {
		slog.InfoContext(ctx, "creating NATS KV bucket", "bucket", bucket)
		return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	}
	return nil, err
}

// setupZoomProvider builds the Zoom-backed meeting provider from the
// environment's server-to-server OAuth credentials.
func setupZoomProvider(env environment) *zoom.Provider {
	client := api.NewClient(api.Config{
		AccountID:    env.ZoomAccountID,
		ClientID:     env.ZoomClientID,
		ClientSecret: env.ZoomClientSecret,
	})
	return zoom.NewProvider(client)
}
