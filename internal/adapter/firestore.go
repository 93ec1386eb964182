// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sprintboard/sprintboard/internal/config"
	"github.com/sprintboard/sprintboard/internal/logger"
	"github.com/sprintboard/sprintboard/models"
)

// NewFirestoreClient opens a Cloud Firestore client for the configured
// project and, when set, named database and credentials file.
func NewFirestoreClient(ctx context.Context, cfg config.ClientStorage) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var (
		client *firestore.Client
		err    error
	)
	if cfg.DatabaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID, opts...)
	} else {
		client, err = firestore.NewClient(ctx, cfg.ProjectID, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating firestore client: %w", err)
	}

	return client, nil
}

// FirestoreStore implements [CollectionSource] and [DocumentWriter] on top
// of Cloud Firestore. Every path is relative to the workspace document
// "workspaces/{workspace}".
type FirestoreStore struct {
	client    *firestore.Client
	workspace string
	newID     func() string
	logger    *logger.Logger
}

// NewFirestoreStore returns a store scoped to workspace. newID generates the
// ids of created documents.
func NewFirestoreStore(client *firestore.Client, workspace string, newID func() string, log *logger.Logger) *FirestoreStore {
	return &FirestoreStore{
		client:    client,
		workspace: workspace,
		newID:     newID,
		logger:    log,
	}
}

func (s *FirestoreStore) root() string {
	return "workspaces/" + s.workspace
}

func (s *FirestoreStore) collection(name string) *firestore.CollectionRef {
	return s.client.Collection(s.root() + "/" + strings.Trim(name, "/"))
}

func (s *FirestoreStore) docRef(path string) (*firestore.DocumentRef, error) {
	path = strings.Trim(path, "/")
	if path == "" || strings.Count(path, "/")%2 != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return s.client.Doc(s.root() + "/" + path), nil
}

func (s *FirestoreStore) query(q models.Query) firestore.Query {
	fq := s.collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		fq = fq.OrderBy(q.OrderBy, firestore.Asc)
	}
	return fq
}

// SubscribeCollection implements [CollectionSource] with a query snapshot
// listener. Every snapshot is delivered as the full result set.
func (s *FirestoreStore) SubscribeCollection(ctx context.Context, q models.Query, onBatch func([]models.Record), onError func(error)) (CancelFunc, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: empty collection", ErrUnsupportedQuery)
	}

	ctx, cancel := context.WithCancel(ctx)
	it := s.query(q).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if !isStreamEnd(ctx, err) {
					onError(mapGRPCError(err))
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				onError(mapGRPCError(err))
				continue
			}

			records := make([]models.Record, 0, len(docs))
			for _, doc := range docs {
				records = append(records, recordFromSnapshot(q.Collection+"/"+doc.Ref.ID, doc))
			}
			onBatch(records)
		}
	}()

	return CancelFunc(cancel), nil
}

// SubscribeDocument implements [CollectionSource] with a document snapshot
// listener.
func (s *FirestoreStore) SubscribeDocument(ctx context.Context, path string, onValue func(*models.Record), onError func(error)) (CancelFunc, error) {
	ref, err := s.docRef(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	it := ref.Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if !isStreamEnd(ctx, err) {
					onError(mapGRPCError(err))
				}
				return
			}

			if !snap.Exists() {
				onValue(nil)
				continue
			}
			record := recordFromSnapshot(strings.Trim(path, "/"), snap)
			onValue(&record)
		}
	}()

	return CancelFunc(cancel), nil
}

func isStreamEnd(ctx context.Context, err error) bool {
	return errors.Is(err, iterator.Done) ||
		ctx.Err() != nil ||
		status.Code(err) == codes.Canceled
}

func recordFromSnapshot(path string, snap *firestore.DocumentSnapshot) models.Record {
	return models.Record{
		ID:         snap.Ref.ID,
		Path:       path,
		Fields:     snap.Data(),
		UpdateTime: snap.UpdateTime,
	}
}

// WriteBatch implements [DocumentWriter]. Patches are merged into their
// documents inside a single transaction that is attempted exactly once.
func (s *FirestoreStore) WriteBatch(ctx context.Context, patches []models.Patch) error {
	refs := make([]*firestore.DocumentRef, len(patches))
	for i, p := range patches {
		ref, err := s.docRef(p.Path)
		if err != nil {
			return err
		}
		refs[i] = ref
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i, p := range patches {
			if err := tx.Set(refs[i], toFirestoreFields(p.Fields), firestore.MergeAll); err != nil {
				return err
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err != nil {
		return fmt.Errorf("error writing batch of %d patches: %w", len(patches), mapGRPCError(err))
	}

	return nil
}

// Create implements [DocumentWriter].
func (s *FirestoreStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := s.newID()
	_, err := s.collection(collection).Doc(id).Create(ctx, toFirestoreFields(fields))
	if err != nil {
		return "", fmt.Errorf("error creating document in %s: %w", collection, mapGRPCError(err))
	}

	return id, nil
}

// Delete implements [DocumentWriter].
func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	ref, err := s.docRef(path)
	if err != nil {
		return err
	}

	if _, err = ref.Delete(ctx); err != nil {
		return fmt.Errorf("error deleting %s: %w", path, mapGRPCError(err))
	}

	return nil
}

func toFirestoreFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == models.ServerTimestamp {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
