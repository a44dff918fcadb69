// Package mongo provides the MongoDB-backed collection store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/observability/metrics"
	"voice-note-router-service/internal/store"
)

// Collection names.
const (
	CollectionNotes   = "notes"
	CollectionTodos   = "todos"
	CollectionFolders = "folders"
)

// folderDoc adds the case-folded name used by the unique dedup index.
type folderDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	NameFolded string    `bson:"nameFolded"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// Store implements store.Store on top of MongoDB.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	metrics *metrics.Metrics
}

// New connects to MongoDB, verifies the connection, and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	s := &Store{
		client:  client,
		db:      client.Database(dbName),
		metrics: metrics.DefaultMetrics,
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique folder-name index. The index narrows the
// check-then-create race in folder resolution; it does not eliminate it
// (see CreateFolder).
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(CollectionFolders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "nameFolded", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create folder name index: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ListFolders returns the full current folder set.
func (s *Store) ListFolders(ctx context.Context) ([]models.Folder, error) {
	start := time.Now()

	cur, err := s.db.Collection(CollectionFolders).Find(ctx, bson.M{})
	if err != nil {
		s.metrics.RecordStoreOp(CollectionFolders, "list", err, time.Since(start).Seconds())
		return nil, &store.StoreError{Collection: CollectionFolders, Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	var docs []folderDoc
	if err := cur.All(ctx, &docs); err != nil {
		s.metrics.RecordStoreOp(CollectionFolders, "list", err, time.Since(start).Seconds())
		return nil, &store.StoreError{Collection: CollectionFolders, Op: "list", Err: err}
	}

	folders := make([]models.Folder, 0, len(docs))
	for _, d := range docs {
		folders = append(folders, models.Folder{ID: d.ID, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	s.metrics.RecordStoreOp(CollectionFolders, "list", nil, time.Since(start).Seconds())
	return folders, nil
}

// CreateFolder creates a folder preserving the caller's casing. If a
// concurrent resolution already created the same name (unique index on the
// folded name), the existing folder's id is returned instead of an error.
func (s *Store) CreateFolder(ctx context.Context, name string) (string, error) {
	start := time.Now()

	doc := folderDoc{
		ID:         uuid.NewString(),
		Name:       name,
		NameFolded: strings.ToLower(name),
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.Collection(CollectionFolders).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		var existing folderDoc
		findErr := s.db.Collection(CollectionFolders).
			FindOne(ctx, bson.M{"nameFolded": doc.NameFolded}).
			Decode(&existing)
		s.metrics.RecordStoreOp(CollectionFolders, "create", findErr, time.Since(start).Seconds())
		if findErr != nil {
			return "", &store.StoreError{Collection: CollectionFolders, Op: "create", Err: findErr}
		}
		return existing.ID, nil
	}
	s.metrics.RecordStoreOp(CollectionFolders, "create", err, time.Since(start).Seconds())
	if err != nil {
		return "", &store.StoreError{Collection: CollectionFolders, Op: "create", Err: err}
	}
	return doc.ID, nil
}

// CreateTodo creates an open todo.
func (s *Store) CreateTodo(ctx context.Context, text string) (string, error) {
	start := time.Now()

	todo := models.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Collection(CollectionTodos).InsertOne(ctx, todo)
	s.metrics.RecordStoreOp(CollectionTodos, "create", err, time.Since(start).Seconds())
	if err != nil {
		return "", &store.StoreError{Collection: CollectionTodos, Op: "create", Err: err}
	}
	return todo.ID, nil
}

// CreatePlaceholder creates a provisional note holding sentinel content.
func (s *Store) CreatePlaceholder(ctx context.Context) (string, error) {
	start := time.Now()

	note := models.Note{
		ID:        uuid.NewString(),
		Content:   models.PlaceholderContent,
		Pending:   true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Collection(CollectionNotes).InsertOne(ctx, note)
	s.metrics.RecordStoreOp(CollectionNotes, "createPlaceholder", err, time.Since(start).Seconds())
	if err != nil {
		return "", &store.StoreError{Collection: CollectionNotes, Op: "createPlaceholder", Err: err}
	}
	return note.ID, nil
}

// GetNote returns the note record for id.
func (s *Store) GetNote(ctx context.Context, id string) (models.Note, error) {
	start := time.Now()

	var note models.Note
	err := s.db.Collection(CollectionNotes).FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = store.ErrNotFound
	}
	s.metrics.RecordStoreOp(CollectionNotes, "get", err, time.Since(start).Seconds())
	if err != nil {
		return models.Note{}, &store.StoreError{Collection: CollectionNotes, Op: "get", Err: err}
	}
	return note, nil
}

// FinalizeNote transitions a placeholder out of its provisional state.
func (s *Store) FinalizeNote(ctx context.Context, id string, fin models.NoteFinalization) error {
	start := time.Now()

	set := bson.M{
		"content": fin.Content,
		"type":    fin.Type,
		"pending": false,
	}
	update := bson.M{"$set": set}
	if fin.FolderID != "" {
		set["folderId"] = fin.FolderID
	} else {
		update["$unset"] = bson.M{"folderId": ""}
	}

	res, err := s.db.Collection(CollectionNotes).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err == nil && res.MatchedCount == 0 {
		err = store.ErrNotFound
	}
	s.metrics.RecordStoreOp(CollectionNotes, "finalize", err, time.Since(start).Seconds())
	if err != nil {
		return &store.StoreError{Collection: CollectionNotes, Op: "finalize", Err: err}
	}
	return nil
}

// DeleteNote removes a note record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	start := time.Now()

	res, err := s.db.Collection(CollectionNotes).DeleteOne(ctx, bson.M{"_id": id})
	if err == nil && res.DeletedCount == 0 {
		err = store.ErrNotFound
	}
	s.metrics.RecordStoreOp(CollectionNotes, "delete", err, time.Since(start).Seconds())
	if err != nil {
		return &store.StoreError{Collection: CollectionNotes, Op: "delete", Err: err}
	}
	return nil
}
