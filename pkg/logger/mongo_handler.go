package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHandler is a slog.Handler that batches records into a MongoDB
// collection off the request path. Records are queued without blocking;
// when the queue is full they are dropped, because logging must never
// stall a handler. A background goroutine flushes batches every couple
// of seconds or when a batch fills, whichever comes first.
type MongoHandler struct {
	col    *mongo.Collection
	client *mongo.Client
	queue  chan logEntry
	done   chan struct{}
	bound  []slog.Attr
}

type logEntry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

const (
	sinkQueueCap  = 4096
	sinkBatchCap  = 50
	sinkFlushTick = 2 * time.Second
)

// NewMongoHandler connects to uri and streams records into db.collection.
// Callers own the handler and must Close it on shutdown.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	h := &MongoHandler{
		col:    col,
		client: client,
		queue:  make(chan logEntry, sinkQueueCap),
		done:   make(chan struct{}),
	}
	go h.flushLoop()
	return h, nil
}

func (h *MongoHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	entry := logEntry{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	for _, a := range h.bound {
		entry.absorb(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.absorb(a)
		return true
	})

	select {
	case h.queue <- entry:
	default: // full queue: drop rather than block
	}
	return nil
}

func (e *logEntry) absorb(a slog.Attr) {
	if a.Key == "request_id" {
		e.RequestID = a.Value.String()
		return
	}
	e.Attrs[a.Key] = a.Value.Any()
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.bound = append(append([]slog.Attr{}, h.bound...), attrs...)
	return &child
}

// WithGroup flattens groups; the Mongo document is already nested per
// record, so grouped keys gain a prefix instead of a sub-document.
func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.bound = append(append([]slog.Attr{}, h.bound...),
		slog.String("group", name))
	return &child
}

func (h *MongoHandler) flushLoop() {
	tick := time.NewTicker(sinkFlushTick)
	defer tick.Stop()

	batch := make([]interface{}, 0, sinkBatchCap)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-h.queue:
			batch = append(batch, entry)
			if len(batch) >= sinkBatchCap {
				flush()
			}
		case <-tick.C:
			flush()
		case <-h.done:
			for {
				select {
				case entry := <-h.queue:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close drains the queue, flushes, and disconnects. Safe to call twice.
func (h *MongoHandler) Close() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.client.Disconnect(ctx)
}

// fanout duplicates each record to every member handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
