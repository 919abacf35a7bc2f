package repository

import (
	"context"
	"fmt"
	"time"

	"staysync/pkg/config"
	"staysync/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.ScheduledTask) error
	// PendingExists reports whether an undone task with the same name and
	// params is already queued, so schedulers stay idempotent.
	PendingExists(ctx context.Context, name string, params map[string]string) (bool, error)
	FindDue(ctx context.Context, name string, now time.Time, limit int) ([]*model.ScheduledTask, error)
	MarkDone(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id string, runAt time.Time) error
}

type mongoTaskRepository struct {
	cfg   *config.Config
	tasks *mongo.Collection
}

func NewMongoTaskRepository(cfg *config.Config) TaskRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTaskRepository{
		cfg:   cfg,
		tasks: db.Collection(TasksCollection),
	}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *model.ScheduledTask) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create scheduled task: %w", err)
	}
	return nil
}

func (r *mongoTaskRepository) PendingExists(ctx context.Context, name string, params map[string]string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"name": name, "done": false}
	for key, value := range params {
		filter["params."+key] = value
	}

	count, err := r.tasks.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return count > 0, nil
}

func (r *mongoTaskRepository) FindDue(ctx context.Context, name string, now time.Time, limit int) ([]*model.ScheduledTask, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"name": name, "done": false, "run_at": bson.M{"$lte": now}}
	opts := options.Find().
		SetSort(bson.D{{Key: "run_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find due tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*model.ScheduledTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *mongoTaskRepository) MarkDone(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.tasks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"done": true}}); err != nil {
		return fmt.Errorf("failed to mark task done: %w", err)
	}
	return nil
}

func (r *mongoTaskRepository) Reschedule(ctx context.Context, id string, runAt time.Time) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.tasks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"run_at": runAt}}); err != nil {
		return fmt.Errorf("failed to reschedule task: %w", err)
	}
	return nil
}
