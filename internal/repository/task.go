package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lromero/task-manager-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/lromero/task-manager-api/internal/repository")

// taskDoc is the persisted shape of a task. The _id is assigned by the
// driver on insert and never changes.
type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *taskDoc) toModel() *model.Task {
	return &model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
	}
}

// TaskRepository stores tasks in a MongoDB collection.
type TaskRepository struct {
	coll *mongo.Collection
}

// NewTaskRepository creates a TaskRepository backed by the "tasks"
// collection of the given database.
func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection("tasks")}
}

// Create persists a new task. The repository assigns the id and the
// creation timestamp; completed always starts out false.
func (r *TaskRepository) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Create",
		trace.WithAttributes(attribute.String("task.title", req.Title)),
	)
	defer span.End()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}

	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	span.SetAttributes(attribute.String("task.id", doc.ID.Hex()))
	return doc.toModel(), nil
}

// GetByID retrieves a task by its ID. Malformed ids are not special-cased:
// the parse error propagates to the caller like any other lookup failure.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.GetByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse task id: %w", err)
	}

	var doc taskDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetAttributes(attribute.Bool("task.found", false))
			return nil, model.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return doc.toModel(), nil
}

// List returns all tasks, or only those matching the completed filter when
// one is given. Order is whatever the database returns.
func (r *TaskRepository) List(ctx context.Context, completed *bool) ([]*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.List")
	defer span.End()

	filter := bson.M{}
	if completed != nil {
		filter["completed"] = *completed
		span.SetAttributes(attribute.Bool("task.filter.completed", *completed))
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*model.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toModel())
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// Update applies the provided fields to an existing task and returns the
// post-update record. The id and creation timestamp are never touched.
// Blanking the title violates the record invariant and is refused.
func (r *TaskRepository) Update(ctx context.Context, id string, req *model.UpdateTaskRequest) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Update",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse task id: %w", err)
	}

	set := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrTitleRequired
		}
		set["title"] = title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Completed != nil {
		set["completed"] = *req.Completed
	}
	if len(set) == 0 {
		// Nothing to change; behave like a read.
		return r.GetByID(ctx, id)
	}

	var doc taskDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetAttributes(attribute.Bool("task.found", false))
			return nil, model.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return doc.toModel(), nil
}

// Delete removes a task by its ID.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "TaskRepository.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse task id: %w", err)
	}

	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			span.SetAttributes(attribute.Bool("task.found", false))
			return model.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return nil
}

// Count returns the current number of tasks.
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}
