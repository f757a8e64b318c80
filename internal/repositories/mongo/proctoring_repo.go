package mongo

import (
	"context"
	"time"

	"github.com/yoockh/skillproctor/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProctoringCollection = "proctoring_events"

// ProctoringRepository is append-only apart from candidate deletion and reset.
type ProctoringRepository interface {
	Insert(ctx context.Context, e *models.ProctoringEvent) error
	ListByCandidate(ctx context.Context, candidateID string) ([]models.ProctoringEvent, error)
	DeleteByCandidate(ctx context.Context, candidateID string) error
	DeleteAll(ctx context.Context) error
}

type proctoringRepo struct {
	col *mongo.Collection
}

func NewProctoringRepo(db *mongo.Database) ProctoringRepository {
	return &proctoringRepo{col: db.Collection(ProctoringCollection)}
}

func (r *proctoringRepo) Insert(ctx context.Context, e *models.ProctoringEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

// ListByCandidate returns newest first.
func (r *proctoringRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.ProctoringEvent, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"candidate_id": candidateID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ProctoringEvent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *proctoringRepo) DeleteByCandidate(ctx context.Context, candidateID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"candidate_id": candidateID})
	return err
}

func (r *proctoringRepo) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}
