package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

const collectionApplications = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

// Create inserts the application. The unique (job_seeker, session) index is
// the authoritative duplicate guard: a concurrent double-submit surfaces here
// as a duplicate key error no matter how the requests interleave.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateApplication
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return a, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Application
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) FindPair(ctx context.Context, jobSeekerID, sessionID string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Application
	err := r.col.FindOne(ctx, bson.M{"job_seeker": jobSeekerID, "session": sessionID}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application pair: %w", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) FindByJobSeeker(ctx context.Context, jobSeekerID string, filter ports.ApplicationsFilter) ([]*domain.Application, error) {
	query := bson.M{"job_seeker": jobSeekerID}
	applyStatusFilter(query, filter.Status)
	return r.find(ctx, query, filter)
}

func (r *ApplicationRepository) FindBySessions(ctx context.Context, sessionIDs []string, filter ports.ApplicationsFilter) ([]*domain.Application, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	query := bson.M{"session": bson.M{"$in": sessionIDs}}
	applyStatusFilter(query, filter.Status)
	return r.find(ctx, query, filter)
}

func (r *ApplicationRepository) find(ctx context.Context, query bson.M, filter ports.ApplicationsFilter) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(applicationSort(filter.Sort))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []*domain.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"session": sessionID}); err != nil {
		return fmt.Errorf("delete session applications: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique pair index plus the listing indexes.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_seeker", Value: 1}, {Key: "session", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "session", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "job_seeker", Value: 1}, {Key: "date_applied", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func applyStatusFilter(query bson.M, status string) {
	if status != "" && status != "All" {
		query["status"] = status
	}
}

func applicationSort(sort string) bson.D {
	if sort == "dateApplied" {
		return bson.D{{Key: "date_applied", Value: 1}}
	}
	return bson.D{{Key: "date_applied", Value: -1}}
}
