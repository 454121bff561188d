package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

const collectionSessions = "sessions"

type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions)}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Session
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) FindByOrganization(ctx context.Context, orgID string, sort string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"organization": orgID}, options.Find().SetSort(sortSpec(sort)))
	if err != nil {
		return nil, fmt.Errorf("find organization sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Counter fields are owned by ApplyStatusCounters; a document edit must
	// not overwrite them with stale values.
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
		"title":                 s.Title,
		"description":           s.Description,
		"start_date":            s.StartDate,
		"end_date":              s.EndDate,
		"registration_deadline": s.RegistrationDeadline,
		"capacity":              s.Capacity,
		"status":                s.Status,
		"is_private":            s.IsPrivate,
		"location":              s.Location,
		"tags":                  s.Tags,
		"updated_at":            s.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ApplyStatusCounters runs the counter patch as a single conditional update.
// A guarded patch carries the capacity check inside the update filter, so the
// compare and the increment are one atomic step on the server; two racing
// approvals on the last free slot cannot both match.
func (r *SessionRepository) ApplyStatusCounters(ctx context.Context, sessionID string, patch ports.StatusCounterPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inc := bson.M{}
	if patch.CurrentDelta != 0 {
		inc["current_applications"] = patch.CurrentDelta
	}
	for key, delta := range patch.StatsDelta {
		if delta != 0 {
			inc["applicant_stats."+key] = delta
		}
	}
	if len(inc) == 0 {
		return nil
	}

	filter := bson.M{"_id": sessionID}
	if patch.GuardCapacity {
		filter["$expr"] = bson.M{"$lt": bson.A{"$current_applications", "$capacity"}}
	}

	result, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": inc})
	if err != nil {
		return fmt.Errorf("apply status counters: %w", err)
	}
	if result.MatchedCount == 0 {
		if !patch.GuardCapacity {
			return domain.ErrSessionNotFound
		}
		// Guarded miss: either the session is gone or it is full.
		if err := r.col.FindOne(ctx, bson.M{"_id": sessionID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrSessionNotFound
			}
			return fmt.Errorf("apply status counters: %w", err)
		}
		return domain.ErrCapacityExceeded
	}
	return nil
}

func (r *SessionRepository) FindDiscoverable(ctx context.Context, filter ports.DiscoverFilter) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"is_private":            false,
		"status":                domain.SessionActive,
		"registration_deadline": bson.M{"$gte": filter.Now},
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexQuote(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}
	startRange := bson.M{}
	if !filter.StartFrom.IsZero() {
		startRange["$gte"] = filter.StartFrom
	}
	if !filter.StartTo.IsZero() {
		startRange["$lte"] = filter.StartTo
	}
	if len(startRange) > 0 {
		query["start_date"] = startRange
	}
	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexQuote(filter.Location), Options: "i"}
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(sortSpec(filter.Sort)))
	if err != nil {
		return nil, fmt.Errorf("find discoverable sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) FindUpcoming(ctx context.Context, ids []string, from, to time.Time) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{
		"_id":        bson.M{"$in": ids},
		"status":     domain.SessionActive,
		"start_date": bson.M{"$gt": from, "$lte": to},
	})
	if err != nil {
		return nil, fmt.Errorf("find upcoming sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*domain.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

// EnsureIndexes creates indexes backing the discovery and ownership queries.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_private", Value: 1}, {Key: "registration_deadline", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "start_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// regexQuote escapes user input before it is embedded in a $regex match.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}

// sortSpec maps the API sort names onto index-backed sort documents.
func sortSpec(sort string) bson.D {
	switch sort {
	case "createdAt":
		return bson.D{{Key: "created_at", Value: 1}}
	case "startDate":
		return bson.D{{Key: "start_date", Value: 1}}
	case "-startDate":
		return bson.D{{Key: "start_date", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
