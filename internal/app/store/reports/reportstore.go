// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/system/metrics"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/txn"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection is the MongoDB collection holding reports.
const Collection = "reports"

// Store persists reports. member_count is never written here except by
// ReconcileMemberCount; the profile store owns it.
type Store struct {
	db       *mongo.Database
	c        *mongo.Collection
	profiles *mongo.Collection
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		c:        db.Collection(Collection),
		profiles: db.Collection("profiles"),
		log:      logger,
	}
}

// WithMetrics attaches collectors and returns s.
func (s *Store) WithMetrics(m *metrics.Metrics) *Store {
	s.metrics = m
	return s
}

// Create stores a new, empty report at version 1. An empty status is stored
// as draft.
func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.MemberCount = 0
	r.Version = 1
	if r.Status == "" {
		r.Status = models.StatusDraft
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, storeerr.Wrap("reports.create", err)
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	var r models.Report
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.Report{}, storeerr.NotFound("report", id.Hex())
	}
	if err != nil {
		return models.Report{}, storeerr.Wrap("reports.get", err)
	}
	return r, nil
}

// Update merges p into the report and increments version by one, even when
// p sets nothing. Concurrent updates are not merged: the last write wins per
// field, and each caller can compare the returned version with the one it
// read to detect that another writer got in between.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.ReportPatch) (models.Report, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Quarter != nil {
		set["quarter"] = *p.Quarter
	}
	if p.Year != nil {
		set["year"] = *p.Year
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return s.apply(ctx, "reports.update", id, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
}

// SetStatus is Update restricted to the status field. It does not check the
// draft → generated → submitted order; see reportpolicy for that.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (models.Report, error) {
	return s.Update(ctx, id, models.ReportPatch{Status: &status})
}

func (s *Store) apply(ctx context.Context, op string, id primitive.ObjectID, update bson.M) (models.Report, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.Report
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.Report{}, storeerr.NotFound("report", id.Hex())
	}
	if err != nil {
		return models.Report{}, storeerr.Wrap(op, err)
	}
	return r, nil
}

// ListByLocality returns a locality's reports, most recently created first.
func (s *Store) ListByLocality(ctx context.Context, barangayID primitive.ObjectID) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"barangay_id": barangayID}, opts)
	if err != nil {
		return nil, storeerr.Wrap("reports.list_by_locality", err)
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeerr.Wrap("reports.list_by_locality", err)
	}
	return out, nil
}

// CountByLocality returns the number of reports a locality owns.
func (s *Store) CountByLocality(ctx context.Context, barangayID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"barangay_id": barangayID})
	return n, storeerr.Wrap("reports.count_by_locality", err)
}

// Delete removes the report only. Profiles keep their report_id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeerr.Wrap("reports.delete", err)
	}
	if res.DeletedCount == 0 {
		return storeerr.NotFound("report", id.Hex())
	}
	return nil
}

// ReconcileMemberCount recomputes member_count from the profiles collection
// in one transaction and bumps version. It returns the report after the fix
// and the drift (true count minus stored count).
func (s *Store) ReconcileMemberCount(ctx context.Context, id primitive.ObjectID) (models.Report, int, error) {
	var (
		out   models.Report
		drift int
	)
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		before, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := s.profiles.CountDocuments(ctx, bson.M{"report_id": id})
		if err != nil {
			return err
		}
		out, err = s.apply(ctx, "reports.reconcile", id, bson.M{
			"$set": bson.M{"member_count": int(n), "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		})
		if err != nil {
			return err
		}
		drift = int(n) - before.MemberCount
		return nil
	})
	if err != nil {
		return models.Report{}, 0, storeerr.Wrap("reports.reconcile", err)
	}
	s.metrics.Reconciled(drift)
	return out, drift, nil
}
