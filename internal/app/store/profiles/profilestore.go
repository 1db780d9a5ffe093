// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/system/metrics"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/txn"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	// Collection is the MongoDB collection holding profiles.
	Collection = "profiles"

	// MaxChunk is the largest group of writes committed in one transaction.
	MaxChunk = 100

	// SearchLimit caps SearchByNamePrefix results.
	SearchLimit = 20
)

// Store persists profiles and owns the member_count counter on reports.
// Every path that adds or removes a profile linked to a report adjusts the
// counter in the same transaction.
type Store struct {
	db        *mongo.Database
	c         *mongo.Collection
	reports   *mongo.Collection
	log       *zap.Logger
	metrics   *metrics.Metrics
	chunkSize int
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:        db,
		c:         db.Collection(Collection),
		reports:   db.Collection("reports"),
		log:       logger,
		chunkSize: MaxChunk,
	}
}

// WithMetrics attaches collectors and returns s.
func (s *Store) WithMetrics(m *metrics.Metrics) *Store {
	s.metrics = m
	return s
}

// WithChunkSize sets the bulk-import chunk size, clamped to [1, MaxChunk].
func (s *Store) WithChunkSize(n int) *Store {
	switch {
	case n < 1:
		n = 1
	case n > MaxChunk:
		n = MaxChunk
	}
	s.chunkSize = n
	return s
}

// ChunkSize returns the bulk-import chunk size in effect.
func (s *Store) ChunkSize() int { return s.chunkSize }

// Create inserts p with a fresh id and server timestamps. When p is linked to
// a report, the report's member_count is incremented in the same transaction;
// a missing report aborts the create with a not-found error.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if !p.AttendedKKAssembly {
		p.AssemblyFrequency = nil
	}

	if p.ReportID == nil {
		if _, err := s.c.InsertOne(ctx, p); err != nil {
			return models.Profile{}, storeerr.Wrap("profiles.create", err)
		}
		s.metrics.ProfileCreated()
		return p, nil
	}

	// Insert first so that, without a transaction, a failed increment can be
	// undone by removing the profile.
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, p); err != nil {
			return err
		}
		res, err := s.reports.UpdateOne(ctx,
			bson.M{"_id": *p.ReportID},
			bson.M{
				"$inc": bson.M{"member_count": 1},
				"$set": bson.M{"updated_at": now},
			},
		)
		if err == nil && res.MatchedCount == 0 {
			err = storeerr.NotFound("report", p.ReportID.Hex())
		}
		if err != nil {
			s.undo(ctx, "profiles.create", func() error {
				_, derr := s.c.DeleteOne(ctx, bson.M{"_id": p.ID})
				return derr
			})
			return err
		}
		return nil
	})
	if err != nil {
		return models.Profile{}, storeerr.Wrap("profiles.create", err)
	}
	s.metrics.ProfileCreated()
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, storeerr.NotFound("profile", id.Hex())
	}
	if err != nil {
		return models.Profile{}, storeerr.Wrap("profiles.get", err)
	}
	return p, nil
}

var byName = bson.D{
	{Key: "last_name", Value: 1},
	{Key: "first_name", Value: 1},
	{Key: "_id", Value: 1},
}

// ListByLocality returns a locality's profiles ordered by last then first
// name, compared as stored.
func (s *Store) ListByLocality(ctx context.Context, barangayID primitive.ObjectID) ([]models.Profile, error) {
	return s.list(ctx, "profiles.list_by_locality", bson.M{"barangay_id": barangayID}, options.Find().SetSort(byName))
}

// ListByReport returns a report's profiles in the same order as ListByLocality.
func (s *Store) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.Profile, error) {
	return s.list(ctx, "profiles.list_by_report", bson.M{"report_id": reportID}, options.Find().SetSort(byName))
}

// SearchByNamePrefix returns at most SearchLimit profiles in the locality
// whose last name falls in [prefix, prefix+"\uffff"). It is a case-sensitive
// prefix match on last name, not a text search.
func (s *Store) SearchByNamePrefix(ctx context.Context, barangayID primitive.ObjectID, prefix string) ([]models.Profile, error) {
	filter := bson.M{
		"barangay_id": barangayID,
		"last_name":   bson.M{"$gte": prefix, "$lt": prefix + "\uffff"},
	}
	opts := options.Find().SetSort(byName).SetLimit(SearchLimit)
	return s.list(ctx, "profiles.search", filter, opts)
}

func (s *Store) list(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]models.Profile, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeerr.Wrap(op, err)
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeerr.Wrap(op, err)
	}
	return out, nil
}

// CountByReport counts the profiles that currently reference reportID.
func (s *Store) CountByReport(ctx context.Context, reportID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"report_id": reportID})
	return n, storeerr.Wrap("profiles.count_by_report", err)
}

// Update merges the non-nil fields of p and refreshes updated_at. Linkage
// and counters are never touched. Marking the profile as not having attended
// the assembly clears assembly_frequency.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.ProfilePatch) (models.Profile, error) {
	set := patchFields(p)
	set["updated_at"] = time.Now().UTC()

	update := bson.M{"$set": set}
	if p.AttendedKKAssembly != nil && !*p.AttendedKKAssembly {
		delete(set, "assembly_frequency")
		update["$unset"] = bson.M{"assembly_frequency": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Profile
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, storeerr.NotFound("profile", id.Hex())
	}
	if err != nil {
		return models.Profile{}, storeerr.Wrap("profiles.update", err)
	}
	return out, nil
}

func patchFields(p models.ProfilePatch) bson.M {
	set := bson.M{}
	put := func(key string, ok bool, v any) {
		if ok {
			set[key] = v
		}
	}
	put("last_name", p.LastName != nil, deref(p.LastName))
	put("first_name", p.FirstName != nil, deref(p.FirstName))
	put("middle_name", p.MiddleName != nil, deref(p.MiddleName))
	put("suffix", p.Suffix != nil, deref(p.Suffix))
	put("age", p.Age != nil, deref(p.Age))
	put("birth_month", p.BirthMonth != nil, deref(p.BirthMonth))
	put("birth_day", p.BirthDay != nil, deref(p.BirthDay))
	put("birth_year", p.BirthYear != nil, deref(p.BirthYear))
	put("sex", p.Sex != nil, deref(p.Sex))
	put("civil_status", p.CivilStatus != nil, deref(p.CivilStatus))
	put("youth_classification", p.YouthClassification != nil, deref(p.YouthClassification))
	put("youth_age_group", p.YouthAgeGroup != nil, deref(p.YouthAgeGroup))
	put("email", p.Email != nil, deref(p.Email))
	put("phone", p.Phone != nil, deref(p.Phone))
	put("region", p.Region != nil, deref(p.Region))
	put("province", p.Province != nil, deref(p.Province))
	put("city", p.City != nil, deref(p.City))
	put("barangay", p.Barangay != nil, deref(p.Barangay))
	put("zone", p.Zone != nil, deref(p.Zone))
	put("home_address", p.HomeAddress != nil, deref(p.HomeAddress))
	put("educational_attainment", p.EducationalAttainment != nil, deref(p.EducationalAttainment))
	put("work_status", p.WorkStatus != nil, deref(p.WorkStatus))
	put("registered_sk_voter", p.RegisteredSKVoter != nil, deref(p.RegisteredSKVoter))
	put("voted_last_sk_election", p.VotedLastSKElection != nil, deref(p.VotedLastSKElection))
	put("registered_national_voter", p.RegisteredNationalVoter != nil, deref(p.RegisteredNationalVoter))
	put("attended_kk_assembly", p.AttendedKKAssembly != nil, deref(p.AttendedKKAssembly))
	put("assembly_frequency", p.AssemblyFrequency != nil, deref(p.AssemblyFrequency))
	put("signature", p.Signature != nil, deref(p.Signature))
	return set
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Delete removes the profile and, in the same transaction, decrements the
// member_count of the report it belongs to. A missing profile is reported as
// not found and no counter changes.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var p models.Profile
		err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
		if err == mongo.ErrNoDocuments {
			return storeerr.NotFound("profile", id.Hex())
		}
		if err != nil {
			return err
		}
		if p.ReportID == nil {
			return nil
		}
		res, err := s.reports.UpdateOne(ctx,
			bson.M{"_id": *p.ReportID, "member_count": bson.M{"$gt": 0}},
			bson.M{
				"$inc": bson.M{"member_count": -1},
				"$set": bson.M{"updated_at": time.Now().UTC()},
			},
		)
		if err != nil {
			s.undo(ctx, "profiles.delete", func() error {
				_, ierr := s.c.InsertOne(ctx, p)
				return ierr
			})
			return err
		}
		if res.MatchedCount == 0 {
			// Report is gone or its counter already reads zero; the
			// profile still goes.
			s.log.Warn("member_count not decremented",
				zap.String("profile_id", id.Hex()),
				zap.String("report_id", p.ReportID.Hex()))
		}
		return nil
	})
	if err != nil {
		return storeerr.Wrap("profiles.delete", err)
	}
	s.metrics.ProfileDeleted()
	return nil
}

// ImportResult describes a BulkImport run.
type ImportResult struct {
	ImportID  string               `json:"import_id"`
	Requested int                  `json:"requested"`
	IDs       []primitive.ObjectID `json:"ids"`
	Chunks    int                  `json:"chunks"` // chunks committed

	// FailedChunk is the zero-based index of the chunk that failed, or -1.
	FailedChunk int `json:"failed_chunk"`
}

// Imported returns the number of profiles persisted.
func (r ImportResult) Imported() int { return len(r.IDs) }

// Complete reports whether every requested profile was persisted.
func (r ImportResult) Complete() bool { return r.FailedChunk < 0 && len(r.IDs) == r.Requested }

// BulkImport writes profiles into the report in chunks of at most ChunkSize,
// each chunk in its own transaction, then sets the report's member_count to
// the number imported. The count is an absolute set: importing into a report
// that already has members overwrites the displayed count.
//
// If a chunk fails the import stops there. Profiles from earlier chunks stay
// persisted and their ids are in the result, member_count is set to their
// number, and the chunk's error is returned with the partial result.
func (s *Store) BulkImport(ctx context.Context, reportID, barangayID primitive.ObjectID, profiles []models.Profile) (ImportResult, error) {
	res := ImportResult{
		ImportID:    uuid.NewString(),
		Requested:   len(profiles),
		IDs:         make([]primitive.ObjectID, 0, len(profiles)),
		FailedChunk: -1,
	}
	log := s.log.With(
		zap.String("import_id", res.ImportID),
		zap.String("report_id", reportID.Hex()),
		zap.String("barangay_id", barangayID.Hex()),
	)

	n, err := s.reports.CountDocuments(ctx, bson.M{"_id": reportID})
	if err != nil {
		return res, storeerr.Wrap("profiles.bulk_import", err)
	}
	if n == 0 {
		return res, storeerr.NotFound("report", reportID.Hex())
	}

	start := time.Now()
	defer func() { s.metrics.ImportFinished(time.Since(start).Seconds()) }()
	log.Info("bulk import started", zap.Int("requested", res.Requested), zap.Int("chunk_size", s.chunkSize))

	var chunkErr error
	for i, lo := 0, 0; lo < len(profiles); i, lo = i+1, lo+s.chunkSize {
		hi := min(lo+s.chunkSize, len(profiles))
		ids, err := s.insertChunk(ctx, reportID, barangayID, profiles[lo:hi])
		if err != nil {
			s.metrics.ChunkFailed()
			log.Error("import chunk failed", zap.Int("chunk", i), zap.Error(err))
			res.FailedChunk = i
			chunkErr = storeerr.Wrap(fmt.Sprintf("profiles.bulk_import chunk %d", i), err)
			break
		}
		res.IDs = append(res.IDs, ids...)
		res.Chunks++
		s.metrics.ChunkCommitted(len(ids))
	}

	_, err = s.reports.UpdateOne(ctx,
		bson.M{"_id": reportID},
		bson.M{"$set": bson.M{"member_count": len(res.IDs), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		log.Error("member_count not set after import", zap.Int("imported", len(res.IDs)), zap.Error(err))
		if chunkErr == nil {
			chunkErr = storeerr.Wrap("profiles.bulk_import", err)
		}
	}

	log.Info("bulk import finished",
		zap.Int("imported", len(res.IDs)),
		zap.Int("chunks", res.Chunks),
		zap.Int("failed_chunk", res.FailedChunk))
	return res, chunkErr
}

func (s *Store) insertChunk(ctx context.Context, reportID, barangayID primitive.ObjectID, chunk []models.Profile) ([]primitive.ObjectID, error) {
	now := time.Now().UTC()
	ids := make([]primitive.ObjectID, len(chunk))
	docs := make([]any, len(chunk))
	for i, p := range chunk {
		p.ID = primitive.NewObjectID()
		p.BarangayID = barangayID
		p.ReportID = &reportID
		p.CreatedAt = now
		p.UpdatedAt = now
		if !p.AttendedKKAssembly {
			p.AssemblyFrequency = nil
		}
		ids[i] = p.ID
		docs[i] = p
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		_, err := s.c.InsertMany(ctx, docs)
		if err != nil {
			// An ordered insert may have stored a prefix of the chunk.
			s.undo(ctx, "profiles.bulk_import", func() error {
				_, derr := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
				return derr
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// undo runs a compensating write when fn's writes are not inside a
// transaction. Inside one, the abort already discards them.
func (s *Store) undo(ctx context.Context, op string, fn func() error) {
	if mongo.SessionFromContext(ctx) != nil {
		return
	}
	if err := fn(); err != nil {
		s.log.Error("compensating write failed", zap.String("op", op), zap.Error(err))
	}
}
