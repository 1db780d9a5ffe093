// Package countqueries provides the read-only per-locality counts shown on
// locality dashboards and delete confirmations.
package countqueries

import (
	"context"

	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Summary holds the counts for one locality.
type Summary struct {
	BarangayID primitive.ObjectID `json:"barangay_id"`

	Profiles int64 `json:"profiles"`
	Reports  int64 `json:"reports"`

	// Members is the sum of member_count over the locality's reports. It can
	// differ from the true number of linked profiles when counters drifted.
	Members int64 `json:"members"`

	// Orphaned counts profiles whose report no longer exists.
	Orphaned int64 `json:"orphaned"`

	ReportsByStatus  map[models.ReportStatus]int64 `json:"reports_by_status"`
	BySex            map[string]int64              `json:"by_sex"`
	ByClassification map[string]int64              `json:"by_classification"`
	ByAgeGroup       map[string]int64              `json:"by_age_group"`
}

// HasDependents reports whether anything still references the locality.
func (s Summary) HasDependents() bool { return s.Profiles > 0 || s.Reports > 0 }

type bucket struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type total struct {
	Count int64 `bson:"count"`
}

func first(t []total) int64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].Count
}

func toMap(rows []bucket) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Key] = r.Count
	}
	return m
}

func groupBy(field string) []bson.M {
	return []bson.M{{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}}
}

// LocalitySummary counts a locality's profiles (in total and by sex, youth
// classification and age group) and its reports (by status), and flags
// profiles left pointing at deleted reports.
func LocalitySummary(ctx context.Context, db *mongo.Database, barangayID primitive.ObjectID) (Summary, error) {
	out := Summary{BarangayID: barangayID}

	pipeline := []bson.M{
		{"$match": bson.M{"barangay_id": barangayID}},
		{"$facet": bson.M{
			"total":          []bson.M{{"$count": "count"}},
			"sex":            groupBy("sex"),
			"classification": groupBy("youth_classification"),
			"age_group":      groupBy("youth_age_group"),
			"orphaned": []bson.M{
				{"$match": bson.M{"report_id": bson.M{"$exists": true}}},
				{"$lookup": bson.M{
					"from":         "reports",
					"localField":   "report_id",
					"foreignField": "_id",
					"as":           "report",
				}},
				{"$match": bson.M{"report": bson.M{"$size": 0}}},
				{"$count": "count"},
			},
		}},
	}

	cur, err := db.Collection("profiles").Aggregate(ctx, pipeline)
	if err != nil {
		return out, storeerr.Wrap("counts.locality_summary", err)
	}
	var facets []struct {
		Total          []total  `bson:"total"`
		Sex            []bucket `bson:"sex"`
		Classification []bucket `bson:"classification"`
		AgeGroup       []bucket `bson:"age_group"`
		Orphaned       []total  `bson:"orphaned"`
	}
	err = cur.All(ctx, &facets)
	if err != nil {
		return out, storeerr.Wrap("counts.locality_summary", err)
	}
	if len(facets) == 1 {
		f := facets[0]
		out.Profiles = first(f.Total)
		out.Orphaned = first(f.Orphaned)
		out.BySex = toMap(f.Sex)
		out.ByClassification = toMap(f.Classification)
		out.ByAgeGroup = toMap(f.AgeGroup)
	}

	// Reports by status, with the summed member counts.
	rcur, err := db.Collection("reports").Aggregate(ctx, []bson.M{
		{"$match": bson.M{"barangay_id": barangayID}},
		{"$group": bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"members": bson.M{"$sum": "$member_count"},
		}},
	})
	if err != nil {
		return out, storeerr.Wrap("counts.locality_summary", err)
	}
	defer rcur.Close(ctx)

	out.ReportsByStatus = make(map[models.ReportStatus]int64)
	for rcur.Next(ctx) {
		var row struct {
			Status  models.ReportStatus `bson:"_id"`
			Count   int64               `bson:"count"`
			Members int64               `bson:"members"`
		}
		if err := rcur.Decode(&row); err != nil {
			return out, storeerr.Wrap("counts.locality_summary", err)
		}
		out.ReportsByStatus[row.Status] = row.Count
		out.Reports += row.Count
		out.Members += row.Members
	}
	if err := rcur.Err(); err != nil {
		return out, storeerr.Wrap("counts.locality_summary", err)
	}

	if out.BySex == nil {
		out.BySex = map[string]int64{}
		out.ByClassification = map[string]int64{}
		out.ByAgeGroup = map[string]int64{}
	}
	return out, nil
}

// ProfilesPerLocality returns the number of profiles held by each locality
// that has any.
func ProfilesPerLocality(ctx context.Context, db *mongo.Database) (map[primitive.ObjectID]int64, error) {
	result := make(map[primitive.ObjectID]int64)

	cur, err := db.Collection("profiles").Aggregate(ctx, []bson.M{
		{"$group": bson.M{"_id": "$barangay_id", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, storeerr.Wrap("counts.profiles_per_locality", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, storeerr.Wrap("counts.profiles_per_locality", err)
		}
		result[row.ID] = row.Count
	}
	return result, storeerr.Wrap("counts.profiles_per_locality", cur.Err())
}
