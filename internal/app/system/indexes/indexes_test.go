package indexes

import (
	"testing"

	"github.com/dalemusser/skprofiles/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	want := map[string][]string{
		"localities": {"idx_localities_province_nameci", "idx_localities_nameci"},
		"reports":    {"idx_reports_barangay_createdat"},
		"profiles":   {"idx_profiles_barangay_name_id", "idx_profiles_report_name_id"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_ReusesIndexUnderOtherName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("reports").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "barangay_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("legacy_reports_idx"),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexNames(t, db, "reports")
	if !got["legacy_reports_idx"] {
		t.Error("legacy index should be kept")
	}
	if got["idx_reports_barangay_createdat"] {
		t.Error("duplicate index should not be created")
	}
}

func TestKeySig(t *testing.T) {
	d := bson.D{{Key: "a", Value: int32(1)}, {Key: "b", Value: int64(-1)}, {Key: "c", Value: 1.0}}
	if got := keySig(d); got != "a:1,b:-1,c:1" {
		t.Errorf("keySig = %q", got)
	}
}

func TestSameBoolPtr(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		a, b *bool
		want bool
	}{
		{nil, nil, true},
		{nil, &no, true},
		{&yes, nil, false},
		{&yes, &yes, true},
	}
	for _, c := range cases {
		if got := sameBoolPtr(c.a, c.b); got != c.want {
			t.Errorf("sameBoolPtr(%v, %v) = %v", c.a, c.b, got)
		}
	}
}
