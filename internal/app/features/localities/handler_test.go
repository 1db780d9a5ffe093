package localities_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/skprofiles/internal/app/features/localities"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/dalemusser/skprofiles/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*localities.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return localities.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestHandleCreate_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	body := map[string]string{"name": "  Barangay   Uno ", "province": "Laguna", "city": "Calamba"}
	req := testutil.WithUser(testutil.JSONRequest(t, "POST", "/localities", body), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var loc models.Locality
	testutil.DecodeJSON(t, rec, &loc)
	if loc.Name != "Barangay Uno" {
		t.Errorf("name: got %q", loc.Name)
	}
	if loc.CreatedBy == "" {
		t.Error("expected created_by")
	}
}

func TestHandleCreate_RequiresName(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/localities", map[string]string{"province": "Laguna"}))
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestServeList_ByProvince(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateLocality(ctx, "Uno", "Laguna")
	fx.CreateLocality(ctx, "Dos", "Laguna")
	fx.CreateLocality(ctx, "Tres", "Batangas")

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/localities?province=Laguna", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var locs []models.Locality
	testutil.DecodeJSON(t, rec, &locs)
	if len(locs) != 2 || locs[0].Name != "Dos" {
		t.Errorf("got %+v", locs)
	}

	rec = httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest("GET", "/localities", nil))
	testutil.DecodeJSON(t, rec, &locs)
	if len(locs) != 3 {
		t.Errorf("list all: got %d", len(locs))
	}
}

func TestHandleEditAndView(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	loc := fx.CreateLocality(ctx, "Uno", "Laguna")

	req := testutil.WithURLParam(testutil.JSONRequest(t, "PATCH", "/", map[string]string{"city": "Calamba City"}), "id", loc.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	h.ServeView(rec, testutil.WithURLParam(httptest.NewRequest("GET", "/", nil), "id", loc.ID.Hex()))
	var got models.Locality
	testutil.DecodeJSON(t, rec, &got)
	if got.City != "Calamba City" || got.Name != "Uno" {
		t.Errorf("got %+v", got)
	}
}

func TestServeView_NotFoundAndBadID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeView(rec, testutil.WithURLParam(httptest.NewRequest("GET", "/", nil), "id", primitive.NewObjectID().Hex()))
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = httptest.NewRecorder()
	h.ServeView(rec, testutil.WithURLParam(httptest.NewRequest("GET", "/", nil), "id", "nope"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeSummary_AndDeleteKeepsDependents(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	loc := fx.CreateLocality(ctx, "Uno", "Laguna")
	rep := fx.CreateReport(ctx, "Roster", loc.ID)
	p := testutil.NewProfile(loc.ID, "Reyes", "Ana")
	p.ReportID = &rep.ID
	fx.CreateProfile(ctx, p)

	rec := httptest.NewRecorder()
	h.ServeSummary(rec, testutil.WithURLParam(httptest.NewRequest("GET", "/", nil), "id", loc.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var sum struct {
		Profiles      int64 `json:"profiles"`
		Reports       int64 `json:"reports"`
		HasDependents bool  `json:"has_dependents"`
	}
	testutil.DecodeJSON(t, rec, &sum)
	if sum.Profiles != 1 || sum.Reports != 1 || !sum.HasDependents {
		t.Errorf("summary: %+v", sum)
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, testutil.WithURLParam(httptest.NewRequest("DELETE", "/", nil), "id", loc.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	n, err := fx.DB().Collection("profiles").CountDocuments(ctx, bson.M{"barangay_id": loc.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("profiles must survive locality delete, got %d", n)
	}
}
