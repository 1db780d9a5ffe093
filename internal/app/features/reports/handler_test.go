package reports_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/features/reports"
	localitystore "github.com/dalemusser/skprofiles/internal/app/store/localities"
	profilestore "github.com/dalemusser/skprofiles/internal/app/store/profiles"
	reportstore "github.com/dalemusser/skprofiles/internal/app/store/reports"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/dalemusser/skprofiles/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	h   *reports.Handler
	fx  *testutil.Fixtures
	loc models.Locality
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	h := reports.NewHandler(
		reportstore.New(db, logger),
		profilestore.New(db, logger),
		localitystore.New(db),
		nil,
		logger,
	)
	h.Now = func() time.Time { return time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC) }

	fx := testutil.NewFixtures(t, db)
	return env{h: h, fx: fx, loc: fx.CreateLocality(ctx, "Barangay Uno", "Laguna")}
}

func withID(r *http.Request, id primitive.ObjectID) *http.Request {
	return testutil.WithURLParam(r, "id", id.Hex())
}

func TestHandleCreate(t *testing.T) {
	e := newEnv(t)

	body := map[string]any{"title": "<b>First</b> quarter", "quarter": "q1", "year": 2024, "barangay_id": e.loc.ID.Hex()}
	rec := httptest.NewRecorder()
	e.h.HandleCreate(rec, testutil.WithUser(testutil.JSONRequest(t, "POST", "/reports", body), testutil.OfficialUser()))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var rep models.Report
	testutil.DecodeJSON(t, rec, &rep)
	if rep.Title != "First quarter" {
		t.Errorf("title: got %q", rep.Title)
	}
	if rep.Quarter != models.Q1 || rep.Status != models.StatusDraft {
		t.Errorf("quarter/status: got %q/%q", rep.Quarter, rep.Status)
	}
	if rep.Version != 1 || rep.MemberCount != 0 {
		t.Errorf("version/member_count: got %d/%d", rep.Version, rep.MemberCount)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	e := newEnv(t)

	body := map[string]any{"title": "", "quarter": "Q5", "year": 24}
	rec := httptest.NewRecorder()
	e.h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/reports", body))
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)

	var out struct {
		Fields map[string]string `json:"fields"`
	}
	testutil.DecodeJSON(t, rec, &out)
	for _, f := range []string{"title", "quarter", "year", "barangay_id"} {
		if out.Fields[f] == "" {
			t.Errorf("expected an error for %s, got %v", f, out.Fields)
		}
	}
}

func TestHandleCreate_UnknownLocality(t *testing.T) {
	e := newEnv(t)

	body := map[string]any{"title": "Roster", "quarter": "Q2", "year": 2024, "barangay_id": primitive.NewObjectID().Hex()}
	rec := httptest.NewRecorder()
	e.h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/reports", body))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleEdit_BumpsVersionAndRejectsStatus(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)

	rec := httptest.NewRecorder()
	e.h.HandleEdit(rec, withID(testutil.JSONRequest(t, "PATCH", "/", map[string]any{"title": "Renamed"}), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var out models.Report
	testutil.DecodeJSON(t, rec, &out)
	if out.Version != 2 || out.Title != "Renamed" {
		t.Errorf("got version %d title %q", out.Version, out.Title)
	}

	rec = httptest.NewRecorder()
	e.h.HandleEdit(rec, withID(testutil.JSONRequest(t, "PATCH", "/", map[string]any{"status": "submitted"}), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleStatus(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)

	post := func(status string, user testutil.TestUser) *httptest.ResponseRecorder {
		req := withID(testutil.JSONRequest(t, "POST", "/", map[string]string{"status": status}), rep.ID)
		rec := httptest.NewRecorder()
		e.h.HandleStatus(rec, testutil.WithUser(req, user))
		return rec
	}

	testutil.AssertStatus(t, post("submitted", testutil.OfficialUser()), http.StatusOK)
	testutil.AssertStatus(t, post("draft", testutil.OfficialUser()), http.StatusConflict)
	testutil.AssertStatus(t, post("archived", testutil.OfficialUser()), http.StatusBadRequest)

	rec := post("generated", testutil.AdminUser())
	testutil.AssertStatus(t, rec, http.StatusOK)
	var out models.Report
	testutil.DecodeJSON(t, rec, &out)
	if out.Status != models.StatusGenerated || out.Version != 3 {
		t.Errorf("got status %q version %d", out.Status, out.Version)
	}
}

func TestHandleReconcile(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)
	for _, name := range []string{"Reyes", "Cruz"} {
		p := testutil.NewProfile(e.loc.ID, name, "Ana")
		p.ReportID = &rep.ID
		e.fx.CreateProfile(ctx, p)
	}

	rec := httptest.NewRecorder()
	e.h.HandleReconcile(rec, withID(httptest.NewRequest("POST", "/", nil), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var out struct {
		Report models.Report `json:"report"`
		Drift  int           `json:"drift"`
	}
	testutil.DecodeJSON(t, rec, &out)
	if out.Report.MemberCount != 2 || out.Drift != 2 {
		t.Errorf("member_count %d drift %d", out.Report.MemberCount, out.Drift)
	}
}

const sheet = "Last Name,First Name,Birthdate,Sex,Civil Status,Youth Classification,Region,Province,City,Barangay,Purok,Educational Attainment,Work Status,SK Voter,Voted Last SK Election,Registered National Voter,Attended KK Assembly,Assembly Frequency\n" +
	"Reyes,Ana,2000-06-15,Female,Single,In School Youth,Region IV-A,Laguna,Calamba,Uno,Purok 1,College Level,Unemployed,Yes,No,No,Yes,Once\n" +
	"Cruz,Ben,2003-01-02,Male,Single,Working Youth,Region IV-A,Laguna,Calamba,Uno,Purok 2,High School Grad,Employed,Yes,Yes,Yes,No,\n"

func upload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleImport(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)

	rec := httptest.NewRecorder()
	e.h.HandleImport(rec, withID(upload(t, "roster.csv", sheet), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var out struct {
		ImportID string `json:"import_id"`
		Imported int    `json:"imported"`
		Complete bool   `json:"complete"`
	}
	testutil.DecodeJSON(t, rec, &out)
	if out.ImportID == "" || out.Imported != 2 || !out.Complete {
		t.Errorf("unexpected result: %+v", out)
	}
	if got := e.fx.MemberCount(ctx, rep.ID); got != 2 {
		t.Errorf("member_count: got %d, want 2", got)
	}
}

func TestHandleImport_BadRowRejectsSheet(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)

	bad := strings.Replace(sheet, "Cruz,Ben,2003-01-02", "Cruz,Ben,2003-02-30", 1)
	rec := httptest.NewRecorder()
	e.h.HandleImport(rec, withID(upload(t, "roster.csv", bad), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)

	if got := e.fx.MemberCount(ctx, rep.ID); got != 0 {
		t.Errorf("member_count: got %d, want 0", got)
	}
}

func TestHandleImport_WrongFormat(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)

	rec := httptest.NewRecorder()
	e.h.HandleImport(rec, withID(upload(t, "roster.txt", sheet), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeExportCSV(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	rep := e.fx.CreateReport(ctx, "Roster", e.loc.ID)
	p := testutil.NewProfile(e.loc.ID, "Reyes", "Ana")
	p.ReportID = &rep.ID
	e.fx.CreateProfile(ctx, p)

	rec := httptest.NewRecorder()
	e.h.ServeExportCSV(rec, withID(httptest.NewRequest("GET", "/", nil), rep.ID))
	testutil.AssertStatus(t, rec, http.StatusOK)

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "profiles-Q1-2024.csv") {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Reyes,Ana,Santos,,2000-06-15,23,Female") {
		t.Errorf("row: got %q", lines[1])
	}
}

func TestServeTemplate(t *testing.T) {
	e := newEnv(t)
	rec := httptest.NewRecorder()
	e.h.ServeTemplate(rec, httptest.NewRequest("GET", "/reports/import-template.xlsx", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	if rec.Body.Len() == 0 {
		t.Error("expected xlsx bytes")
	}
}
