package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"slidestack/config"
	"slidestack/database"
	"slidestack/media"
	"slidestack/projects"
	"slidestack/renders"
)

func setup(t *testing.T) *echo.Echo {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&projects.Project{}, &media.File{}, &renders.Job{}); err != nil {
		t.Fatal(err)
	}
	database.Init(db, logger)
	projects.Init(logger)
	media.Init(logger)
	renders.Init(logger)

	c := config.Default()
	c.Media.Probe = false
	Init(logger, c)
	t.Cleanup(database.Fini)

	e := echo.New()
	Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: %v: %s", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, out
}

func createProject(t *testing.T, e *echo.Echo) string {
	t.Helper()
	code, out := do(t, e, http.MethodPost, "/api/projects", `{"title":"Trip","description":"summer"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, out)
	}
	return out["project"].(map[string]interface{})["id"].(string)
}

const twoClips = `{"timeline":[
	{"id":"c1","content":{"id":"m1","type":"image","url":"http://cdn/1.png","name":"1.png","size":1},"duration":4,"order":0,"track":"video"},
	{"id":"c2","content":{"id":"m2","type":"image","url":"http://cdn/2.png","name":"2.png","size":1},"duration":6,"order":1,"track":"video","transition":{"type":"fade","duration":0.5}},
	{"id":"bad","content":{"type":"sticker"},"duration":1,"order":2,"track":"video"}
]}`

const renderBody = `{"timeline":[
	{"id":"c1","content":{"id":"m1","type":"image","url":"http://cdn/1.png"},"duration":4,"order":0,"track":"video"}
],"duration":4,"quality":"medium"}`

func TestProjectLifecycle(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)

	code, out := do(t, e, http.MethodGet, "/api/projects/"+id, "")
	if code != http.StatusOK || out["project"].(map[string]interface{})["status"] != "draft" {
		t.Fatalf("get: %d %v", code, out)
	}
	code, out = do(t, e, http.MethodPatch, "/api/projects/"+id, `{"title":"Winter"}`)
	if code != http.StatusOK || out["project"].(map[string]interface{})["title"] != "Winter" {
		t.Fatalf("patch: %d %v", code, out)
	}
	code, out = do(t, e, http.MethodGet, "/api/projects", "")
	if code != http.StatusOK || len(out["projects"].([]interface{})) != 1 {
		t.Fatalf("list: %d %v", code, out)
	}
	if code, _ := do(t, e, http.MethodDelete, "/api/projects/"+id, ""); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	code, out = do(t, e, http.MethodGet, "/api/projects/"+id, "")
	if code != http.StatusNotFound || out["error"] == nil {
		t.Fatalf("after delete: %d %v", code, out)
	}
}

func TestCreateProjectValidates(t *testing.T) {
	e := setup(t)
	if code, _ := do(t, e, http.MethodPost, "/api/projects", `{"title":""}`); code != http.StatusBadRequest {
		t.Fatalf("empty title: %d", code)
	}
}

func TestTimelineSaveAndLoad(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)

	code, out := do(t, e, http.MethodPut, "/api/projects/"+id+"/timeline", twoClips)
	if code != http.StatusOK || out["dropped"].(float64) != 1 || out["duration"].(float64) != 10 {
		t.Fatalf("put: %d %v", code, out)
	}
	code, out = do(t, e, http.MethodGet, "/api/projects/"+id+"/timeline", "")
	if code != http.StatusOK || len(out["timeline"].([]interface{})) != 2 || out["lastSaved"] == nil {
		t.Fatalf("get: %d %v", code, out)
	}
	if code, _ := do(t, e, http.MethodPut, "/api/projects/"+id+"/timeline", `{}`); code != http.StatusBadRequest {
		t.Fatalf("missing timeline: %d", code)
	}
}

func TestScene(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)
	do(t, e, http.MethodPut, "/api/projects/"+id+"/timeline", twoClips)

	code, out := do(t, e, http.MethodGet, "/api/projects/"+id+"/scene?t=3.8", "")
	if code != http.StatusOK {
		t.Fatalf("scene: %d %v", code, out)
	}
	tr := out["transition"].(map[string]interface{})
	if tr["isInTransition"] != true || len(out["layers"].([]interface{})) != 2 {
		t.Fatalf("scene %v", out)
	}
	if code, _ := do(t, e, http.MethodGet, "/api/projects/"+id+"/scene?t=soon", ""); code != http.StatusBadRequest {
		t.Fatalf("bad t: %d", code)
	}
}

func TestMedia(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)
	code, out := do(t, e, http.MethodPost, "/api/projects/"+id+"/media", `{"type":"image","url":"http://cdn/a.png","size":10}`)
	if code != http.StatusCreated {
		t.Fatalf("post: %d %v", code, out)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/projects/"+id+"/media", `{"type":"text","url":"x"}`); code != http.StatusBadRequest {
		t.Fatalf("bad type: %d", code)
	}
	code, out = do(t, e, http.MethodGet, "/api/projects/"+id+"/media", "")
	files := out["files"].([]interface{})
	if code != http.StatusOK || len(files) != 1 || files[0].(map[string]interface{})["filename"] != "a.png" {
		t.Fatalf("list: %d %v", code, out)
	}
}

func TestRender(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)

	if code, _ := do(t, e, http.MethodGet, "/api/projects/"+id+"/render", ""); code != http.StatusNotFound {
		t.Fatalf("no jobs yet: %d", code)
	}
	code, out := do(t, e, http.MethodPost, "/api/projects/"+id+"/render", renderBody)
	if code != http.StatusOK || out["jobId"] == nil {
		t.Fatalf("post: %d %v", code, out)
	}
	jobID := out["jobId"]
	code, out = do(t, e, http.MethodGet, "/api/projects/"+id+"/render", "")
	job := out["job"].(map[string]interface{})
	if code != http.StatusOK || job["id"] != jobID || job["status"] != "queued" {
		t.Fatalf("get: %d %v", code, out)
	}
	if code, _ := do(t, e, http.MethodPost, "/api/projects/"+id+"/render", `{"timeline":[],"fps":30}`); code != http.StatusBadRequest {
		t.Fatalf("empty render: %d", code)
	}
}

func TestStatus(t *testing.T) {
	e := setup(t)
	t.Setenv("SLIDESTACK_DATA_DIR", t.TempDir())
	createProject(t, e)
	code, out := do(t, e, http.MethodGet, "/status", "")
	if code != http.StatusOK || out["build"] == nil || out["projects"].(float64) != 1 {
		t.Fatalf("status: %d %v", code, out)
	}
}

func TestRenderDerivesTracks(t *testing.T) {
	e := setup(t)
	id := createProject(t, e)
	body := `{"timeline":[
		{"id":"c1","content":{"id":"m1","type":"image","url":"http://cdn/1.png"},"duration":4,"order":0,"track":"video"},
		{"id":"au","content":{"id":"m2","type":"audio","url":"http://cdn/a.mp3"},"duration":4,"order":1,"track":"video"},
		{"id":"b","duration":2,"order":2,"track":"video"}
	],"quality":"low"}`
	code, out := do(t, e, http.MethodPost, "/api/projects/"+id+"/render", body)
	if code != http.StatusOK {
		t.Fatalf("post: %d %v", code, out)
	}
	if err := renders.PlanPending(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	code, out = do(t, e, http.MethodGet, "/api/projects/"+id+"/render", "")
	job := out["job"].(map[string]interface{})
	if code != http.StatusOK || job["status"] != "processing" {
		t.Fatalf("job: %d %v", code, job)
	}
	plan := job["plan"].(map[string]interface{})
	segments := plan["segments"].([]interface{})
	audio := plan["audio"].([]interface{})
	if len(segments) != 1 || len(audio) != 1 || plan["duration"].(float64) != 4 {
		t.Fatalf("plan %v", plan)
	}
	if segments[0].(map[string]interface{})["clipId"] != "c1" || audio[0].(map[string]interface{})["clipId"] != "au" {
		t.Fatalf("plan %v", plan)
	}
}
