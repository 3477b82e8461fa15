package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/bootstrap"
	"jobtrack-backend/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{Env: "dev"})
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *bootstrap.App, guestID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", guestID)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
	var body map[string]any
	decodeBody(t, w, &body)
	if body["storage"] != "memory" {
		t.Fatalf("storage = %v, want memory", body["storage"])
	}
}

func TestJobAndCoverLetterFlow(t *testing.T) {
	app := buildApp(t)
	guest := "guest-flow"

	w := doJSON(t, app, guest, http.MethodPost, "/api/v1/jobs", map[string]string{
		"title":   "Backend Engineer",
		"company": "Acme",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create job status = %d, body %s", w.Code, w.Body.String())
	}
	var job struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &job)
	if job.ID == "" {
		t.Fatal("job response missing id")
	}

	for _, content := range []string{"first draft", "second draft"} {
		w = doJSON(t, app, guest, http.MethodPost, "/api/v1/jobs/"+job.ID+"/cover-letters", map[string]string{
			"title":   "Letter",
			"content": content,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create letter status = %d, body %s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, app, guest, http.MethodGet, "/api/v1/jobs/"+job.ID+"/cover-letters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list letters status = %d", w.Code)
	}
	var listBody struct {
		CoverLetters []struct {
			ID        string `json:"id"`
			Version   int    `json:"version"`
			IsCurrent bool   `json:"isCurrent"`
		} `json:"coverLetters"`
	}
	decodeBody(t, w, &listBody)
	letters := listBody.CoverLetters
	if len(letters) != 2 {
		t.Fatalf("len(letters) = %d, want 2", len(letters))
	}
	// Newest first: version 2 is current.
	if letters[0].Version != 2 || !letters[0].IsCurrent {
		t.Fatalf("letters[0] = %+v, want version 2 current", letters[0])
	}
	if letters[1].Version != 1 || letters[1].IsCurrent {
		t.Fatalf("letters[1] = %+v, want version 1 not current", letters[1])
	}

	w = doJSON(t, app, guest, http.MethodPost, "/api/v1/cover-letters/"+letters[1].ID+"/current", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("set current status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, app, guest, http.MethodGet, "/api/v1/jobs/"+job.ID+"/cover-letters", nil)
	decodeBody(t, w, &listBody)
	letters = listBody.CoverLetters
	current := 0
	for _, l := range letters {
		if l.IsCurrent {
			current++
			if l.Version != 1 {
				t.Fatalf("current version = %d, want 1", l.Version)
			}
		}
	}
	if current != 1 {
		t.Fatalf("current letters = %d, want exactly 1", current)
	}
}

func TestGuestsCannotSeeEachOthersJobs(t *testing.T) {
	app := buildApp(t)

	w := doJSON(t, app, "guest-a", http.MethodPost, "/api/v1/jobs", map[string]string{"title": "Role"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create job status = %d", w.Code)
	}
	var job struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &job)

	w = doJSON(t, app, "guest-b", http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	if w.Code != http.StatusForbidden && w.Code != http.StatusNotFound {
		t.Fatalf("foreign job status = %d, want 403 or 404", w.Code)
	}

	w = doJSON(t, app, "guest-b", http.MethodPost, "/api/v1/jobs/"+job.ID+"/cover-letters", map[string]string{
		"title":   "Letter",
		"content": "hi",
	})
	if w.Code != http.StatusForbidden && w.Code != http.StatusNotFound {
		t.Fatalf("foreign letter create status = %d, want 403 or 404", w.Code)
	}
}

func TestRequestsWithoutIdentityAreRejected(t *testing.T) {
	app := buildApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
