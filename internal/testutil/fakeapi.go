package testutil

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/roach88/recipetracker/internal/model"
)

// RecordedRequest is one request received by a FakeAPI.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     url.Values
	Body      []byte
	RequestID string
}

type failure struct {
	status int
	body   string
}

// FakeAPI is an in-memory implementation of the recipe store REST
// contract. Mutations attach a commit built from the query parameters.
//
// Thread-safety: safe for concurrent use.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	recipes  map[string]model.Recipe
	history  map[string][]model.Commit
	logs     map[string]map[string]model.RecipeLog
	requests []RecordedRequest
	failures map[string][]failure
	pushes   int
	pulls    int
	seq      int
	now      func() time.Time
}

// NewFakeAPI starts a server that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		recipes:  make(map[string]model.Recipe),
		history:  make(map[string][]model.Commit),
		logs:     make(map[string]map[string]model.RecipeLog),
		failures: make(map[string][]failure),
		now:      NewStepClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), time.Minute).Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recipes", f.listRecipes)
	mux.HandleFunc("POST /api/recipes", f.saveRecipe)
	mux.HandleFunc("GET /api/recipes/{recipeId}", f.getRecipe)
	mux.HandleFunc("GET /api/recipes/{recipeId}/history", f.recipeHistory)
	mux.HandleFunc("GET /api/recipes/{recipeId}/logs", f.listLogs)
	mux.HandleFunc("POST /api/recipes/{recipeId}/logs", f.saveLog)
	mux.HandleFunc("GET /api/recipes/{recipeId}/logs/{logId}", f.getLog)
	mux.HandleFunc("DELETE /api/recipes/{recipeId}/logs/{logId}", f.deleteLog)
	mux.HandleFunc("POST /api/db/push", f.sync(&f.pushes))
	mux.HandleFunc("POST /api/db/pull", f.sync(&f.pulls))

	f.server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// LastRequest returns the most recent request, or false if none.
func (f *FakeAPI) LastRequest() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// FailNext makes the next request to method and path answer with status
// and body. Failures queue up per route.
func (f *FakeAPI) FailNext(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], failure{status: status, body: body})
}

// PutRecipe seeds a recipe without recording a commit.
func (f *FakeAPI) PutRecipe(r model.Recipe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes[r.ID] = r
}

// Recipe returns a stored recipe.
func (f *FakeAPI) Recipe(id string) (model.Recipe, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipes[id]
	return r, ok
}

// Log returns a stored recipe log.
func (f *FakeAPI) Log(recipeID, logID string) (model.RecipeLog, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[recipeID][logID]
	return l, ok
}

// SyncCounts returns how many pushes and pulls succeeded.
func (f *FakeAPI) SyncCounts() (pushes, pulls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes, f.pulls
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Body:      body,
			RequestID: r.Header.Get("X-Request-Id"),
		})
		key := r.Method + " " + r.URL.Path
		var fail *failure
		if queued := f.failures[key]; len(queued) > 0 {
			fail = &queued[0]
			f.failures[key] = queued[1:]
		}
		f.mu.Unlock()

		if fail != nil {
			http.Error(w, fail.body, fail.status)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) listRecipes(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := make([]model.Recipe, 0, len(f.recipes))
	for _, rec := range f.recipes {
		out = append(out, rec)
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, out)
}

func (f *FakeAPI) getRecipe(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	rec, ok := f.recipes[r.PathValue("recipeId")]
	f.mu.Unlock()

	if !ok {
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

func (f *FakeAPI) saveRecipe(w http.ResponseWriter, r *http.Request) {
	var rec model.Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if rec.ID == "" {
		http.Error(w, "recipe id is required", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	commit := f.commitLocked(r.URL.Query(), rec.ID)
	f.recipes[rec.ID] = rec
	f.history[rec.ID] = append([]model.Commit{commit}, f.history[rec.ID]...)
	f.mu.Unlock()

	writeJSON(w, rec)
}

func (f *FakeAPI) recipeHistory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	commits := append([]model.Commit{}, f.history[r.PathValue("recipeId")]...)
	f.mu.Unlock()
	writeJSON(w, commits)
}

func (f *FakeAPI) listLogs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	byID := f.logs[r.PathValue("recipeId")]
	out := make([]model.RecipeLog, 0, len(byID))
	for _, l := range byID {
		out = append(out, l)
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, out)
}

func (f *FakeAPI) getLog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	l, ok := f.logs[r.PathValue("recipeId")][r.PathValue("logId")]
	f.mu.Unlock()

	if !ok {
		http.Error(w, "recipe log not found", http.StatusNotFound)
		return
	}
	writeJSON(w, l)
}

func (f *FakeAPI) saveLog(w http.ResponseWriter, r *http.Request) {
	var l model.RecipeLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	recipeID := r.PathValue("recipeId")
	if l.ID == "" {
		http.Error(w, "log id is required", http.StatusBadRequest)
		return
	}
	l.RecipeID = recipeID

	f.mu.Lock()
	commit := f.commitLocked(r.URL.Query(), recipeID+"/"+l.ID)
	l.Commit = &commit
	if f.logs[recipeID] == nil {
		f.logs[recipeID] = make(map[string]model.RecipeLog)
	}
	f.logs[recipeID][l.ID] = l
	f.mu.Unlock()

	writeJSON(w, l)
}

func (f *FakeAPI) deleteLog(w http.ResponseWriter, r *http.Request) {
	recipeID, logID := r.PathValue("recipeId"), r.PathValue("logId")

	f.mu.Lock()
	_, ok := f.logs[recipeID][logID]
	if ok {
		delete(f.logs[recipeID], logID)
		f.commitLocked(r.URL.Query(), recipeID+"/"+logID)
	}
	f.mu.Unlock()

	if !ok {
		http.Error(w, "recipe log not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) sync(counter *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		*counter++
		f.mu.Unlock()
	}
}

// commitLocked builds the commit for a mutation. Called with f.mu held.
func (f *FakeAPI) commitLocked(q url.Values, subject string) model.Commit {
	f.seq++
	sig := model.Signature{Name: q.Get("author"), Email: q.Get("email"), When: f.now()}
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%s:%s", f.seq, subject, q.Get("commitMessage"))))
	return model.Commit{
		Author:    sig,
		Committer: sig,
		Message:   q.Get("commitMessage"),
		Hash:      hex.EncodeToString(sum[:]),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

