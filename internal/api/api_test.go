package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/events"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
	"github.com/kenangan-app/kenangan-server/internal/services"
	"github.com/kenangan-app/kenangan-server/internal/store/sqlite"
)

type fakeGenerator struct {
	out  scrapbook.Outcome
	err  error
	last scrapbook.Request
}

func (g *fakeGenerator) Generate(ctx context.Context, req scrapbook.Request) (scrapbook.Outcome, error) {
	g.last = req
	return g.out, g.err
}

type testEnv struct {
	server *httptest.Server
	gen    *fakeGenerator
	bus    *events.Bus
}

func newTestEnv(t *testing.T, credentialed bool) *testEnv {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	bus := events.NewBus(16)
	log := zerolog.Nop()
	gen := &fakeGenerator{out: scrapbook.Outcome{Success: true, ImageURL: "https://example.com/p.png", Message: "ok"}}

	router := NewRouter(Deps{
		Generator:    gen,
		Credentialed: credentialed,
		GenTimeout:   5 * time.Second,
		Memories:     services.NewMemoryService(st),
		Families:     services.NewFamilyService(st),
		Chat:         services.NewChatService(st, bus, log),
		Devices:      services.NewDeviceService(st),
		Verifier:     auth.NewStaticVerifier(),
		IsHealthy:    func() bool { return true },
		Location:     time.UTC,
		Log:          log,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, gen: gen, bus: bus}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func (e *testEnv) createFamily(t *testing.T, token string, members ...string) model.Family {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/families", token,
		map[string]interface{}{"name": "Keluarga Test", "memberIds": members})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var fam model.Family
	decode(t, resp, &fam)
	return fam
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestGenerateRequiresAuth(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.do(t, http.MethodPost, "/api/scrapbooks/generate", "",
		scrapbook.Request{FamilyID: "fam-1", DateString: "2026-08-30"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGenerateWithoutCredentialReturns412(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodPost, "/api/scrapbooks/generate", "ayah:Ayah",
		scrapbook.Request{FamilyID: "fam-1", DateString: "2026-08-30"})
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "API Key belum dikonfigurasi di server.", body["message"])
}

func TestGenerateHappyPath(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.do(t, http.MethodPost, "/api/scrapbooks/generate", "ayah:Ayah",
		scrapbook.Request{FamilyID: "fam-1", DateString: "2026-08-30"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out scrapbook.Outcome
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "https://example.com/p.png", out.ImageURL)
	assert.Equal(t, "fam-1", env.gen.last.FamilyID)
	assert.Equal(t, "2026-08-30", env.gen.last.DateString)
}

func TestGenerateValidationFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.gen.err = model.ErrValidation

	resp := env.do(t, http.MethodPost, "/api/scrapbooks/generate", "ayah:Ayah",
		scrapbook.Request{FamilyID: "fam-1", DateString: "not-a-date"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGeneratePipelineFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t, true)
	env.gen.err = &scrapbook.StageFailure{Kind: scrapbook.FailGeneration, Err: assert.AnError}

	resp := env.do(t, http.MethodPost, "/api/scrapbooks/generate", "ayah:Ayah",
		scrapbook.Request{FamilyID: "fam-1", DateString: "2026-08-30"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	// Internal detail never leaks to the client.
	assert.Equal(t, "Gagal memproses scrapbook.", body["message"])
}

func TestFamilyCreateAddsCreator(t *testing.T) {
	env := newTestEnv(t, true)

	fam := env.createFamily(t, "ayah:Ayah", "ibu")
	assert.Contains(t, fam.MemberIDs, "ayah")
	assert.Contains(t, fam.MemberIDs, "ibu")

	resp := env.do(t, http.MethodGet, "/api/families/"+fam.FamilyID, "ibu:Ibu", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMemoryCreateAndListDay(t *testing.T) {
	env := newTestEnv(t, true)
	fam := env.createFamily(t, "ayah:Ayah", "ibu")

	resp := env.do(t, http.MethodPost, "/api/families/"+fam.FamilyID+"/memories", "ayah:Ayah",
		map[string]string{"content": "Sarapan bersama"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec model.MemoryRecord
	decode(t, resp, &rec)
	assert.Equal(t, "ayah", rec.AuthorID)
	assert.Equal(t, model.RecordTypeText, rec.Type)

	today := time.Now().UTC().Format(scrapbook.DateLayout)
	resp = env.do(t, http.MethodGet, "/api/families/"+fam.FamilyID+"/memories?date="+today, "ibu:Ibu", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Memories []model.MemoryRecord `json:"memories"`
		Count    int                  `json:"count"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Sarapan bersama", list.Memories[0].Content)
}

func TestMemoryListRejectsBadDate(t *testing.T) {
	env := newTestEnv(t, true)
	fam := env.createFamily(t, "ayah:Ayah")

	resp := env.do(t, http.MethodGet, "/api/families/"+fam.FamilyID+"/memories?date=30-08-2026", "ayah:Ayah", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReactionPatch(t *testing.T) {
	env := newTestEnv(t, true)
	fam := env.createFamily(t, "ayah:Ayah", "ibu")

	resp := env.do(t, http.MethodPost, "/api/families/"+fam.FamilyID+"/memories", "ayah:Ayah",
		map[string]string{"content": "Main ke taman"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec model.MemoryRecord
	decode(t, resp, &rec)

	resp = env.do(t, http.MethodPatch,
		"/api/families/"+fam.FamilyID+"/memories/"+rec.RecordID+"/reactions", "ibu:Ibu",
		map[string]string{"reaction": "❤️"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.MemoryRecord
	decode(t, resp, &updated)
	assert.Equal(t, "❤️", updated.Reactions["ibu"])
}

func TestChatMessagePublishesEvent(t *testing.T) {
	env := newTestEnv(t, true)
	fam := env.createFamily(t, "ayah:Ayah", "ibu")

	resp := env.do(t, http.MethodPost, "/api/families/"+fam.FamilyID+"/messages", "ayah:Ayah",
		map[string]string{"content": "Sudah makan?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var msg model.ChatMessage
	decode(t, resp, &msg)
	assert.Equal(t, "ayah", msg.SenderID)
	assert.Equal(t, "Ayah", msg.SenderName)

	select {
	case evt := <-env.bus.Subscribe():
		assert.Equal(t, msg.MessageID, evt.Message.MessageID)
		assert.Equal(t, "Sudah makan?", evt.Message.Content)
	case <-time.After(time.Second):
		t.Fatal("no MessageCreated event published")
	}
}

func TestDeviceRegisterUsesCallerIdentity(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.do(t, http.MethodPost, "/api/devices", "ibu:Ibu",
		map[string]string{"token": "tok-1", "platform": "android"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dev model.Device
	decode(t, resp, &dev)
	assert.Equal(t, "ibu", dev.UserID)
	assert.Equal(t, "tok-1", dev.Token)
}
