package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kai_shield/internal/api"
	"kai_shield/internal/chain"
	"kai_shield/internal/models"
	"kai_shield/internal/repository"
	"kai_shield/internal/service"
	"kai_shield/internal/storage"
	"kai_shield/internal/upstream"
	"kai_shield/internal/utils"
	"kai_shield/pkg/config"
)

type fakeChain struct {
	uploaded []byte
	args     []string
	err      error
}

func (f *fakeChain) Upload(_ context.Context, data []byte) (string, error) {
	f.uploaded = data
	return "0xupload", f.err
}

func (f *fakeChain) StoreRecord(_ context.Context, fingerprint, ipfsHash string) (string, error) {
	f.args = []string{fingerprint, ipfsHash}
	return "0xrecord", f.err
}

func (f *fakeChain) DeployContract(context.Context) (string, string, error) {
	return "0x00000000000000000000000000000000000000c0", "0xdeploy", f.err
}

type fakeFiles struct {
	got []byte
}

func (f *fakeFiles) Add(_ context.Context, r io.Reader) (string, error) {
	f.got, _ = io.ReadAll(r)
	return "QmFake", nil
}

func (f *fakeFiles) Upload(_ context.Context, r io.Reader) (string, error) {
	f.got, _ = io.ReadAll(r)
	return "https://res.cloudinary.com/demo/x.png", nil
}

type fakeIntel struct {
	calls  []string
	result json.RawMessage
	err    error
}

func (f *fakeIntel) Crawl(_ context.Context, platform, keyword string) (json.RawMessage, error) {
	f.calls = append(f.calls, platform, keyword)
	return f.result, f.err
}

func (f *fakeIntel) Analyze(_ context.Context, videoURL string) (json.RawMessage, error) {
	f.calls = append(f.calls, videoURL)
	return f.result, f.err
}

type testEnv struct {
	router *gin.Engine
	chain  *fakeChain
	files  *fakeFiles
	intel  *fakeIntel
	repos  *repository.Repositories
	events *service.EventHub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := storage.Wrap(gdb)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := utils.NewTokenManager(config.JWTConfig{
		Secret: "test", Issuer: "kai-shield", Audience: "web-client", TTL: time.Hour,
	})
	require.NoError(t, err)

	env := &testEnv{
		chain: &fakeChain{},
		files: &fakeFiles{},
		intel: &fakeIntel{result: json.RawMessage(`{"results":[]}`)},
		repos: repository.NewRepositories(db),
	}
	services := service.NewServices(env.repos, service.Dependencies{
		Chain:    env.chain,
		IPFS:     env.files,
		Media:    env.files,
		Crawler:  env.intel,
		Analyzer: env.intel,
		Tokens:   tokens,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	env.events = services.Events
	env.router = gin.New()
	api.SetupRoutes(env.router, services, 1024)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, path, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "work.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is healthy", decode(t, w)["status"])
}

func TestNoRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockchainUpload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(multipartRequest(t, "/blockchain/upload", "file", []byte("artwork")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0xupload", decode(t, w)["tx_hash"])
	assert.Equal(t, []byte("artwork"), env.chain.uploaded)

	records, err := env.repos.ChainRecord.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ChainRecordUpload, records[0].Kind)
}

func TestBlockchainUploadMissingFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(multipartRequest(t, "/blockchain/upload", "other", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, env.chain.uploaded)
}

func TestBlockchainUploadTooLarge(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(multipartRequest(t, "/blockchain/upload", "file", bytes.Repeat([]byte("a"), 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Nil(t, env.chain.uploaded)
}

func TestStoreRecord(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodPost, "/blockchain/storeRecord?fingerprint=abc&ipfs_hash=QmX", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0xrecord", decode(t, w)["tx_hash"])
	assert.Equal(t, []string{"abc", "QmX"}, env.chain.args)
}

func TestStoreRecordMissingParams(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"", "?fingerprint=abc", "?ipfs_hash=QmX"} {
		w := env.do(httptest.NewRequest(http.MethodPost, "/blockchain/storeRecord"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Nil(t, env.chain.args)
}

func TestDeployContract(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodPost, "/deploy_contract", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0x00000000000000000000000000000000000000c0", decode(t, w)["contract_address"])
}

func TestDeployContractNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.chain.err = fmt.Errorf("%w: missing contract bytecode", chain.ErrNotConfigured)

	w := env.do(httptest.NewRequest(http.MethodPost, "/deploy_contract", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChainFailureIsServerError(t *testing.T) {
	env := newTestEnv(t)
	env.chain.err = fmt.Errorf("failed sending transaction: insufficient funds")

	w := env.do(httptest.NewRequest(http.MethodPost, "/blockchain/storeRecord?fingerprint=a&ipfs_hash=b", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Store record failed", decode(t, w)["error"])
}

func TestCrawl(t *testing.T) {
	env := newTestEnv(t)
	env.intel.result = json.RawMessage(`{"results":[{"url":"https://ig.example/p/1"}]}`)

	w := env.do(httptest.NewRequest(http.MethodGet, "/crawl/instagram?keyword=sunset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[{"url":"https://ig.example/p/1"}]}`, w.Body.String())
	assert.Equal(t, []string{"instagram", "sunset"}, env.intel.calls)

	w = env.do(httptest.NewRequest(http.MethodGet, "/crawl/instagram", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCrawlUpstreamErrors(t *testing.T) {
	env := newTestEnv(t)

	env.intel.err = &upstream.Error{Service: "crawler", StatusCode: http.StatusNotFound, Body: "unknown platform"}
	w := env.do(httptest.NewRequest(http.MethodGet, "/crawl/myspace?keyword=x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.intel.err = &upstream.Error{Service: "crawler", StatusCode: http.StatusInternalServerError}
	w = env.do(httptest.NewRequest(http.MethodGet, "/crawl/x?keyword=x", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	env.intel.err = fmt.Errorf("%w: crawler", upstream.ErrNotConfigured)
	w = env.do(httptest.NewRequest(http.MethodGet, "/crawl/x?keyword=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.intel.err = fmt.Errorf("%w: crawler sent more than 8388608 bytes", upstream.ErrResponseTooLarge)
	w = env.do(httptest.NewRequest(http.MethodGet, "/crawl/x?keyword=x", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "response too large")
}

func TestAnalyze(t *testing.T) {
	env := newTestEnv(t)
	env.intel.result = json.RawMessage(`{"frames":12}`)

	w := env.do(httptest.NewRequest(http.MethodPost, "/analyze?video_url=https%3A%2F%2Fcdn.example%2Fv.mp4", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"frames":12}`, w.Body.String())
	assert.Equal(t, []string{"https://cdn.example/v.mp4"}, env.intel.calls)

	w = env.do(httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFingerprintUpload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(multipartRequest(t, "/upload", "file", []byte("hello")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", body["fingerprint"])

	w = env.do(multipartRequest(t, "/upload", "file", []byte("hello")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body["fingerprint"], decode(t, w)["fingerprint"])
}

func TestMediaUploads(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(multipartRequest(t, "/upload_to_ipfs", "file", []byte("ipfs-bytes")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "QmFake", decode(t, w)["ipfsHash"])
	assert.Equal(t, []byte("ipfs-bytes"), env.files.got)

	w = env.do(multipartRequest(t, "/cloudinary", "file", []byte("cdn-bytes")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://res.cloudinary.com/demo/x.png", decode(t, w)["cloudinary_url"])
}

func TestDMCASubmit(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/dmca/submit", `{"infringingUrl":"https://bad.example","originalWork":"song"}`))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "DMCA requested", body["message"])
	assert.Equal(t, "https://bad.example", body["infringingUrl"])

	w = env.do(jsonRequest(http.MethodPost, "/dmca/submit", `{"infringingUrl":"https://bad.example"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLoginAndAuthorizedRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/register", `{"email":"a@example.com","password":"pw"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(jsonRequest(http.MethodPost, "/register", `{"email":"a@example.com","password":"pw"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/register", `{"email":"a@example.com"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/login", `{"email":"a@example.com","password":"bad"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/login", `{"email":"a@example.com","password":"pw"}`))
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// 未帶 token
	w = env.do(httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.do(httptest.NewRequest(http.MethodPost, "/blockchain/storeRecord?fingerprint=fp1&ipfs_hash=Qm1", nil))
	env.do(multipartRequest(t, "/upload", "file", []byte("hello")))

	req := httptest.NewRequest(http.MethodGet, "/records?fingerprint=fp1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var records []models.ChainRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Qm1", records[0].IPFSHash)

	req = httptest.NewRequest(http.MethodGet, "/fingerprints/2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "work.png", decode(t, w)["file_name"])

	req = httptest.NewRequest(http.MethodGet, "/fingerprints/unknown", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = env.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/records", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = env.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events/ws?topic=chain", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.events.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/deploy_contract", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev models.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, models.EventChainDeploy, ev.Type)
}
