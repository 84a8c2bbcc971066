package handlers_test

import (
	"Classifieds/internal/config"
	"Classifieds/internal/handlers"
	"Classifieds/internal/metrics"
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"Classifieds/internal/service"
	"Classifieds/internal/storage"
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

type testEnv struct {
	router http.Handler
	db     *gorm.DB
	cfg    *config.Config
	group  *model.Group
}

// newTestEnv собирает роутер поверх in-memory SQLite и временного каталога media.
func newTestEnv(t *testing.T, itemLimit int) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB(fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		AuthSecret:       "test-secret",
		SiteDomain:       "board.example.com",
		MediaRoot:        t.TempDir(),
		ItemPerUserLimit: itemLimit,
		RelatedLimit:     4,
		SearchPageSize:   10,
		ImageSlots:       3,
		ImageMaxSizeMB:   1,
		RateLimitPerMin:  1000,
	}
	logger := zap.NewNop().Sugar()
	store, err := storage.NewLocalStore(cfg.MediaRoot)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	items := repo.NewItemRepository(db)
	taxonomy := repo.NewTaxonomyRepository(db)
	users := repo.NewUserRepository(db)

	h := handlers.NewHandler(handlers.Deps{
		Users:    service.NewUserService(users),
		Items:    service.NewItemService(items, taxonomy, store, collector, logger, service.LimitsFromConfig(cfg)),
		Taxonomy: service.NewTaxonomyService(taxonomy, items),
		Metrics:  collector,
		Gatherer: reg,
		Logger:   logger,
		Config:   cfg,
	})
	t.Cleanup(h.Close)

	section := &model.Section{Title: "Transport"}
	require.NoError(t, taxonomy.CreateSection(context.Background(), section))
	group := &model.Group{Title: "Bicycles", SectionID: section.ID}
	require.NoError(t, taxonomy.CreateGroup(context.Background(), group))

	return &testEnv{router: h.Router, db: db, cfg: cfg, group: group}
}

// client хранит cookie между запросами, как браузер.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, h: e.router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.h.ServeHTTP(rr, req)
	for _, ck := range rr.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rr
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// postMultipart отправляет поля формы и файлы (имя поля -> содержимое).
func (c *client) postMultipart(path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	for k, data := range files {
		fw, err := mw.CreateFormFile(k, k+".bin")
		require.NoError(c.t, err)
		_, err = fw.Write(data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) postForm(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// registered регистрирует пользователя и возвращает авторизованного клиента.
func (e *testEnv) registered(t *testing.T, login string) *client {
	t.Helper()
	c := e.client(t)
	rr := c.postJSON("/user/register", fmt.Sprintf(`{"login":%q,"password":"secret","email":"%s@example.com"}`, login, login))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, c.cookies, "auth_token")
	return c
}

func (e *testEnv) itemFields(title string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": "red bike with bell",
		"price":       "150.5",
		"phone":       "+100200",
		"group":       fmt.Sprint(e.group.ID),
	}
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
