package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/rating"
	"github.com/jmercier/scenedex/internal/scan"
	"github.com/jmercier/scenedex/internal/stats"
	"github.com/jmercier/scenedex/internal/storage"
)

type testApp struct {
	*App
	Server      *httptest.Server
	LibraryRoot string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tempDir := t.TempDir()
	libraryRoot := filepath.Join(tempDir, "library")
	coverDir := filepath.Join(tempDir, "covers")

	db, err := database.NewDB(database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(tempDir, "test.db"),
	})
	require.NoError(t, err)

	library, err := storage.NewLocalLibrary(libraryRoot, coverDir)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scenes := database.NewSceneRepository(db)
	favorites := database.NewFavoriteRepository(db)
	history := database.NewHistoryRepository(db)

	app := &App{
		DB:        db,
		Scenes:    scenes,
		Actresses: database.NewActressRepository(db),
		Tags:      database.NewTagRepository(db),
		Favorites: favorites,
		History:   history,
		Library:   library,
		Recompute: rating.NewService(database.NewAggregateStore(db), logger, rating.Config{}),
		Stats:     stats.NewService(db, scenes, favorites, history),
		Scanner:   scan.NewScanner(libraryRoot),
		Logger:    logger,
	}

	server := httptest.NewServer(NewRouter(app))
	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return &testApp{App: app, Server: server, LibraryRoot: libraryRoot}
}

func (ta *testApp) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, ta.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
