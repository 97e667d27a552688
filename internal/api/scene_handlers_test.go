package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createActress(t *testing.T, ta *testApp, name string) actressResponse {
	t.Helper()
	resp := ta.do(t, http.MethodPost, "/api/actresses", actressRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var actress actressResponse
	decodeBody(t, resp, &actress)
	return actress
}

func createScene(t *testing.T, ta *testApp, req sceneRequest) sceneResponse {
	t.Helper()
	resp := ta.do(t, http.MethodPost, "/api/scenes", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var scene sceneResponse
	decodeBody(t, resp, &scene)
	return scene
}

func getActress(t *testing.T, ta *testApp, id string) actressResponse {
	t.Helper()
	resp := ta.do(t, http.MethodGet, "/api/actresses/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var actress actressResponse
	decodeBody(t, resp, &actress)
	return actress
}

func TestCreateSceneRecomputesActress(t *testing.T) {
	ta := newTestApp(t)
	actress := createActress(t, ta, "Ava")

	ratings := []string{"⭐⭐⭐⭐", "8/10", "excellent", ""}
	for i, rt := range ratings {
		createScene(t, ta, sceneRequest{
			Path:           filepath.Join("ava", "scene"+string(rune('a'+i))+".mp4"),
			Title:          "Scene",
			PersonalRating: rt,
			Actresses:      []string{actress.ID},
			Tags:           []string{"milf", "hd"},
		})
	}

	got := getActress(t, ta, actress.ID)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.3, *got.AverageRating, 1e-9)
	assert.Equal(t, []string{"milf"}, got.TypicalTags)
}

func TestCreateSceneValidation(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, http.MethodPost, "/api/scenes", sceneRequest{Title: "no path"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ta.do(t, http.MethodPost, "/api/scenes", sceneRequest{
		Path:      "x.mp4",
		Actresses: []string{"unknown-id"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateSceneRecomputesUnionOfActresses(t *testing.T) {
	ta := newTestApp(t)
	ava := createActress(t, ta, "Ava")
	bella := createActress(t, ta, "Bella")

	scene := createScene(t, ta, sceneRequest{
		Path:           "one.mp4",
		Title:          "One",
		PersonalRating: "⭐⭐⭐⭐⭐",
		Actresses:      []string{ava.ID},
	})

	require.NotNil(t, getActress(t, ta, ava.ID).AverageRating)

	// Move the scene from Ava to Bella.
	resp := ta.do(t, http.MethodPut, "/api/scenes/"+scene.ID, sceneRequest{
		Path:           "one.mp4",
		Title:          "One",
		PersonalRating: "⭐⭐⭐⭐⭐",
		Actresses:      []string{bella.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Ava lost her only rated scene; Bella gained it.
	assert.Nil(t, getActress(t, ta, ava.ID).AverageRating)
	gotBella := getActress(t, ta, bella.ID)
	require.NotNil(t, gotBella.AverageRating)
	assert.InDelta(t, 5.0, *gotBella.AverageRating, 1e-9)
}

func TestDeleteSceneRecomputesActress(t *testing.T) {
	ta := newTestApp(t)
	actress := createActress(t, ta, "Ava")

	scene := createScene(t, ta, sceneRequest{
		Path:           "one.mp4",
		PersonalRating: "4",
		Actresses:      []string{actress.ID},
	})

	resp := ta.do(t, http.MethodDelete, "/api/scenes/"+scene.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	assert.Nil(t, getActress(t, ta, actress.ID).AverageRating)

	resp = ta.do(t, http.MethodGet, "/api/scenes/"+scene.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListScenesWithSearch(t *testing.T) {
	ta := newTestApp(t)

	createScene(t, ta, sceneRequest{Path: "a.mp4", Title: "Beach Day"})
	createScene(t, ta, sceneRequest{Path: "b.mp4", Title: "Office"})

	resp := ta.do(t, http.MethodGet, "/api/scenes?q=beach", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scenes []sceneResponse
	decodeBody(t, resp, &scenes)
	require.Len(t, scenes, 1)
	assert.Equal(t, "Beach Day", scenes[0].Title)
}

func TestStreamScene(t *testing.T) {
	ta := newTestApp(t)

	content := []byte("fake mp4 bytes for range serving")
	require.NoError(t, os.MkdirAll(filepath.Join(ta.LibraryRoot, "site"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ta.LibraryRoot, "site", "clip.mp4"), content, 0644))

	scene := createScene(t, ta, sceneRequest{Path: "site/clip.mp4", Title: "Clip"})

	resp := ta.do(t, http.MethodGet, "/api/scenes/"+scene.ID+"/stream", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// Range requests get partial content.
	req, err := http.NewRequest(http.MethodGet, ta.Server.URL+"/api/scenes/"+scene.ID+"/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=0-3")
	partial, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer partial.Body.Close()
	assert.Equal(t, http.StatusPartialContent, partial.StatusCode)
}

func TestStreamSceneMissingFile(t *testing.T) {
	ta := newTestApp(t)
	scene := createScene(t, ta, sceneRequest{Path: "nowhere.mp4", Title: "Ghost"})

	resp := ta.do(t, http.MethodGet, "/api/scenes/"+scene.ID+"/stream", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
