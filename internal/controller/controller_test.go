package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/repository/memory"
	"stlc-manager-be/internal/service"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noFiles struct{}

func (noFiles) MappedFiles(context.Context, string) ([]pipeline.File, error)  { return nil, nil }
func (noFiles) ProcessFiles(context.Context, string) ([]pipeline.File, error) { return nil, nil }
func (noFiles) ManagedFiles(context.Context) ([]pipeline.File, error)         { return nil, nil }

// stubFiles records uploads and never touches a database.
type stubFiles struct {
	service.IFileService
	gotType  string
	gotFiles []dto.UploadedFile
}

func (s *stubFiles) Upload(ctx context.Context, workspaceId, fileType string, files []dto.UploadedFile) ([]*dto.FileResponse, error) {
	if !catalog.IsDocumentType(fileType) {
		return nil, workspace.ErrInvalidDocumentType
	}
	s.gotType, s.gotFiles = fileType, files
	return []*dto.FileResponse{{Id: "1-abc", Name: files[0].Name, Type: fileType, Size: int64(len(files[0].Content))}}, nil
}

func (s *stubFiles) Source(*workspace.Workspace) pipeline.FileSource {
	return noFiles{}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, interface{}) error { return nil }

type testApp struct {
	app   *fiber.App
	files *stubFiles
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.NewNopLogger()
	workspaces := service.NewWorkspaceService(memory.NewWorkspaceRepository(time.Hour), nil, catalog.Default(), true, log)
	files := &stubFiles{}
	runs := service.NewRunService(workspaces, files, nopPublisher{}, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewCatalogController(catalog.Default(), nil).RegisterRoutes(api)
	group := api.Group("/workspaces")
	NewWorkspaceController(workspaces).RegisterRoutes(group)
	NewFileController(files).RegisterRoutes(group)
	NewPipelineController(runs).RegisterRoutes(group)
	return &testApp{app: app, files: files}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(t, req)
}

func (a *testApp) send(t *testing.T, req *http.Request) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	var out serverutils.BaseResponse[json.RawMessage]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (a *testApp) createWorkspace(t *testing.T) string {
	t.Helper()
	code, res := a.do(t, "POST", "/api/workspaces", nil)
	require.Equal(t, http.StatusCreated, code)
	var snap workspace.Snapshot
	require.NoError(t, json.Unmarshal(res.Data, &snap))
	return snap.ID
}

func TestCatalogController_Processes(t *testing.T) {
	a := newTestApp(t)
	code, res := a.do(t, "GET", "/api/catalog/processes", nil)
	require.Equal(t, http.StatusOK, code)

	var procs []catalog.Process
	require.NoError(t, json.Unmarshal(res.Data, &procs))
	require.Len(t, procs, len(catalog.Default().All()))
	assert.Equal(t, catalog.CodeReview, procs[0].ID)
}

func TestWorkspaceController_ToggleAndErrors(t *testing.T) {
	a := newTestApp(t)
	id := a.createWorkspace(t)

	code, res := a.do(t, "POST", "/api/workspaces/"+id+"/processes/"+catalog.CodeReview+"/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	var toggled dto.ToggleProcessResponse
	require.NoError(t, json.Unmarshal(res.Data, &toggled))
	require.Len(t, toggled.Selection, 1)

	code, _ = a.do(t, "POST", "/api/workspaces/"+id+"/processes/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, "GET", "/api/workspaces/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, "PUT", "/api/workspaces/"+id+"/auto-selection", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, "PUT", "/api/workspaces/"+id+"/auto-selection", map[string]interface{}{"enabled": false})
	assert.Equal(t, http.StatusOK, code)
}

func TestPipelineController_RunStatuses(t *testing.T) {
	a := newTestApp(t)
	id := a.createWorkspace(t)

	code, _ := a.do(t, "POST", "/api/workspaces/"+id+"/pipeline/run", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	a.do(t, "POST", "/api/workspaces/"+id+"/processes/"+catalog.TestPlanning+"/toggle", nil)
	code, res := a.do(t, "POST", "/api/workspaces/"+id+"/pipeline/run", nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	var missing []pipeline.MissingInput
	require.NoError(t, json.Unmarshal(res.Data, &missing))
	assert.Equal(t, catalog.TestPlanning, missing[0].ProcessID)

	code, res = a.do(t, "POST", "/api/workspaces/"+id+"/processes/"+catalog.CodeReview+"/run", nil)
	require.Equal(t, http.StatusAccepted, code)
	var run dto.RunResponse
	require.NoError(t, json.Unmarshal(res.Data, &run))
	assert.Equal(t, pipeline.ModeSingle, run.Mode)

	code, _ = a.do(t, "POST", "/api/workspaces/"+id+"/processes/"+catalog.CodeReview+"/run", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestFileController_UploadMultipart(t *testing.T) {
	a := newTestApp(t)
	id := a.createWorkspace(t)

	build := func(fileType string) *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("type", fileType))
		part, err := w.CreateFormFile("files", "req.md")
		require.NoError(t, err)
		_, _ = part.Write([]byte("# Requirements"))
		require.NoError(t, w.Close())
		req := httptest.NewRequest("POST", "/api/workspaces/"+id+"/files", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req
	}

	code, _ := a.send(t, build(catalog.DocRequirement))
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, catalog.DocRequirement, a.files.gotType)
	require.Len(t, a.files.gotFiles, 1)
	assert.Equal(t, "# Requirements", string(a.files.gotFiles[0].Content))

	code, _ = a.send(t, build(""))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.send(t, build("Memo"))
	assert.Equal(t, http.StatusBadRequest, code)
}
