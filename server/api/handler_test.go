package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedbus_server/server/domain"
	"tedbus_server/server/service"
)

type stubObjectStore struct {
	puts    []string
	putFail bool
}

func (s *stubObjectStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if s.putFail {
		return "", errors.New("storage unavailable")
	}
	s.puts = append(s.puts, key)
	return s.PublicURL(key), nil
}

func (s *stubObjectStore) PublicURL(key string) string {
	return "https://acme.supabase.co/storage/v1/object/public/documents/" + key
}

type stubFileStore struct {
	insertFail bool
}

func (s *stubFileStore) Insert(_ context.Context, _ domain.FileRecord) (string, error) {
	if s.insertFail {
		return "", errors.New("mongo unavailable")
	}
	return "65f0c0ffee000001", nil
}

type stubPostRepo struct {
	posts []domain.Post
}

func (s *stubPostRepo) Insert(_ context.Context, post domain.Post) (string, error) {
	post.ID = fmt.Sprintf("post%d", len(s.posts)+1)
	s.posts = append(s.posts, post)
	return post.ID, nil
}

func (s *stubPostRepo) ListNewestFirst(_ context.Context) ([]domain.Post, error) {
	return append([]domain.Post(nil), s.posts...), nil
}

type stubOrgRepo struct {
	docs []domain.Document
}

func (s *stubOrgRepo) InsertOrg(_ context.Context, _ domain.Org) (string, error) {
	return "org1", nil
}

func (s *stubOrgRepo) InsertDocument(_ context.Context, doc domain.Document) (string, error) {
	doc.ID = fmt.Sprintf("doc%d", len(s.docs)+1)
	s.docs = append(s.docs, doc)
	return doc.ID, nil
}

func (s *stubOrgRepo) ListDocumentsByOrg(_ context.Context, orgID string) ([]domain.Document, error) {
	out := make([]domain.Document, 0)
	for _, d := range s.docs {
		if d.OrgID == orgID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestRouter(objects *stubObjectStore, files *stubFileStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(
		service.NewUploadService(objects, files, nil),
		service.NewPostService(&stubPostRepo{}, nil),
		service.NewOrgService(&stubOrgRepo{}),
	)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func decodeError(t *testing.T, body *bytes.Buffer) (kind, message string) {
	t.Helper()
	var resp struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp.Error.Kind, resp.Error.Message
}

func TestUploadEndpointSuccess(t *testing.T) {
	objects := &stubObjectStore{}
	r := newTestRouter(objects, &stubFileStore{})

	body, ct := multipartBody(t, "My Report.pdf", "application/pdf", bytes.Repeat([]byte("x"), 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Message string `json:"message"`
		URL     string `json:"url"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File uploaded successfully", resp.Message)
	assert.Equal(t, "65f0c0ffee000001", resp.ID)
	assert.Regexp(t, `/storage/v1/object/public/documents/\d{8}_\d{6}_[0-9a-f]{8}_My_Report\.pdf$`, resp.URL)

	require.Len(t, objects.puts, 1)
	assert.True(t, strings.HasSuffix(resp.URL, objects.puts[0]))
}

func TestUploadEndpointEmptyFile(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	body, ct := multipartBody(t, "empty.txt", "text/plain", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	kind, _ := decodeError(t, rec.Body)
	assert.Equal(t, "rejected_input", kind)
}

func TestUploadEndpointMissingFileField(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	form := url.Values{"other": {"value"}}
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	kind, _ := decodeError(t, rec.Body)
	assert.Equal(t, "rejected_input", kind)
}

func TestUploadEndpointStorageFailure(t *testing.T) {
	r := newTestRouter(&stubObjectStore{putFail: true}, &stubFileStore{})

	body, ct := multipartBody(t, "report.pdf", "application/pdf", []byte("content"))
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	kind, message := decodeError(t, rec.Body)
	assert.Equal(t, "storage_write_failed", kind)
	assert.NotContains(t, message, "unavailable", "raw cause must not leak")
}

func TestUploadEndpointMetadataFailure(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{insertFail: true})

	body, ct := multipartBody(t, "report.pdf", "application/pdf", []byte("content"))
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	kind, message := decodeError(t, rec.Body)
	assert.Equal(t, "metadata_write_failed", kind)
	assert.NotContains(t, message, "mongo", "raw cause must not leak")
}

func TestCreateAndListPosts(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	payload := `{"title":"Trip","content":"Great ride","author_name":"Ayesha"}`
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed PostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Posts, 1)
	assert.Equal(t, "Trip", listed.Posts[0].Title)
}

func TestCreatePostRejectsMissingFields(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	kind, _ := decodeError(t, rec.Body)
	assert.Equal(t, "rejected_input", kind)
}

func TestListPostsFallsBackToWelcomePost(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed PostsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Posts, 1)
	assert.Contains(t, listed.Posts[0].Title, "Welcome to Tedbus Community")
}

func TestOrgDocumentRoundTrip(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/orgs", strings.NewReader(`{"org_name":"acme","api_key":"k1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var org IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &org))
	require.NotEmpty(t, org.ID)

	docPayload := `{"file_name":"guide.pdf","file_type":"pdf"}`
	req = httptest.NewRequest(http.MethodPost, "/api/orgs/"+org.ID+"/documents", strings.NewReader(docPayload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/orgs/"+org.ID+"/documents", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed DocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Documents, 1)
	assert.Equal(t, "guide.pdf", listed.Documents[0].FileName)
	assert.Equal(t, domain.DocumentStatusUploaded, listed.Documents[0].Status)
}

func TestHealthAndRoot(t *testing.T) {
	r := newTestRouter(&stubObjectStore{}, &stubFileStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tedbus backend running")
}
