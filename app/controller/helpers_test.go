package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"kardly-server/models"
)

// fakePhotocards records the intent it is given and answers with result or err
type fakePhotocards struct {
	intent *models.UploadIntent
	result *models.PhotocardCreated
	err    error
}

func (f *fakePhotocards) Create(ctx context.Context, intent models.UploadIntent) (*models.PhotocardCreated, error) {
	f.intent = &intent
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCatalog struct {
	group   *models.Group
	member  *models.Member
	album   *models.Album
	existed bool
	err     error
}

func (f *fakeCatalog) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, bool, error) {
	return f.group, f.existed, f.err
}

func (f *fakeCatalog) CreateMember(ctx context.Context, req models.CreateMemberRequest) (*models.Member, bool, error) {
	return f.member, f.existed, f.err
}

func (f *fakeCatalog) CreateAlbum(ctx context.Context, req models.CreateAlbumRequest) (*models.Album, bool, error) {
	return f.album, f.existed, f.err
}

type fakeCollection struct {
	user   uuid.UUID
	cardID string
	status *models.CollectionStatus
	err    error
}

func (f *fakeCollection) Toggle(ctx context.Context, userID uuid.UUID, photocardID string, flag models.CollectionFlag) (*models.CollectionStatus, error) {
	f.user, f.cardID = userID, photocardID
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/add_photocard", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
