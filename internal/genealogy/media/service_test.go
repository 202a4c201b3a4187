// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/media"
	"github.com/taibuivan/roots/internal/genealogy/person"
	"github.com/taibuivan/roots/internal/genealogy/tree"
	"github.com/taibuivan/roots/internal/platform/apperr"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/dberr"
	"github.com/taibuivan/roots/internal/platform/sec"
)

const (
	personID   = "0190a6c0-0000-7000-8000-0000000000a1"
	ghostID    = "0190a6c0-0000-7000-8000-0000000000a9"
	ownerID    = "0190a6c0-0000-7000-8000-0000000000f1"
	viewerID   = "0190a6c0-0000-7000-8000-0000000000b1"
	missingRow = "0190a6c0-0000-7000-8000-0000000000d9"
)

var (
	owner  = sec.Caller{UserID: ownerID, Role: sec.RoleUser}
	viewer = sec.Caller{UserID: viewerID, Role: sec.RoleUser}
)

// # Fakes

type fakeRepository struct {
	photos    map[string]*media.Photo
	documents map[string]*media.Document
	failWrite bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{photos: map[string]*media.Photo{}, documents: map[string]*media.Document{}}
}

func (repo *fakeRepository) CreatePhoto(_ context.Context, photo *media.Photo) error {
	if repo.failWrite {
		return errors.New("db down")
	}
	repo.photos[photo.ID] = photo
	return nil
}

func (repo *fakeRepository) FindPhoto(_ context.Context, id string) (*media.Photo, error) {
	if photo, ok := repo.photos[id]; ok {
		return photo, nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) ListPhotos(_ context.Context, id string) ([]*media.Photo, error) {
	photos := []*media.Photo{}
	for _, photo := range repo.photos {
		if photo.PersonID == id {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (repo *fakeRepository) UpdatePhoto(_ context.Context, photo *media.Photo) error {
	repo.photos[photo.ID] = photo
	return nil
}

func (repo *fakeRepository) DeletePhoto(_ context.Context, id string) error {
	delete(repo.photos, id)
	return nil
}

func (repo *fakeRepository) CreateDocument(_ context.Context, document *media.Document) error {
	if repo.failWrite {
		return errors.New("db down")
	}
	repo.documents[document.ID] = document
	return nil
}

func (repo *fakeRepository) FindDocument(_ context.Context, id string) (*media.Document, error) {
	if document, ok := repo.documents[id]; ok {
		return document, nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) ListDocuments(_ context.Context, id string) ([]*media.Document, error) {
	documents := []*media.Document{}
	for _, document := range repo.documents {
		if document.PersonID == id {
			documents = append(documents, document)
		}
	}
	return documents, nil
}

func (repo *fakeRepository) DeleteDocument(_ context.Context, id string) error {
	delete(repo.documents, id)
	return nil
}

// fakePersons grants edit to the owner and view to the viewer.
type fakePersons struct {
	avatar, thumb *string
}

func (persons *fakePersons) Authorize(_ context.Context, caller sec.Caller, id string, level tree.Access) (*person.Person, *tree.Tree, error) {
	if id != personID {
		return nil, nil, apperr.NotFound("Person")
	}
	if caller.UserID == ownerID || (caller.UserID == viewerID && level == tree.AccessView) {
		return &person.Person{ID: id}, &tree.Tree{OwnerID: ownerID}, nil
	}
	return nil, nil, apperr.Forbidden("Access denied")
}

func (persons *fakePersons) SetAvatar(_ context.Context, _ string, url, thumbURL *string) error {
	persons.avatar, persons.thumb = url, thumbURL
	return nil
}

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (store *fakeStore) Upload(_ context.Context, data []byte, filename, contentType, subfolder string) (string, error) {
	url := "http://s3/roots/" + subfolder + "/" + filename
	store.objects[url] = data
	store.types[url] = contentType
	return url, nil
}

func (store *fakeStore) Delete(_ context.Context, url string) bool {
	store.deleted = append(store.deleted, url)
	delete(store.objects, url)
	return true
}

type fixture struct {
	service *media.Service
	repo    *fakeRepository
	persons *fakePersons
	store   *fakeStore
}

func newFixture() fixture {
	f := fixture{repo: newFakeRepository(), persons: &fakePersons{}, store: newFakeStore()}
	f.service = media.NewService(f.repo, f.persons, f.store)
	return f
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %v", err)
	return appError.HTTPStatus
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, x%height, color.RGBA{R: 200, A: 255})
	}

	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, img))
	return buffer.Bytes()
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// # Photos

func TestUploadPhoto(t *testing.T) {
	f := newFixture()
	caption := "Wedding day"

	photo, err := f.service.UploadPhoto(context.Background(), owner, personID, media.File{
		Name:        "C:\\scans\\wedding.png",
		ContentType: "image/png",
		Data:        pngBytes(t, 300, 200),
	}, &caption)
	require.NoError(t, err)

	assert.Equal(t, "http://s3/roots/photos/wedding.jpg", photo.FileURL)
	require.NotNil(t, photo.ThumbURL)
	assert.Equal(t, "http://s3/roots/photos/thumbs/wedding.jpg", *photo.ThumbURL)
	assert.Equal(t, "image/jpeg", f.store.types[photo.FileURL])
	assert.Contains(t, f.repo.photos, photo.ID)
}

func TestUploadPhoto_Rejections(t *testing.T) {
	oversized := append(pngBytes(t, 4, 4), make([]byte, media.MaxPhotoSize)...)

	tests := []struct {
		name   string
		caller sec.Caller
		person string
		file   media.File
		status int
	}{
		{"declared_type", owner, personID, media.File{ContentType: "image/gif", Data: pngBytes(t, 4, 4)}, http.StatusUnsupportedMediaType},
		{"sniffed_type", owner, personID, media.File{ContentType: "image/png", Data: pdfBytes}, http.StatusUnsupportedMediaType},
		{"too_large", owner, personID, media.File{ContentType: "image/png", Data: oversized}, http.StatusRequestEntityTooLarge},
		{"view_only", viewer, personID, media.File{ContentType: "image/png", Data: pngBytes(t, 4, 4)}, http.StatusForbidden},
		{"missing_person", owner, ghostID, media.File{ContentType: "image/png", Data: pngBytes(t, 4, 4)}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.UploadPhoto(context.Background(), tt.caller, tt.person, tt.file, nil)

			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(t, err))
			assert.Empty(t, f.store.objects)
		})
	}
}

func TestUploadPhoto_RollsBackBlobsOnInsertFailure(t *testing.T) {
	f := newFixture()
	f.repo.failWrite = true

	_, err := f.service.UploadPhoto(context.Background(), owner, personID, media.File{
		Name: "a.png", ContentType: "image/png", Data: pngBytes(t, 10, 10),
	}, nil)

	require.Error(t, err)
	assert.Empty(t, f.store.objects)
	assert.Len(t, f.store.deleted, 2)
}

func TestPhotoLifecycle(t *testing.T) {
	f := newFixture()
	photo, err := f.service.UploadPhoto(context.Background(), owner, personID, media.File{
		Name: "grandma.png", ContentType: "image/png", Data: pngBytes(t, 20, 20),
	}, nil)
	require.NoError(t, err)

	listed, err := f.service.ListPhotos(context.Background(), viewer, personID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	order := 3
	caption := "Grandma, 1950"
	updated, err := f.service.UpdatePhoto(context.Background(), owner, photo.ID, media.PhotoUpdate{Caption: &caption, SortOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.SortOrder)
	assert.Equal(t, caption, *updated.Caption)

	_, err = f.service.SetAvatar(context.Background(), owner, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.FileURL, *f.persons.avatar)
	assert.Equal(t, *photo.ThumbURL, *f.persons.thumb)

	require.NoError(t, f.service.DeletePhoto(context.Background(), owner, photo.ID))
	assert.Empty(t, f.repo.photos)
	assert.ElementsMatch(t, []string{photo.FileURL, *photo.ThumbURL}, f.store.deleted)
}

func TestUpdatePhoto_Rejections(t *testing.T) {
	f := newFixture()
	negative := -1

	_, err := f.service.UpdatePhoto(context.Background(), owner, missingRow, media.PhotoUpdate{SortOrder: &negative})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = f.service.UpdatePhoto(context.Background(), owner, missingRow, media.PhotoUpdate{})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

// # Documents

func TestUploadDocument(t *testing.T) {
	f := newFixture()

	document, err := f.service.UploadDocument(context.Background(), owner, personID, media.File{
		Name: "birth-certificate.pdf", ContentType: "application/octet-stream", Data: pdfBytes,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", document.FileType)
	assert.Equal(t, "birth-certificate.pdf", document.FileName)
	assert.Equal(t, "application/pdf", f.store.types[document.FileURL])

	require.NoError(t, f.service.DeleteDocument(context.Background(), owner, document.ID))
	assert.Equal(t, []string{document.FileURL}, f.store.deleted)

	err = f.service.DeleteDocument(context.Background(), owner, document.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUploadDocument_Rejections(t *testing.T) {
	f := newFixture()

	_, err := f.service.UploadDocument(context.Background(), owner, personID, media.File{
		Name: "notes.txt", Data: []byte("just some notes"),
	})
	assert.Equal(t, http.StatusUnsupportedMediaType, statusOf(t, err))

	oversized := append(append([]byte{}, pdfBytes...), make([]byte, media.MaxDocumentSize)...)
	_, err = f.service.UploadDocument(context.Background(), owner, personID, media.File{Name: "big.pdf", Data: oversized})
	assert.Equal(t, http.StatusRequestEntityTooLarge, statusOf(t, err))

	assert.Empty(t, f.store.objects)
}

// # HTTP

func TestHandler_UploadPhotoMultipart(t *testing.T) {
	f := newFixture()
	router := chi.NewRouter()
	media.NewHandler(f.service).RegisterRoutes(router)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="portrait.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t, 64, 64))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("caption", "Portrait"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/persons/"+personID+"/photos", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &owner))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"caption":"Portrait"`)
}

func TestHandler_UploadRequiresFile(t *testing.T) {
	f := newFixture()
	router := chi.NewRouter()
	media.NewHandler(f.service).RegisterRoutes(router)

	request := httptest.NewRequest(http.MethodPost, "/persons/"+personID+"/documents", strings.NewReader("plain body"))
	request.Header.Set("Content-Type", "text/plain")
	request = request.WithContext(ctxutil.WithCaller(request.Context(), &owner))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
