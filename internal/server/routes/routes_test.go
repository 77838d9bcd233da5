package routes

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/server/middleware"
	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	v *validator.Validate
}

func (tv testValidator) Validate(i any) error {
	return tv.v.Struct(i)
}

func newRequest(method, target, body string, user *middleware.AppUser) (*middleware.AppContext, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = testValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return &middleware.AppContext{Context: e.NewContext(req, rec), App: &middleware.App{}, User: user}, rec
}

func withID(c *middleware.AppContext, id string) *middleware.AppContext {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestIsModelFileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"tower.ifc", true},
		{"Tower.IFC", true},
		{"tower.ifczip", true},
		{"tower.ifcxml", false},
		{"tower", false},
		{"tower.ifc.pdf", false},
	}
	for _, tc := range tests {
		if got := isModelFileName(tc.name); got != tc.want {
			t.Fatalf("isModelFileName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func fileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "tower.ifc")
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/models", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm error: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestReadUpload(t *testing.T) {
	content := []byte("ISO-10303-21;")
	fh := fileHeader(t, content)

	got, err := readUpload(fh, 0)
	if err != nil || !bytes.Equal(got, content) {
		t.Fatalf("unlimited read = %q, %v", got, err)
	}
	got, err = readUpload(fh, int64(len(content)))
	if err != nil || !bytes.Equal(got, content) {
		t.Fatalf("read at limit = %q, %v", got, err)
	}
	if _, err := readUpload(fh, int64(len(content))-1); !errors.Is(err, errUploadTooLarge) {
		t.Fatalf("expected errUploadTooLarge, got %v", err)
	}
}

func TestUnknownStories(t *testing.T) {
	model := db.Model{Stories: []string{"L1", "L2"}}

	if got := unknownStories(filter.Criteria{Stories: []string{"L1", "l2", "Roof"}}, model); !slices.Equal(got, []string{"l2", "Roof"}) {
		t.Fatalf("unexpected missing stories %v", got)
	}
	if got := unknownStories(filter.Criteria{AllStories: true, Stories: []string{"Roof"}}, model); got != nil {
		t.Fatalf("all stories must not report missing stories, got %v", got)
	}
}

func TestCreateFilterJobBody_Criteria(t *testing.T) {
	c, err := createFilterJobBody{
		Stories:  []string{"All Stories"},
		Keywords: []string{" slab ", ""},
		Mode:     "Keywords only",
	}.criteria()
	if err != nil {
		t.Fatalf("criteria error: %v", err)
	}
	if !c.AllStories || c.Mode != filter.ModeKeywordOnly || !slices.Equal(c.Keywords, []string{"slab"}) {
		t.Fatalf("unexpected criteria %+v", c)
	}

	if _, err := (createFilterJobBody{Mode: "fuzzy"}).criteria(); !errors.Is(err, filter.ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestCreateFilterJobHandler_RejectsBeforeStore(t *testing.T) {
	user := &middleware.AppUser{UserID: 1, Permissions: []string{middleware.PermModelFilter}}

	tests := []struct {
		name string
		id   string
		body string
		want int
	}{
		{"bad id", "abc", `{"stories":["L1"]}`, http.StatusBadRequest},
		{"bad json", "1", `{"stories":`, http.StatusBadRequest},
		{"unknown mode", "1", `{"stories":["L1"],"mode":"fuzzy"}`, http.StatusBadRequest},
		{"no stories", "1", `{"types":["IfcSlab"]}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newRequest(http.MethodPost, "/api/models/"+tc.id+"/filters", tc.body, user)
			if err := CreateFilterJobHandler(withID(c, tc.id)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("got status %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandlers_RequireUser(t *testing.T) {
	handlers := map[string]echo.HandlerFunc{
		"GetModels":      GetModelsHandler,
		"GetModel":       GetModelHandler,
		"DeleteModel":    DeleteModelHandler,
		"GetJob":         GetJobHandler,
		"GetModelJobs":   GetModelJobsHandler,
		"UploadModel":    UploadModelHandler,
		"CreateFilterJob": CreateFilterJobHandler,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			body := ""
			if name == "CreateFilterJob" {
				body = `{"stories":["L1"]}`
			}
			c, rec := newRequest(http.MethodPost, "/api/models/1", body, nil)
			if err := h(withID(c, "1")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", rec.Code)
			}
		})
	}
}

func TestUploadModelHandler_MissingFile(t *testing.T) {
	c, rec := newRequest(http.MethodPost, "/api/models", "", &middleware.AppUser{UserID: 1})
	if err := UploadModelHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}
