package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/printer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return w, env
}

type memCategories struct {
	rows map[uuid.UUID]entity.Category
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range m.rows {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memCategories) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Category, int64, error) {
	out := make([]entity.Category, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// productsInCategory answers the in-use check made before a category delete
type productsInCategory struct {
	repository.ProductRepository
	counts map[uuid.UUID]int64
}

func (p *productsInCategory) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	if params.CategoryID == nil {
		return nil, 0, nil
	}
	return nil, p.counts[*params.CategoryID], nil
}

func categoryRouter() (*gin.Engine, *memCategories, *productsInCategory) {
	cats := &memCategories{rows: map[uuid.UUID]entity.Category{}}
	prods := &productsInCategory{counts: map[uuid.UUID]int64{}}
	h := NewCategoryHandler(service.NewCategoryService(cats, prods))

	r := gin.New()
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
	r.PUT("/categories/:id", h.Update)
	r.DELETE("/categories/:id", h.Delete)
	return r, cats, prods
}

func TestCategoryLifecycle(t *testing.T) {
	r, cats, prods := categoryRouter()

	w, env := do(t, r, http.MethodPost, "/categories", `{"name":"Sweets"}`)
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("create = %d %+v", w.Code, env)
	}
	var created entity.Category
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.Slug != "sweets" {
		t.Errorf("slug = %q, want sweets", created.Slug)
	}

	w, _ = do(t, r, http.MethodPost, "/categories", `{"name":"sweets"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}

	prods.counts[created.ID] = 2
	w, _ = do(t, r, http.MethodDelete, "/categories/"+created.ID.String(), "")
	if w.Code != http.StatusConflict {
		t.Errorf("delete in use = %d, want 409", w.Code)
	}

	prods.counts[created.ID] = 0
	w, _ = do(t, r, http.MethodDelete, "/categories/"+created.ID.String(), "")
	if w.Code != http.StatusNoContent || len(cats.rows) != 0 {
		t.Errorf("delete = %d, %d rows left", w.Code, len(cats.rows))
	}
}

func TestCategoryBadInput(t *testing.T) {
	r, _, _ := categoryRouter()

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing name", http.MethodPost, "/categories", `{}`, http.StatusBadRequest},
		{"bad id", http.MethodPut, "/categories/nope", `{"name":"Milk"}`, http.StatusBadRequest},
		{"unknown id", http.MethodDelete, "/categories/" + uuid.NewString(), "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, tt.method, tt.path, tt.body)
			if w.Code != tt.want || env.Success {
				t.Errorf("status = %d success = %v, want %d", w.Code, env.Success, tt.want)
			}
		})
	}
}

func TestBillCreateRejectsBadBody(t *testing.T) {
	// validation happens before the service is reached
	h := NewBillHandler(nil)
	r := gin.New()
	r.POST("/bills", h.Create)
	r.GET("/bills", h.List)

	product := uuid.NewString()
	tests := []struct {
		name, body string
	}{
		{"empty cart", `{"items":[]}`},
		{"zero quantity", `{"items":[{"product_id":"` + product + `","quantity":0}]}`},
		{"bad mode", `{"payment_mode":"Barter","items":[{"product_id":"` + product + `","quantity":1}]}`},
		{"bad date", `{"date":"01/02/2024","items":[{"product_id":"` + product + `","quantity":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, r, http.MethodPost, "/bills", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	w, _ := do(t, r, http.MethodGet, "/bills?payment_mode=Barter", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("list with bad mode = %d, want 400", w.Code)
	}
}

func TestCustomerRoutesRejectBadIDs(t *testing.T) {
	h := NewCustomerHandler(nil, nil, nil, nil)
	r := gin.New()
	r.GET("/customers/:id/statement", h.Statement)
	r.GET("/customers/:id/summary", h.Summary)
	r.POST("/customers/:id/payments", h.RecordPayment)

	id := uuid.NewString()
	for _, path := range []string{
		"/customers/abc/statement",
		"/customers/" + id + "/statement?from=2024-13-01",
		"/customers/" + id + "/summary?month=2024-1",
	} {
		w, _ := do(t, r, http.MethodGet, path, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, w.Code)
		}
	}

	w, _ := do(t, r, http.MethodPost, "/customers/"+id+"/payments", `{"amount":"10","payment_mode":"Credit"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("credit payment = %d, want 400", w.Code)
	}
}

func printerRouter(p printer.Printer) *gin.Engine {
	svc := service.NewPrinterService(p, nil, nil, entity.ReceiptHeader{StoreName: "Gokul Dairy"}, printer.Width58mm, nil)
	h := NewPrinterHandler(svc)
	r := gin.New()
	r.GET("/printer/status", h.GetStatus)
	r.POST("/printer/test", h.TestPrint)
	r.POST("/printer/print", h.PrintReceipt)
	return r
}

func TestPrinterTestPage(t *testing.T) {
	buf := &printer.BufferPrinter{}
	r := printerRouter(buf)

	w, env := do(t, r, http.MethodPost, "/printer/test", "")
	if w.Code != http.StatusOK || env.Message != "Test page sent to printer" {
		t.Fatalf("test print = %d %q", w.Code, env.Message)
	}
	if jobs := buf.Jobs(); len(jobs) != 1 || !bytes.Contains(jobs[0], []byte("Gokul Dairy")) {
		t.Errorf("jobs = %d", len(jobs))
	}

	failing := printerRouter(&printer.BufferPrinter{Err: errors.New("paper out")})
	w, env = do(t, failing, http.MethodPost, "/printer/test", "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), "paper out") {
		t.Errorf("failed test print = %d %s", w.Code, env.Data)
	}
}

func TestPrinterStatusAndValidation(t *testing.T) {
	r := printerRouter(printer.NewNullPrinter())

	w, env := do(t, r, http.MethodGet, "/printer/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status service.PrinterStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatal(err)
	}
	want := service.PrinterStatus{Configured: false, Connected: false, Type: "none", Width: printer.Width58mm}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}

	for _, body := range []string{
		`{"type":"order","id":"` + uuid.NewString() + `"}`,
		`{"type":"bill","id":"42"}`,
		`{"type":"statement","id":"` + uuid.NewString() + `","from":"yesterday"}`,
	} {
		if w, _ := do(t, r, http.MethodPost, "/printer/print", body); w.Code != http.StatusBadRequest {
			t.Errorf("print %s = %d, want 400", body, w.Code)
		}
	}
}
