package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// fakeMaterials keeps materials in memory and enforces the same
// non-negative stock rule as the SQL guard.
type fakeMaterials struct {
	items   map[uint64]*model.Material
	readErr error
}

func (f *fakeMaterials) Create(ctx context.Context, m *model.Material) error {
	m.ID = uint64(len(f.items) + 1)
	f.items[m.ID] = m
	return nil
}

func (f *fakeMaterials) GetByID(ctx context.Context, id uint64) (*model.Material, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	m, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMaterials) List(ctx context.Context) ([]*model.Material, error) {
	var out []*model.Material
	for _, m := range f.items {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMaterials) Update(ctx context.Context, m *model.Material) error {
	cur, ok := f.items[m.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.Unit, cur.SupplierID = m.Name, m.Unit, m.SupplierID
	return nil
}

func (f *fakeMaterials) AdjustQuantity(ctx context.Context, id uint64, delta int64) (*model.Material, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.Quantity+delta < 0 {
		return nil, repository.ErrConflict
	}
	m.Quantity += delta
	cp := *m
	return &cp, nil
}

func (f *fakeMaterials) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newMaterialHandler(mats *fakeMaterials) *AdminHandler {
	return &AdminHandler{Materials: mats}
}

func newJSONContext(method, target, body string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return c, rec
}

func testStock() *fakeMaterials {
	return &fakeMaterials{items: map[uint64]*model.Material{
		7: {ID: 7, Name: "cement", Unit: "bag", Quantity: 10, SupplierID: 3},
	}}
}

func TestAdjustMaterialUnderflow(t *testing.T) {
	mats := testStock()
	h := newMaterialHandler(mats)

	c, rec := newJSONContext(http.MethodPost, "/v1/materials/7/adjust", `{"delta":-11}`, map[string]string{"id": "7"})
	if err := h.AdjustMaterial(c); err != nil {
		t.Fatalf("AdjustMaterial: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "insufficient stock" {
		t.Fatalf("error message = %q", got)
	}
	if q := mats.items[7].Quantity; q != 10 {
		t.Fatalf("stock changed on refused adjust: %d", q)
	}
}

func TestAdjustMaterialExactDrain(t *testing.T) {
	mats := testStock()
	h := newMaterialHandler(mats)

	c, rec := newJSONContext(http.MethodPost, "/v1/materials/7/adjust", `{"delta":-10}`, map[string]string{"id": "7"})
	if err := h.AdjustMaterial(c); err != nil {
		t.Fatalf("AdjustMaterial: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if q := mats.items[7].Quantity; q != 0 {
		t.Fatalf("stock = %d, want 0", q)
	}
}

func TestAdjustMaterialZeroDelta(t *testing.T) {
	h := newMaterialHandler(testStock())

	c, rec := newJSONContext(http.MethodPost, "/v1/materials/7/adjust", `{"delta":0}`, map[string]string{"id": "7"})
	if err := h.AdjustMaterial(c); err != nil {
		t.Fatalf("AdjustMaterial: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdjustMaterialNotFound(t *testing.T) {
	h := newMaterialHandler(testStock())

	c, rec := newJSONContext(http.MethodPost, "/v1/materials/99/adjust", `{"delta":5}`, map[string]string{"id": "99"})
	if err := h.AdjustMaterial(c); err != nil {
		t.Fatalf("AdjustMaterial: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateMaterialRereadFailure(t *testing.T) {
	mats := testStock()
	h := newMaterialHandler(mats)

	// The update lands but the follow-up read breaks; the client must see
	// a 500, not a 200 with an empty body.
	c, rec := newJSONContext(http.MethodPut, "/v1/materials/7", `{"name":"cement","unit":"bag","supplier_id":3}`, map[string]string{"id": "7"})
	mats.readErr = errors.New("connection reset")
	if err := h.UpdateMaterial(c); err != nil {
		t.Fatalf("UpdateMaterial: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "null") {
		t.Fatalf("null body returned: %s", rec.Body.String())
	}
}
