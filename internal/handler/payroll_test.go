package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

type fakePayroll struct {
	entries []*model.PayrollEntry
	runs    int
	runErr  error
	overlap bool
	getErr  error
}

func (f *fakePayroll) HasOpenOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	return f.overlap, nil
}

func (f *fakePayroll) GenerateRun(ctx context.Context, entries []*model.PayrollEntry) error {
	f.runs++
	if f.runErr != nil {
		return f.runErr
	}
	for i, p := range entries {
		p.ID = uint64(len(f.entries) + i + 1)
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakePayroll) List(ctx context.Context, status string) ([]*model.PayrollEntry, error) {
	var out []*model.PayrollEntry
	for _, p := range f.entries {
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePayroll) GetByID(ctx context.Context, id uint64) (*model.PayrollEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.entries {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePayroll) MarkPaid(ctx context.Context, id uint64) error {
	for _, p := range f.entries {
		if p.ID != id {
			continue
		}
		if p.Status != model.PayrollOpen {
			return repository.ErrConflict
		}
		p.Status = model.PayrollPaid
		return nil
	}
	return repository.ErrNotFound
}

type fakeCounts struct{ byEmployee map[uint64][2]int }

func (f *fakeCounts) CountForEmployee(ctx context.Context, employeeID uint64, from, to time.Time) (int, int, error) {
	c := f.byEmployee[employeeID]
	return c[0], c[1], nil
}

type fakeRoster struct{ active []*model.Employee }

func (f *fakeRoster) ListActive(ctx context.Context) ([]*model.Employee, error) {
	return f.active, nil
}

func testCrew() *fakeRoster {
	return &fakeRoster{active: []*model.Employee{
		{ID: 1, Name: "Mason", DailyRate: 15000, IsActive: true},
		{ID: 2, Name: "Welder", DailyRate: 20000, IsActive: true},
		{ID: 3, Name: "Idle", DailyRate: 10000, IsActive: true},
	}}
}

func testCounts() *fakeCounts {
	return &fakeCounts{byEmployee: map[uint64][2]int{
		1: {20, 2}, // 20 full days, 2 half days
		2: {0, 1},
		// employee 3 has no attendance and gets no entry
	}}
}

const generateBody = `{"period_start":"2026-08-01","period_end":"2026-08-31"}`

func TestGeneratePayrollSingleRun(t *testing.T) {
	payroll := &fakePayroll{}
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/generate", generateBody, nil)
	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if payroll.runs != 1 {
		t.Fatalf("runs = %d, want a single store call", payroll.runs)
	}
	if len(payroll.entries) != 2 {
		t.Fatalf("entries = %d, want 2 (no-attendance employee skipped)", len(payroll.entries))
	}
	first := payroll.entries[0]
	if first.EmployeeID != 1 || first.AmountCents != 20*15000+15000 {
		t.Fatalf("entry = %+v", first)
	}
	if first.Status != model.PayrollOpen {
		t.Fatalf("status = %q, want open", first.Status)
	}
}

func TestGeneratePayrollStoreFailure(t *testing.T) {
	payroll := &fakePayroll{runErr: errors.New("deadlock")}
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/generate", generateBody, nil)
	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(payroll.entries) != 0 {
		t.Fatalf("entries persisted after failed run: %d", len(payroll.entries))
	}
}

func TestGeneratePayrollOverlapRefused(t *testing.T) {
	payroll := &fakePayroll{overlap: true}
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/generate", generateBody, nil)
	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "an open payroll run overlaps this period" {
		t.Fatalf("error message = %q", got)
	}
	if payroll.runs != 0 {
		t.Fatalf("store reached despite overlap")
	}
}

func TestGeneratePayrollBadPeriod(t *testing.T) {
	h := NewPayrollHandler(&fakePayroll{}, testCounts(), testCrew())

	for _, body := range []string{
		`{}`,
		`{"period_start":"2026-08-31","period_end":"2026-08-01"}`,
		`{"period_start":"31-08-2026","period_end":"2026-08-31"}`,
	} {
		c, rec := newJSONContext(http.MethodPost, "/v1/payroll/generate", body, nil)
		if err := h.Generate(c); err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func openEntry() *fakePayroll {
	return &fakePayroll{entries: []*model.PayrollEntry{
		{ID: 4, EmployeeID: 1, AmountCents: 315000, Status: model.PayrollOpen},
	}}
}

func TestPayMarksEntryPaid(t *testing.T) {
	payroll := openEntry()
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/4/pay", "", map[string]string{"id": "4"})
	if err := h.Pay(c); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if payroll.entries[0].Status != model.PayrollPaid {
		t.Fatalf("status = %q, want paid", payroll.entries[0].Status)
	}
}

func TestPayAlreadyPaidConflicts(t *testing.T) {
	payroll := openEntry()
	payroll.entries[0].Status = model.PayrollPaid
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/4/pay", "", map[string]string{"id": "4"})
	if err := h.Pay(c); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestPayRereadFailure(t *testing.T) {
	payroll := openEntry()
	payroll.getErr = errors.New("connection reset")
	h := NewPayrollHandler(payroll, testCounts(), testCrew())

	c, rec := newJSONContext(http.MethodPost, "/v1/payroll/4/pay", "", map[string]string{"id": "4"})
	if err := h.Pay(c); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
