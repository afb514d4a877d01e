package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
)

// fakeEmployees mirrors the guarded delete of the SQL store: an employee
// with attendance rows cannot be removed.
type fakeEmployees struct {
	items          map[uint64]*model.Employee
	withAttendance map[uint64]bool
}

func (f *fakeEmployees) Create(ctx context.Context, e *model.Employee) error {
	e.ID = uint64(len(f.items) + 1)
	f.items[e.ID] = e
	return nil
}

func (f *fakeEmployees) GetByID(ctx context.Context, id uint64) (*model.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) List(ctx context.Context, supervisorID uint64) ([]*model.Employee, error) {
	var out []*model.Employee
	for _, e := range f.items {
		if supervisorID != 0 && e.SupervisorID != supervisorID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeEmployees) Update(ctx context.Context, e *model.Employee) error {
	cur, ok := f.items[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*cur = *e
	return nil
}

func (f *fakeEmployees) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	if f.withAttendance[id] {
		return repository.ErrConflict
	}
	delete(f.items, id)
	return nil
}

func testEmployees() *fakeEmployees {
	return &fakeEmployees{
		items: map[uint64]*model.Employee{
			1: {ID: 1, Name: "Mason", Trade: "masonry", DailyRate: 15000, SupervisorID: 2, IsActive: true},
			2: {ID: 2, Name: "Welder", Trade: "welding", DailyRate: 20000, SupervisorID: 2, IsActive: true},
		},
		withAttendance: map[uint64]bool{1: true},
	}
}

func TestDeleteEmployeeWithAttendanceConflicts(t *testing.T) {
	emps := testEmployees()
	h := &AdminHandler{Employees: emps}

	c, rec := newJSONContext(http.MethodDelete, "/v1/employees/1", "", map[string]string{"id": "1"})
	if err := h.DeleteEmployee(c); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "employee has attendance history" {
		t.Fatalf("error message = %q", got)
	}
	if _, ok := emps.items[1]; !ok {
		t.Fatalf("employee removed despite attendance history")
	}
}

func TestDeleteEmployeeWithoutHistory(t *testing.T) {
	emps := testEmployees()
	h := &AdminHandler{Employees: emps}

	c, rec := newJSONContext(http.MethodDelete, "/v1/employees/2", "", map[string]string{"id": "2"})
	if err := h.DeleteEmployee(c); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, ok := emps.items[2]; ok {
		t.Fatalf("employee still present after delete")
	}
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	h := &AdminHandler{Employees: testEmployees()}

	c, rec := newJSONContext(http.MethodDelete, "/v1/employees/9", "", map[string]string{"id": "9"})
	if err := h.DeleteEmployee(c); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
