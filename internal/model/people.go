package model

import "time"

// Admin mirrors the legacy `admins` table. This is the highest-priority
// legacy identity source at login.
type Admin struct {
	ID        uint64    // admins.id
	FullName  string    // admins.full_name
	Email     string    // admins.email
	Username  string    // admins.username (may be empty)
	Password  string    // admins.password (hash or legacy plaintext)
	Phone     string    // admins.phone
	CreatedAt time.Time // admins.created_at
}

// Supervisor mirrors the `supervisors` table. Supervisors run sites, mark
// attendance and raise material requests. The table is also the second
// legacy identity source at login.
type Supervisor struct {
	ID        uint64    // supervisors.id
	Name      string    // supervisors.name
	Email     string    // supervisors.email
	Username  string    // supervisors.username (may be empty)
	Password  string    // supervisors.password (hash or legacy plaintext)
	Phone     string    // supervisors.phone
	Site      string    // supervisors.site
	CreatedAt time.Time // supervisors.created_at
}

// Client mirrors the `clients` table: a customer with a running project.
// Third and last legacy identity source at login.
type Client struct {
	ID        uint64    // clients.id
	Name      string    // clients.name
	Email     string    // clients.email
	Username  string    // clients.username (may be empty)
	Password  string    // clients.password (hash or legacy plaintext)
	Phone     string    // clients.phone
	Project   string    // clients.project
	CreatedAt time.Time // clients.created_at
}

// Supplier mirrors the `suppliers` table. Suppliers never appear in a
// legacy identity source; their credentials are created directly in the
// unified store by a superadmin.
type Supplier struct {
	ID        uint64    // suppliers.id
	Name      string    // suppliers.name
	Company   string    // suppliers.company
	Email     string    // suppliers.email
	Phone     string    // suppliers.phone
	CreatedAt time.Time // suppliers.created_at
}

// Employee mirrors the `employees` table. Employees are paid per day
// worked; they do not log in.
type Employee struct {
	ID           uint64    // employees.id
	Name         string    // employees.name
	Trade        string    // employees.trade (e.g. mason, electrician)
	DailyRate    uint32    // employees.daily_rate_cents
	SupervisorID uint64    // employees.supervisor_id
	IsActive     bool      // employees.is_active
	CreatedAt    time.Time // employees.created_at
}
