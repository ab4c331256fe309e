package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleStaff  UserRole = "staff"
	RoleWorker UserRole = "worker"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleWorker
}

type WorkerStatus string

const (
	StatusActive   WorkerStatus = "active"
	StatusInactive WorkerStatus = "inactive"
)

// GuestWorkerID identifies the unauthenticated shop-floor identity.
const GuestWorkerID = "default-worker"

type Worker struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	MobileNumber   string       `json:"mobileNumber"`
	EmployeeCode   string       `json:"employeeCode"`
	Department     string       `json:"department"`
	JoinDate       string       `json:"joinDate"`
	Status         WorkerStatus `json:"status"`
	Role           UserRole     `json:"role"`
	Password       string       `json:"password,omitempty"`
	Permissions    []QCCategory `json:"permissions"`
	CanViewHistory bool         `json:"canViewHistory"`
}

func (w Worker) IsGuest() bool {
	return w.ID == GuestWorkerID
}

// Public strips the password hash before the worker leaves the service.
func (w Worker) Public() Worker {
	w.Password = ""
	w.Permissions = append([]QCCategory(nil), w.Permissions...)
	return w
}

// GuestWorker is the identity used when nobody has logged in.
func GuestWorker() Worker {
	return Worker{
		ID:           GuestWorkerID,
		Name:         "WORKER",
		MobileNumber: "0000000000",
		EmployeeCode: "GGC-WORKER",
		Department:   "Production",
		JoinDate:     time.Now().Format(DateLayout),
		Status:       StatusActive,
		Role:         RoleWorker,
		Permissions:  []QCCategory{CategorySegregationRework, CategoryCoatingAdhesion},
	}
}

// WorkerInput is the enrolment payload of the admin panel.
type WorkerInput struct {
	Name         string       `json:"name" validate:"required"`
	MobileNumber string       `json:"mobileNumber" validate:"required,mobile"`
	EmployeeCode string       `json:"employeeCode" validate:"required"`
	Department   string       `json:"department"`
	Role         UserRole     `json:"role" validate:"required,oneof=admin staff worker"`
	Password     string       `json:"password"`
	Permissions  []QCCategory `json:"permissions"`
}
