package models

import "time"

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

// AttendanceRecord marks a student's presence for one enrollment on one day.
type AttendanceRecord struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	AttendedOn   string    `db:"attended_on" json:"attended_on"`
	Status       string    `db:"status" json:"status"`
	Remark       *string   `db:"remark" json:"remark,omitempty"`
	RecordedBy   *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateAttendanceRequest records attendance for an enrollment.
type CreateAttendanceRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required"`
	AttendedOn   string  `json:"attended_on" validate:"required,datetime=2006-01-02"`
	Status       string  `json:"status" validate:"required,oneof=present absent excused"`
	Remark       *string `json:"remark"`
}

// AttendanceSummary counts attendance statuses for an enrollment.
type AttendanceSummary struct {
	EnrollmentID string `json:"enrollment_id"`
	Present      int    `json:"present"`
	Absent       int    `json:"absent"`
	Excused      int    `json:"excused"`
}

// Financial record statuses.
const (
	FinancialPaid    = "paid"
	FinancialPending = "pending"
	FinancialOverdue = "overdue"
)

// FinancialRecord is a fee or payment entry on a student's account.
type FinancialRecord struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	RecordType string    `db:"record_type" json:"record_type"`
	Amount     float64   `db:"amount" json:"amount"`
	Semester   *string   `db:"semester" json:"semester,omitempty"`
	Year       *int      `db:"year" json:"year,omitempty"`
	Status     string    `db:"status" json:"status"`
	DueDate    *string   `db:"due_date" json:"due_date,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CreateFinancialRecordRequest adds a financial entry.
type CreateFinancialRecordRequest struct {
	RecordType string  `json:"record_type" validate:"required,max=64"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Semester   *string `json:"semester"`
	Year       *int    `json:"year" validate:"omitempty,min=1900,max=2999"`
	Status     string  `json:"status" validate:"required,oneof=paid pending overdue"`
	DueDate    *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// TrainingRecord is an internship or industrial training placement.
type TrainingRecord struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	Company    string    `db:"company" json:"company"`
	StartDate  string    `db:"start_date" json:"start_date"`
	EndDate    *string   `db:"end_date" json:"end_date,omitempty"`
	Supervisor *string   `db:"supervisor" json:"supervisor,omitempty"`
	Grade      *float64  `db:"grade" json:"grade"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CreateTrainingRecordRequest registers a training placement.
type CreateTrainingRecordRequest struct {
	Company    string   `json:"company" validate:"required"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Supervisor *string  `json:"supervisor"`
	Grade      *float64 `json:"grade" validate:"omitempty,gte=0,lte=100"`
	Status     string   `json:"status" validate:"required,oneof=planned ongoing completed"`
}
