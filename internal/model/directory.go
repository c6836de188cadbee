package model

// The directory entities are owned by the wider records platform; the engine
// consumes them read-only for eligibility resolution and analytics.

// Department represents an academic department (e.g. "CSE").
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Class represents a (department, batch-section) cohort such as CSE/2024-A.
type Class struct {
	ID           int    `json:"id"`
	DepartmentID string `json:"department_id"`
	Label        string `json:"label"`
}

// Student is the directory record the engine resolves a student identity to.
type Student struct {
	ID           int    `json:"id"`
	RollNo       string `json:"roll_no"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	ClassID      int    `json:"class_id"`
}
