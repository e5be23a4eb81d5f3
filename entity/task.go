package entity

// TaskNode is a task with its subtasks nested under it. Placeholder nodes
// stand in for parents that the listing did not return (paging or filters
// can drop a parent while keeping its children).
type TaskNode struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Status    string `json:"status,omitempty"`
	Due       string `json:"due,omitempty"`
	DueLocal  string `json:"dueLocal,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Completed string `json:"completed,omitempty"`

	Placeholder bool `json:"placeholder,omitempty"`

	Subtasks []*TaskNode `json:"subtasks,omitempty"`
}
