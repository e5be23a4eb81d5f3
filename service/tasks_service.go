package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/scribahq/scriba/entity"
	"google.golang.org/api/tasks/v1"
)

const (
	listTasksDefaultMax = 20
	listTasksMaxResults = 10000

	placeholderParentTitle = "Unknown parent"
)

type TasksService struct {
	tasksClient *tasks.Service
}

func NewTasksService(tasksClient *tasks.Service) *TasksService {
	return &TasksService{
		tasksClient: tasksClient,
	}
}

func (s *TasksService) ListTaskLists(max int64, pageToken string) ([]*tasks.TaskList, string, error) {
	if max <= 0 {
		max = 1000
	}

	call := s.tasksClient.Tasklists.List().MaxResults(max)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return nil, "", err
	}

	return res.Items, res.NextPageToken, nil
}

func (s *TasksService) GetTaskList(taskListID string) (*tasks.TaskList, error) {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var taskList *tasks.TaskList
	err := retrier.Run(func() error {
		_taskList, err := s.tasksClient.Tasklists.Get(taskListID).Do()
		if err != nil {
			if IsNotFound(err) {
				return retry.Stop(err)
			}
			return err
		}

		taskList = _taskList
		return nil
	})

	return taskList, err
}

func (s *TasksService) CreateTaskList(title string) (*tasks.TaskList, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("task list title is required")
	}

	return s.tasksClient.Tasklists.Insert(&tasks.TaskList{Title: title}).Do()
}

func (s *TasksService) RenameTaskList(taskListID, title string) (*tasks.TaskList, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("task list title is required")
	}

	return s.tasksClient.Tasklists.Update(taskListID, &tasks.TaskList{
		Id:    taskListID,
		Title: title,
	}).Do()
}

// DeleteTaskList deletes a task list and every task in it.
func (s *TasksService) DeleteTaskList(taskListID string) error {
	return s.tasksClient.Tasklists.Delete(taskListID).Do()
}

type TaskFilters struct {
	MaxResults    int64  `schema:"maxResults"`
	PageToken     string `schema:"pageToken"`
	ShowCompleted *bool  `schema:"showCompleted"`
	ShowDeleted   bool   `schema:"showDeleted"`
	ShowHidden    bool   `schema:"showHidden"`
	ShowAssigned  bool   `schema:"showAssigned"`
	CompletedMin  string `schema:"completedMin"`
	CompletedMax  string `schema:"completedMax"`
	DueMin        string `schema:"dueMin"`
	DueMax        string `schema:"dueMax"`
	UpdatedMin    string `schema:"updatedMin"`
	Lang          string `schema:"lang"`
}

type TaskListPage struct {
	Tasks         []*tasks.Task      `json:"tasks"`
	Tree          []*entity.TaskNode `json:"tree"`
	Outline       string             `json:"outline"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

// adjustDueMax compensates for the Tasks API treating dueMax as exclusive.
// Due dates are stored at day resolution and compared with < dueMax, so the
// bound moves one day up to include tasks due on the requested date. An
// unparseable value is sent unmodified.
func adjustDueMax(dueMax string) string {
	t, err := time.Parse(time.RFC3339, dueMax)
	if err != nil {
		t, err = time.Parse("2006-01-02", dueMax)
		if err != nil {
			return dueMax
		}
	}

	return t.AddDate(0, 0, 1).Format(time.RFC3339)
}

// ListTasks returns up to MaxResults tasks, following nextPageToken across
// pages so parents and their subtasks land in the same response whenever the
// budget allows.
func (s *TasksService) ListTasks(taskListID string, f TaskFilters) (*TaskListPage, error) {
	max := f.MaxResults
	if max <= 0 {
		max = listTasksDefaultMax
	}
	if max > listTasksMaxResults {
		max = listTasksMaxResults
	}

	showCompleted := true
	if f.ShowCompleted != nil {
		showCompleted = *f.ShowCompleted
	}

	dueMax := f.DueMax
	if dueMax != "" {
		dueMax = adjustDueMax(dueMax)
	}

	var all []*tasks.Task
	pageToken := f.PageToken
	remaining := max
	for {
		call := s.tasksClient.Tasks.List(taskListID).
			MaxResults(remaining).
			ShowCompleted(showCompleted).
			ShowDeleted(f.ShowDeleted).
			ShowHidden(f.ShowHidden).
			ShowAssigned(f.ShowAssigned)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		if f.CompletedMin != "" {
			call = call.CompletedMin(f.CompletedMin)
		}
		if f.CompletedMax != "" {
			call = call.CompletedMax(f.CompletedMax)
		}
		if f.DueMin != "" {
			call = call.DueMin(f.DueMin)
		}
		if dueMax != "" {
			call = call.DueMax(dueMax)
		}
		if f.UpdatedMin != "" {
			call = call.UpdatedMin(f.UpdatedMin)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks in %s: %w", taskListID, err)
		}

		all = append(all, res.Items...)
		remaining -= int64(len(res.Items))
		pageToken = res.NextPageToken
		if pageToken == "" || remaining <= 0 || len(res.Items) == 0 {
			break
		}
	}

	tree := BuildTaskTree(all)

	return &TaskListPage{
		Tasks:         all,
		Tree:          tree,
		Outline:       SerializeTaskTree(tree),
		NextPageToken: pageToken,
	}, nil
}

func (s *TasksService) GetTask(taskListID, taskID string) (*tasks.Task, error) {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var task *tasks.Task
	err := retrier.Run(func() error {
		_task, err := s.tasksClient.Tasks.Get(taskListID, taskID).Do()
		if err != nil {
			if IsNotFound(err) {
				return retry.Stop(err)
			}
			return err
		}

		task = _task
		return nil
	})

	return task, err
}

type CreateTaskParams struct {
	Title    string `json:"title"`
	Notes    string `json:"notes,omitempty"`
	Due      string `json:"due,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Previous string `json:"previous,omitempty"`
}

func (s *TasksService) CreateTask(taskListID string, p CreateTaskParams) (*tasks.Task, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("task title is required")
	}

	call := s.tasksClient.Tasks.Insert(taskListID, &tasks.Task{
		Title: p.Title,
		Notes: p.Notes,
		Due:   p.Due,
	})
	if p.Parent != "" {
		call = call.Parent(p.Parent)
	}
	if p.Previous != "" {
		call = call.Previous(p.Previous)
	}

	return call.Do()
}

type UpdateTaskParams struct {
	Title  *string `json:"title,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Status *string `json:"status,omitempty"`
	Due    *string `json:"due,omitempty"`
}

// UpdateTask patches only the provided fields. The update endpoint replaces
// the whole resource, so the current task is read first and its values carry
// over. An explicit empty Notes or Due clears the field.
func (s *TasksService) UpdateTask(taskListID, taskID string, p UpdateTaskParams) (*tasks.Task, error) {
	current, err := s.GetTask(taskListID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	body := &tasks.Task{
		Id:     taskID,
		Title:  current.Title,
		Status: current.Status,
		Notes:  current.Notes,
		Due:    current.Due,
	}
	if body.Status == "" {
		body.Status = "needsAction"
	}
	if p.Title != nil {
		body.Title = *p.Title
	}
	if p.Status != nil {
		body.Status = *p.Status
	}
	if p.Notes != nil {
		body.Notes = *p.Notes
		if *p.Notes == "" {
			body.NullFields = append(body.NullFields, "Notes")
		}
	}
	if p.Due != nil {
		body.Due = *p.Due
		if *p.Due == "" {
			body.NullFields = append(body.NullFields, "Due")
		}
	}

	return s.tasksClient.Tasks.Update(taskListID, taskID, body).Do()
}

func (s *TasksService) DeleteTask(taskListID, taskID string) error {
	return s.tasksClient.Tasks.Delete(taskListID, taskID).Do()
}

type MoveTaskParams struct {
	Parent              string `json:"parent,omitempty"`
	Previous            string `json:"previous,omitempty"`
	DestinationTaskList string `json:"destinationTaskList,omitempty"`
}

func (s *TasksService) MoveTask(taskListID, taskID string, p MoveTaskParams) (*tasks.Task, error) {
	call := s.tasksClient.Tasks.Move(taskListID, taskID)
	if p.Parent != "" {
		call = call.Parent(p.Parent)
	}
	if p.Previous != "" {
		call = call.Previous(p.Previous)
	}
	if p.DestinationTaskList != "" {
		call = call.DestinationTasklist(p.DestinationTaskList)
	}

	return call.Do()
}

// ClearCompleted marks every completed task in the list as hidden.
func (s *TasksService) ClearCompleted(taskListID string) error {
	return s.tasksClient.Tasks.Clear(taskListID).Do()
}

// BuildTaskTree nests tasks under their parents, ordered by position.
// Subtasks whose parent is missing from the listing hang off a placeholder
// node so the hierarchy stays visible.
func BuildTaskTree(items []*tasks.Task) []*entity.TaskNode {
	nodesByID := make(map[string]*entity.TaskNode, len(items))
	positionsByID := make(map[string]string, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		nodesByID[item.Id] = taskNode(item)
		if item.Position != "" {
			positionsByID[item.Id] = item.Position
		}
	}

	root := &entity.TaskNode{ID: "root"}
	for _, item := range items {
		if item == nil {
			continue
		}
		node := nodesByID[item.Id]
		switch {
		case item.Parent == "":
			root.Subtasks = append(root.Subtasks, node)
		case nodesByID[item.Parent] != nil:
			parent := nodesByID[item.Parent]
			parent.Subtasks = append(parent.Subtasks, node)
		default:
			parent := &entity.TaskNode{ID: item.Parent, Placeholder: true}
			nodesByID[item.Parent] = parent
			root.Subtasks = append(root.Subtasks, parent)
			parent.Subtasks = append(parent.Subtasks, node)
		}
	}

	sortTaskNodes(root, positionsByID)
	return root.Subtasks
}

// Positions are zero-padded fixed-width strings, so the lexicographic order
// is the numeric order. Nodes without a position go last.
func sortTaskNodes(node *entity.TaskNode, positionsByID map[string]string) {
	sort.SliceStable(node.Subtasks, func(i, j int) bool {
		pi, iOK := positionsByID[node.Subtasks[i].ID]
		pj, jOK := positionsByID[node.Subtasks[j].ID]
		if iOK != jOK {
			return iOK
		}
		return pi < pj
	})

	for _, subtask := range node.Subtasks {
		sortTaskNodes(subtask, positionsByID)
	}
}

func taskNode(task *tasks.Task) *entity.TaskNode {
	node := &entity.TaskNode{
		ID:      task.Id,
		Title:   task.Title,
		Status:  task.Status,
		Due:     task.Due,
		Notes:   task.Notes,
		Updated: task.Updated,
	}
	if task.Completed != nil {
		node.Completed = *task.Completed
	}

	return node
}

// SerializeTaskTree renders the tree as an indented outline, "-" bullets at
// the top level and "*" below, two spaces per level.
func SerializeTaskTree(nodes []*entity.TaskNode) string {
	var b strings.Builder
	placeholders := writeTaskNodes(&b, nodes, 0)
	if placeholders > 0 {
		fmt.Fprintf(&b, "\n%d task(s) titled %q stand in for parents missing from the listing; raise maxResults or relax filters to include them.\n",
			placeholders, placeholderParentTitle)
	}

	return b.String()
}

func writeTaskNodes(b *strings.Builder, nodes []*entity.TaskNode, level int) int {
	placeholders := 0
	indent := strings.Repeat("  ", level)
	bullet := "-"
	if level > 0 {
		bullet = "*"
	}

	for _, node := range nodes {
		title := node.Title
		if title == "" {
			if node.Placeholder {
				title = placeholderParentTitle
				placeholders++
			} else {
				title = "Untitled"
			}
		}

		fmt.Fprintf(b, "%s%s %s (ID: %s)\n", indent, bullet, title, node.ID)
		status := node.Status
		if status == "" {
			status = "N/A"
		}
		fmt.Fprintf(b, "%s  Status: %s\n", indent, status)
		if node.Due != "" {
			fmt.Fprintf(b, "%s  Due: %s\n", indent, node.Due)
		}
		if node.Notes != "" {
			fmt.Fprintf(b, "%s  Notes: %s\n", indent, previewText(node.Notes, 100))
		}
		if node.Completed != "" {
			fmt.Fprintf(b, "%s  Completed: %s\n", indent, node.Completed)
		}
		updated := node.Updated
		if updated == "" {
			updated = "N/A"
		}
		fmt.Fprintf(b, "%s  Updated: %s\n\n", indent, updated)

		placeholders += writeTaskNodes(b, node.Subtasks, level+1)
	}

	return placeholders
}
