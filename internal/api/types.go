package api

import "time"

// Document is a stored HR document as reported by the backend. The
// backend owns the authoritative record; clients only ever hold a
// read-mostly projection of it.
type Document struct {
	ID               int       `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	UploadedAt       time.Time `json:"uploaded_at"`
	Category         string    `json:"category,omitempty"`
}

// Processing status values reported by GET /documents/{id}/status.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusUnknown    = "unknown"
)

// ProcessingStatus is the backend's view of a document's background
// processing. Progress is 0-100; Message and NumChunks are only set
// once processing finishes.
type ProcessingStatus struct {
	Status    string `json:"status"`
	Progress  int    `json:"progress,omitempty"`
	Message   string `json:"message,omitempty"`
	NumChunks int    `json:"num_chunks,omitempty"`
}

// Terminal reports whether the status ends polling for a document.
// Only completed and failed are terminal; anything else (including
// unknown, which the backend returns for ids it never tracked) keeps
// the document pending.
func (s ProcessingStatus) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// Task statuses accepted by PATCH /tasks/{id}/status.
const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
)

// Pillars are the eight fixed HR categories used to tag both tasks
// and documents. The wire spelling uses underscores for the two
// multi-word pillars.
var Pillars = []string{
	"Recruiting",
	"Onboarding",
	"Payroll",
	"Benefits",
	"Learning_Development",
	"Employee_Relations",
	"Performance",
	"Offboarding",
}

// ValidPillar reports whether name is one of the eight pillars.
func ValidPillar(name string) bool {
	for _, p := range Pillars {
		if p == name {
			return true
		}
	}
	return false
}

// Task is an HR task row.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	OwnerID     *int      `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCreate is the request body for POST /tasks and PUT /tasks/{id}.
type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// Token is the response of the login and signup endpoints. The access
// token is an opaque bearer credential; its JWT payload may carry an
// organization identifier.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ChatMessage is one turn of conversation history sent to the chat
// endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatAnswer is the non-streaming chat response. Source indicates how
// the answer was produced (e.g. "rag", "fallback").
type ChatAnswer struct {
	Answer string `json:"answer"`
	Query  string `json:"query"`
	Source string `json:"source,omitempty"`
}

// StreamChunk is one server-sent event of a streaming chat response.
type StreamChunk struct {
	Chunk  string `json:"chunk"`
	Done   bool   `json:"done"`
	Source string `json:"source,omitempty"`
}
