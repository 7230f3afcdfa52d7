package dataforseo

// DataForSEO v3 status codes the client distinguishes. The API reports one
// code on the response envelope and one per task; anything outside this set
// is treated as a failure and its message surfaced.
const (
	// CodeOK marks a successful response or a finished task.
	CodeOK = 20000
	// CodeTaskCreated is returned by task_post for an accepted task.
	CodeTaskCreated = 20100
	// CodeTaskHanded and CodeTaskInQueue mean the task is still running.
	CodeTaskHanded  = 40601
	CodeTaskInQueue = 40602
)

// TaskStatus is the client's classification of a polled task.
type TaskStatus int

const (
	// TaskRunning means the provider has not finished the task yet.
	TaskRunning TaskStatus = iota
	// TaskDone means the task finished and records are available.
	TaskDone
	// TaskFailed means the provider reported a terminal task error.
	TaskFailed
)

// String returns the status name for logs.
func (s TaskStatus) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// KeywordRecord is one keyword's metrics as returned by the provider.
type KeywordRecord struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int64   `json:"search_volume"`
	Competition  float64 `json:"competition"`
	CPC          float64 `json:"cpc"`
}

// PollResult is the outcome of polling one task.
type PollResult struct {
	Status  TaskStatus
	Records []KeywordRecord
	// Message carries the provider's error text when Status is TaskFailed.
	Message string
}

// taskDefinition is one entry of a task_post payload. The API accepts an
// ordered list of these; kwatlas always submits exactly one per request.
type taskDefinition struct {
	LocationCode int      `json:"location_code"`
	LanguageName string   `json:"language_name"`
	Keywords     []string `json:"keywords"`
	PostbackURL  string   `json:"postback_url,omitempty"`
}

// apiResponse is the DataForSEO envelope common to every endpoint.
type apiResponse struct {
	StatusCode    int       `json:"status_code"`
	StatusMessage string    `json:"status_message"`
	Tasks         []apiTask `json:"tasks"`
}

// apiTask is one task entry inside the envelope.
type apiTask struct {
	ID            string          `json:"id"`
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message"`
	Result        []KeywordRecord `json:"result"`
}
