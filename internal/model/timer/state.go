package timer

// BucketSeconds is the default width of a periodic message bucket.
const BucketSeconds = 30

// State is the mutable timer state of one session.
type State struct {
	Elapsed int  `json:"elapsed"`
	Running bool `json:"running"`
}

// ContextKey identifies a message situation. Two requests with the same key
// describe the same context and are redundant unless the action is discrete.
type ContextKey struct {
	Action  Action
	Running bool
	Bucket  int
}

// KeyFor derives the context key for an action at the given elapsed time.
func KeyFor(action Action, elapsed int, running bool, bucketSeconds int) ContextKey {
	if bucketSeconds <= 0 {
		bucketSeconds = BucketSeconds
	}
	return ContextKey{Action: action, Running: running, Bucket: elapsed / bucketSeconds}
}

// Request is the payload sent to the text-generation endpoint.
type Request struct {
	Action    Action `json:"action"`
	Time      int    `json:"time"`
	IsRunning bool   `json:"isRunning"`
}

// Response is the payload returned by the text-generation endpoint.
type Response struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
