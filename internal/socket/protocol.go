package socket

// Message is a request sent to a running instance
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`

	// Reply receives the answer to a synchronous command; the server
	// fills it in, it is never sent over the wire
	Reply chan Response `json:"-"`
}

// Response is the answer from the server
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Command types
const (
	// CommandAddItem appends a top level item with Text as its label
	CommandAddItem = "add_item"
	// CommandExec runs Text as a command line and answers with the status
	CommandExec = "exec"
)

// synchronous reports whether the client waits for the app to answer
func synchronous(command string) bool {
	return command == CommandExec
}
