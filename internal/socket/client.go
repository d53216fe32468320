package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoInstance is returned when no running instance has a socket
var ErrNoInstance = errors.New("no running instance found")

// Client sends commands to a running instance
type Client struct {
	socketPath string
}

// FindRunningInstance returns the socket path and pid of the most recently
// started instance with a socket in dir
func FindRunningInstance(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	var newest string
	var newestTime time.Time
	pid := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "listadapter-") || !strings.HasSuffix(name, ".sock") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, name)
			newestTime = info.ModTime()
			// unknown pid stays 0
			pid, _ = strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "listadapter-"), ".sock"))
		}
	}
	if newest == "" {
		return "", 0, ErrNoInstance
	}
	return newest, pid, nil
}

// NewClient creates a client for the socket at socketPath
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath}, nil
}

// Send sends a message and waits for the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(replyTimeout + 5*time.Second))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// AddItem asks the instance to append a top level item
func (c *Client) AddItem(text string) (*Response, error) {
	return c.Send(Message{Command: CommandAddItem, Text: text})
}

// Exec asks the instance to run a command line, as typed after ':'
func (c *Client) Exec(line string) (*Response, error) {
	return c.Send(Message{Command: CommandExec, Text: line})
}
