package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	appName      = "tui-listadapter"
	replyTimeout = 10 * time.Second
)

// Server accepts commands for the running instance on a Unix socket
type Server struct {
	socketPath string
	listener   net.Listener
	logger     *log.Logger
	msgChan    chan Message
	stopChan   chan struct{}
}

// SocketDir returns the directory holding the sockets of running instances
func SocketDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, appName)
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", appName)
}

// NewServer listens on the socket for pid in SocketDir
func NewServer(pid int, logger *log.Logger) (*Server, error) {
	return NewServerIn(SocketDir(), pid, logger)
}

// NewServerIn listens on the socket for pid in dir
func NewServerIn(dir string, pid int, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, socketName(pid))
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	logger.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		logger:     logger,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
	}, nil
}

func socketName(pid int) string {
	return fmt.Sprintf("listadapter-%d.sock", pid)
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				s.logger.Printf("Error accepting connection: %v", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// handleConnection reads one message and writes one response
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	reply := func(r Response) {
		if err := encoder.Encode(r); err != nil {
			s.logger.Printf("Error writing response: %v", err)
		}
	}

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			s.logger.Printf("Error decoding message: %v", err)
		}
		reply(Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}
	switch msg.Command {
	case "":
		reply(Response{Message: "Missing command field"})
		return
	case CommandAddItem, CommandExec:
	default:
		reply(Response{Message: "Unknown command: " + msg.Command})
		return
	}

	if synchronous(msg.Command) {
		msg.Reply = make(chan Response, 1)
	}

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		reply(Response{Message: "Server is shutting down"})
		return
	}

	if msg.Reply == nil {
		reply(Response{Success: true, Message: "Command queued"})
		return
	}
	select {
	case r := <-msg.Reply:
		reply(r)
	case <-time.After(replyTimeout):
		reply(Response{Message: "Command timed out"})
	}
}

// Messages returns the channel of received messages. The receiver answers
// synchronous messages on their Reply channel.
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop closes the listener and removes the socket file
func (s *Server) Stop() {
	close(s.stopChan)
	s.listener.Close()
	os.Remove(s.socketPath)
	s.logger.Printf("Socket server stopped")
}
