package socket

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	server, err := NewServerIn(dir, os.Getpid(), nil)
	require.NoError(t, err)
	t.Cleanup(server.Stop)
	server.Start()
	return server, dir
}

func receive(t *testing.T, server *Server) Message {
	t.Helper()
	select {
	case msg := <-server.Messages():
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for message")
	}
	return Message{}
}

func TestAddItemIsQueued(t *testing.T) {
	server, _ := startServer(t)
	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	response, err := client.AddItem("Test item")
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "Command queued", response.Message)

	msg := receive(t, server)
	assert.Equal(t, CommandAddItem, msg.Command)
	assert.Equal(t, "Test item", msg.Text)
	assert.Nil(t, msg.Reply)
}

func TestExecWaitsForReply(t *testing.T) {
	server, _ := startServer(t)
	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	go func() {
		msg := <-server.Messages()
		msg.Reply <- Response{Success: true, Message: "ran " + msg.Text}
	}()

	response, err := client.Exec("select 3")
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "ran select 3", response.Message)
}

func TestUnknownCommandRejected(t *testing.T) {
	server, _ := startServer(t)
	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	response, err := client.Send(Message{Command: "add_node"})
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, "Unknown command: add_node", response.Message)

	response, err = client.Send(Message{})
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, "Missing command field", response.Message)
}

func TestFindRunningInstance(t *testing.T) {
	server, dir := startServer(t)

	socketPath, pid, err := FindRunningInstance(dir)
	require.NoError(t, err)
	assert.Equal(t, server.SocketPath(), socketPath)
	assert.Equal(t, os.Getpid(), pid)
}

func TestFindRunningInstanceNone(t *testing.T) {
	_, _, err := FindRunningInstance(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNoInstance)
}

func TestStopRemovesSocket(t *testing.T) {
	dir := t.TempDir()
	server, err := NewServerIn(dir, 42, nil)
	require.NoError(t, err)
	server.Start()
	server.Stop()

	_, err = os.Stat(server.SocketPath())
	assert.True(t, os.IsNotExist(err))
}
