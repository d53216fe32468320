package app

import (
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/socket"
)

// SetRemote attaches a socket server; its messages are handled on the
// event loop
func (a *App) SetRemote(s *socket.Server) {
	a.remote = s
}

func (a *App) remoteMessages() <-chan socket.Message {
	if a.remote == nil {
		return nil
	}
	return a.remote.Messages()
}

// handleRemote runs a message from another process
func (a *App) handleRemote(msg socket.Message) {
	a.logger.Printf("remote %s: %q", msg.Command, msg.Text)

	var response socket.Response
	switch msg.Command {
	case socket.CommandAddItem:
		if err := a.appendItems(model.NewNode(itemType, msg.Text)); err != nil {
			a.SetStatus("Remote add failed: " + err.Error())
			response.Message = err.Error()
			break
		}
		a.SetStatus("Added: " + msg.Text)
		response = socket.Response{Success: true, Message: "Added"}
	case socket.CommandExec:
		a.handleCommand(msg.Text)
		response = socket.Response{Success: true, Message: a.status.Message()}
	}

	if msg.Reply != nil {
		msg.Reply <- response
	}
}
