package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pstuifzand/tui-listadapter/internal/app"
	"github.com/pstuifzand/tui-listadapter/internal/config"
	"github.com/pstuifzand/tui-listadapter/internal/socket"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status)")
	logPath := flag.String("log", "", "Log file (default from config, or listadapter.log)")
	addItem := flag.String("add", "", "Append an item to the list of the running instance")
	execLine := flag.String("exec", "", "Run a command line in the running instance")
	flag.Parse()

	if *addItem != "" || *execLine != "" {
		os.Exit(sendRemote(*addItem, *execLine))
	}

	if *logPath == "" {
		if cfg, err := config.Load(); err == nil && cfg.Log.File != "" {
			*logPath = cfg.Log.File
		} else {
			*logPath = "listadapter.log"
		}
	}

	logFile, err := os.Create(*logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var filePath string
	if args := flag.Args(); len(args) > 0 {
		filePath = args[0]
	}
	// filePath will be empty if no argument provided, which is allowed

	application, err := app.NewApp(filePath, log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebugMode(true)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// sendRemote hands the request to the running instance and returns the
// exit code
func sendRemote(text, line string) int {
	socketPath, pid, err := socket.FindRunningInstance(socket.SocketDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	client, err := socket.NewClient(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var response *socket.Response
	if text != "" {
		response, err = client.AddItem(text)
	} else {
		response, err = client.Exec(line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !response.Success {
		fmt.Fprintf(os.Stderr, "Instance %d: %s\n", pid, response.Message)
		return 1
	}
	fmt.Println(response.Message)
	return 0
}
