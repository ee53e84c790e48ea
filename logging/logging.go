package logging

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// SetupLogging points the standard logger away from the terminal while a
// full screen UI owns it. With an empty filename log output is dropped,
// otherwise it is appended to filename along with Bubble Tea's own logs.
func SetupLogging(filename string) (cleanup func(), err error) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if filename == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)

	tf, err := tea.LogToFile(filename, "serialplot")
	if err != nil {
		f.Close()
		log.SetOutput(os.Stderr)
		return nil, err
	}

	cleanup = func() {
		log.SetOutput(os.Stderr)
		tf.Close()
		f.Close()
	}
	return cleanup, nil
}
