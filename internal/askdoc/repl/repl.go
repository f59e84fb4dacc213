// Package repl implements the line-oriented chat host used when no
// terminal UI is available.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/longkey1/askdoc/internal/askdoc/conversation"
)

// REPL reads questions line by line and prints the conversation as it grows
type REPL struct {
	store   *conversation.Store
	in      io.Reader
	out     io.Writer // conversation output
	errOut  io.Writer // prompts, spinner and notices
	spinner bool
	baseURL string

	printed int64 // ID of the last message written to out
}

// Option configures a REPL
type Option func(*REPL)

// WithSpinner toggles the waiting animation on errOut
func WithSpinner(enabled bool) Option {
	return func(r *REPL) {
		r.spinner = enabled
	}
}

// WithBaseURL sets the backend address shown by /info
func WithBaseURL(baseURL string) Option {
	return func(r *REPL) {
		r.baseURL = baseURL
	}
}

// New creates a REPL over store
func New(store *conversation.Store, in io.Reader, out, errOut io.Writer, opts ...Option) *REPL {
	r := &REPL{
		store:   store,
		in:      in,
		out:     out,
		errOut:  errOut,
		spinner: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run blocks until EOF or /exit
func (r *REPL) Run(ctx context.Context) error {
	unsubscribe := r.store.Subscribe(r.print)
	defer unsubscribe()

	fmt.Fprintf(r.errOut, "\n=== AI Assistant ===\n")
	fmt.Fprintf(r.errOut, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(r.errOut, "====================\n\n")

	// The greeting is already in the store
	r.print(r.store.Snapshot())

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(r.errOut, "You> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			fmt.Fprintln(r.errOut, "\nGoodbye!")
			return nil
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			if r.handleCommand(trimmed) {
				continue
			}
			return nil
		}

		call, ok := r.store.Submit(line)
		if !ok {
			continue
		}

		stop := func() {}
		if r.spinner {
			stop = startSpinner(r.errOut)
		}

		// The spinner must be gone before the observer prints the reply
		outcome := call.Do(ctx)
		stop()
		r.store.Resolve(outcome)
	}
}

// print writes every message the REPL has not shown yet
func (r *REPL) print(state conversation.State) {
	for _, msg := range state.Messages {
		if msg.ID <= r.printed {
			continue
		}
		r.printed = msg.ID
		if msg.IsUser() {
			// the user already sees what they typed
			continue
		}
		fmt.Fprintf(r.out, "\nAssistant> %s\n\n", msg.Text)
	}
}

// startSpinner runs the waiting animation until the returned stop is called.
// stop returns once the spinner line has been cleared.
func startSpinner(w io.Writer) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		showSpinner(w, done)
	}()
	return func() {
		close(done)
		<-finished
	}
}

// showSpinner displays a spinner animation while waiting for response
func showSpinner(w io.Writer, done <-chan struct{}) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	i := 0
	for {
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		default:
			fmt.Fprintf(w, "\r%s Waiting for response...", spinners[i])
			i = (i + 1) % len(spinners)
			time.Sleep(80 * time.Millisecond)
		}
	}
}

// handleCommand processes slash commands.
// Returns true to continue the loop, false to exit
func (r *REPL) handleCommand(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(r.errOut, "\nAvailable commands:")
		fmt.Fprintln(r.errOut, "  /help, /h     - Show this help message")
		fmt.Fprintln(r.errOut, "  /info, /i     - Show conversation information")
		fmt.Fprintln(r.errOut, "  /clear, /c    - Clear screen (Unix/Linux only)")
		fmt.Fprintln(r.errOut, "  /exit, /quit  - Exit")
		fmt.Fprintln(r.errOut, "  Ctrl+D        - Exit")
		fmt.Fprintln(r.errOut, "")
		return true

	case "/info", "/i":
		state := r.store.Snapshot()
		fmt.Fprintln(r.errOut, "\nConversation Information:")
		if r.baseURL != "" {
			fmt.Fprintf(r.errOut, "  Backend: %s\n", r.baseURL)
		}
		fmt.Fprintf(r.errOut, "  Messages: %d\n", state.MessageCount())
		fmt.Fprintln(r.errOut, "")
		return true

	case "/clear", "/c":
		fmt.Fprint(r.out, "\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(r.errOut, "Goodbye!")
		return false

	default:
		fmt.Fprintf(r.errOut, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}
