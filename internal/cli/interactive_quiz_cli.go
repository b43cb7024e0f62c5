package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/englearn/internal/progress"
)

var errEnd = errors.New("end")

// InteractiveQuizCLI contains shared logic for interactive quiz CLIs
type InteractiveQuizCLI struct {
	progress     *progress.Repository
	userID       string
	now          func() time.Time
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

type Option func(*InteractiveQuizCLI)

func WithIO(stdin io.Reader, stdout io.Writer) Option {
	return func(cli *InteractiveQuizCLI) {
		cli.stdinReader = bufio.NewReader(stdin)
		cli.stdoutWriter = stdout
	}
}

func WithClock(now func() time.Time) Option {
	return func(cli *InteractiveQuizCLI) {
		cli.now = now
	}
}

func newInteractiveQuizCLI(repository *progress.Repository, userID string, opts ...Option) *InteractiveQuizCLI {
	cli := &InteractiveQuizCLI{
		progress:     repository,
		userID:       userID,
		now:          time.Now,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

//go:generate mockgen -source=interactive_quiz_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

// Run calls session until it reports the end, fails, or the user interrupts.
func (cli *InteractiveQuizCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine returns the next input line without its line ending. A final
// line without a newline is returned as is; io.EOF is only returned for no input.
func (cli *InteractiveQuizCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (cli *InteractiveQuizCLI) printCorrect(format string, args ...any) {
	fmt.Fprint(cli.stdoutWriter, "✅ ")
	_, _ = cli.green.Fprintf(cli.stdoutWriter, format+"\n", args...)
}

func (cli *InteractiveQuizCLI) printWrong(format string, args ...any) {
	fmt.Fprint(cli.stdoutWriter, "❌ ")
	_, _ = cli.red.Fprintf(cli.stdoutWriter, format+"\n", args...)
}
