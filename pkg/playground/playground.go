package playground

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/sigweihq/atomexplay/pkg/atomexapi"
	"github.com/sigweihq/atomexplay/pkg/atomexclient"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Prompt is printed before every command
const Prompt = "cmd > "

// MaxLineLength bounds one input line; longer lines are rejected and skipped
const MaxLineLength = 64 * 1024

// errExit stops Serve without reporting an error
var errExit = errors.New("exit")

// Options configures a playground
type Options struct {
	Network  string
	Users    []*types.User
	Registry *chains.Registry
	API      *atomexapi.Client // anonymous backend handle; clients clone it
	In       io.Reader         // defaults to os.Stdin
	Out      io.Writer         // defaults to os.Stdout
	Logger   *slog.Logger

	// Interrupts cancel the running command; nil disables cancellation
	Interrupts <-chan os.Signal
}

// Playground is the interactive command host
type Playground struct {
	network   string
	users     []*types.User
	registry  *chains.Registry
	anonymous *atomexapi.Client
	in        io.Reader
	out       io.Writer
	errColor  *color.Color
	logger    *slog.Logger
	commands  []*Command

	interrupts <-chan os.Signal

	// written once by Launch, read-only afterwards
	clients   map[string]*atomexclient.Client
	clientIDs []string
}

// New creates a playground; Launch must be called before Serve
func New(opts Options) *Playground {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	api := opts.API
	if api == nil {
		api = atomexapi.New(&atomexapi.Config{Logger: logger})
	}

	return &Playground{
		network:   opts.Network,
		users:     opts.Users,
		registry:  opts.Registry,
		anonymous: api,
		in:        in,
		out:       out,
		errColor:  color.New(color.FgRed),
		logger:    logger,
		commands:  defaultCommands(),

		interrupts: opts.Interrupts,
	}
}

// Launch creates one client per (user, chain with a key) and initializes them all concurrently.
// Any failure aborts the launch.
func (p *Playground) Launch(ctx context.Context) error {
	fmt.Fprintln(p.out, "Launching...")

	clients := make(map[string]*atomexclient.Client)
	var ids []string
	for _, user := range p.users {
		for _, chain := range user.Chains() {
			client, err := atomexclient.New(user, chain, p.network, p.registry, p.anonymous, p.logger)
			if err != nil {
				return fmt.Errorf("failed to create client for %s on %s: %w", user.ID(), chain, err)
			}
			clients[client.ID()] = client
			ids = append(ids, client.ID())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		client := clients[id]
		g.Go(func() error {
			return client.Initialize(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		for _, id := range ids {
			_ = clients[id].Close()
		}
		return err
	}

	p.clients = clients
	p.clientIDs = ids
	p.logger.Info("playground launched", "network", p.network, "clients", len(ids))
	return nil
}

// Serve reads commands until exit or end of input.
// Command failures are reported and never stop the loop.
func (p *Playground) Serve(ctx context.Context) error {
	if p.clients == nil {
		return errors.New("playground is not launched")
	}

	reader := bufio.NewReader(p.in)
	for {
		fmt.Fprint(p.out, Prompt)
		line, tooLong, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(p.out, "\nExiting...")
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if tooLong {
			p.printError(fmt.Sprintf("input line exceeds %d bytes", MaxLineLength))
			continue
		}

		if err := p.interruptible(ctx, line); errors.Is(err, errExit) {
			return nil
		}
	}
}

// readLine reads one line without its terminator.
// A line over MaxLineLength is consumed and reported with tooLong set.
func readLine(r *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(buf) > 0 || tooLong {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}

		if !tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// interruptible executes a line under its own context, cancelled by an interrupt
// that arrives while the line runs. Interrupts received at the prompt are dropped.
func (p *Playground) interruptible(ctx context.Context, line string) error {
	if p.interrupts == nil {
		return p.Execute(ctx, line)
	}
	p.dropInterrupts()

	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case sig := <-p.interrupts:
			p.logger.Warn("command interrupted", "signal", sig.String())
			cancel()
		case <-done:
		}
	}()

	err := p.Execute(cmdCtx, line)
	close(done)
	<-watched
	return err
}

func (p *Playground) dropInterrupts() {
	for {
		select {
		case <-p.interrupts:
		default:
			return
		}
	}
}

// Run launches the playground, serves commands and closes the clients
func (p *Playground) Run(ctx context.Context) error {
	defer p.Close()
	if err := p.Launch(ctx); err != nil {
		return err
	}
	return p.Serve(ctx)
}

// Close releases every client's chain resources
func (p *Playground) Close() error {
	var errs []error
	for _, client := range p.Clients() {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", client.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Execute runs one input line. Only the exit command returns an error;
// everything else is reported on the output.
func (p *Playground) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	command := p.findCommand(fields[0])
	if command == nil {
		fmt.Fprintln(p.out, "Unknown command")
		return nil
	}

	args, err := command.parse(fields[1:])
	if err != nil {
		p.printError(err.Error())
		return nil
	}

	err = p.run(ctx, command, args)
	if errors.Is(err, errExit) {
		return err
	}
	if err != nil {
		p.logger.Error("command failed", "command", command.Aliases[0], "error", err)
		p.printError(err.Error())
	}
	return nil
}

// run invokes a handler, turning a panic into an error
func (p *Playground) run(ctx context.Context, command *Command, args Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("command panicked", "command", command.Aliases[0], "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%s panicked: %v", command.Aliases[0], r)
		}
	}()
	return command.Run(p, ctx, args)
}

func (p *Playground) findCommand(name string) *Command {
	for _, command := range p.commands {
		if command.matches(name) {
			return command
		}
	}
	return nil
}

// Client returns the client of a user on a chain
func (p *Playground) Client(userID, chain string) (*atomexclient.Client, bool) {
	client, ok := p.clients[atomexclient.ClientID(userID, chain)]
	return client, ok
}

// Clients returns the clients in launch order
func (p *Playground) Clients() []*atomexclient.Client {
	clients := make([]*atomexclient.Client, 0, len(p.clientIDs))
	for _, id := range p.clientIDs {
		clients = append(clients, p.clients[id])
	}
	return clients
}

func (p *Playground) printError(message string) {
	p.errColor.Fprintln(p.out, message)
}
