package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"mitra-credit/config"
	"mitra-credit/content"
	"mitra-credit/display"
	"mitra-credit/logging"
	"mitra-credit/sessions"
	"mitra-credit/shared"
)

const (
	Version = "0.1.0"
	appName = "mitra-starter"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		sessionID string
		offline   bool
	)

	cmd := &cobra.Command{
		Use:   "starter",
		Short: "Walk through a Mitra Credit app session from the terminal",
		Long: `Starts a session workflow (or reconnects to one with --session) and
lets you fire the edges of each screen. Every step prints the rendered view.

With --offline the session runs in process and Temporal is not needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), sessionID, offline)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Reconnect to an existing session id")
	cmd.Flags().BoolVar(&offline, "offline", false, "Host the session in process instead of Temporal")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func run(ctx context.Context, in io.Reader, out io.Writer, sessionID string, offline bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.Logging, "starter")

	catalog, err := content.Load(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("load content catalog: %w", err)
	}

	var backend sessions.Backend
	if offline {
		if sessionID != "" {
			return errors.New("--session needs a Temporal backend")
		}
		backend = sessions.NewMemory(cfg.Session.IdleTimeout)
	} else {
		c, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    tlog.NewStructuredLogger(logger),
		})
		if err != nil {
			return fmt.Errorf("unable to create Temporal client: %w", err)
		}
		defer c.Close()
		backend = sessions.NewTemporal(c, logger, cfg.Session.IdleTimeout)
	}

	var snap shared.SessionSnapshot
	if sessionID != "" {
		snap, err = backend.Snapshot(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("reconnect to session %s: %w", sessionID, err)
		}
		fmt.Fprintln(out, "🔌 Reconnected to session", sessionID)
	} else {
		snap, err = backend.Start(ctx)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		fmt.Fprintln(out, "🚀 Started session", snap.SessionID)
		if !offline {
			fmt.Fprintf(out, "   WorkflowID: %s\n", sessions.WorkflowID(snap.SessionID))
		}
	}

	cli := &sessionCLI{
		backend: backend,
		catalog: catalog,
		reader:  bufio.NewReader(in),
		out:     out,
		snap:    snap,
	}
	return cli.loop(ctx)
}

// sessionCLI drives one session from a terminal menu.
type sessionCLI struct {
	backend sessions.Backend
	catalog *content.Catalog
	reader  *bufio.Reader
	out     io.Writer
	snap    shared.SessionSnapshot
}

// choice is one numbered menu entry.
type choice struct {
	label string
	event shared.Event
}

func (c *sessionCLI) choices() []choice {
	var list []choice
	for _, e := range c.snap.Edges {
		label := string(e.Action) + " → " + string(e.Target)
		list = append(list, choice{label: label, event: shared.Event{Action: e.Action, Target: e.Target}})
	}
	if c.snap.Screen == shared.ScreenConnectData {
		for _, p := range c.catalog.Providers {
			list = append(list, choice{
				label: "connect " + p.Name,
				event: shared.Event{Action: shared.ActionConnect, Source: p.ID},
			})
		}
	}
	return list
}

func (c *sessionCLI) loop(ctx context.Context) error {
	for {
		options := c.choices()

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintf(c.out, "  Mitra Credit · %s\n", c.snap.Screen)
		fmt.Fprintln(c.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintln(c.out)
		for i, opt := range options {
			fmt.Fprintf(c.out, "  [%d] %s\n", i+1, opt.label)
		}
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "  [v] Show rendered view")
		fmt.Fprintln(c.out, "  [r] Refresh from session")
		fmt.Fprintln(c.out, "  [c] Close session")
		fmt.Fprintln(c.out, "  [q] Quit (session keeps running)")
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, "Choose: ")

		line, err := c.reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input := strings.TrimSpace(line)

		switch input {
		case "v":
			c.printView()
		case "r":
			c.refresh(ctx)
		case "c":
			if err := c.backend.Close(ctx, c.snap.SessionID); err != nil {
				return fmt.Errorf("close session: %w", err)
			}
			fmt.Fprintln(c.out, "🏁 Session closed.")
			return nil
		case "q":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "👋 Exiting. Reconnect with --session", c.snap.SessionID)
			return nil
		default:
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(options) {
				fmt.Fprintln(c.out, "❌ Invalid choice.")
				continue
			}
			c.fire(ctx, options[n-1].event)
		}
	}
}

func (c *sessionCLI) fire(ctx context.Context, ev shared.Event) {
	ev.Patch = c.promptPatch(ev)

	snap, err := c.backend.Dispatch(ctx, c.snap.SessionID, ev)
	if err != nil {
		fmt.Fprintf(c.out, "❌ %v\n", err)
		// Rejected events still carry the current snapshot.
		if snap.SessionID != "" {
			c.snap = snap
		}
		return
	}
	c.snap = snap
	fmt.Fprintf(c.out, "✅ Now on %s\n", c.snap.Screen)
}

func (c *sessionCLI) refresh(ctx context.Context) {
	snap, err := c.backend.Snapshot(ctx, c.snap.SessionID)
	if err != nil {
		fmt.Fprintf(c.out, "❌ Query failed: %v\n", err)
		return
	}
	c.snap = snap
	fmt.Fprintf(c.out, "📋 %s, %d events applied\n", snap.Screen, snap.Events)
}

func (c *sessionCLI) printView() {
	view := display.Render(c.catalog, c.snap)
	raw, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		fmt.Fprintf(c.out, "❌ Failed to encode view: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, string(raw))
}

// promptPatch asks for the form fields the current screen collects before
// its forward edge fires. Blank answers leave the field unset.
func (c *sessionCLI) promptPatch(ev shared.Event) *shared.Profile {
	if ev.Action != shared.ActionNext {
		return nil
	}

	var patch shared.Profile
	switch c.snap.Screen {
	case shared.ScreenOTP:
		patch.Mobile = c.askString("Mobile number")
	case shared.ScreenBusinessDetails:
		patch.BusinessName = c.askString("Business name")
		patch.GSTIN = c.askString("GSTIN")
		patch.PAN = c.askString("PAN")
	case shared.ScreenLoanApplication:
		patch.LoanAmount = c.askInt64("Loan amount (₹)")
		patch.Tenor = c.askInt("Tenor (months)")
	default:
		return nil
	}
	if patch == (shared.Profile{}) {
		return nil
	}
	return &patch
}

func (c *sessionCLI) ask(label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	line, _ := c.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *sessionCLI) askString(label string) *string {
	if v := c.ask(label); v != "" {
		return shared.Ptr(v)
	}
	return nil
}

func (c *sessionCLI) askInt64(label string) *int64 {
	v := c.ask(label)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(v, ",", ""), 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "   (ignored, not a number)")
		return nil
	}
	return &n
}

func (c *sessionCLI) askInt(label string) *int {
	n := c.askInt64(label)
	if n == nil {
		return nil
	}
	return shared.Ptr(int(*n))
}
