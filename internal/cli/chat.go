package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/voli/internal/config"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var (
		url  string
		idle time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with a running voli server from the terminal",
		Long: "Connects to the chat endpoint and streams replies as they arrive. " +
			"With a message argument, sends it once and exits; otherwise reads one message per line from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				cfg, err := config.Load(paths.Config)
				if err != nil {
					return err
				}
				url = chatURL(cfg.Gateway)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var in io.Reader = os.Stdin
			if len(args) > 0 {
				in = strings.NewReader(strings.Join(args, " ") + "\n")
			}
			return runChat(ctx, url, in, cmd.OutOrStdout(), idle)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "chat endpoint (default derived from config)")
	cmd.Flags().DurationVar(&idle, "idle", 2*time.Second, "silence after the last fragment that ends a reply")

	return cmd
}

// localAddr is the host:port a local client should dial for cfg.
func localAddr(cfg config.GatewayConfig) string {
	host := "127.0.0.1"
	if cfg.Bind == "custom" && cfg.CustomBindHost != "" && cfg.CustomBindHost != "0.0.0.0" {
		host = cfg.CustomBindHost
	}
	return net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}

// chatURL builds the local WebSocket endpoint for a gateway config.
func chatURL(cfg config.GatewayConfig) string {
	path := cfg.ChatPath
	if path == "" {
		path = config.DefaultChatPath
	}
	return "ws://" + localAddr(cfg) + path
}

// runChat sends each non-blank line from in and copies the streamed reply
// to out. The protocol has no end-of-reply marker, so a reply is considered
// finished after idle passes without a new fragment.
func runChat(ctx context.Context, url string, in io.Reader, out io.Writer, idle time.Duration) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer conn.Close()

	frames := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(frames)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- string(data):
			case <-done:
				return
			}
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
		if err := awaitReply(ctx, frames, readErr, out, idle); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return nil
}

// awaitReply waits for the first fragment with no deadline, then prints
// fragments until the stream goes quiet.
func awaitReply(ctx context.Context, frames <-chan string, readErr <-chan error, out io.Writer, idle time.Duration) error {
	var quiet <-chan time.Time
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("connection lost: %w", err)
				default:
					return ctx.Err()
				}
			}
			fmt.Fprint(out, f)
			quiet = time.After(idle)
		case <-quiet:
			fmt.Fprintln(out)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
