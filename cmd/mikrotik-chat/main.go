package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/config"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/api"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/credentials"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/executor"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/llm"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/metrics"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/routeros"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/session"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/translator"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg         *config.Config
	logger      zerolog.Logger
	llmProvider string
	routerHost  string
	routerUser  string
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dangerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mikrotik-chat [request]",
		Short: "Talk to your MikroTik router in plain English",
		Long: `mikrotik-chat translates natural-language requests into RouterOS API
queries with a language model, runs them against your router and prints
the results.

LLM Provider Options:
  --llm gemini   Google Gemini (default, requires GEMINI_API_KEY)
  --llm claude   Anthropic Claude (requires ANTHROPIC_API_KEY)
  --llm ollama   Local Ollama model (no API key)
  --llm auto     Ollama when PREFER_LOCAL is set and reachable, else Gemini

Examples:
  mikrotik-chat "what is the router uptime?"
  mikrotik-chat --host 192.168.88.1 "how many clients are online?"
  mikrotik-chat chat
  mikrotik-chat reboot
  mikrotik-chat serve --port 8080`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("llm") {
				cfg.LLMProvider = llmProvider
			}
			if routerHost != "" {
				cfg.RouterHost = routerHost
			}
			if routerUser != "" {
				cfg.RouterUser = routerUser
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAsk(strings.Join(args, " "))
		},
	}

	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm", llm.ProviderGemini, "LLM provider: auto, gemini, claude, ollama")
	rootCmd.PersistentFlags().StringVar(&routerHost, "host", "", "Router IP/host (default: ROUTER_HOST)")
	rootCmd.PersistentFlags().StringVarP(&routerUser, "user", "u", "", "Router username (default: ROUTER_USER or admin)")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(rebootCmd())
	rootCmd.AddCommand(testCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long:  "Connect to the router and start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [request]",
		Short: "Run a single request",
		Long:  "Translate a single request, run it against the router and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "))
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start the REST API server for programmatic access",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.ServerPort = port
			}
			return runServer()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: 8080)")
	return cmd
}

func rebootCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reboot",
		Short: "Reboot the router (asks for confirmation)",
		Long:  "Send /system/reboot to the router. This disrupts your network.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := createPipeline(metrics.New())
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer sess.Disconnect()

			if !yes && !confirmReboot(bufio.NewReader(os.Stdin)) {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := p.Reboot(cmd.Context(), sess); err != nil {
				return fmt.Errorf("failed to send reboot command: %w", err)
			}
			fmt.Println("Reboot command sent successfully!")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func createPipeline(m *metrics.Metrics) (*session.Pipeline, string, error) {
	router := llm.NewRouter(cfg.RouterConfig())
	if router.LocalAvailable() {
		logger.Info().Str("model", cfg.OllamaModel).Msg("local Ollama available")
	}

	provider, err := router.Route(cfg.LLMProvider)
	if err != nil {
		return nil, "", err
	}
	logger.Debug().Str("provider", provider.Name()).Msg("LLM provider selected")

	tr := translator.New(provider, logger)
	exec := executor.New(logger, m)

	return session.NewPipeline(tr, exec, logger, m), cfg.CredentialFor(provider.Name()), nil
}

func dialRouter(ctx context.Context, host, user, password string) (session.Router, error) {
	conn, err := routeros.Dial(ctx, host, user, password, logger)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func openSession(ctx context.Context, credential string) (*session.Session, error) {
	if err := cfg.ValidateRouter(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := routeros.Dial(ctx, cfg.RouterHost, cfg.RouterUser, cfg.RouterPassword, logger)
	if err != nil {
		return nil, fmt.Errorf("Connection Error: %w", err)
	}

	return session.New(uuid.New().String(), conn, credential), nil
}

func runChat() error {
	p, credential, err := createPipeline(metrics.New())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("MikroTik AI Chat")
	fmt.Println("================")
	fmt.Printf("Connecting to %s...\n", cfg.RouterHost)

	sess, err := openSession(ctx, credential)
	if err != nil {
		return err
	}
	defer sess.Disconnect()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		sess.Disconnect()
		os.Exit(0)
	}()

	fmt.Println(noticeStyle.Render(fmt.Sprintf("Connected to %s", cfg.RouterHost)))
	fmt.Println()
	fmt.Printf("%s %s\n\n", assistantStyle.Render("Assistant:"), session.Greeting)
	fmt.Println("Commands: /reboot (asks for confirmation), /history, /status, exit")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(userStyle.Render("You:") + " ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch input {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "/history":
			printHistory(sess)
			continue
		case "/status":
			fmt.Printf("Router %s: %s\n\n", cfg.RouterHost, sess.State())
			continue
		case "/reboot":
			if !confirmReboot(reader) {
				fmt.Println("Cancelled.")
				fmt.Println()
				continue
			}
			if err := p.Reboot(ctx, sess); err != nil {
				fmt.Printf("%s %v\n\n", dangerStyle.Render("Failed to send reboot command:"), err)
				continue
			}
			fmt.Println(noticeStyle.Render("Reboot command sent successfully! Disconnected."))
			return nil
		}

		fmt.Println()
		fmt.Print("AI is thinking...")

		response, err := p.Turn(ctx, sess, input)
		fmt.Print("\r                 \r")
		if err != nil {
			fmt.Printf("%s\n\n", noticeStyle.Render(err.Error()))
			continue
		}

		fmt.Printf("%s\n%s\n\n", assistantStyle.Render("Assistant:"), response)
	}
}

func printHistory(sess *session.Session) {
	for _, turn := range sess.Transcript.Turns() {
		label := assistantStyle.Render("Assistant:")
		if turn.Role == models.RoleUser {
			label = userStyle.Render("You:")
		}
		fmt.Printf("[%s] %s %s\n", turn.Time.Format("15:04:05"), label, turn.Content)
	}
	fmt.Println()
}

func confirmReboot(reader *bufio.Reader) bool {
	fmt.Println(dangerStyle.Render("DANGER ZONE: rebooting will disrupt your network."))
	fmt.Print("Type 'reboot' to confirm: ")
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer)) == "reboot"
}

func runAsk(request string) error {
	p, credential, err := createPipeline(metrics.New())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sess, err := openSession(ctx, credential)
	if err != nil {
		return err
	}
	defer sess.Disconnect()

	response, err := p.Turn(ctx, sess, request)
	if err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}

func runServer() error {
	m := metrics.New()
	p, credential, err := createPipeline(m)
	if err != nil {
		return err
	}

	server := api.NewServer(p, dialRouter, credential, logger, cfg, m)
	return server.Start()
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test router connectivity",
		Long:  "Connect to the router and read /system/resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest()
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage credentials stored in OS keychain",
		Long: `Manage API keys and the router password stored securely in your OS keychain.

Credentials are stored in:
  - macOS: Keychain Access
  - Windows: Credential Manager
  - Linux: Secret Service (GNOME Keyring)

Examples:
  mikrotik-chat config setup          # Interactive setup
  mikrotik-chat config show           # Show configured credentials
  mikrotik-chat config clear          # Remove all stored credentials`,
	}

	cmd.AddCommand(configSetupCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configClearCmd())

	return cmd
}

func configSetupCmd() *cobra.Command {
	var geminiKey, anthropicKey, routerPassword string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure credentials",
		Long:  "Interactively configure and store credentials in OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if geminiKey == "" {
				fmt.Print("Google AI (Gemini) API Key (press Enter to skip): ")
				key, _ := readPassword()
				geminiKey = strings.TrimSpace(key)
			}

			if anthropicKey == "" {
				fmt.Print("Anthropic API Key (press Enter to skip): ")
				key, _ := readPassword()
				anthropicKey = strings.TrimSpace(key)
			}

			if routerPassword == "" {
				fmt.Print("Router password (press Enter to skip): ")
				pw, _ := readPassword()
				routerPassword = strings.TrimSpace(pw)
			}

			err := credentials.Setup(map[credentials.KeyType]string{
				credentials.KeyGemini:         geminiKey,
				credentials.KeyAnthropic:      anthropicKey,
				credentials.KeyRouterPassword: routerPassword,
			})
			if err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			fmt.Println("\nCredentials stored securely in OS keychain.")
			fmt.Println("You can now run mikrotik-chat without setting environment variables.")
			return nil
		},
	}

	cmd.Flags().StringVar(&geminiKey, "gemini-key", "", "Google AI (Gemini) API key")
	cmd.Flags().StringVar(&anthropicKey, "anthropic-key", "", "Anthropic API key")
	cmd.Flags().StringVar(&routerPassword, "router-password", "", "Router password")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show configured credentials",
		Long:  "Display which credentials are configured in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			configured := credentials.ListConfigured()

			fmt.Println("Credential Status (stored in OS keychain):")
			fmt.Println("==========================================")

			status := func(ok bool) string {
				if ok {
					return "configured"
				}
				return "not set"
			}

			fmt.Printf("  Gemini API Key:    %s\n", status(configured[credentials.KeyGemini]))
			fmt.Printf("  Anthropic API Key: %s\n", status(configured[credentials.KeyAnthropic]))
			fmt.Printf("  Router Password:   %s\n", status(configured[credentials.KeyRouterPassword]))

			fmt.Println("\nNote: Environment variables override keychain values.")
			return nil
		},
	}
}

func configClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all stored credentials",
		Long:  "Remove all credentials from the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Are you sure you want to clear all stored credentials? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))

			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := credentials.ClearAll(); err != nil {
				fmt.Printf("Warning: some credentials may not have been cleared: %v\n", err)
			}

			fmt.Println("All credentials cleared from keychain.")
			return nil
		},
	}
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println()
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(bytes), err
	}
	reader := bufio.NewReader(os.Stdin)
	return reader.ReadString('\n')
}

func runTest() error {
	fmt.Println("Testing RouterOS API connectivity...")
	fmt.Printf("  Host: %s\n", cfg.RouterHost)
	fmt.Printf("  User: %s\n", cfg.RouterUser)
	fmt.Printf("  LLM Provider: %s\n", cfg.LLMProvider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := openSession(ctx, "")
	if err != nil {
		fmt.Printf("  FAILED: %v\n", err)
		return err
	}
	defer sess.Disconnect()

	records, err := sess.Router().Query(ctx, "/system/resource", nil)
	if err != nil {
		fmt.Printf("  FAILED: %v\n", err)
		return err
	}

	fmt.Println("  OK")
	for _, r := range records {
		for _, key := range []string{"board-name", "version", "uptime"} {
			if v, ok := r.Get(key); ok {
				fmt.Printf("  %s: %s\n", key, v)
			}
		}
	}

	return nil
}
