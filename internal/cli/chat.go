// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for dschat.
//
// USABILITY: Markdown rendering and input history for better CLI experience
//
// Handles the default command which provides an interactive REPL for
// conversing with the completion API. Every completed turn is appended to a
// per-session transcript file for later search.
//
// Interactive input:
//   @file(path)         Inline a file's contents into the message
//   exit, quit          End the session
//   Ctrl+C              Cancel current input or response; twice to exit
//   Ctrl+D              Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/dschat/internal/chat"
	"github.com/jeranaias/dschat/internal/config"
	"github.com/jeranaias/dschat/internal/deepseek"
	"github.com/jeranaias/dschat/internal/history"
	"github.com/jeranaias/dschat/internal/util"
)

// responsePrefix marks the start of the assistant's answer.
const responsePrefix = "🤖: "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "input_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists input history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	// SECURITY: 0600 - prompts may contain sensitive text
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	Config *config.Config
	Client *deepseek.Client

	// Conversation state fed to the API on every turn
	Conversation *chat.Conversation

	// Transcript log for this session
	Log *history.SessionLog

	// Display options
	CostReport bool
	NoStream   bool

	StartTime  time.Time
	TurnCount  int
	TotalCost  float64
	TotalToken int

	// Tracks a pending Ctrl+C; a second consecutive interrupt exits
	interrupted bool

	InputCLI *ChatCLI
}

// NewChatSession creates a chat session from loaded configuration.
func NewChatSession(cfg *config.Config, args Args) (*ChatSession, error) {
	if args.Model != "" {
		cfg.Model = args.Model
	}

	client := deepseek.NewClient(cfg.APIKey).
		WithBaseURL(cfg.BaseURL).
		WithModel(cfg.Model)

	dir, err := cfg.ResolveHistoryDir()
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(dir)
	if err != nil {
		return nil, err
	}
	log, err := store.CreateSessionLog(time.Now())
	if err != nil {
		return nil, err
	}

	return &ChatSession{
		Config:       cfg,
		Client:       client,
		Conversation: chat.NewConversation(cfg.SystemMessage),
		Log:          log,
		CostReport:   args.CostReport || cfg.CostReport,
		NoStream:     args.NoStream,
		StartTime:    time.Now(),
		InputCLI:     NewChatCLI(),
	}, nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the interactive REPL.
func HandleChatCommand(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Credential required for interactive mode (search works offline)
	if err := cfg.Validate(); err != nil {
		return err
	}

	session, err := NewChatSession(cfg, args)
	if err != nil {
		return err
	}

	printWelcome(session)

	// USABILITY: Save input history for future sessions
	defer session.InputCLI.Close()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("You: "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// First Ctrl+C warns, second consecutive exits
				if session.interrupted {
					fmt.Println()
					printExitSummary(session)
					return nil
				}
				session.interrupted = true
				fmt.Println(warningStyle.Render("(press Ctrl+C again to exit)"))
				continue
			}
			// EOF (Ctrl+D) or terminal error
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		session.interrupted = false

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		// Expand @file(...) references. A bad reference discards the turn:
		// nothing is sent, nothing is logged, the user is re-prompted.
		expanded, err := ExpandFileRefs(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", warningStyle.Render("❌"), err)
			continue
		}

		if err := session.processTurn(input, expanded); err != nil {
			if errors.Is(err, context.Canceled) {
				session.interrupted = true
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
				continue
			}
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// processTurn sends one user message and handles the reply.
//
// The conversation and the transcript log are only extended after the turn
// completes: an interrupted or failed stream leaves both untouched, so the
// next request replays a consistent history.
func (s *ChatSession) processTurn(raw, expanded string) error {
	messages := make([]deepseek.Message, 0, s.Conversation.Len()+1)
	messages = append(messages, s.Conversation.Messages()...)
	messages = append(messages, deepseek.NewUserMessage(expanded))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C during the response cancels this turn only
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
		}
	}()

	fmt.Println()

	rec, err := s.runCompletion(ctx, messages)
	if err != nil {
		return err
	}
	if !rec.Done() {
		// Stream ended without a finish reason; treat as incomplete
		return errors.New("response ended prematurely")
	}

	answer := rec.Answer()

	// USABILITY: Re-render the streamed answer as markdown on a TTY
	if !s.NoStream && IsStdoutTTY() && answer != "" {
		fmt.Println()
		fmt.Print(renderMarkdown(answer))
	}
	fmt.Println()

	// Persist the completed turn
	s.Conversation.AddUser(expanded)
	s.Conversation.AddAssistant(answer)
	now := time.Now()
	if err := s.Log.Append(history.RoleUser, raw, now); err != nil {
		fmt.Fprintf(os.Stderr, "%s transcript write failed: %v\n", warningStyle.Render("[Warning]"), err)
	}
	if err := s.Log.Append(history.RoleAssistant, answer, now); err != nil {
		fmt.Fprintf(os.Stderr, "%s transcript write failed: %v\n", warningStyle.Render("[Warning]"), err)
	}

	s.TurnCount++
	if usage := rec.Usage(); usage != nil {
		s.TotalToken += usage.TotalTokens
		s.TotalCost += CalculateCost(usage).Total()
		if s.CostReport {
			fmt.Println(costStyle.Render(FormatCostReport(usage)))
		}
	}
	fmt.Println()

	return nil
}

// runCompletion performs the API call, streaming by default, and returns the
// reconciler holding the assembled reply.
func (s *ChatSession) runCompletion(ctx context.Context, messages []deepseek.Message) (*chat.Reconciler, error) {
	rec := chat.NewReconciler(nil)

	if s.NoStream {
		resp, err := s.Client.Chat(ctx, messages)
		if err != nil {
			return nil, err
		}
		if r := resp.GetReasoning(); r != "" {
			rec.Add(chat.ReasoningFragment(r))
			fmt.Print(reasoningStyle.Render(chat.ReasoningMarker + r))
			fmt.Println()
		}
		content := resp.GetContent()
		rec.Add(chat.AnswerFragment(content))
		fmt.Print(responsePrefix)
		if IsStdoutTTY() {
			fmt.Print(renderMarkdown(content))
		} else {
			streamToStdout(content)
		}
		usage := resp.Usage
		rec.Add(chat.EndFragment(&usage))
		return rec, nil
	}

	answerStarted := false

	err := s.Client.ChatStreamWithRetry(ctx, messages, func(chunk deepseek.StreamChunk) {
		for _, frag := range chat.FragmentsFromChunk(chunk) {
			switch frag.Kind {
			case chat.FragmentReasoning:
				if !rec.SawReasoning() {
					fmt.Print(reasoningStyle.Render(chat.ReasoningMarker))
				}
				fmt.Print(reasoningStyle.Render(frag.Text))
			case chat.FragmentAnswer:
				if !answerStarted {
					answerStarted = true
					if rec.SawReasoning() {
						fmt.Println()
					}
					fmt.Print(responsePrefix)
				}
				streamToStdout(frag.Text)
			}
			rec.Add(frag)
		}
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("dschat interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Model:"),
		session.Client.Model())
	fmt.Printf("%s %s\n",
		infoStyle.Render("Transcript:"),
		util.TruncateWidth(session.Log.Path(), GetTerminalWidth()-12))
	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Use @file(path) to inline a file."))
	fmt.Println(infoStyle.Render("Type exit or quit to leave; Ctrl+C twice also exits."))
	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.TurnCount == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Printf("  %s %d\n", infoStyle.Render("Turns:"), session.TurnCount)
	fmt.Printf("  %s %s\n", infoStyle.Render("Tokens:"), formatNumber(session.TotalToken))
	if session.TotalCost > 0 {
		fmt.Printf("  %s ￥%.4f\n", infoStyle.Render("Cost:"), session.TotalCost)
	}
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"), elapsed.String())
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
