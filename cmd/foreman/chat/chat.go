// Package chatcmder provides the chat command for interactive downtime
// questions against the assistant service.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/cliui"
	"github.com/plantworksco/foreman/pkg/config"
	"github.com/plantworksco/foreman/pkg/dotdir"
	"github.com/plantworksco/foreman/pkg/logger"
	"github.com/plantworksco/foreman/pkg/transcript"
	"github.com/plantworksco/foreman/pkg/utils"
)

var (
	userPrompt      = cliui.PromptStyle.Render("you> ")
	assistantPrompt = cliui.AssistantStyle.Render("assistant> ")
)

type chatCommander struct {
	apiTarget string
	model     string
	wordWrap  uint
	logFile   string
	configDir string
	debug     bool
}

// chatFlags is the registry of flags the chat command binds into viper.
var chatFlags = config.FlagSet{
	config.FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "Assistant service URL",
	},
	config.FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "chat.model_id",
		Description: "Model id to request from the service (empty lets the server pick)",
	},
	config.FlagWordWrap: {
		Name:        "word-wrap",
		ViperKey:    "chat.word_wrap",
		Description: "Wrap width for rendered conversation history",
	},
}

const chatLongDesc string = `Start an interactive chat session with the downtime assistant.

Each answer streams token by token. The first message of a session starts a
new conversation on the server; follow-up messages continue it. Conversations
are keyed to this machine's session id, stored in the .foreman/ directory.

Slash commands inside the session:
  /new             Start a new conversation
  /list            List this session's conversations
  /open <n>        Open conversation n from the last /list
  /feedback up     Rate the last answer (also: /feedback down)
  /exit            Quit (Ctrl+D also works)

Examples:
  foreman chat
  foreman chat --model gpt-4o-mini
  foreman chat --api-target http://agent.plant.internal:8000
  foreman chat --log-file ~/.foreman/chat.log`

const chatShortDesc string = "Interactive chat with the downtime assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, chatFlags, []string{
				config.FlagAPITarget,
				config.FlagModel,
				config.FlagWordWrap,
			})

			cmder.apiTarget = v.GetString("client.api_target")
			cmder.model = v.GetString("chat.model_id")
			cmder.wordWrap = v.GetUint("chat.word_wrap")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, chatFlags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, chatFlags, config.FlagModel, &cmder.model)
	config.AddUintFlag(cmd, chatFlags, config.FlagWordWrap, &cmder.wordWrap)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Append JSON logs to this file alongside terminal output")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	log := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(c.debug),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		log = logger.Multi(log, logger.New(
			logger.WithJSON(true),
			logger.WithDebug(c.debug),
			logger.WithWriter(f),
		))
	}

	session, err := dotdir.NewManager().LoadOrCreateSession(c.configDir)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	client := agent.NewClient(c.apiTarget,
		agent.WithModel(c.model),
		agent.WithLogger(log),
	)

	tr := transcript.New()

	fmt.Println()
	fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Target:"),
		cliui.DimStyle.Render(c.apiTarget),
	)
	if c.model != "" {
		fmt.Printf("  %s %s\n",
			cliui.KeyStyle.Render("Model:"),
			cliui.NameStyle.Render(c.model),
		)
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /new /list /open <n> /feedback up|down /exit"))

	// listed holds the conversations from the last /list, for /open <n>.
	var listed []agent.Conversation

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case input == "/exit":
			fmt.Println()
			return scanner.Err()

		case input == "/new":
			tr = transcript.New()
			fmt.Printf("  %s New conversation\n\n", cliui.DimStyle.Render("●"))
			continue

		case input == "/list":
			listed, err = c.listConversations(ctx, client, session.SessionID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n\n", cliui.FailMark, err)
			}
			continue

		case strings.HasPrefix(input, "/open"):
			opened, err := c.openConversation(ctx, client, session.SessionID, listed, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n\n", cliui.FailMark, err)
				continue
			}
			tr = opened
			continue

		case strings.HasPrefix(input, "/feedback"):
			if err := c.sendFeedback(ctx, client, tr, input); err != nil {
				fmt.Fprintf(os.Stderr, "  %s %v\n\n", cliui.FailMark, err)
			}
			continue
		}

		fmt.Print(assistantPrompt)

		hooks := agent.TurnHooks{
			OnChunk: func(text string) {
				fmt.Print(text)
			},
			OnNewConversation: func(conversationID, title string) {
				log.Debug("conversation started",
					"conversation_id", conversationID,
					"title", utils.Truncate(title, 60),
				)
			},
		}

		state, err := client.RunTurn(ctx, tr, session.SessionID, input, hooks)
		if state == agent.TurnFailed {
			fmt.Printf("\r%s\n\n", cliui.ErrorStyle.Render(lastContent(tr)))
			log.Debug("turn failed", "error", err)
			continue
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// listConversations prints the session's conversations, numbered for /open.
func (c *chatCommander) listConversations(ctx context.Context, client *agent.Client, sessionID string) ([]agent.Conversation, error) {
	convos, err := client.ListConversations(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fmt.Println()
	if len(convos) == 0 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No conversations yet."))
		return convos, nil
	}

	for i, convo := range convos {
		title := convo.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%2d.", i+1)),
			cliui.TitleStyle.Render(utils.Truncate(title, 60)),
			cliui.DimStyle.Render(convo.ID),
		)
	}
	fmt.Println()

	return convos, nil
}

// lastContent returns the content of the transcript's final message, from a
// single snapshot so a concurrent mutation cannot slip between length check
// and index. Empty transcripts yield "".
func lastContent(tr *transcript.Transcript) string {
	msgs := tr.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// sendFeedback parses "/feedback up|down" and rates the last completed
// assistant answer.
func (c *chatCommander) sendFeedback(ctx context.Context, client *agent.Client, tr *transcript.Transcript, input string) error {
	fields := strings.Fields(input)
	if len(fields) != 2 || (fields[1] != "up" && fields[1] != "down") {
		return fmt.Errorf("usage: /feedback up|down")
	}

	msgs := tr.Messages()
	if tr.ConversationID() == "" || len(msgs) == 0 {
		return fmt.Errorf("no answer to rate yet")
	}

	last := msgs[len(msgs)-1]
	if last.Role != transcript.RoleAssistant || last.Loading || last.Error {
		return fmt.Errorf("no completed answer to rate")
	}

	if err := client.SendFeedback(ctx, tr.ConversationID(), len(msgs)-1, fields[1]); err != nil {
		return err
	}

	fmt.Printf("  %s Feedback recorded\n\n", cliui.SuccessMark)
	return nil
}

// openConversation parses "/open <n>", fetches that conversation's history,
// and returns a transcript seeded with it.
func (c *chatCommander) openConversation(ctx context.Context, client *agent.Client, sessionID string, listed []agent.Conversation, input string) (*transcript.Transcript, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return nil, fmt.Errorf("usage: /open <n> (run /list first)")
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(listed) {
		return nil, fmt.Errorf("no conversation %q in the last /list", fields[1])
	}

	convo := listed[n-1]
	messages, err := client.History(ctx, convo.ID, sessionID)
	if err != nil {
		return nil, err
	}

	tr := transcript.New()
	tr.Replace(convo.ID, messages)

	fmt.Printf("\n  %s %s %s\n\n",
		cliui.SuccessMark,
		cliui.TitleStyle.Render(utils.Truncate(convo.Title, 60)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(messages))),
	)

	for _, msg := range messages {
		switch msg.Role {
		case transcript.RoleUser:
			fmt.Printf("%s%s\n", userPrompt, msg.Content)
		case transcript.RoleAssistant:
			rendered, err := cliui.RenderMarkdown(msg.Content, c.wordWrap)
			if err != nil {
				rendered = msg.Content + "\n"
			}
			fmt.Printf("%s\n%s", assistantPrompt, rendered)
		}
	}
	fmt.Println()

	return tr, nil
}
