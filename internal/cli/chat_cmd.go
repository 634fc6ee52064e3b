package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/travellabs/tripbot/internal/cli/formatter"
	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
)

func newChatCmd(app *App) *cobra.Command {
	var langFlag languageFlag

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip by chatting with the assistant",
		Long: `Start a conversation that collects the details of your trip.
Type "exit" at any time to leave. Once you confirm the summary the
trip is saved and can be turned into an itinerary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang := app.Language
			switch {
			case langFlag.set:
				lang = langFlag.lang
			case app.interactive():
				picked := lang
				if err := languageForm(&picked).Run(); err == nil {
					lang = picked
				}
			}
			if app.interactive() {
				return runChatTUI(cmd, app, lang)
			}
			return runChat(cmd, app, lang)
		},
	}

	cmd.Flags().VarP(&langFlag, "language", "l", "conversation language: english or chinese (also en, zh-TW, ...)")
	return cmd
}

// languageFlag accepts language names and tags; see domain.ParseLanguage.
type languageFlag struct {
	lang domain.Language
	set  bool
}

var _ pflag.Value = (*languageFlag)(nil)

func (f *languageFlag) String() string { return string(f.lang) }
func (f *languageFlag) Type() string   { return "language" }

func (f *languageFlag) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("language must not be empty")
	}
	f.lang = domain.ParseLanguage(s)
	f.set = true
	return nil
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "退出":
		return true
	}
	return false
}

// runChat is the line-oriented loop used when input is not a terminal.
func runChat(cmd *cobra.Command, app *App, lang domain.Language) error {
	out := cmd.OutOrStdout()
	in := app.input()

	sess := app.NewSession(lang)
	texts := sess.Texts()
	say := func(text string) { fmt.Fprintln(out, formatter.AssistantPrefix()+text) }

	say(sess.Start())
	for {
		fmt.Fprint(out, "\n"+formatter.UserPrompt())
		line, err := readPromptLine(in)
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				say(texts.Get(dialogue.TextGoodbye))
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isExit(line) {
			say(texts.Get(dialogue.TextGoodbye))
			return nil
		}

		reply, err := sess.Handle(cmd.Context(), line)
		if err != nil {
			return err
		}
		say(reply.Text)

		if reply.State == domain.StateConfirmed {
			return finishChat(cmd, app, sess)
		}
	}
}

// finishChat prints the final summary and stores the trip.
func finishChat(cmd *cobra.Command, app *App, sess *dialogue.Session) error {
	out := cmd.OutOrStdout()

	data, err := json.MarshalIndent(sess.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, string(data))

	if app.Trips == nil {
		return nil
	}
	trip, err := sess.Trip()
	if err != nil {
		return err
	}
	if err := app.Trips.SaveConfirmed(cmd.Context(), trip); err != nil {
		return fmt.Errorf("saving trip: %w", err)
	}
	fmt.Fprintf(out, "\n%s %s\n", formatter.StyleGreen.Render("Trip saved:"), trip.ID)
	fmt.Fprintln(out, formatter.Dim("Plan it with: tripbot itinerary "+trip.ID[:min(8, len(trip.ID))]))
	return nil
}
