package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travellabs/tripbot/internal/cli/formatter"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/itinerary"
)

const terminalWidth = 80

func newItineraryCmd(app *App) *cobra.Command {
	var (
		htmlPath string
		raw      bool
		refresh  bool
	)
	cmd := &cobra.Command{
		Use:   "itinerary <trip-id>",
		Short: "Plan a day-by-day itinerary for a saved trip",
		Long: `Generate an itinerary for a confirmed trip, with hotel suggestions
when a RapidAPI key is configured. The result is stored; later runs
reuse it unless --refresh is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Itineraries == nil {
				return fmt.Errorf("itinerary generation is not configured")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			id, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}

			stop := formatter.StartSpinner(out, "planning your trip", app.interactive())
			it, err := app.Itineraries.Generate(ctx, id, refresh)
			stop()
			if err != nil {
				return err
			}

			if htmlPath != "" {
				trip, err := app.Trips.GetByID(ctx, id)
				if err != nil {
					return err
				}
				page, err := itinerary.HTML(pageTitle(trip), it.Markdown)
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", htmlPath, err)
				}
				fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("Wrote"), htmlPath)
				return nil
			}

			if raw || !app.interactive() {
				fmt.Fprintln(out, it.Markdown)
				return nil
			}
			rendered, err := itinerary.Terminal(it.Markdown, terminalWidth)
			if err != nil {
				fmt.Fprintln(out, it.Markdown)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlPath, "html", "", "write the itinerary as an HTML page")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate even if an itinerary is stored")
	return cmd
}

func pageTitle(t *domain.Trip) string {
	to := t.Record.Value(domain.FieldTo)
	if to == "" {
		return "Your Trip"
	}
	return "Trip to " + to
}
