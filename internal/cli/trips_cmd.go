package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/travellabs/tripbot/internal/cli/formatter"
	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
)

// resolveTripID accepts a full trip ID or an unambiguous prefix.
func resolveTripID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("trip ID is required")
	}

	trips, err := app.Trips.List(ctx, 0)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range trips {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("trip not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("trip ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newTripsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trips",
		Aliases: []string{"trip"},
		Short:   "Manage saved trips",
	}
	cmd.AddCommand(
		newTripsListCmd(app),
		newTripsShowCmd(app),
		newTripsDeleteCmd(app),
	)
	return cmd
}

func newTripsListCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved trips, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trips, err := app.Trips.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTripList(trips, app.now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum trips to show (0 for all)")
	return cmd
}

func newTripsShowCmd(app *App) *cobra.Command {
	var (
		turns  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a saved trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			trip, err := app.Trips.GetByID(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(tripJSON(trip), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatTripDetail(trip, turns))
			return nil
		},
	}
	cmd.Flags().BoolVar(&turns, "turns", false, "include the conversation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session summary JSON")
	return cmd
}

type tripView struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	dialogue.Summary
	CreatedAt string `json:"created_at"`
}

func tripJSON(t *domain.Trip) tripView {
	return tripView{
		ID:       t.ID,
		Language: string(t.Language),
		Summary: dialogue.Summary{
			TravelInfo:  t.Record.Values(),
			Status:      t.Record.Status(),
			MissingInfo: fieldNames(t.Record.Missing()),
			Confirmed:   t.Confirmed,
		},
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func fieldNames(fields []domain.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func newTripsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <trip-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved trip and its itinerary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id, err := resolveTripID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes && !promptYesNo(app.input(), out, fmt.Sprintf("Delete trip %s? [y/N] ", id[:min(8, len(id))])) {
				fmt.Fprintln(out, formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.Trips.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("Deleted trip"), id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
