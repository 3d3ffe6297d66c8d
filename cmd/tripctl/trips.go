package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
)

func (a *app) createCmd() *cobra.Command {
	var req api.CreateTripRequest
	var description, link, start, end string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if req.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if description != "" {
				req.Description = &description
			}
			if link != "" {
				req.URL = &link
			}
			trip, err := a.trips.CreateTrip(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s (%s)\n", trip.ID, trip.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "trip title (required)")
	cmd.Flags().StringVar(&req.Destination, "destination", "", "destination (required)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().StringVar(&link, "url", "", "reference link for the trip")
	return cmd
}

func parseDate(name, s string) (*openapi_types.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return nil, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", name, s)
	}
	return &openapi_types.Date{Time: t}, nil
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show TRIP",
		Short: "Print a trip with its hotels, activities and packing list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := a.trips.GetTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTrip(cmd.OutOrStdout(), trip)
		},
	}
}

func printTrip(out io.Writer, t api.Trip) error {
	fmt.Fprintf(out, "%s  [%s]\n", t.Title, t.ID)
	fmt.Fprintf(out, "Destination: %s\n", t.Destination)
	if t.StartDate != nil || t.EndDate != nil {
		fmt.Fprintf(out, "Dates: %s to %s\n", dateOrDash(t.StartDate), dateOrDash(t.EndDate))
	}
	if t.Description != "" {
		fmt.Fprintln(out, t.Description)
	}
	if t.URLMetadata != nil {
		fmt.Fprintf(out, "Link: %s (%s)\n", t.URLMetadata.Title, t.URLMetadata.URL)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "\nHOTELS\tSCORE\tDONT LIKE\tLIKE\tAWESOME\tCOMMENTS")
	for _, rh := range collab.RankHotels(t.Hotels) {
		h := rh.Hotel
		label := h.ID + "  " + h.URL
		if rh.MostPopular {
			label += "  *most popular*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", label, rh.Score,
			h.Votes[domain.VoteDontLike], h.Votes[domain.VoteLike], h.Votes[domain.VoteAwesome], commentSummary(h.Comments))
	}

	fmt.Fprintln(tw, "\nACTIVITIES\tAVG\tRATINGS\tCOMMENTS")
	for _, act := range t.Activities {
		fmt.Fprintf(tw, "%s  %s\t%.1f\t%d\t%s\n", act.ID, act.Name, act.AverageRating, len(act.UserRatings), commentSummary(act.Comments))
	}

	fmt.Fprintln(tw, "\nPACKING\tASSIGNED\tCOMMENTS")
	for _, p := range t.PackingList {
		who := "-"
		if p.AssignedTo != nil {
			who = *p.AssignedTo
		}
		fmt.Fprintf(tw, "%s  %s\t%s\t%s\n", p.ID, p.Name, who, commentSummary(p.Comments))
	}
	return tw.Flush()
}

func dateOrDash(d *openapi_types.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// commentSummary shows the newest comment and how many are collapsed.
func commentSummary(cs []domain.Comment) string {
	latest, hidden := collab.Preview(cs)
	if latest == nil {
		return "-"
	}
	s := fmt.Sprintf("%s: %s", latest.Author, latest.Text)
	if hidden > 0 {
		s += fmt.Sprintf(" (+%d more)", hidden)
	}
	return s
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export TRIP",
		Short: "Print every item of a trip as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "csv":
				raw, err := a.trips.ExportCSV(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			case "json":
				rows, err := a.trips.Export(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return fmt.Errorf("--format must be csv or json, got %q", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	return cmd
}

func (a *app) hotelCmd() *cobra.Command {
	hotel := &cobra.Command{Use: "hotel", Short: "Manage hotel options"}

	hotel.AddCommand(&cobra.Command{
		Use:   "add TRIP URL",
		Short: "Propose a hotel link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := a.trips.AddHotel(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			h := trip.Hotels[len(trip.Hotels)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added hotel %s\n", h.ID)
			return nil
		},
	})

	hotel.AddCommand(&cobra.Command{
		Use:   "preview TRIP HOTEL",
		Short: "Show the link preview for a hotel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := a.trips.HotelPreview(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", md.Title, md.URL)
			if md.Description != "" {
				fmt.Fprintln(cmd.OutOrStdout(), md.Description)
			}
			return nil
		},
	})
	return hotel
}

func (a *app) voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote TRIP HOTEL dontLike|like|awesome|none",
		Short: "Vote on a hotel; none retracts your vote",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var choice *domain.VoteType
			if args[2] != "none" {
				v := domain.VoteType(args[2])
				choice = &v
			}
			trip, err := a.trips.VoteHotel(cmd.Context(), args[0], args[1], choice)
			if err != nil {
				return err
			}
			for _, h := range trip.Hotels {
				if h.ID == args[1] {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: dontLike %d, like %d, awesome %d\n", h.ID,
						h.Votes[domain.VoteDontLike], h.Votes[domain.VoteLike], h.Votes[domain.VoteAwesome])
				}
			}
			return nil
		},
	}
}

func (a *app) rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate TRIP ACTIVITY 1-5|none",
		Short: "Rate an activity; none retracts your rating",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rating *int
			if args[2] != "none" {
				n, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("rating must be a number from %d to %d or none", domain.MinRating, domain.MaxRating)
				}
				rating = &n
			}
			trip, err := a.trips.RateActivity(cmd.Context(), args[0], args[1], rating)
			if err != nil {
				return err
			}
			for _, act := range trip.Activities {
				if act.ID == args[1] {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: average %.1f from %d ratings\n", act.Name, act.AverageRating, len(act.UserRatings))
				}
			}
			return nil
		},
	}
}

func (a *app) activityCmd() *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Manage activities"}

	var description string
	add := &cobra.Command{
		Use:   "add TRIP NAME",
		Short: "Propose an activity",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.AddActivityRequest{Name: strings.Join(args[1:], " ")}
			if description != "" {
				req.Description = &description
			}
			trip, err := a.trips.AddActivity(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity %s\n", trip.Activities[len(trip.Activities)-1].ID)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "what it is")
	activity.AddCommand(add)
	return activity
}

func (a *app) packCmd() *cobra.Command {
	pack := &cobra.Command{Use: "pack", Short: "Manage the packing list"}

	pack.AddCommand(&cobra.Command{
		Use:   "add TRIP NAME",
		Short: "Add a packing item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := a.trips.AddPackingItem(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added packing item %s\n", trip.PackingList[len(trip.PackingList)-1].ID)
			return nil
		},
	})

	pack.AddCommand(&cobra.Command{
		Use:   "toggle TRIP ITEM",
		Short: "Claim a packing item, or release it if it is yours",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := a.trips.TogglePacking(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, p := range trip.PackingList {
				if p.ID != args[1] {
					continue
				}
				if p.AssignedTo == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is unassigned\n", p.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is assigned to %s\n", p.Name, *p.AssignedTo)
				}
			}
			return nil
		},
	})
	return pack
}

func (a *app) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment TRIP hotels|activities|packing ITEM TEXT",
		Short: "Comment on a hotel, activity or packing item",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseItemKind(args[1])
			if !ok {
				return fmt.Errorf("unknown item kind %q", args[1])
			}
			if _, err := a.trips.AddComment(cmd.Context(), args[0], kind, args[2], strings.Join(args[3:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Comment added")
			return nil
		},
	}
}
