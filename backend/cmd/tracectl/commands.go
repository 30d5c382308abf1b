package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contact-tracer/backend/internal/graph"
)

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the phone constraint and meeting date index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tracer.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema ready")
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the graph with fake people and meetings",
		Long: `Creates random people, then meetings dated within the last --max-days days,
each attended by a random subset of the new people. Use --seed for a
reproducible data set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.tracer.EnsureSchema(ctx); err != nil {
				return err
			}

			summary, err := seedGraph(ctx, a.tracer, opts, time.Now())
			if err != nil {
				return err
			}

			a.log.Info("Seeding complete",
				zap.Int("people", summary.People),
				zap.Int("meetings", summary.Meetings),
				zap.Int("participations", summary.Participations),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d people, %d meetings, %d participations\n",
				summary.People, summary.Meetings, summary.Participations)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.People, "people", 20, "Number of people to create")
	cmd.Flags().IntVar(&opts.Meetings, "meetings", 8, "Number of meetings to create")
	cmd.Flags().IntVar(&opts.PerMeeting, "per-meeting", 4, "Participants per meeting")
	cmd.Flags().IntVar(&opts.MaxDaysAgo, "max-days", 20, "Oldest meeting date, in days before today")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}

func (a *app) personCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "person <phone>",
		Short: "Look up a person by phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := a.tracer.FindPersonByPhone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPerson(cmd.OutOrStdout(), person)
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <person-id> <status>",
		Short: "Change the health status of a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			person, err := a.tracer.ChangeStatus(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			printPerson(cmd.OutOrStdout(), person)
			return nil
		},
	}
}

func (a *app) contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts <phone>",
		Short: "List everyone who shared a recent meeting with a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := a.tracer.Contacts(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Contacts of %s in the last %d days:\n", args[0], a.tracer.ContactWindowDays())
			return printContacts(out, contacts)
		},
	}
}

func (a *app) participantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <meeting-id>",
		Short: "Show a meeting and everyone who took part in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			answer, err := a.tracer.MeetingWithParticipants(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", answer.Meeting.Title, answer.Meeting.Day())
			return printContacts(out, answer.Participants)
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printPerson(out io.Writer, p *graph.Person) {
	fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Phone, p.Status)
}

func printContacts(out io.Writer, contacts []graph.Contact) error {
	if len(contacts) == 0 {
		fmt.Fprintln(out, "  (none)")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range contacts {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", c.ID, c.Name, c.Phone)
	}
	return w.Flush()
}
