package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/jobdesk/backend/internal/catalog"
	"github.com/example/jobdesk/backend/internal/export"
	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/query"
	"github.com/example/jobdesk/backend/internal/service"
)

// withService wraps a RunE body with opening and closing the app.
func withService(c *cli, run func(cmd *cobra.Command, args []string, svc *service.RequestService) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := c.open(cmd, true); err != nil {
			return err
		}
		defer c.close()
		return run(cmd, args, c.app.Service)
	}
}

func newListCmd(c *cli) *cobra.Command {
	var (
		status string
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests, newest first",
		Args:  cobra.NoArgs,
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			list, err := svc.Search(cmd.Context(), query.Filter{Status: status, Search: search})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			return writeTable(cmd.OutOrStdout(), list)
		}),
	}
	cmd.Flags().StringVar(&status, "status", query.AllStatuses, "Status filter (all, pending_approval, approved, ...)")
	cmd.Flags().StringVar(&search, "q", "", "Case-insensitive search text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show one request with its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			req, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
}

func newCreateCmd(c *cli) *cobra.Command {
	var (
		in       service.CreateInput
		category string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a new request",
		Args:  cobra.NoArgs,
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			in.Category = models.Category(category)
			req, err := svc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.RequestedBy, "requested-by", "", "Requester name")
	f.StringVar(&in.Email, "email", "", "Requester email")
	f.StringVar(&in.Department, "department", "", "Requesting department")
	f.StringVar(&in.HODEmail, "hod-email", "", "Head of department email")
	f.StringVar(&in.RequestedDate, "requested-date", "", "Requested date, YYYY-MM-DD (defaults to today)")
	f.StringVar(&in.DueDate, "due-date", "", "Due date, YYYY-MM-DD")
	f.StringVar(&in.JobPurpose, "purpose", "", "Job purpose")
	f.StringVar(&category, "category", "", "printed, digital, website, event, video or other")
	f.StringSliceVar(&in.Subtypes, "subtype", nil, "Subtype, repeatable")
	f.StringVar(&in.Description, "description", "", "Description, HTML allowed")
	f.StringVar(&in.References, "references", "", "Reference links")
	return cmd
}

func newDecideCmd(c *cli) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:       "decide <ref> approve|reject",
		Short:     "Record the head of department decision",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(service.OutcomeApprove), string(service.OutcomeReject)},
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			req, err := svc.Decide(cmd.Context(), args[0], service.Outcome(args[1]), reason, c.actor)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	return cmd
}

func newAssignCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:               "assign <ref> <name>",
		Short:             "Assign a production team member",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTeam,
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			if !c.app.Catalog.IsTeamMember(args[1]) {
				return fmt.Errorf("%q is not on the team roster %v", args[1], c.app.Catalog.Team)
			}
			req, err := svc.Assign(cmd.Context(), args[0], args[1], c.actor)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status <ref> <status>",
		Short: "Move a request to another stage",
		Args:  cobra.ExactArgs(2),
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			status, ok := models.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q, want one of %v", args[1], models.Statuses)
			}
			req, err := svc.ChangeStatus(cmd.Context(), args[0], status, c.actor)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
}

func newNotesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <ref> <text>",
		Short: "Replace the internal notes",
		Args:  cobra.ExactArgs(2),
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			req, err := svc.SetNotes(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		}),
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		out    string
		status string
		search string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write requests to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			list, err := svc.Search(cmd.Context(), query.Filter{Status: status, Search: search})
			if err != nil {
				return err
			}
			buf, err := export.RequestsXLSX(list)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d requests to %s\n", len(list), out)
			return nil
		}),
	}
	cmd.Flags().StringVar(&out, "out", "requests.xlsx", "Output file")
	cmd.Flags().StringVar(&status, "status", query.AllStatuses, "Status filter")
	cmd.Flags().StringVar(&search, "q", "", "Search text")
	return cmd
}

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo requests once",
		Args:  cobra.NoArgs,
		RunE: withService(c, func(cmd *cobra.Command, args []string, svc *service.RequestService) error {
			n, err := svc.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d demo requests\n", n)
			return nil
		}),
	}
}

// completeTeam offers roster names for the second assign argument.
func completeTeam(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := catalog.Load(os.Getenv("CATALOG_PATH"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cat.Team, cobra.ShellCompDirectiveNoFileComp
}
